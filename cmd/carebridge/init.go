// ABOUTME: Interactive-free init command writing a starter config file

package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/openhealth/carebridge/internal/config"
)

const configTemplate = `# carebridge client configuration
server:
  base_url: %s

auth:
  # Secret for locally issued session continuity tokens
  token_secret: %s

cache:
  stale_after: 30s

logging:
  level: info
  format: text
`

// runInit writes a starter config with a generated token secret. It refuses
// to overwrite an existing file.
func runInit() error {
	path := config.DefaultPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("generating token secret: %w", err)
	}

	content := fmt.Sprintf(configTemplate,
		"http://localhost:3001",
		base64.StdEncoding.EncodeToString(secret),
	)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	color.Green("Wrote %s", path)
	fmt.Println("Edit server.base_url if your backend runs elsewhere.")
	return nil
}
