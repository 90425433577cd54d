// ABOUTME: Tests for config loading, env expansion, defaults, and validation

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes content to a temp config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: http://localhost:3001
storage:
  path: /tmp/carebridge/state.db
auth:
  token_secret: super-secret
cache:
  stale_after: 45s
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3001", cfg.Server.BaseURL)
	assert.Equal(t, "/tmp/carebridge/state.db", cfg.Storage.Path)
	assert.Equal(t, "super-secret", cfg.Auth.TokenSecret)
	assert.Equal(t, 45*time.Second, cfg.Cache.StaleAfter)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: http://localhost:3001
auth:
  token_secret: s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultStaleAfter, cfg.Cache.StaleAfter)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Storage.Path)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("CAREBRIDGE_TEST_SECRET", "from-env")

	path := writeConfig(t, `
server:
  base_url: http://localhost:3001
auth:
  token_secret: ${CAREBRIDGE_TEST_SECRET}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.TokenSecret)
}

func TestLoad_MissingBaseURL(t *testing.T) {
	path := writeConfig(t, `
auth:
  token_secret: s
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.base_url")
}

func TestLoad_MissingTokenSecret(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: http://localhost:3001
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.token_secret")
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: http://localhost:3001
auth:
  token_secret: s
cache:
  stale_after: soon
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stale_after")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefaultPath_EnvOverride(t *testing.T) {
	t.Setenv("CAREBRIDGE_CONFIG", "/etc/carebridge/custom.yaml")
	assert.Equal(t, "/etc/carebridge/custom.yaml", DefaultPath())
}
