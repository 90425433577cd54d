// Package config loads the carebridge client configuration.
//
// Configuration is a YAML file with ${VAR} environment expansion. Duration
// fields are written as strings ("30s", "1m") and parsed at load time.
// Missing optional fields fall back to defaults; Validate reports the first
// hard failure.
package config
