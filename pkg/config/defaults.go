package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values for configuration.
const (
	DefaultOutput         = "text"
	DefaultWorkers        = 4
	DefaultAnonymizeLabel = "Pessoa"
	DefaultWebhookTimeout = 10 * time.Second
	DefaultStoreFile      = "history.db"
	defaultStoreDir       = ".conversa"
)

// Environment variable names.
const (
	EnvTimezone  = "CONVERSA_TIMEZONE"
	EnvStorePath = "CONVERSA_STORE_PATH"
)

// Output formats accepted in the output field.
var outputFormats = []string{"text", "json", "pretty"}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Output:    DefaultOutput,
		Workers:   DefaultWorkers,
		StopWords: []string{},
		Store:     StoreConfig{Path: DefaultStorePath()},
		Anonymize: AnonymizeConfig{Label: DefaultAnonymizeLabel},
	}
}

// DefaultStorePath returns ~/.conversa/history.db, or a path relative to
// the working directory when no home directory is known.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(defaultStoreDir, DefaultStoreFile)
	}
	return filepath.Join(home, defaultStoreDir, DefaultStoreFile)
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if tz := os.Getenv(EnvTimezone); tz != "" {
		c.Timezone = tz
	}
	if path := os.Getenv(EnvStorePath); path != "" {
		c.Store.Path = path
	}
}
