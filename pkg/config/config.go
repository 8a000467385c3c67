package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file. Files ending in .toml are
// decoded as TOML, everything else as YAML.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, or returns the validated defaults when path is empty.
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if path != "" {
		return Load(ctx, path)
	}
	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks a configuration for errors, fills defaults and resolves
// the timezone.
func Validate(cfg *Config) error {
	cfg.Timezone = expandEnvVar(cfg.Timezone)
	loc, err := resolveLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	cfg.location = loc

	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if !slices.Contains(outputFormats, cfg.Output) {
		return fmt.Errorf("output: invalid format %q (must be text, json, or pretty)", cfg.Output)
	}

	if cfg.Workers < 0 {
		return errors.New("workers: must be >= 0")
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}

	cfg.Store.Path = expandEnvVar(cfg.Store.Path)
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath()
	}

	if strings.TrimSpace(cfg.Anonymize.Label) == "" {
		cfg.Anonymize.Label = DefaultAnonymizeLabel
	}

	for i, w := range cfg.StopWords {
		if strings.TrimSpace(w) == "" {
			return fmt.Errorf("stop_words[%d]: empty word", i)
		}
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func resolveLocation(name string) (*time.Location, error) {
	switch name {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown zone %q: %w", name, err)
	}
	return loc, nil
}

func validateWebhook(wh *WebhookConfig) error {
	wh.URL = expandEnvVar(wh.URL)
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	if err := ValidateTrigger(wh.Trigger); err != nil {
		return err
	}
	if wh.Trigger == "" {
		wh.Trigger = WebhookTriggerNonEmpty
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// ValidateTrigger checks a trigger name. Empty is accepted and means the default.
func ValidateTrigger(t WebhookTrigger) error {
	switch t {
	case "", WebhookTriggerNonEmpty, WebhookTriggerAlways, WebhookTriggerNever:
		return nil
	default:
		return fmt.Errorf("invalid trigger %q (must be non_empty, always, or never)", t)
	}
}

// expandEnvVar expands a value that is entirely ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}

	return s
}
