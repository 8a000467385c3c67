// Package config provides configuration loading and validation for Conversa.
package config

import (
	"time"
)

// Config is the root configuration structure loaded from YAML or TOML.
type Config struct {
	// Timezone is an IANA zone name used to read export timestamps.
	// Empty means the local zone.
	Timezone string `yaml:"timezone,omitempty" toml:"timezone"`

	// StopWords extends the built-in stop-word list.
	StopWords []string `yaml:"stop_words,omitempty" toml:"stop_words"`

	// Output is the default report format: text, json or pretty.
	Output string `yaml:"output,omitempty" toml:"output"`

	// Workers bounds how many exports are analyzed at once.
	Workers int `yaml:"workers,omitempty" toml:"workers"`

	Store     StoreConfig     `yaml:"store" toml:"store"`
	Anonymize AnonymizeConfig `yaml:"anonymize" toml:"anonymize"`
	Webhooks  []WebhookConfig `yaml:"webhooks,omitempty" toml:"webhooks"`

	// location is resolved from Timezone during validation.
	location *time.Location
}

// Location returns the resolved timezone, time.Local when unset.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// StoreConfig locates the local analysis history database.
type StoreConfig struct {
	Path string `yaml:"path,omitempty" toml:"path"`
}

// AnonymizeConfig controls how participant names are replaced in excerpts.
type AnonymizeConfig struct {
	// Label prefixes the numbered alias, e.g. "Pessoa 1".
	Label string `yaml:"label,omitempty" toml:"label"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerNonEmpty fires only when at least one message was counted (default).
	WebhookTriggerNonEmpty WebhookTrigger = "non_empty"
	// WebhookTriggerAlways fires after every analysis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending analysis reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty" toml:"name"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url" toml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty" toml:"token"`

	// Trigger determines when the webhook fires.
	// Defaults to "non_empty" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty" toml:"trigger"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty" toml:"timeout"`
}
