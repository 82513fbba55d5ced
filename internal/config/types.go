package config

import (
	"strings"
	"time"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .gitup.yaml configuration file. Every
// value can be overridden by the matching command-line flag; nothing here is
// required for commands whose flags cover the same ground.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Email is the identity comment embedded in generated keys and the
	// account name the probe expects the host to confirm.
	Email string `yaml:"email" mapstructure:"email"`

	// Host is the hosting provider's SSH endpoint (e.g. github.com).
	Host string `yaml:"host" mapstructure:"host"`

	// Owner and Repo identify the hosted repository.
	Owner string `yaml:"owner" mapstructure:"owner"`
	Repo  string `yaml:"repo" mapstructure:"repo"`

	// Remote is the local remote alias to rewrite.
	Remote string `yaml:"remote" mapstructure:"remote"`

	// Transport is "ssh" or "https-token".
	Transport string `yaml:"transport" mapstructure:"transport"`

	// Account is the provider account name the probe should expect.
	// Defaults to the part of Email before the @ when unset.
	Account string `yaml:"account" mapstructure:"account"`

	Key KeyConfig `yaml:"key" mapstructure:"key"`

	// ProbeTimeout bounds the connectivity probe.
	ProbeTimeout time.Duration `yaml:"probe_timeout" mapstructure:"probe_timeout"`
}

// KeyConfig controls key discovery and generation.
type KeyConfig struct {
	// Algorithm used when a new pair must be generated.
	Algorithm string `yaml:"algorithm" mapstructure:"algorithm"`

	// Dir is the key directory. Empty means ~/.ssh.
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:      CurrentConfigVersion,
		Remote:       "origin",
		Transport:    "ssh",
		Key:          KeyConfig{Algorithm: "ed25519"},
		ProbeTimeout: 10 * time.Second,
	}
}

// ExpectedIdentity returns the account name the probe should expect.
func (c *Config) ExpectedIdentity() string {
	if c.Account != "" {
		return c.Account
	}
	if i := strings.IndexByte(c.Email, '@'); i > 0 {
		return c.Email[:i]
	}
	return c.Email
}
