package domain

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the ClickUp API root used when none is configured.
const DefaultBaseURL = "https://api.clickup.com"

// DefaultCacheTTL is the hierarchy cache lifetime used when none is configured.
const DefaultCacheTTL = 5 * time.Minute

// Config represents the server configuration.
// This is the root configuration structure loaded from YAML files.
type Config struct {
	Transport TransportConfig `yaml:"transport"`
	ClickUp   ClickUpConfig   `yaml:"clickup"`
	Tools     ToolsConfig     `yaml:"tools"`
	Cache     CacheConfig     `yaml:"cache"`
	Log       LogConfig       `yaml:"log"`
}

// TransportConfig defines transport settings.
// Specifies whether to use stdio or HTTP transport.
type TransportConfig struct {
	Type string     `yaml:"type"` // "stdio" or "http"
	HTTP HTTPConfig `yaml:"http,omitempty"`
}

// HTTPConfig defines HTTP transport settings.
// Only used when transport type is "http".
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ClickUpConfig defines ClickUp API credentials and endpoint.
type ClickUpConfig struct {
	APIKey  string `yaml:"api_key"`
	TeamID  string `yaml:"team_id"`
	BaseURL string `yaml:"base_url,omitempty"` // Defaults to DefaultBaseURL
}

// ToolsConfig controls which tools the server exposes.
//
// Enabled is an allow-list: when non-empty only the named tools exist, and
// Disabled is ignored entirely. Disabled is a deny-list consulted only when
// Enabled is empty. With both empty every registered tool is exposed.
type ToolsConfig struct {
	Enabled         []string `yaml:"enabled,omitempty"`
	Disabled        []string `yaml:"disabled,omitempty"`
	DocumentSupport bool     `yaml:"document_support,omitempty"`
}

// CacheConfig defines hierarchy cache settings.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl,omitempty"` // Defaults to DefaultCacheTTL
}

// LogConfig defines logging settings.
type LogConfig struct {
	Level string `yaml:"level,omitempty"` // Defaults to "info"
}

// LoadConfig reads and validates configuration from a YAML file.
// The CLICKUP_API_KEY environment variable, when set, overrides the
// api_key from the file. Returns an error if the file is missing, has
// invalid syntax, or fails validation.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid YAML syntax in configuration file: %w", err)
	}

	if key := os.Getenv("CLICKUP_API_KEY"); key != "" {
		config.ClickUp.APIKey = key
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// applyDefaults fills in optional settings that were left unset.
func (c *Config) applyDefaults() {
	if c.ClickUp.BaseURL == "" {
		c.ClickUp.BaseURL = DefaultBaseURL
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the configuration for completeness and correctness.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errors []string

	if err := c.validateTransport(); err != nil {
		errors = append(errors, err.Error())
	}

	if err := c.validateClickUp(); err != nil {
		errors = append(errors, err.Error())
	}

	if c.Cache.TTL < 0 {
		errors = append(errors, fmt.Sprintf("cache ttl must not be negative, got %s", c.Cache.TTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// validateTransport validates the transport configuration.
func (c *Config) validateTransport() error {
	var errors []string

	if c.Transport.Type == "" {
		errors = append(errors, "transport type is required")
	} else if c.Transport.Type != "stdio" && c.Transport.Type != "http" {
		errors = append(errors, fmt.Sprintf("invalid transport type '%s': must be 'stdio' or 'http'", c.Transport.Type))
	}

	if c.Transport.Type == "http" {
		if c.Transport.HTTP.Host == "" {
			errors = append(errors, "HTTP host is required when transport type is 'http'")
		}
		if c.Transport.HTTP.Port <= 0 || c.Transport.HTTP.Port > 65535 {
			errors = append(errors, fmt.Sprintf("invalid HTTP port %d: must be between 1 and 65535", c.Transport.HTTP.Port))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}

// validateClickUp validates the ClickUp API configuration.
func (c *Config) validateClickUp() error {
	var errors []string

	if c.ClickUp.APIKey == "" {
		errors = append(errors, "clickup api_key is required (set it in the config file or via CLICKUP_API_KEY)")
	}

	if c.ClickUp.TeamID == "" {
		errors = append(errors, "clickup team_id is required")
	}

	if c.ClickUp.BaseURL != "" {
		parsedURL, err := url.Parse(c.ClickUp.BaseURL)
		if err != nil {
			errors = append(errors, fmt.Sprintf("clickup base_url is invalid: %v", err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, "clickup base_url must use http or https scheme")
		} else if parsedURL.Host == "" {
			errors = append(errors, "clickup base_url must include a host")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}
