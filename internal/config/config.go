package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Auth       AuthConfig       `yaml:"auth"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Database   DatabaseConfig   `yaml:"database"`
	Site       SiteConfig       `yaml:"site"`
	Newsletter NewsletterConfig `yaml:"newsletter"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// In a container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	// Allow override via environment
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// AuthConfig holds the static API key that guards privileged endpoints.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// SMTPConfig holds outbound mail relay configuration
type SMTPConfig struct {
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	Sender           string `yaml:"sender"`            // relay login, e.g. ops@example.com
	Password         string `yaml:"password"`          // relay credential
	From             string `yaml:"from"`              // From identity shown to recipients
	ContactRecipient string `yaml:"contact_recipient"` // where contact-form mail lands
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured per-send timeout as a duration
func (c SMTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// FromAddress returns the From identity, falling back to the relay login
func (c SMTPConfig) FromAddress() string {
	if c.From != "" {
		return c.From
	}
	return c.Sender
}

// DatabaseConfig holds the location of the file-backed stores
type DatabaseConfig struct {
	DataDir string `yaml:"data_dir"`
}

// SiteConfig holds the public identity used by the RSS feed and
// subscriber-facing email copy.
type SiteConfig struct {
	Name        string `yaml:"name"`
	BaseURL     string `yaml:"base_url"`
	Description string `yaml:"description"`
	LogoURL     string `yaml:"logo_url"`
}

// NewsletterConfig holds bulk-dispatch tuning
type NewsletterConfig struct {
	SendConcurrency int `yaml:"send_concurrency"`
}

// Load reads and parses the configuration file. A missing file is not an
// error: deployments that configure everything through the environment
// start from defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.SMTP.Host == "" {
		cfg.SMTP.Host = "smtp.gmail.com"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.SMTP.TimeoutSeconds == 0 {
		cfg.SMTP.TimeoutSeconds = 30
	}
	if cfg.Database.DataDir == "" {
		cfg.Database.DataDir = "./data"
	}
	if cfg.Site.Name == "" {
		cfg.Site.Name = "Signal"
	}
	if cfg.Newsletter.SendConcurrency == 0 {
		cfg.Newsletter.SendConcurrency = 1
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in production.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if v := os.Getenv("API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("EMAIL_ADDRESS"); v != "" {
		cfg.SMTP.Sender = v
	}
	if v := os.Getenv("EMAIL_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := os.Getenv("DOMAIN_SENDER"); v != "" {
		cfg.SMTP.From = v
	}
	if v := os.Getenv("CONTACT_RECIPIENT"); v != "" {
		cfg.SMTP.ContactRecipient = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.SMTP.Port = port
		}
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Database.DataDir = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SITE_BASE_URL"); v != "" {
		cfg.Site.BaseURL = v
	}

	// Contact mail lands in the operator inbox unless told otherwise
	if cfg.SMTP.ContactRecipient == "" {
		cfg.SMTP.ContactRecipient = cfg.SMTP.Sender
	}

	return cfg, nil
}

// Validate enforces the startup invariants. The API key is mandatory:
// without it every protected endpoint would silently become a no-op gate.
func (c *Config) Validate() error {
	if c.Auth.APIKey == "" {
		return fmt.Errorf("API_KEY is missing: set it in the environment or in auth.api_key")
	}
	return nil
}
