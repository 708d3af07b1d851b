package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"

auth:
  api_key: "file-key"

smtp:
  host: "smtp.example.com"
  port: 2525
  sender: "ops@example.com"
  from: "news@example.com"
  timeout_seconds: 45

database:
  data_dir: "./test-data"

site:
  name: "Test Signal"
  base_url: "https://signal.example.com"

newsletter:
  send_concurrency: 4
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "file-key", cfg.Auth.APIKey)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, "ops@example.com", cfg.SMTP.Sender)
	assert.Equal(t, "news@example.com", cfg.SMTP.FromAddress())
	assert.Equal(t, 45, cfg.SMTP.TimeoutSeconds)
	assert.Equal(t, "./test-data", cfg.Database.DataDir)
	assert.Equal(t, "Test Signal", cfg.Site.Name)
	assert.Equal(t, 4, cfg.Newsletter.SendConcurrency)
}

func TestLoadDefaults(t *testing.T) {
	// A missing config file starts from defaults
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, 30, cfg.SMTP.TimeoutSeconds)
	assert.Equal(t, "./data", cfg.Database.DataDir)
	assert.Equal(t, 1, cfg.Newsletter.SendConcurrency)
	assert.Empty(t, cfg.Auth.APIKey)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("API_KEY", "env-key")
	t.Setenv("EMAIL_ADDRESS", "relay@example.com")
	t.Setenv("EMAIL_PASSWORD", "relay-secret")
	t.Setenv("DOMAIN_SENDER", "newsletter@signal.example.com")
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("DATA_DIR", t.TempDir())

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Auth.APIKey)
	assert.Equal(t, "relay@example.com", cfg.SMTP.Sender)
	assert.Equal(t, "relay-secret", cfg.SMTP.Password)
	assert.Equal(t, "newsletter@signal.example.com", cfg.SMTP.From)
	assert.Equal(t, 9191, cfg.Server.Port)
	// Contact mail defaults to the relay inbox
	assert.Equal(t, "relay@example.com", cfg.SMTP.ContactRecipient)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")

	cfg.Auth.APIKey = "k"
	assert.NoError(t, cfg.Validate())
}
