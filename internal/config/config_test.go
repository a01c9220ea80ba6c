package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "X-User-ID", cfg.HTTP.AuthUserHeader)
	assert.Equal(t, 60*time.Second, cfg.Automation.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Drafts.TTL)
	assert.Equal(t, 2*time.Second, cfg.Intake.RedirectAfter)
	assert.Equal(t, 50, cfg.Intake.SearchLimit)
	assert.Equal(t, "Recruitica App", cfg.AI.SiteName)
	assert.Equal(t, ProviderOpenRouter, cfg.AI.Provider)
	assert.Equal(t, FinalizeWebhook, cfg.Drafts.FinalizeMode)
}

func TestLoadEnvAliases(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-env")
	t.Setenv("DATABASE_URL", "postgres://x")
	t.Setenv("N8N_WEBHOOK_URL", "https://hooks.example/draft")
	t.Setenv("RECRUITICA_AUTOMATION_TIMEOUT", "5s")
	t.Setenv("RECRUITICA_HTTP_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "sk-env", cfg.AI.APIKey)
	assert.Equal(t, "postgres://x", cfg.Database.URL)
	assert.Equal(t, "https://hooks.example/draft", cfg.Automation.DraftURL)
	assert.Equal(t, 5*time.Second, cfg.Automation.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recruitica.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
drafts:
  finalize-mode: queue
sweeper:
  max-attempts: 3
`), 0o600))

	cfg, err := load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, FinalizeQueue, cfg.Drafts.FinalizeMode)
	assert.Equal(t, 3, cfg.Sweeper.MaxAttempts)
}

func TestLoadRejectsUnknownModes(t *testing.T) {
	t.Setenv("AI_PROVIDER", "bard")
	_, err := load(viper.New(), "")
	assert.ErrorContains(t, err, "ai.provider")
}

func TestLoadSMTPModeNeedsHost(t *testing.T) {
	t.Setenv("RECRUITICA_DRAFTS_FINALIZE_MODE", "smtp")
	_, err := load(viper.New(), "")
	assert.ErrorContains(t, err, "smtp.host")
}
