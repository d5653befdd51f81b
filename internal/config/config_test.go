package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 60, cfg.Server.AdminRatePerMinute)
	assert.Equal(t, 20, cfg.Server.AdminBurst)
	assert.Equal(t, "xlsx", cfg.Store.Driver)
	assert.Equal(t, "leads.xlsx", cfg.Store.WorkbookPath)
	assert.Equal(t, "smtp", cfg.Mail.Provider)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, "EUR", cfg.MSAds.CurrencyCode)
	assert.Equal(t, 10*time.Second, cfg.MSAds.Timeout)
	assert.Equal(t, 10, cfg.MSAds.ReportPollAttempts)
	assert.False(t, cfg.MSAds.Configured())
	assert.Empty(t, cfg.Admin.Password)
	assert.Empty(t, cfg.Queue.URL)
	assert.Equal(t, 5*time.Minute, cfg.Queue.ReplayInterval)
}

func TestLoadFromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("MAIL_HOST", "smtp.example.fr")
	t.Setenv("MAIL_PORT", "2525")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/leads")
	t.Setenv("MSADS_CLIENT_ID", "cid")
	t.Setenv("MSADS_CLIENT_SECRET", "csecret")
	t.Setenv("MSADS_REFRESH_TOKEN", "rt")
	t.Setenv("MSADS_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Admin.Password)
	assert.Equal(t, "smtp.example.fr", cfg.Mail.Host)
	assert.Equal(t, 2525, cfg.Mail.Port)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://u:p@localhost/leads", cfg.Store.DatabaseURL)
	assert.True(t, cfg.MSAds.Configured())
	assert.Equal(t, 3*time.Second, cfg.MSAds.Timeout)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
server:
  port: 9090
mail:
  provider: resend
  resend_api_key: re_test
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "resend", cfg.Mail.Provider)
	assert.Equal(t, "re_test", cfg.Mail.ResendAPIKey)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "xlsx", cfg.Store.Driver)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	chdirTemp(t)
	t.Setenv("STORE_DRIVER", "mongodb")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
}

func TestValidatePostgresNeedsURL(t *testing.T) {
	cfg := &Config{
		Store: StoreConfig{Driver: "postgres"},
		Mail:  MailConfig{Provider: "smtp"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidateUnknownMailProvider(t *testing.T) {
	cfg := &Config{
		Store: StoreConfig{Driver: "xlsx", WorkbookPath: "x.xlsx"},
		Mail:  MailConfig{Provider: "pigeon"},
	}
	assert.Error(t, cfg.Validate())
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(LogConfig{Level: "warn", Format: "json"}, &buf)

	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), `"service":"oxyllium-leads"`)
}

func TestNewLoggerBadLevelFallsBackToInfo(t *testing.T) {
	log := newLogger(LogConfig{Level: "loud"}, &bytes.Buffer{})
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}
