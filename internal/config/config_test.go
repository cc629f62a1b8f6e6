package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/laguntza/contactmail/pkg/mailer"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "LOG_LEVEL", "MAIL_PROVIDER", "DEFAULT_LANG", "FROM_EMAIL", "BULK_DELAY", "BCC_EMAILS", "SHUTDOWN_TIMEOUT", "WRITE_TIMEOUT", "TRUSTED_PROXIES"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Equal(t, EnvDevelopment, cfg.Env)
	require.Equal(t, ":3000", cfg.Address())
	require.Equal(t, ProviderResend, cfg.Provider)
	require.Equal(t, "es", cfg.DefaultLang)
	require.Equal(t, "onboarding@resend.dev", cfg.Mailer.FromEmail)
	require.Equal(t, time.Second, cfg.Mailer.BulkDelay)
	require.True(t, cfg.ExposeErrors())
	require.Equal(t, slog.LevelDebug, cfg.Level())
	require.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, 5*time.Minute, cfg.WriteTimeout)
	require.Empty(t, cfg.RateLimit.TrustedProxies)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8081")
	t.Setenv("COMPANY_EMAIL", "info@laguntza.eus")
	t.Setenv("BCC_EMAILS", "b2@x.com,b3@x.com")
	t.Setenv("ALLOWED_ORIGINS", "https://a.com,https://b.com")
	t.Setenv("BULK_DELAY", "250ms")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,127.0.0.1")
	t.Setenv("WRITE_TIMEOUT", "90s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.True(t, cfg.IsProduction())
	require.False(t, cfg.ExposeErrors())
	require.Equal(t, slog.LevelInfo, cfg.Level())
	require.Equal(t, ":8081", cfg.Address())
	require.Equal(t, "info@laguntza.eus", cfg.Mailer.CompanyEmail)
	require.Equal(t, []string{"b2@x.com", "b3@x.com"}, cfg.Mailer.BCCEmails)
	require.Equal(t, []string{"https://a.com", "https://b.com"}, cfg.AllowedOrigins)
	require.Equal(t, 250*time.Millisecond, cfg.Mailer.BulkDelay)
	require.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.RateLimit.TrustedProxies)
	require.Equal(t, 90*time.Second, cfg.WriteTimeout)
}

func TestLoad_DotEnv(t *testing.T) {
	t.Setenv("FROM_NAME", "")
	require.NoError(t, os.Unsetenv("FROM_NAME"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FROM_NAME=Laguntza Fisioterapia\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("FROM_NAME") })

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Laguntza Fisioterapia", cfg.Mailer.FromName)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"APP_ENV":       "staging",
		"MAIL_PROVIDER": "sendgrid",
		"PORT":          "70000",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
		})
	}
}

func TestConfig_NewSender(t *testing.T) {
	t.Parallel()

	cfg := &Config{Provider: ProviderResend}
	_, err := cfg.NewSender()
	require.ErrorIs(t, err, mailer.ErrProviderNotConfigured)

	cfg.Resend.APIKey = "re_test"
	s, err := cfg.NewSender()
	require.NoError(t, err)
	require.NotNil(t, s)

	cfg = &Config{Provider: ProviderSMTP}
	_, err = cfg.NewSender()
	require.ErrorIs(t, err, mailer.ErrProviderNotConfigured)
}
