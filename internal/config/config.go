// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/laguntza/contactmail/pkg/logger"
	"github.com/laguntza/contactmail/pkg/mailer"
	"github.com/laguntza/contactmail/pkg/mailer/resend"
	"github.com/laguntza/contactmail/pkg/mailer/smtp"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	ProviderResend = "resend"
	ProviderSMTP   = "smtp"
)

// Config is the full service configuration.
type Config struct {
	Env             string        `env:"APP_ENV" envDefault:"development"`
	Port            int           `env:"PORT" envDefault:"3000"`
	LogLevel        string        `env:"LOG_LEVEL"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	Provider        string        `env:"MAIL_PROVIDER" envDefault:"resend"`
	DefaultLang     string        `env:"DEFAULT_LANG" envDefault:"es"`
	EscapeHTML      bool          `env:"HTML_ESCAPE"`
	MetricsEnabled  bool          `env:"METRICS_ENABLED" envDefault:"true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"5m"`
	BodyLimit       int64         `env:"BODY_LIMIT" envDefault:"10485760"`

	Sentry    logger.SentryConfig
	Mailer    mailer.Config
	Resend    resend.Config
	SMTP      smtp.Config
	RateLimit RateLimitConfig
}

// RateLimitConfig selects the limiter backend and switch.
// TrustedProxies lists the IPs or CIDRs allowed to set X-Forwarded-For;
// when empty, clients are limited by their socket address.
type RateLimitConfig struct {
	Enabled        bool     `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RedisURL       string   `env:"REDIS_URL"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// Load reads an optional .env file and parses the environment.
// A missing .env file is not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load dotenv: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("config: APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}
	switch c.Provider {
	case ProviderResend, ProviderSMTP:
	default:
		return fmt.Errorf("config: MAIL_PROVIDER must be %q or %q, got %q", ProviderResend, ProviderSMTP, c.Provider)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid PORT %d", c.Port)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// ExposeErrors reports whether error details may be returned to clients.
func (c *Config) ExposeErrors() bool {
	return c.Env == EnvDevelopment
}

// Level returns the log level, defaulting to info in production and
// debug elsewhere.
func (c *Config) Level() slog.Level {
	fallback := slog.LevelDebug
	if c.IsProduction() {
		fallback = slog.LevelInfo
	}
	return logger.ParseLevel(c.LogLevel, fallback)
}

// Address returns the HTTP listen address.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// NewSender builds the configured email provider.
// Missing credentials yield an error wrapping mailer.ErrProviderNotConfigured.
func (c *Config) NewSender() (mailer.Sender, error) {
	if c.Provider == ProviderSMTP {
		return smtp.New(c.SMTP)
	}
	return resend.New(c.Resend)
}
