package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
}

// NewWithSentry creates a logger that writes JSON to stdout and forwards
// warnings and errors to Sentry. Errors become Sentry issues.
// If DSN is empty or Sentry fails to initialize, only stdout is used.
// The returned flush func drains buffered events and is safe to call always.
func NewWithSentry(cfg SentryConfig, level slog.Level, extractors ...ContextExtractor) (*slog.Logger, func(time.Duration)) {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	noop := func(time.Duration) {}

	if cfg.DSN == "" {
		return slog.New(NewLogHandlerDecorator(stdout, extractors...)), noop
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(stdout).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return slog.New(NewLogHandlerDecorator(stdout, extractors...)), noop
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())

	h := NewLogHandlerDecorator(fanout{stdout, sentryHandler}, extractors...)
	return slog.New(h), func(d time.Duration) { sentry.Flush(d) }
}
