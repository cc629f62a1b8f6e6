// Package logger builds the service's structured slog loggers.
//
// Loggers write JSON to stdout. Context extractors add request-scoped
// attributes (such as request_id) to every record:
//
//	log := logger.New(slog.LevelInfo, requestIDExtractor)
//	log.InfoContext(ctx, "email sent", slog.String("message_id", id))
//
// NewWithSentry additionally forwards warnings and errors to Sentry and
// falls back to stdout only when no DSN is configured.
package logger
