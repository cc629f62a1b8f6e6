// Package middlewares provides the net/http middleware stack of the
// contact-mail API.
//
// # Request ID
//
// RequestID assigns an ID to each request, reusing an upstream
// X-Request-ID when present. Pair it with RequestIDExtractor so every log
// line written with the request context carries request_id:
//
//	log := logger.New(slog.LevelInfo, middlewares.RequestIDExtractor())
//	r.Use(middlewares.RequestID())
//
// # Recover
//
// Recover turns panics into a 500 JSON response and reports them to Sentry
// when a hub is configured.
//
// # CORS
//
// CORS answers preflight requests and sets the allow headers for the
// configured origins. An empty origin list allows every origin.
//
// # Language
//
// Language resolves the preferred template language from Accept-Language
// with golang.org/x/text/language and stores it in the request context.
//
// The remaining middlewares (AccessLog, SecurityHeaders, BodyLimit) are
// single-purpose and take no options beyond their arguments.
package middlewares
