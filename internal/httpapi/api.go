// Package httpapi exposes the contact-mail service over HTTP.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/laguntza/contactmail/internal/metrics"
	"github.com/laguntza/contactmail/internal/ratelimit"
	"github.com/laguntza/contactmail/internal/service"
	"github.com/laguntza/contactmail/middlewares"
	"github.com/laguntza/contactmail/pkg/health"
	"github.com/laguntza/contactmail/pkg/logger"
	"github.com/laguntza/contactmail/pkg/templates"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// API holds the handlers and their dependencies.
type API struct {
	svc            *service.Service
	logger         *slog.Logger
	metrics        *metrics.Metrics
	limiter        *ratelimit.Limiter
	validator      *validator.Validate
	checks         health.Checks
	started        time.Time
	allowedOrigins []string
	bodyLimit      int64
	exposeErrors   bool
}

// Option configures an API.
type Option func(*API)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics instruments requests and serves /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *API) { a.metrics = m }
}

// WithLimiter rate-limits the /api routes.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(a *API) { a.limiter = l }
}

// WithReadinessCheck adds a named dependency check to /health/ready.
func WithReadinessCheck(name string, check health.CheckFunc) Option {
	return func(a *API) {
		if a.checks == nil {
			a.checks = make(health.Checks)
		}
		a.checks[name] = check
	}
}

// WithAllowedOrigins restricts CORS to the given origins.
func WithAllowedOrigins(origins []string) Option {
	return func(a *API) { a.allowedOrigins = origins }
}

// WithBodyLimit caps request bodies.
func WithBodyLimit(n int64) Option {
	return func(a *API) { a.bodyLimit = n }
}

// WithExposeErrors includes internal error messages in responses.
func WithExposeErrors(on bool) Option {
	return func(a *API) { a.exposeErrors = on }
}

// WithStartTime sets the process start reported by /health.
func WithStartTime(t time.Time) Option {
	return func(a *API) {
		if !t.IsZero() {
			a.started = t
		}
	}
}

// New creates the API.
func New(svc *service.Service, opts ...Option) *API {
	a := &API{
		svc:       svc,
		logger:    logger.NewNope(),
		validator: newValidator(),
		started:   time.Now(),
		bodyLimit: 10 << 20,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handler builds the router.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(
		middlewares.RequestID(),
		middlewares.Recover(a.logger, a.exposeErrors),
		middlewares.AccessLog(a.logger),
		a.metrics.Middleware,
		middlewares.SecurityHeaders,
		middlewares.CORS(a.allowedOrigins),
		middlewares.BodyLimit(a.bodyLimit),
	)

	r.NotFound(a.notFound)
	r.MethodNotAllowed(a.notFound)

	r.Get("/", a.index)
	r.Get("/health", health.LivenessHandler(a.started))
	r.Get("/health/ready", health.ReadinessHandler(a.checks,
		health.WithLogger(a.logger),
		health.WithErrorDetails(a.exposeErrors),
	))
	if a.metrics != nil {
		r.Method(http.MethodGet, "/metrics", a.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(
			ratelimit.Middleware(a.limiter),
			middlewares.Language(languageCodes()),
		)

		r.Get("/test-connection", a.testConnection)
		r.Get("/templates", a.listTemplates)
		r.Post("/contact-form", a.contactForm)
		r.Post("/send-email", a.sendEmail)
		r.Post("/send-bulk", a.sendBulk)
	})

	return r
}

func languageCodes() []string {
	langs := templates.Langs()
	codes := make([]string, len(langs))
	for i, l := range langs {
		codes[i] = string(l)
	}
	return codes
}
