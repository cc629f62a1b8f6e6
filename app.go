package contactmail

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/laguntza/contactmail/internal/config"
	"github.com/laguntza/contactmail/internal/httpapi"
	"github.com/laguntza/contactmail/internal/metrics"
	"github.com/laguntza/contactmail/internal/ratelimit"
	"github.com/laguntza/contactmail/internal/server"
	"github.com/laguntza/contactmail/internal/service"
	"github.com/laguntza/contactmail/middlewares"
	"github.com/laguntza/contactmail/pkg/logger"
	"github.com/laguntza/contactmail/pkg/mailer"
	"github.com/laguntza/contactmail/pkg/redis"
	"github.com/laguntza/contactmail/pkg/templates"
)

const flushTimeout = 2 * time.Second

// App is a fully wired service.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	flush    func(time.Duration)
	service  *service.Service
	metrics  *metrics.Metrics
	memStore *ratelimit.MemoryStore
	redis    *goredis.Client
	handler  http.Handler
	started  time.Time
}

// Option overrides a dependency, mostly for tests and the CLI.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	sender    mailer.Sender
	templates fs.FS
}

// WithLogger replaces the logger built from configuration.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSender replaces the provider built from configuration.
func WithSender(s mailer.Sender) Option {
	return func(o *options) { o.sender = s }
}

// WithTemplates replaces the embedded template assets.
func WithTemplates(fsys fs.FS) Option {
	return func(o *options) { o.templates = fsys }
}

// New wires the service from cfg. It fails only on errors that make the
// service unusable, such as an unreachable REDIS_URL.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{templates: templates.Assets()}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{cfg: cfg, started: time.Now(), flush: func(time.Duration) {}}

	a.logger = o.logger
	if a.logger == nil {
		a.logger, a.flush = logger.NewWithSentry(cfg.Sentry, cfg.Level(), middlewares.RequestIDExtractor())
	}

	sender := o.sender
	if sender == nil {
		s, err := cfg.NewSender()
		if err != nil {
			a.logger.Warn("email provider not configured", slog.String("provider", cfg.Provider), slog.Any("error", err))
			s = mailer.NotConfigured(err)
		}
		sender = s
	}

	if cfg.MetricsEnabled {
		m, err := metrics.New()
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		a.metrics = m
	}

	dispatcher := mailer.New(sender, cfg.Mailer, mailer.WithLogger(a.logger))
	store := templates.NewStore(o.templates, templates.WithStoreLogger(a.logger))
	a.service = service.New(store, dispatcher,
		service.WithLogger(a.logger),
		service.WithMetrics(a.metrics),
		service.WithDefaultLang(cfg.DefaultLang),
		service.WithEscapeHTML(cfg.EscapeHTML),
	)

	apiOpts := []httpapi.Option{
		httpapi.WithLogger(a.logger),
		httpapi.WithMetrics(a.metrics),
		httpapi.WithAllowedOrigins(cfg.AllowedOrigins),
		httpapi.WithBodyLimit(cfg.BodyLimit),
		httpapi.WithExposeErrors(cfg.ExposeErrors()),
		httpapi.WithStartTime(a.started),
		httpapi.WithReadinessCheck("provider", func(ctx context.Context) error {
			_, err := a.service.TestConnection(ctx)
			return err
		}),
	}

	if cfg.RateLimit.Enabled {
		limiter, err := a.newLimiter(ctx)
		if err != nil {
			return nil, err
		}
		apiOpts = append(apiOpts, httpapi.WithLimiter(limiter))
		if a.redis != nil {
			apiOpts = append(apiOpts, httpapi.WithReadinessCheck("redis", redis.Healthcheck(a.redis)))
		}
	}

	a.handler = httpapi.New(a.service, apiOpts...).Handler()
	return a, nil
}

func (a *App) newLimiter(ctx context.Context) (*ratelimit.Limiter, error) {
	trusted, err := ratelimit.ParseTrustedProxies(a.cfg.RateLimit.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	rules := ratelimit.DevelopmentRules()
	if a.cfg.IsProduction() {
		rules = ratelimit.ProductionRules()
	}

	var store ratelimit.Store
	if url := a.cfg.RateLimit.RedisURL; url != "" {
		client, err := redis.Open(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("rate limit store: %w", err)
		}
		a.redis = client
		store = ratelimit.NewRedisStore(client, "")
	} else {
		a.memStore = ratelimit.NewMemoryStore(time.Minute)
		store = a.memStore
	}

	return ratelimit.New(store, rules,
		ratelimit.WithLogger(a.logger),
		ratelimit.WithTrustedProxies(trusted),
	), nil
}

// Service returns the email service.
func (a *App) Service() *service.Service {
	return a.service
}

// Handler returns the HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("contact mail service starting",
		slog.String("environment", a.cfg.Env),
		slog.String("provider", a.cfg.Provider),
		slog.String("from", a.cfg.Mailer.From()),
		slog.Bool("rate_limit", a.cfg.RateLimit.Enabled),
	)

	return server.Run(ctx, a.cfg.Address(), a.handler,
		server.WithLogger(a.logger),
		server.WithShutdownTimeout(a.cfg.ShutdownTimeout),
		server.WithWriteTimeout(a.cfg.WriteTimeout),
		server.WithShutdownHook(a.Close),
	)
}

// Close releases the rate limit store and flushes pending error reports.
func (a *App) Close(context.Context) error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.memStore != nil {
		_ = a.memStore.Close()
	}
	a.flush(flushTimeout)
	return errors.Join(errs...)
}
