// Package ratelimit implements fixed-window, per-client request limiting
// for the HTTP API.
package ratelimit

import (
	"context"
	"log/slog"
	"net/netip"
	"strconv"
	"time"

	"github.com/laguntza/contactmail/pkg/logger"
)

// Rule allows Limit hits per Window.
type Rule struct {
	Limit  int64
	Window time.Duration
}

func (r Rule) key(client string) string {
	return strconv.FormatInt(int64(r.Window/time.Second), 10) + "s:" + client
}

// ProductionRules applies a burst limit and an hourly cap together.
func ProductionRules() []Rule {
	return []Rule{
		{Limit: 2, Window: time.Minute},
		{Limit: 5, Window: time.Hour},
	}
}

// DevelopmentRules is a loose limit for local work.
func DevelopmentRules() []Rule {
	return []Rule{
		{Limit: 100, Window: 15 * time.Minute},
	}
}

// Result is the outcome of one Allow call.
type Result struct {
	Allowed    bool
	Limit      int64
	Remaining  int64
	RetryAfter time.Duration
	Reset      time.Duration
}

// Limiter checks every rule for a client. A request is allowed only when
// all rules allow it.
type Limiter struct {
	store   Store
	logger  *slog.Logger
	rules   []Rule
	trusted []netip.Prefix
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithLogger sets the logger for backend failures.
func WithLogger(l *slog.Logger) Option {
	return func(lim *Limiter) {
		if l != nil {
			lim.logger = l
		}
	}
}

// WithTrustedProxies lists the peers whose X-Forwarded-For and X-Real-IP
// headers are believed. Without it clients are keyed on the socket address.
func WithTrustedProxies(trusted []netip.Prefix) Option {
	return func(lim *Limiter) {
		lim.trusted = trusted
	}
}

// New creates a limiter over store.
func New(store Store, rules []Rule, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		rules:  rules,
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records a hit for client against every rule. Store failures let
// the request through.
func (l *Limiter) Allow(ctx context.Context, client string) Result {
	res := Result{Allowed: true, Remaining: -1}

	for _, rule := range l.rules {
		hits, ttl, err := l.store.Incr(ctx, rule.key(client), rule.Window)
		if err != nil {
			l.logger.WarnContext(ctx, "rate limit store unavailable, allowing request",
				slog.String("client", client),
				slog.Any("error", err),
			)
			continue
		}

		remaining := max(rule.Limit-hits, 0)
		if res.Remaining < 0 || remaining < res.Remaining {
			res.Limit = rule.Limit
			res.Remaining = remaining
			res.Reset = ttl
		}

		if hits > rule.Limit {
			res.Allowed = false
			if ttl > res.RetryAfter {
				res.RetryAfter = ttl
			}
		}
	}

	if res.Remaining < 0 {
		res.Remaining = 0
	}
	return res
}
