package mailer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/laguntza/contactmail/pkg/logger"
)

// Dispatcher builds provider-ready messages and hands them to a Sender.
// It is safe for concurrent use; the Sender is shared read-only.
type Dispatcher struct {
	sender Sender
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
	md     goldmark.Markdown
	config Config
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for dispatch events.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithSleep replaces the pause used between bulk sends.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.sleep = fn
		}
	}
}

// New creates a Dispatcher around the given sender.
// A nil sender behaves like NotConfigured(ErrProviderNotConfigured).
func New(sender Sender, cfg Config, opts ...Option) *Dispatcher {
	if sender == nil {
		sender = NotConfigured(ErrProviderNotConfigured)
	}
	if cfg.BulkDelay == 0 {
		cfg.BulkDelay = DefaultBulkDelay
	}

	d := &Dispatcher{
		sender: sender,
		config: cfg,
		logger: logger.NewNope(),
		sleep:  sleepContext,
		md:     newMarkdown(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Config returns the dispatch defaults.
func (d *Dispatcher) Config() Config {
	return d.config
}

// Send completes the recipient lists, validates the message and delivers it
// with exactly one provider call. The caller's Email is not modified.
func (d *Dispatcher) Send(ctx context.Context, email *Email) (DispatchResult, error) {
	msg := d.prepare(email)

	if len(msg.To) == 0 {
		return DispatchResult{Error: ErrNoRecipient.Error()}, ErrNoRecipient
	}
	if msg.Subject == "" {
		return DispatchResult{Error: ErrNoSubject.Error()}, ErrNoSubject
	}
	if msg.HTML == "" && msg.Text == "" {
		return DispatchResult{Error: ErrNoContent.Error()}, ErrNoContent
	}

	id, err := d.sender.Send(ctx, msg)
	if err != nil {
		err = ClassifyError(err)
		d.logger.WarnContext(ctx, "email dispatch failed",
			slog.Any("to", msg.To),
			slog.String("error", err.Error()),
		)
		return DispatchResult{Error: err.Error()}, err
	}

	d.logger.InfoContext(ctx, "email sent",
		slog.String("message_id", id),
		slog.Int("recipients", len(msg.To)+len(msg.CC)+len(msg.BCC)),
	)
	return DispatchResult{Success: true, MessageID: id}, nil
}

// TestConnection reports whether the provider is configured and its client
// is usable. Senders implementing Verifier are asked to verify themselves.
func (d *Dispatcher) TestConnection(ctx context.Context) (bool, error) {
	v, ok := d.sender.(Verifier)
	if !ok {
		return true, nil
	}
	if err := v.Verify(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// prepare returns a copy of email with defaults applied:
// the company address joins To, configured BCCs join BCC,
// ReplyTo falls back to To and From falls back to the configured sender.
func (d *Dispatcher) prepare(email *Email) *Email {
	msg := *email

	msg.To = mergeAddresses(email.To, []string{d.config.CompanyEmail})
	msg.CC = mergeAddresses(email.CC)
	msg.BCC = mergeAddresses(email.BCC, d.config.BCCEmails)

	if replyTo := mergeAddresses(email.ReplyTo); len(replyTo) > 0 {
		msg.ReplyTo = replyTo
	} else {
		msg.ReplyTo = append([]string(nil), msg.To...)
	}

	if strings.TrimSpace(msg.From) == "" {
		msg.From = d.config.From()
	}
	return &msg
}

// mergeAddresses concatenates address lists into an ordered set.
// Blank entries are dropped and duplicates are matched exactly, keeping the
// first occurrence.
func mergeAddresses(lists ...[]string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, addr := range list {
			addr = strings.TrimSpace(addr)
			if addr == "" {
				continue
			}
			if _, ok := seen[addr]; ok {
				continue
			}
			seen[addr] = struct{}{}
			out = append(out, addr)
		}
	}
	return out
}

// SplitAddresses parses a comma-separated address list.
func SplitAddresses(s string) []string {
	return mergeAddresses(strings.Split(s, ","))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
