// Package service ties the template store and the dispatcher together into
// the operations exposed by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/laguntza/contactmail/internal/metrics"
	"github.com/laguntza/contactmail/pkg/logger"
	"github.com/laguntza/contactmail/pkg/mailer"
	"github.com/laguntza/contactmail/pkg/templates"
)

// TemplateRequest is a contact-form submission addressed to a template.
type TemplateRequest struct {
	TemplateName string                `json:"templateName" validate:"required"`
	Lang         string                `json:"lang,omitempty"`
	From         string                `json:"from,omitempty" validate:"omitempty,email"`
	To           mailer.Addresses      `json:"to" validate:"required,min=1,dive,email"`
	Data         templates.ContactData `json:"data"`
}

// Service is safe for concurrent use.
type Service struct {
	store       *templates.Store
	dispatcher  *mailer.Dispatcher
	metrics     *metrics.Metrics
	logger      *slog.Logger
	defaultLang string
	render      templates.RenderOptions
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records dispatch outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithDefaultLang sets the language used when a request names none.
func WithDefaultLang(lang string) Option {
	return func(s *Service) {
		if lang != "" {
			s.defaultLang = lang
		}
	}
}

// WithEscapeHTML sanitizes values inserted into HTML bodies.
func WithEscapeHTML(on bool) Option {
	return func(s *Service) { s.render.EscapeHTML = on }
}

// New creates a Service.
func New(store *templates.Store, dispatcher *mailer.Dispatcher, opts ...Option) *Service {
	s := &Service{
		store:       store,
		dispatcher:  dispatcher,
		logger:      logger.NewNope(),
		defaultLang: string(templates.Spanish),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AvailableTemplates lists the registered template names.
func (s *Service) AvailableTemplates() []string {
	names := s.store.Available()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

// RenderTemplate resolves name in lang and substitutes data into it.
// An empty lang selects the default language.
func (s *Service) RenderTemplate(name, lang string, data templates.ContactData) (templates.Rendered, error) {
	if lang == "" {
		lang = s.defaultLang
	}

	def, err := s.store.Resolve(name, lang)
	if err != nil {
		s.metrics.ObserveRenderFailure(name)
		return templates.Rendered{}, fmt.Errorf("%w %s: %w", ErrRender, name, err)
	}
	return templates.Render(def, data.RenderContext(), s.render), nil
}

// SendEmail dispatches a fully specified message.
func (s *Service) SendEmail(ctx context.Context, email *mailer.Email) (mailer.DispatchResult, error) {
	start := time.Now()
	res, err := s.dispatcher.Send(ctx, email)
	s.metrics.ObserveDispatch(metrics.KindSingle, res, time.Since(start))
	return res, err
}

// TestConnection reports whether the provider is usable.
func (s *Service) TestConnection(ctx context.Context) (bool, error) {
	return s.dispatcher.TestConnection(ctx)
}

// SendBulkEmails sends tmpl to every recipient, sequentially.
func (s *Service) SendBulkEmails(ctx context.Context, recipients []mailer.BulkRecipient, tmpl mailer.BulkTemplate) []mailer.DispatchResult {
	start := time.Now()
	results := s.dispatcher.SendBulk(ctx, recipients, tmpl)

	var per time.Duration
	if len(results) > 0 {
		per = time.Since(start) / time.Duration(len(results))
	}
	failed := 0
	for _, r := range results {
		s.metrics.ObserveDispatch(metrics.KindBulk, r, per)
		if !r.Success {
			failed++
		}
	}

	s.logger.InfoContext(ctx, "bulk dispatch finished",
		slog.Int("recipients", len(recipients)),
		slog.Int("failed", failed),
		slog.Duration("took", time.Since(start)),
	)
	return results
}

// SendTemplate renders the requested template with the submission data and
// sends it to the requested recipients. Attachments in the data travel with
// the message.
func (s *Service) SendTemplate(ctx context.Context, req TemplateRequest) (mailer.DispatchResult, error) {
	if !s.store.Has(req.TemplateName) {
		s.metrics.ObserveRenderFailure(req.TemplateName)
		return mailer.DispatchResult{}, fmt.Errorf("%w: %s", templates.ErrTemplateNotFound, req.TemplateName)
	}
	if len(req.To) == 0 {
		return mailer.DispatchResult{}, mailer.ErrNoRecipient
	}

	rendered, err := s.RenderTemplate(req.TemplateName, req.Lang, req.Data)
	if err != nil {
		return mailer.DispatchResult{}, err
	}

	from := strings.TrimSpace(req.From)
	if from == "" {
		from = s.dispatcher.Config().From()
	}

	email := &mailer.Email{
		From:        from,
		To:          req.To,
		Subject:     rendered.Subject,
		HTML:        rendered.HTML,
		Text:        rendered.Text,
		Attachments: attachments(req.Data.Attachments),
		Tags:        mailer.Tags{"template": req.TemplateName},
	}

	res, err := s.SendEmail(ctx, email)
	if err != nil {
		s.logger.ErrorContext(ctx, "template email failed",
			slog.String("template", req.TemplateName),
			slog.Any("error", err),
		)
		return res, err
	}
	return res, nil
}

func attachments(in []templates.Attachment) []mailer.Attachment {
	if len(in) == 0 {
		return nil
	}
	out := make([]mailer.Attachment, len(in))
	for i, a := range in {
		out[i] = mailer.Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Content:     a.Content,
		}
	}
	return out
}

// IsClientError reports whether err was caused by the request rather than
// by the provider or the service.
func IsClientError(err error) bool {
	return errors.Is(err, templates.ErrTemplateNotFound) ||
		errors.Is(err, mailer.ErrNoRecipient) ||
		errors.Is(err, mailer.ErrNoSubject) ||
		errors.Is(err, mailer.ErrNoContent)
}

// HasTemplate reports whether name is a registered template.
func (s *Service) HasTemplate(name string) bool {
	return s.store.Has(name)
}
