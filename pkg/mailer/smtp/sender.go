package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	mail "github.com/go-mail/mail"
	"github.com/google/uuid"

	"github.com/laguntza/contactmail/pkg/mailer"
)

// Sender implements mailer.Sender over SMTP.
type Sender struct {
	dialer *mail.Dialer
	config Config
}

// New creates an SMTP sender.
// It fails with mailer.ErrProviderNotConfigured when host or credentials are missing.
func New(cfg Config) (*Sender, error) {
	if cfg.Host == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("%w: SMTP_HOST, SMTP_USER and SMTP_PASS are required", mailer.ErrProviderNotConfigured)
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Secure
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // opt-in for local relays
	}

	return &Sender{dialer: d, config: cfg}, nil
}

// Send implements mailer.Sender.
// The context is not propagated: go-mail dials with the dialer's own timeout.
func (s *Sender) Send(_ context.Context, email *mailer.Email) (string, error) {
	m, id := s.buildMessage(email)
	if err := s.dialer.DialAndSend(m); err != nil {
		return "", mailer.ClassifyError(fmt.Errorf("smtp: failed to send email: %w", err))
	}
	return id, nil
}

// Verify implements mailer.Verifier by opening and closing an
// authenticated SMTP session.
func (s *Sender) Verify(context.Context) error {
	conn, err := s.dialer.Dial()
	if err != nil {
		return mailer.ClassifyError(fmt.Errorf("smtp: verify: %w", err))
	}
	return conn.Close()
}

func (s *Sender) buildMessage(email *mailer.Email) (*mail.Message, string) {
	from := email.From
	if from == "" {
		from = s.config.From
	}
	if from == "" {
		from = s.config.Username
	}

	id := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.config.Host)

	m := mail.NewMessage()
	m.SetHeader("Message-ID", id)
	m.SetHeader("From", from)
	m.SetHeader("To", email.To...)
	if len(email.CC) > 0 {
		m.SetHeader("Cc", email.CC...)
	}
	if len(email.BCC) > 0 {
		m.SetHeader("Bcc", email.BCC...)
	}
	if len(email.ReplyTo) > 0 {
		m.SetHeader("Reply-To", strings.Join(email.ReplyTo, ", "))
	}
	for k, v := range email.Headers {
		m.SetHeader(k, v)
	}
	m.SetHeader("Subject", email.Subject)

	// multipart/alternative when both bodies are present
	switch {
	case email.Text != "" && email.HTML != "":
		m.SetBody("text/plain", email.Text)
		m.AddAlternative("text/html", email.HTML)
	case email.HTML != "":
		m.SetBody("text/html", email.HTML)
	default:
		m.SetBody("text/plain", email.Text)
	}

	for _, a := range email.Attachments {
		var settings []mail.FileSetting
		if a.ContentType != "" {
			settings = append(settings, mail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}))
		}
		m.AttachReader(a.Filename, bytes.NewReader(a.Content), settings...)
	}

	return m, id
}
