// Package mailer builds provider-ready email messages and dispatches them
// through a pluggable provider.
//
// # Architecture
//
//   - Sender: interface that email providers implement (see the resend and smtp subpackages)
//   - Dispatcher: completes recipients from configuration and sends one message per call
//   - SendBulk: sequential, paced per-recipient dispatch with per-item results
//
// # Recipients
//
// Every message that passes through Dispatcher.Send is completed the same way:
//
//   - the configured company address is appended to To unless already present
//   - the configured default BCC list is appended to BCC, caller addresses first
//   - ReplyTo defaults to the final To set
//   - From defaults to the configured sender
//
// Address sets keep first-seen order and drop exact duplicates.
//
// # Usage
//
//	sender, err := resend.New(resend.Config{APIKey: os.Getenv("RESEND_API_KEY")})
//	if err != nil {
//		sender = mailer.NotConfigured(err)
//	}
//
//	d := mailer.New(sender, mailer.Config{
//		FromEmail:    "web@example.com",
//		CompanyEmail: "info@example.com",
//	})
//
//	res, err := d.Send(ctx, &mailer.Email{
//		To:      []string{"user@example.com"},
//		Subject: "Hello",
//		HTML:    "<p>Hello!</p>",
//	})
//
// # Bulk bodies
//
// A bulk template without HTML gets one generated from its text, read as
// Markdown. The text may contain call-to-action buttons:
//
//	[!button|Reservar cita](https://example.com/cita)
//
// which render as inline-styled links. Only http, https and mailto targets
// (or an unresolved {{token}}) are accepted.
//
// # Errors
//
//   - ErrNoRecipient, ErrNoSubject, ErrNoContent: the message is incomplete
//   - ErrProviderNotConfigured: provider credentials are missing
//   - ErrProvider: the provider rejected the message
//   - ErrNetwork: the provider could not be reached
//
// The Dispatcher never retries; callers decide.
package mailer
