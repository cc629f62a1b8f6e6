package mailer

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
)

// DefaultRecipientName replaces {{name}} when a bulk recipient has no name.
const DefaultRecipientName = "Customer"

// BulkTag marks every message sent by SendBulk.
const BulkTag = "bulk"

// BulkRecipient is a single addressee of a bulk send.
type BulkRecipient struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty"`
}

// BulkTemplate is the message shared by every bulk recipient.
// Only the {{name}} token is personalized.
type BulkTemplate struct {
	Subject string `json:"subject" validate:"required,min=1,max=998"`
	HTML    string `json:"html,omitempty"`
	Text    string `json:"text,omitempty"`
	From    string `json:"from,omitempty" validate:"omitempty,email"`
}

// SendBulk sends the template to each recipient in order, one at a time,
// pausing for the configured delay between consecutive sends.
// A failed recipient never stops the loop; its error is recorded in the
// returned slice, which always has one result per recipient in input order.
// If ctx is cancelled while waiting, the remaining recipients are reported
// as failed with the context error.
func (d *Dispatcher) SendBulk(ctx context.Context, recipients []BulkRecipient, tmpl BulkTemplate) []DispatchResult {
	results := make([]DispatchResult, 0, len(recipients))
	html := d.bulkHTML(tmpl)

	for i, r := range recipients {
		name := r.Name
		if name == "" {
			name = DefaultRecipientName
		}

		email := &Email{
			To:      []string{r.Email},
			From:    tmpl.From,
			Subject: personalize(tmpl.Subject, name),
			HTML:    personalize(html, name),
			Text:    personalize(tmpl.Text, name),
			Tags:    SimpleTags(BulkTag),
		}

		res, err := d.Send(ctx, email)
		res.Email = r.Email
		if err != nil {
			res.Success = false
			res.Error = err.Error()
		}
		results = append(results, res)

		if i == len(recipients)-1 {
			break
		}
		if err := d.sleep(ctx, d.config.BulkDelay); err != nil {
			d.logger.WarnContext(ctx, "bulk dispatch interrupted",
				slog.Int("sent", i+1),
				slog.Int("remaining", len(recipients)-i-1),
				slog.String("error", err.Error()),
			)
			for _, rest := range recipients[i+1:] {
				results = append(results, DispatchResult{Email: rest.Email, Error: err.Error()})
			}
			break
		}
	}

	return results
}

// bulkHTML returns the template HTML, deriving it from the text body
// (treated as markdown) when no HTML was supplied.
func (d *Dispatcher) bulkHTML(tmpl BulkTemplate) string {
	if tmpl.HTML != "" || tmpl.Text == "" {
		return tmpl.HTML
	}
	var buf bytes.Buffer
	if err := d.md.Convert([]byte(tmpl.Text), &buf); err != nil {
		return ""
	}
	return buf.String()
}

func personalize(s, name string) string {
	return strings.ReplaceAll(s, "{{name}}", name)
}
