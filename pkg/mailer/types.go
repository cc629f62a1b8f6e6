package mailer

import (
	"encoding/json"
	"fmt"
)

// Tags represents email tags/categories that can be either presence-only
// (using struct{}{}) or key-value pairs (using string values).
// Resend converts presence-only tags to name="true".
type Tags map[string]any

// SimpleTags creates presence-only tags from a list of tag names.
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Email is a provider-ready message.
// To, CC, BCC and ReplyTo are ordered address sets; the Dispatcher
// completes them from configuration before the message reaches a Sender.
type Email struct {
	Headers     map[string]string `json:"headers,omitempty"`
	Tags        Tags              `json:"-"`
	Subject     string            `json:"subject"`
	HTML        string            `json:"html,omitempty"`
	Text        string            `json:"text,omitempty"`
	From        string            `json:"from,omitempty"`
	To          []string          `json:"to"`
	CC          []string          `json:"cc,omitempty"`
	BCC         []string          `json:"bcc,omitempty"`
	ReplyTo     []string          `json:"replyTo,omitempty"`
	Attachments []Attachment      `json:"attachments,omitempty"`
}

// Attachment represents an email attachment.
// Content is base64 encoded when carried in JSON.
type Attachment struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"contentType,omitempty"`
	ContentID   string `json:"contentId,omitempty"`
	Content     []byte `json:"content" validate:"required"`
}

// DispatchResult reports the outcome of a single send attempt.
// Email is only set for bulk sends, where results are keyed by recipient.
type DispatchResult struct {
	Email     string `json:"email,omitempty"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
	Success   bool   `json:"success"`
}

// Addresses is an address list that decodes from either a single JSON
// string or an array of strings.
type Addresses []string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Addresses) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		if one == "" {
			*a = nil
			return nil
		}
		*a = Addresses{one}
		return nil
	}

	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("address list must be a string or an array of strings: %w", err)
	}
	*a = many
	return nil
}
