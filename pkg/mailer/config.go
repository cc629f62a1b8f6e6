package mailer

import "time"

// DefaultBulkDelay is the pause between consecutive bulk sends.
const DefaultBulkDelay = time.Second

// Config holds dispatch defaults.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	FromEmail    string        `env:"FROM_EMAIL" envDefault:"onboarding@resend.dev"`
	FromName     string        `env:"FROM_NAME"`
	CompanyEmail string        `env:"COMPANY_EMAIL"`
	BCCEmails    []string      `env:"BCC_EMAILS" envSeparator:","`
	BulkDelay    time.Duration `env:"BULK_DELAY" envDefault:"1s"`
}

// From returns the formatted default sender address.
func (c Config) From() string {
	return Recipient(c.FromName, c.FromEmail)
}
