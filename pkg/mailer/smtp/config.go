package smtp

// Config holds SMTP provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"FROM_EMAIL"`
	// Secure selects implicit TLS (port 465); otherwise STARTTLS is negotiated.
	Secure             bool `env:"SMTP_SECURE"`
	InsecureSkipVerify bool `env:"SMTP_INSECURE_SKIP_VERIFY"`
}
