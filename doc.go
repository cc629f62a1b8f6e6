// Package contactmail assembles the contact-form email service: template
// store, dispatcher, provider, rate limiter, metrics and HTTP API.
//
// Build an App from the environment and run it:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app, err := contactmail.New(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Providers
//
// MAIL_PROVIDER selects Resend (default) or SMTP. Missing provider
// credentials do not stop the service from starting: sends and connection
// tests fail with mailer.ErrProviderNotConfigured and /health/ready reports
// the provider as unhealthy.
//
// # Rate limiting
//
// The /api routes are limited per client IP. Counters live in process
// memory unless REDIS_URL is set, in which case they are shared through
// Redis. Production allows 2 requests per minute and 5 per hour;
// development allows 100 per 15 minutes.
//
// Clients are identified by the connection's remote address. Behind a load
// balancer, list its addresses or CIDRs in TRUSTED_PROXIES so the client
// address is taken from X-Forwarded-For.
package contactmail
