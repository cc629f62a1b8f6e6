// Package health provides liveness and readiness HTTP handlers.
//
// Liveness reports that the process is up along with its uptime.
// Readiness runs named checks concurrently (for this service, the email
// provider connection) and answers 503 if any of them fails:
//
//	r.Get("/health", health.LivenessHandler(started))
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"mail_provider": svc.Ping,
//	}))
package health
