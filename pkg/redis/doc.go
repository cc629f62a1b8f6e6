// Package redis opens the shared Redis client used by the rate limiter.
//
// Connections are verified with PING at startup, retrying with a linear
// backoff, so a misconfigured REDIS_URL fails fast instead of on the first
// request. Healthcheck adapts the client to the readiness endpoint.
package redis
