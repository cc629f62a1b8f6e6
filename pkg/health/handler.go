package health

import (
	"encoding/json"
	"math"
	"net/http"
	"time"
)

// Liveness is the liveness payload.
type Liveness struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
}

// LivenessHandler always responds 200 with the process uptime in seconds.
func LivenessHandler(started time.Time, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, _ *http.Request) {
		now := cfg.now()
		uptime := now.Sub(started).Seconds()
		writeJSON(w, http.StatusOK, Liveness{
			Status:    StatusOK,
			Timestamp: now.UTC(),
			Uptime:    math.Round(uptime*1000) / 1000,
		})
	}
}

// ReadinessHandler runs all checks and responds 200 or 503.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		resp := runChecks(r.Context(), checks, cfg)

		status := http.StatusOK
		if resp.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
