package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	now := started.Add(90 * time.Second)

	h := LivenessHandler(started, withClock(func() time.Time { return now }))
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body Liveness
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, StatusOK, body.Status)
	require.InDelta(t, 90.0, body.Uptime, 0.001)
	require.True(t, body.Timestamp.Equal(now))
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		checks     Checks
		expose     bool
		wantStatus int
		wantError  string
	}{
		{
			name:       "no checks",
			wantStatus: http.StatusOK,
		},
		{
			name:       "all passing",
			checks:     Checks{"mail_provider": func(context.Context) error { return nil }},
			wantStatus: http.StatusOK,
		},
		{
			name: "failing hides detail",
			checks: Checks{
				"mail_provider": func(context.Context) error { return errors.New("missing api key") },
				"other":         func(context.Context) error { return nil },
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "failing exposes detail",
			checks:     Checks{"mail_provider": func(context.Context) error { return errors.New("missing api key") }},
			expose:     true,
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "missing api key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := ReadinessHandler(tt.checks, WithErrorDetails(tt.expose))
			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			require.Equal(t, tt.wantStatus, rec.Code)

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantStatus == http.StatusOK {
				require.Equal(t, StatusOK, body.Status)
				return
			}
			require.Equal(t, StatusUnhealthy, body.Status)
			require.Equal(t, tt.wantError, body.Checks["mail_provider"].Error)
		})
	}
}

func TestRunChecks_Timeout(t *testing.T) {
	t.Parallel()

	cfg := newConfig(WithTimeout(20 * time.Millisecond))
	resp := runChecks(context.Background(), Checks{
		"slow": func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}, cfg)

	require.Equal(t, StatusUnhealthy, resp.Status)
	require.Equal(t, StatusUnhealthy, resp.Checks["slow"].Status)
}
