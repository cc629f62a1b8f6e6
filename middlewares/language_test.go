package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laguntza/contactmail/middlewares"
)

func TestLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
	}{
		{header: "eu", want: "eu"},
		{header: "eu-ES,eu;q=0.9", want: "eu"},
		{header: "es-ES,es;q=0.9,en;q=0.8", want: "es"},
		{header: "fr-FR, eu;q=0.5", want: "eu"},
		{header: "en-US", want: ""},
		{header: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			t.Parallel()

			var got string
			h := middlewares.Language([]string{"es", "eu"})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = middlewares.GetLanguage(r.Context())
			}))

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Accept-Language", tt.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), r)
			require.Equal(t, tt.want, got)
		})
	}
}
