package middlewares

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

type languageKey struct{}

// Language returns middleware that matches Accept-Language against the
// supported language codes and stores the best match in the context.
// Requests without a usable header get no language.
func Language(supported []string) func(http.Handler) http.Handler {
	tags := make([]language.Tag, 0, len(supported))
	codes := make([]string, 0, len(supported))
	for _, code := range supported {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		codes = append(codes, code)
	}
	matcher := language.NewMatcher(tags)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Accept-Language")
			if header == "" || len(codes) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			prefs, _, err := language.ParseAcceptLanguage(header)
			if err != nil || len(prefs) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			_, idx, conf := matcher.Match(prefs...)
			if conf == language.No {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), languageKey{}, codes[idx])
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLanguage returns the language resolved by Language, or "".
func GetLanguage(ctx context.Context) string {
	if v, ok := ctx.Value(languageKey{}).(string); ok {
		return v
	}
	return ""
}
