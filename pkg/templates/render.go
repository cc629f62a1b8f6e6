package templates

import (
	"slices"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// RenderContext maps token keys to substitution values.
type RenderContext map[string]string

// Rendered is a template with its tokens substituted.
type Rendered struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// RenderOptions tunes substitution.
type RenderOptions struct {
	// EscapeHTML strips markup from values inserted into the HTML body.
	// Subject and text are never altered.
	EscapeHTML bool
}

var strictPolicy = sync.OnceValue(bluemonday.StrictPolicy)

// Render substitutes every {{key}} in the subject, HTML and text of def
// for each key present in rc. Tokens with no entry in rc are left as-is.
// Substitution is a single pass: tokens inside inserted values are not
// expanded again.
func Render(def *Definition, rc RenderContext, opts RenderOptions) Rendered {
	keys := make([]string, 0, len(rc))
	for k := range rc {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	plain := make([]string, 0, 2*len(keys))
	html := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		token := "{{" + key + "}}"
		value := rc[key]

		htmlValue := value
		if opts.EscapeHTML {
			htmlValue = strictPolicy().Sanitize(value)
		}

		plain = append(plain, token, value)
		html = append(html, token, htmlValue)
	}

	pr := strings.NewReplacer(plain...)
	hr := strings.NewReplacer(html...)

	return Rendered{
		Subject: pr.Replace(def.Subject),
		HTML:    hr.Replace(def.HTML),
		Text:    pr.Replace(def.Text),
	}
}
