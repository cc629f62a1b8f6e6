package mailer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func convert(t *testing.T, src string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, newMarkdown().Convert([]byte(src), &buf))
	return buf.String()
}

func TestMarkdown_Button(t *testing.T) {
	t.Parallel()

	out := convert(t, "Book now: [!button|Reservar cita](https://laguntza.eus/cita)")
	require.Contains(t, out, `<a href="https://laguntza.eus/cita" style="`+buttonStyle+`">Reservar cita</a>`)
	require.Contains(t, out, "<p>Book now: ")
}

func TestMarkdown_ButtonEscapes(t *testing.T) {
	t.Parallel()

	out := convert(t, `[!button|<b>Go</b>](https://x.com/?a=1&b="2")`)
	require.Contains(t, out, "&lt;b&gt;Go&lt;/b&gt;")
	require.Contains(t, out, "a=1&amp;b=&quot;2&quot;")
	require.NotContains(t, out, "<b>Go</b>")
}

func TestMarkdown_ButtonRejectsScriptURL(t *testing.T) {
	t.Parallel()

	out := convert(t, "[!button|Click](javascript:alert(1))")
	require.NotContains(t, out, `style="`+buttonStyle)
}

func TestMarkdown_ButtonKeepsTokens(t *testing.T) {
	t.Parallel()

	out := convert(t, "[!button|Hola {{name}}]({{url}})")
	require.Contains(t, out, `href="{{url}}"`)
	require.Contains(t, out, ">Hola {{name}}</a>")
}

func TestMarkdown_RegularLinksUntouched(t *testing.T) {
	t.Parallel()

	out := convert(t, "See [our site](https://laguntza.eus).")
	require.Contains(t, out, `<a href="https://laguntza.eus">our site</a>`)
	require.NotContains(t, out, buttonStyle)
}

func TestMarkdown_IncompleteButton(t *testing.T) {
	t.Parallel()

	for _, src := range []string{
		"[!button|Missing url]",
		"[!button|Open paren](https://x.com",
		"[!button|No paren] https://x.com",
	} {
		require.NotContains(t, convert(t, src), buttonStyle, src)
	}
}

func TestMarkdown_MultipleButtons(t *testing.T) {
	t.Parallel()

	out := convert(t, "[!button|Uno](https://a.com) y [!button|Dos](mailto:b@x.com)")
	require.Equal(t, 2, bytes.Count([]byte(out), []byte(buttonStyle)))
}
