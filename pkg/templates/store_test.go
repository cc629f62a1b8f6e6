package templates

import (
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Available(t *testing.T) {
	t.Parallel()

	store := NewDefaultStore()

	require.Equal(t, []Name{LaguntzaFisioterapia}, store.Available())
	require.True(t, store.Has("laguntza-fisioterapia"))
	require.False(t, store.Has("newsletter"))
}

func TestStore_NilLoggerKeepsDefault(t *testing.T) {
	t.Parallel()

	store := NewDefaultStore(WithStoreLogger(nil))
	require.NotNil(t, store.logger)

	def, err := store.Resolve(string(LaguntzaFisioterapia), "es")
	require.NoError(t, err)
	require.NotEmpty(t, def.Subject)
}

func TestStore_Resolve_EmbeddedAssets(t *testing.T) {
	t.Parallel()

	store := NewDefaultStore()

	for _, name := range store.Available() {
		for _, lang := range Langs() {
			def, err := store.Resolve(string(name), string(lang))
			require.NoError(t, err, "%s/%s", name, lang)
			require.NotEmpty(t, def.Subject)
			require.NotEmpty(t, def.HTML)
			require.NotEmpty(t, def.Text)
			require.Equal(t, lang, def.Lang)
			require.NotContains(t, def.HTML, "subject:", "frontmatter must be stripped")
		}
	}
}

func TestStore_Resolve_Subjects(t *testing.T) {
	t.Parallel()

	store := NewDefaultStore()

	es, err := store.Resolve("laguntza-fisioterapia", "es")
	require.NoError(t, err)
	require.Equal(t, "Hemos recibido tu mensaje - Laguntza Fisioterapia", es.Subject)

	eu, err := store.Resolve("laguntza-fisioterapia", "eu")
	require.NoError(t, err)
	require.Equal(t, "Zure mezua jaso dugu - Laguntza Fisioterapia", eu.Subject)
}

func TestStore_Resolve_LanguageFallback(t *testing.T) {
	t.Parallel()

	store := NewDefaultStore()

	for _, code := range []string{"", "en", "EU", "eu-ES", "fr"} {
		def, err := store.Resolve("laguntza-fisioterapia", code)
		require.NoError(t, err)
		require.Equal(t, Spanish, def.Lang, "code %q", code)
	}
}

func TestStore_Resolve_NotFound(t *testing.T) {
	t.Parallel()

	_, err := NewDefaultStore().Resolve("newsletter", "es")
	require.ErrorIs(t, err, ErrTemplateNotFound)
	require.NotErrorIs(t, err, ErrTemplateLoad)
}

func TestStore_Resolve_LoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fs   fstest.MapFS
	}{
		{
			name: "missing html",
			fs: fstest.MapFS{
				"laguntza-fisioterapia/es.txt": {Data: []byte("Hola")},
			},
		},
		{
			name: "missing text",
			fs: fstest.MapFS{
				"laguntza-fisioterapia/es.html": {Data: []byte("---\nsubject: S\n---\n<p>Hola</p>")},
			},
		},
		{
			name: "missing subject",
			fs: fstest.MapFS{
				"laguntza-fisioterapia/es.html": {Data: []byte("<p>Hola</p>")},
				"laguntza-fisioterapia/es.txt":  {Data: []byte("Hola")},
			},
		},
		{
			name: "broken frontmatter",
			fs: fstest.MapFS{
				"laguntza-fisioterapia/es.html": {Data: []byte("---\nsubject: [unclosed\n---\n<p>Hola</p>")},
				"laguntza-fisioterapia/es.txt":  {Data: []byte("Hola")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewStore(tt.fs).Resolve("laguntza-fisioterapia", "es")
			require.ErrorIs(t, err, ErrTemplateLoad)
			require.NotErrorIs(t, err, ErrTemplateNotFound)
		})
	}
}

func TestStore_Resolve_FailureIsNotCached(t *testing.T) {
	t.Parallel()

	mfs := fstest.MapFS{
		"laguntza-fisioterapia/es.html": {Data: []byte("---\nsubject: S\n---\n<p>Hola</p>")},
	}
	store := NewStore(mfs)

	_, err := store.Resolve("laguntza-fisioterapia", "es")
	require.ErrorIs(t, err, ErrTemplateLoad)

	mfs["laguntza-fisioterapia/es.txt"] = &fstest.MapFile{Data: []byte("Hola")}
	def, err := store.Resolve("laguntza-fisioterapia", "es")
	require.NoError(t, err)
	require.Equal(t, "S", def.Subject)
}

// countingFS counts file opens. It deliberately hides MapFS.ReadFile so
// every read goes through Open.
type countingFS struct {
	files fstest.MapFS
	opens *atomic.Int32
}

func (c countingFS) Open(name string) (fs.File, error) {
	c.opens.Add(1)
	return c.files.Open(name)
}

func TestStore_Resolve_Caches(t *testing.T) {
	t.Parallel()

	var opens atomic.Int32
	cfs := countingFS{
		files: fstest.MapFS{
			"laguntza-fisioterapia/eu.html": {Data: []byte("---\nsubject: Kaixo\n---\n<p>{{name}}</p>")},
			"laguntza-fisioterapia/eu.txt":  {Data: []byte("{{name}}")},
		},
		opens: &opens,
	}
	store := NewStore(cfs)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			def, err := store.Resolve("laguntza-fisioterapia", "eu")
			if assert.NoError(t, err) {
				assert.Equal(t, "Kaixo", def.Subject)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(2), opens.Load(), "html and txt read once")
}
