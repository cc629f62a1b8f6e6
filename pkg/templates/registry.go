package templates

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Name identifies a registered template.
type Name string

// LaguntzaFisioterapia is the contact-form confirmation sent by the clinic.
const LaguntzaFisioterapia Name = "laguntza-fisioterapia"

// loader reads one language variant of a template from storage.
type loader func(fsys fs.FS, lang Lang) (*Definition, error)

// registry maps every known template to its loader.
var registry = map[Name]loader{
	LaguntzaFisioterapia: assetLoader(LaguntzaFisioterapia),
}

// Definition is one language variant of a template: the subject,
// HTML and plaintext sources, each with {{key}} tokens.
type Definition struct {
	Name    Name
	Lang    Lang
	Subject string
	HTML    string
	Text    string
}

// assetLoader reads <name>/<lang>.html (with subject frontmatter)
// and <name>/<lang>.txt.
func assetLoader(name Name) loader {
	return func(fsys fs.FS, lang Lang) (*Definition, error) {
		base := path.Join(string(name), string(lang))

		htmlSrc, err := fs.ReadFile(fsys, base+".html")
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateLoad, name, err)
		}
		textSrc, err := fs.ReadFile(fsys, base+".txt")
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateLoad, name, err)
		}

		meta, body, err := parseFrontmatter(htmlSrc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTemplateLoad, name, err)
		}
		if strings.TrimSpace(meta.Subject) == "" {
			return nil, fmt.Errorf("%w: %s/%s: missing subject", ErrTemplateLoad, name, lang)
		}

		return &Definition{
			Name:    name,
			Lang:    lang,
			Subject: meta.Subject,
			HTML:    body,
			Text:    string(textSrc),
		}, nil
	}
}
