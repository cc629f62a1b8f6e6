// Package templates holds the registry of named email templates and the
// token renderer that fills them.
//
// Each template has one variant per language (es, eu) stored as
// <name>/<lang>.html and <name>/<lang>.txt. The HTML variant carries the
// subject line in YAML frontmatter:
//
//	---
//	subject: Hemos recibido tu mensaje - Laguntza Fisioterapia
//	---
//	<p>Hola {{name}}</p>
//
// Rendering replaces every {{key}} for which the context has an entry.
// Tokens without an entry stay in the output verbatim, and values are
// inserted without HTML escaping unless RenderOptions.EscapeHTML is set.
//
//	store := templates.NewDefaultStore()
//	def, err := store.Resolve("laguntza-fisioterapia", "eu")
//	if err != nil {
//		return err
//	}
//	out := templates.Render(def, data.RenderContext(), templates.RenderOptions{})
package templates
