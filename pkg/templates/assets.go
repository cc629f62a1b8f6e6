package templates

import (
	"embed"
	"io/fs"
)

//go:embed assets
var assets embed.FS

// Assets returns the embedded template files rooted at the template directories.
func Assets() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err) // embed path is fixed at compile time
	}
	return sub
}
