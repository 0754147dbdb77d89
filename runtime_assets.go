package docmerge

import (
	"embed"
	"io/fs"
)

//go:embed assets/letter.tpl assets/default.css
var embeddedAssets embed.FS

// Assets exposes the bundled default template and stylesheet so applications
// can serve or copy them without shipping files next to the binary.
func Assets() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// DefaultTemplate returns the bundled letter template, used when a job does
// not name its own.
func DefaultTemplate() string {
	data, err := embeddedAssets.ReadFile("assets/letter.tpl")
	if err != nil {
		return ""
	}
	return string(data)
}

// DefaultStylesheet returns the bundled document stylesheet, including the
// marker highlight rules.
func DefaultStylesheet() string {
	data, err := embeddedAssets.ReadFile("assets/default.css")
	if err != nil {
		return ""
	}
	return string(data)
}
