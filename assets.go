package profilegen

import (
	"embed"
	"io/fs"
)

//go:embed assets/profilegen.css
var embeddedAssets embed.FS

// AssetsFS exposes the stylesheet the built-in templates are written
// against. Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(profilegen.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
