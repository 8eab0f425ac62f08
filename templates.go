package hasone

import (
	"io/fs"

	vanilla "github.com/goliatone/go-hasone/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the default stylesheet so Go applications can serve it
// next to rendered fields.
//
// Typical mount:
//
//	mux.Handle("/hasone/",
//	  http.StripPrefix("/hasone/",
//	    http.FileServerFS(hasone.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
