package hasone

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-hasone/pkg/layout"
	"github.com/goliatone/go-hasone/pkg/openapi"
)

// LoadLayouts parses every JSON/YAML layout file in fsys.
func LoadLayouts(fsys fs.FS) (*layout.Store, error) {
	return layout.LoadFS(fsys)
}

// LoadSchema converts an OpenAPI component into a tab of fields plus its
// declared relationships.
func LoadSchema(ctx context.Context, data []byte, component string, options ...openapi.Option) (*openapi.Schema, error) {
	return openapi.LoadSchema(ctx, data, component, options...)
}
