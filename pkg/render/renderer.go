package render

import (
	"context"

	"github.com/goliatone/go-hasone/pkg/hasone"
	"github.com/goliatone/go-hasone/pkg/model"
)

// Renderer converts a has-one composite field into a byte representation
// (HTML, plain text, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, field *hasone.CompositeField, options RenderOptions) ([]byte, error)
}

// TabRenderer is implemented by renderers that can lay out a whole tab,
// including the anchor fields and generated stylesheets around composites.
type TabRenderer interface {
	RenderTab(ctx context.Context, tab *model.TabFieldList, options RenderOptions) ([]byte, error)
}
