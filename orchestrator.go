package hasone

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-hasone/pkg/entity"
	pkghasone "github.com/goliatone/go-hasone/pkg/hasone"
	"github.com/goliatone/go-hasone/pkg/model"
	"github.com/goliatone/go-hasone/pkg/orchestrator"
	"github.com/goliatone/go-hasone/pkg/render"
)

// CompositeField aliases the spliced has-one field.
type CompositeField = pkghasone.CompositeField

// FieldOption configures how a relation is attached.
type FieldOption = pkghasone.Option

// RenderOptions describes per-request overrides that renderers can use to
// localise labels or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request for callers using the root package.
type Request = orchestrator.Request

// Result aliases orchestrator.Result.
type Result = orchestrator.Result

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// AttachAndRender splices relation into the named tab of fields and renders
// the composite with the named renderer. It is the simplest entry point for
// callers that just want HTML output.
func AttachAndRender(ctx context.Context, fields *model.FieldList, tab, relation string, parent entity.Entity, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	res, err := gen.Generate(ctx, orchestrator.Request{
		Fields:   fields,
		Tab:      tab,
		Relation: relation,
		Parent:   parent,
		Renderer: rendererName,
	})
	if err != nil {
		return nil, err
	}
	return res.Output, nil
}

// WithCatalog forwards the schema catalog used to resolve related types.
func WithCatalog(catalog entity.Catalog) orchestrator.Option {
	return orchestrator.WithCatalog(catalog)
}

// WithFieldOptions forwards hasone options applied to every attachment.
func WithFieldOptions(options ...FieldOption) orchestrator.Option {
	return orchestrator.WithFieldOptions(options...)
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithTheme selects the default theme and variant requested from the
// selector.
func WithTheme(name, variant string) orchestrator.Option {
	return orchestrator.WithTheme(name, variant)
}
