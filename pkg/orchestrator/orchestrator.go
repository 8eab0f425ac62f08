package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-hasone/pkg/entity"
	"github.com/goliatone/go-hasone/pkg/hasone"
	"github.com/goliatone/go-hasone/pkg/layout"
	"github.com/goliatone/go-hasone/pkg/model"
	"github.com/goliatone/go-hasone/pkg/render"
	"github.com/goliatone/go-hasone/pkg/renderers/tui"
	"github.com/goliatone/go-hasone/pkg/renderers/vanilla"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithCatalog supplies the schema catalog used to resolve related types.
func WithCatalog(catalog entity.Catalog) Option {
	return func(o *Orchestrator) {
		o.catalog = catalog
	}
}

// WithFieldOptions registers hasone options applied to every attachment
// before the per-request ones.
func WithFieldOptions(options ...hasone.Option) Option {
	return func(o *Orchestrator) {
		o.fieldOptions = append(o.fieldOptions, options...)
	}
}

// WithSchemaTransformer registers a Transformer that can mutate the field
// list before relations are attached.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithThemeSelector passes a go-theme selector so theme/variant choices can be
// resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithTheme sets the theme and variant requested from the selector when a
// request does not name one.
func WithTheme(name, variant string) Option {
	return func(o *Orchestrator) {
		o.themeName = name
		o.themeVariant = variant
	}
}

// WithLogger routes debug traces to logger. It is also forwarded to the
// hasone package.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the pipeline from a field list to rendered output.
// It applies sensible defaults (vanilla and tui renderers, vanilla default)
// while remaining open to dependency injection for advanced callers.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	catalog         entity.Catalog
	fieldOptions    []hasone.Option
	transformer     Transformer
	themeSelector   theme.ThemeSelector
	themeName       string
	themeVariant    string
	logger          *slog.Logger
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes a single relation to attach and render.
type Request struct {
	// Fields holds the tabs; the named Tab is modified in place.
	Fields   *model.FieldList
	Tab      string
	Relation string
	Parent   entity.Entity

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string

	// FieldOptions are appended after the orchestrator-wide options.
	FieldOptions []hasone.Option

	// ThemeName and ThemeVariant override WithTheme for this request. They
	// are ignored when RenderOptions.Theme is already set.
	ThemeName    string
	ThemeVariant string

	RenderOptions render.RenderOptions
}

// Result carries the attached composite and its rendered bytes.
type Result struct {
	Field       *hasone.CompositeField
	Output      []byte
	ContentType string
}

// Generate attaches req.Relation to req.Tab and renders the resulting
// composite field.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if err := o.ready(ctx); err != nil {
		return Result{}, err
	}
	if req.Fields == nil {
		return Result{}, errors.New("orchestrator: field list is required")
	}

	// The transformer works on a copy; req.Fields only changes once the
	// attach succeeded.
	working := req.Fields
	if o.transformer != nil {
		working = req.Fields.Clone()
	}
	if err := o.applyTransformer(ctx, working); err != nil {
		return Result{}, err
	}

	field, err := hasone.AddFieldToTab(ctx, working, req.Tab, req.Relation, req.Parent, o.optionsFor(req.FieldOptions)...)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: attach %q: %w", req.Relation, err)
	}
	req.Fields.ReplaceWith(working)

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return Result{}, err
	}
	opts, err := o.themed(req.RenderOptions, req.ThemeName, req.ThemeVariant)
	if err != nil {
		return Result{}, err
	}

	output, err := renderer.Render(ctx, field, opts)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: render output: %w", err)
	}
	o.logger.Debug("orchestrator: rendered field",
		slog.String("relation", field.Name()),
		slog.String("renderer", renderer.Name()),
		slog.Int("bytes", len(output)),
	)
	return Result{Field: field, Output: output, ContentType: renderer.ContentType()}, nil
}

// FormRequest renders a whole layout form for one parent record.
type FormRequest struct {
	Form          layout.Form
	Parent        entity.Entity
	Renderer      string
	FieldOptions  []hasone.Option
	ThemeName     string
	ThemeVariant  string
	RenderOptions render.RenderOptions
}

// FormResult carries the built field list, every attached composite, and
// the rendered output.
type FormResult struct {
	Fields      *model.FieldList
	Composites  []*hasone.CompositeField
	Output      []byte
	ContentType string
}

// GenerateForm builds req.Form, attaches each configured relation, and
// renders the result. Renderers implementing render.TabRenderer render every
// tab in order; the others render one document per composite.
func (o *Orchestrator) GenerateForm(ctx context.Context, req FormRequest) (FormResult, error) {
	if err := o.ready(ctx); err != nil {
		return FormResult{}, err
	}

	fields := req.Form.Build()
	if err := o.applyTransformer(ctx, fields); err != nil {
		return FormResult{}, err
	}

	result := FormResult{Fields: fields}
	for _, attach := range req.Form.Attach {
		options := o.optionsFor(req.FieldOptions)
		if attach.ReadOnly {
			options = append(options, hasone.WithReadOnly(true))
		}
		field, err := hasone.AddFieldToTab(ctx, fields, attach.Tab, attach.Relation, req.Parent, options...)
		if err != nil {
			return FormResult{}, fmt.Errorf("orchestrator: form %q attach %q: %w", req.Form.ID, attach.Relation, err)
		}
		result.Composites = append(result.Composites, field)
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return FormResult{}, err
	}
	opts, err := o.themed(req.RenderOptions, req.ThemeName, req.ThemeVariant)
	if err != nil {
		return FormResult{}, err
	}

	var buf bytes.Buffer
	if tabs, ok := renderer.(render.TabRenderer); ok {
		for _, name := range fields.Tabs() {
			tab, _ := fields.Tab(name)
			out, err := tabs.RenderTab(ctx, tab, opts)
			if err != nil {
				return FormResult{}, fmt.Errorf("orchestrator: render tab %q: %w", name, err)
			}
			buf.Write(out)
		}
	} else {
		for _, field := range result.Composites {
			out, err := renderer.Render(ctx, field, opts)
			if err != nil {
				return FormResult{}, fmt.Errorf("orchestrator: render %q: %w", field.Name(), err)
			}
			buf.Write(out)
			if !bytes.HasSuffix(out, []byte("\n")) {
				buf.WriteByte('\n')
			}
		}
	}

	result.Output = buf.Bytes()
	result.ContentType = renderer.ContentType()
	return result, nil
}

// Renderer returns the renderer Generate would use for name.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	return o.rendererFor(name)
}

func (o *Orchestrator) ready(ctx context.Context) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := o.initialiseErr; err != nil {
		return err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
		return o.initialiseErr
	}
	return nil
}

func (o *Orchestrator) optionsFor(extra []hasone.Option) []hasone.Option {
	options := make([]hasone.Option, 0, len(o.fieldOptions)+len(extra)+2)
	options = append(options, hasone.WithLogger(o.logger))
	if o.catalog != nil {
		options = append(options, hasone.WithCatalog(o.catalog))
	}
	options = append(options, o.fieldOptions...)
	return append(options, extra...)
}

func (o *Orchestrator) themed(opts render.RenderOptions, name, variant string) (render.RenderOptions, error) {
	if opts.Theme != nil || o.themeSelector == nil {
		return opts, nil
	}
	if name == "" {
		name = o.themeName
	}
	if variant == "" {
		variant = o.themeVariant
	}
	cfg, err := render.ResolveTheme(o.themeSelector, name, variant)
	if err != nil {
		return opts, fmt.Errorf("orchestrator: %w", err)
	}
	opts.Theme = cfg
	return opts, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	renderer, err := o.registry.Resolve("")
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, fields *model.FieldList) error {
	if o.transformer == nil || fields == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, fields); err != nil {
		return fmt.Errorf("orchestrator: transform fields: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		html, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(html)
		}
		terminal, err := tui.New()
		if err != nil && o.initialiseErr == nil {
			o.initialiseErr = fmt.Errorf("orchestrator: tui renderer: %w", err)
		} else if err == nil {
			o.registry.MustRegister(terminal)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}

	o.defaultsApplied = true
}
