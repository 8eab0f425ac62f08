package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-hasone/pkg/hasone"
	"github.com/goliatone/go-hasone/pkg/model"
	"github.com/goliatone/go-hasone/pkg/render"
	rendertemplate "github.com/goliatone/go-hasone/pkg/render/template"
	gotemplate "github.com/goliatone/go-hasone/pkg/render/template/gotemplate"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	inlineStylesheet bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithInlineStylesheet embeds the base stylesheet at the top of every
// rendered tab.
func WithInlineStylesheet(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStylesheet = enabled
	}
}

type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	stylesheet string
}

var (
	_ render.Renderer    = (*Renderer)(nil)
	_ render.TabRenderer = (*Renderer)(nil)
)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	r := &Renderer{templates: renderer}
	if cfg.inlineStylesheet {
		r.stylesheet = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render emits the composite field markup.
func (r *Renderer) Render(_ context.Context, field *hasone.CompositeField, opts render.RenderOptions) ([]byte, error) {
	out, err := r.renderComposite(field, nil, opts)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// RenderTab emits every field of tab in order. Style fields become <style>
// blocks, composites go through the field partial, and the remaining fields
// render as plain inputs.
func (r *Renderer) RenderTab(_ context.Context, tab *model.TabFieldList, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if tab == nil {
		return nil, fmt.Errorf("vanilla renderer: tab is nil")
	}

	items := make([]tabItem, 0, tab.Len())
	for _, field := range tab.Fields() {
		item := tabItem{
			Name:       field.Name,
			Kind:       string(field.Kind),
			Label:      field.Label,
			ReadOnly:   field.ReadOnly,
			Options:    field.Options,
			Attributes: field.Attributes,
		}
		if item.Attributes == nil {
			item.Attributes = map[string]string{}
		}
		if item.Label == "" {
			item.Label = field.Name
		}
		if field.Value != nil {
			item.Value = fmt.Sprint(field.Value)
		}

		switch field.Kind {
		case model.FieldKindStyle:
			html, err := r.renderStyle(field, opts)
			if err != nil {
				return nil, err
			}
			item.HTML = html
		case model.FieldKindComposite:
			composite, ok := field.Widget.(*hasone.CompositeField)
			if !ok {
				return nil, fmt.Errorf("vanilla renderer: field %q has no composite widget", field.Name)
			}
			html, err := r.renderComposite(composite, field.Attributes, opts)
			if err != nil {
				return nil, err
			}
			item.HTML = html
		}
		items = append(items, item)
	}

	result, err := r.templates.RenderTemplate(render.PartialFor(opts.Theme, render.PartialTab), map[string]any{
		"tab":        map[string]any{"name": tab.Name(), "items": items},
		"stylesheet": r.stylesheet,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render tab %q: %w", tab.Name(), err)
	}
	return []byte(result), nil
}

type tabItem struct {
	Name       string            `json:"name"`
	Kind       string            `json:"kind"`
	Label      string            `json:"label"`
	ReadOnly   bool              `json:"readOnly"`
	Value      string            `json:"value"`
	Options    []model.Option    `json:"options"`
	Attributes map[string]string `json:"attributes"`
	HTML       string            `json:"html"`
}

func (r *Renderer) renderComposite(field *hasone.CompositeField, extra map[string]string, opts render.RenderOptions) (string, error) {
	if r.templates == nil {
		return "", fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	view, err := render.BuildView(field, opts)
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: %w", err)
	}

	result, err := r.templates.RenderTemplate(render.PartialFor(opts.Theme, render.PartialField), map[string]any{
		"field":      view,
		"attributes": wrapperAttributes(view, extra),
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render field %q: %w", view.Name, err)
	}
	return result, nil
}

func (r *Renderer) renderStyle(field model.Field, opts render.RenderOptions) (string, error) {
	css, _ := field.Value.(string)
	relation := strings.TrimSuffix(field.Name, hasone.StyleFieldSuffix)
	if sheet, ok := field.Widget.(hasone.Stylesheet); ok {
		relation = sheet.Relation
		css = sheet.CSS()
	}

	result, err := r.templates.RenderTemplate(render.PartialFor(opts.Theme, render.PartialStyle), map[string]any{
		"relation": relation,
		"css":      css,
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render style %q: %w", field.Name, err)
	}
	return result, nil
}

// wrapperAttributes merges the field attributes with the tab-level ones and
// prefixes the theme CSS variables onto the style attribute.
func wrapperAttributes(view render.FieldView, extra map[string]string) map[string]string {
	attrs := make(map[string]string, len(view.Attributes)+len(extra)+1)
	for key, value := range view.Attributes {
		attrs[key] = value
	}
	for key, value := range extra {
		attrs[key] = value
	}

	if len(view.CSSVars) > 0 {
		var b strings.Builder
		for _, v := range view.CSSVars {
			fmt.Fprintf(&b, "%s: %s; ", v.Name, v.Value)
		}
		b.WriteString(attrs["style"])
		attrs["style"] = strings.TrimSpace(b.String())
	}
	return attrs
}
