package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-hasone/pkg/layout"
	"github.com/goliatone/go-hasone/pkg/model"
	"github.com/goliatone/go-hasone/pkg/store"
)

const (
	// OrderExtensionKey lists property names in display order.
	OrderExtensionKey = "x-formgen-order"
	// RelationshipExtensionKey carries relationship metadata on a property.
	RelationshipExtensionKey = "x-relationships"
	// SingularExtensionKey overrides the singular name of the record type.
	SingularExtensionKey = "x-singular-name"

	defaultTabName = "Root.Main"
)

// Option configures LoadSchema.
type Option func(*config)

type config struct {
	tabName      string
	externalRefs bool
}

// WithTabName names the generated tab. Defaults to "Root.Main".
func WithTabName(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.tabName = trimmed
		}
	}
}

// WithExternalRefs allows the loader to follow external $ref pointers.
func WithExternalRefs(enabled bool) Option {
	return func(cfg *config) {
		cfg.externalRefs = enabled
	}
}

// Schema is the form-facing view of one component.
type Schema struct {
	Component string
	// Singular comes from x-singular-name, falling back to the title.
	Singular      string
	Tab           *model.TabFieldList
	Relationships []model.Relationship
}

// TypeDef returns the store definition for the component, declaring every
// has-one relationship.
func (s *Schema) TypeDef() store.TypeDef {
	def := store.TypeDef{Name: s.Component, Singular: s.Singular}
	for _, rel := range s.HasOne() {
		if def.HasOne == nil {
			def.HasOne = make(map[string]string)
		}
		def.HasOne[rel.Name] = rel.Target
	}
	return def
}

// HasOne filters Relationships down to has-one entries.
func (s *Schema) HasOne() []model.Relationship {
	var out []model.Relationship
	for _, rel := range s.Relationships {
		if rel.Kind == model.RelationshipHasOne {
			out = append(out, rel)
		}
	}
	return out
}

// Form converts the schema into a layout form with one tab and an
// attachment for every has-one relationship whose `<Name>ID` field is
// present. A foreign key under another name is not an anchor. Field values are not carried over.
func (s *Schema) Form() layout.Form {
	tab := layout.TabConfig{Name: s.Tab.Name()}
	for _, field := range s.Tab.Fields() {
		tab.Fields = append(tab.Fields, layout.FieldConfig{
			Name:     field.Name,
			Kind:     string(field.Kind),
			Label:    field.Label,
			ReadOnly: field.ReadOnly,
			Options:  append([]model.Option(nil), field.Options...),
		})
	}

	form := layout.Form{
		ID:   s.Component,
		Type: s.Component,
		Tabs: []layout.TabConfig{tab},
	}
	for _, rel := range s.HasOne() {
		if s.Tab.IndexOf(model.IDFieldName(rel.Name)) < 0 {
			continue
		}
		form.Attach = append(form.Attach, layout.Attachment{Tab: tab.Name, Relation: rel.Name})
	}
	return form
}

// LoadSchema parses data (JSON or YAML) and converts components.schemas
// [component] into a tab of fields. Fields follow x-formgen-order, with
// unlisted properties appended in name order.
func LoadSchema(ctx context.Context, data []byte, component string, options ...Option) (*Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	cfg := config{tabName: defaultTabName}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: cfg.externalRefs,
	}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("openapi: component %q not found", component)
	}
	ref, ok := doc.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: component %q not found", component)
	}
	src := ref.Value

	out := &Schema{
		Component: component,
		Tab:       model.NewTabFieldList(cfg.tabName),
	}
	for _, name := range propertyOrder(src) {
		prop := src.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		out.Tab.Append(convertProperty(name, prop.Value))

		if rel, ok := relationshipFor(name, prop.Value.Extensions); ok {
			out.Relationships = append(out.Relationships, *rel)
		}
	}

	singular, _ := src.Extensions[SingularExtensionKey].(string)
	if singular == "" {
		singular = src.Title
	}
	out.Singular = strings.TrimSpace(singular)
	return out, nil
}

func propertyOrder(src *openapi3.Schema) []string {
	order := make([]string, 0, len(src.Properties))
	seen := make(map[string]bool, len(src.Properties))
	if raw, ok := src.Extensions[OrderExtensionKey].([]any); ok {
		for _, entry := range raw {
			name, _ := entry.(string)
			if _, exists := src.Properties[name]; !exists || seen[name] {
				continue
			}
			seen[name] = true
			order = append(order, name)
		}
	}

	var rest []string
	for name := range src.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func convertProperty(name string, src *openapi3.Schema) model.Field {
	field := model.Field{
		Name:     name,
		Label:    strings.TrimSpace(src.Title),
		ReadOnly: src.ReadOnly,
	}
	if src.Default != nil {
		field.Value = src.Default
	}

	switch {
	case len(src.Enum) > 0:
		field.Kind = model.FieldKindChoice
		for _, value := range src.Enum {
			text := fmt.Sprint(value)
			field.Options = append(field.Options, model.Option{Value: text, Label: text})
		}
	case src.Type != nil && (src.Type.Is(openapi3.TypeInteger) || src.Type.Is(openapi3.TypeNumber)):
		field.Kind = model.FieldKindNumeric
	case src.Type != nil && src.Type.Is(openapi3.TypeString):
		field.Kind = model.FieldKindText
	default:
		field.Kind = model.FieldKindUnknown
	}
	return field
}

// relationshipFor reads x-relationships from a property. Identifier
// properties (`<R>ID`) name the relation after their prefix.
func relationshipFor(property string, extensions map[string]any) (*model.Relationship, bool) {
	raw, ok := extensions[RelationshipExtensionKey].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil, false
	}
	metadata := make(map[string]string, len(raw))
	for key, value := range raw {
		if text, ok := value.(string); ok {
			metadata[key] = text
		}
	}

	name := property
	if prefix, ok := model.RelationFromIDField(property); ok {
		name = prefix
	}
	return model.RelationshipFromMetadata(name, metadata)
}
