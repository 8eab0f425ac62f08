package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/goliatone/go-hasone/pkg/model"
)

// Transformer mutates a FieldList before relations are attached.
// Implementations can relabel fields, toggle read-only flags, or reorder tabs.
type Transformer interface {
	Transform(ctx context.Context, fields *model.FieldList) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, fields *model.FieldList) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, fields *model.FieldList) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, fields)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// The document shape supports per-field patches and per-tab ordering:
//
//	{
//	  "fields": {
//	    "OwnerID": {"label": "Owner", "readOnly": true, "kind": "dropdown"}
//	  },
//	  "order": {"Root.Main": ["Name", "OwnerID"]}
//	}
//
// Field keys match the first field with that name across tabs, or a specific
// tab when written as "Tab:Field".
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Fields map[string]jsonFieldPatch `json:"fields"`
	Order  map[string][]string       `json:"order"`
}

type jsonFieldPatch struct {
	Label      string            `json:"label"`
	Kind       string            `json:"kind"`
	ReadOnly   *bool             `json:"readOnly"`
	Rename     string            `json:"rename"`
	Attributes map[string]string `json:"attributes"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	for key, patch := range document.Fields {
		if _, ok := model.ParseFieldKind(patch.Kind); !ok {
			return nil, fmt.Errorf("json preset transformer: field %q has unknown kind %q", key, patch.Kind)
		}
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied field list.
// Patches run before ordering, in key order, so renames can be referenced by
// the order lists.
func (t *JSONPresetTransformer) Transform(ctx context.Context, fields *model.FieldList) error {
	if fields == nil {
		return errors.New("json preset transformer: field list is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, key := range sortedKeys(t.document.Fields) {
		if err := ctx.Err(); err != nil {
			return err
		}
		field := findField(fields, key)
		if field == nil {
			return fmt.Errorf("json preset transformer: field %q not found", key)
		}
		applyFieldPatch(field, t.document.Fields[key])
	}

	for _, name := range sortedKeys(t.document.Order) {
		tab, ok := fields.Tab(name)
		if !ok {
			return fmt.Errorf("json preset transformer: tab %q not found", name)
		}
		if err := tab.ChangeOrder(t.document.Order[name]); err != nil {
			return fmt.Errorf("json preset transformer: order tab %q: %w", name, err)
		}
	}
	return nil
}

func applyFieldPatch(field *model.Field, patch jsonFieldPatch) {
	if field == nil {
		return
	}
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Kind != "" {
		field.Kind, _ = model.ParseFieldKind(patch.Kind)
	}
	if patch.ReadOnly != nil {
		field.ReadOnly = *patch.ReadOnly
	}
	for key, value := range patch.Attributes {
		field.SetAttribute(key, value)
	}
	if strings.TrimSpace(patch.Rename) != "" {
		field.Name = strings.TrimSpace(patch.Rename)
	}
}

func findField(fields *model.FieldList, key string) *model.Field {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	if tabName, name, ok := strings.Cut(key, ":"); ok {
		tab, exists := fields.Tab(tabName)
		if !exists {
			return nil
		}
		field, _ := tab.FieldNamed(name)
		return field
	}
	field, _, _ := fields.FieldNamed(key)
	return field
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
