package model

// FieldKind is the simplified enum for form-friendly field kinds.
type FieldKind string

const (
	FieldKindUnknown   FieldKind = ""
	FieldKindText      FieldKind = "text"
	FieldKindChoice    FieldKind = "choice"
	FieldKindNumeric   FieldKind = "numeric"
	FieldKindStyle     FieldKind = "style"
	FieldKindComposite FieldKind = "composite"
)

// ParseFieldKind maps loose kind names from layout files and schema adapters
// onto the canonical enum. Unknown names report false.
func ParseFieldKind(raw string) (FieldKind, bool) {
	switch normaliseKey(raw) {
	case "", "unknown":
		return FieldKindUnknown, true
	case "text", "string", "textarea":
		return FieldKindText, true
	case "choice", "dropdown", "select", "enum":
		return FieldKindChoice, true
	case "numeric", "number", "integer", "id":
		return FieldKindNumeric, true
	case "style", "literal":
		return FieldKindStyle, true
	case "composite", "hasone":
		return FieldKindComposite, true
	default:
		return FieldKindUnknown, false
	}
}

// Option is a single entry offered by a choice field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field models an individual input inside a tab. Struct fields are annotated
// so renderers and golden tests can serialise them directly.
type Field struct {
	Name       string            `json:"name"`
	Kind       FieldKind         `json:"kind,omitempty"`
	Label      string            `json:"label,omitempty"`
	ReadOnly   bool              `json:"readOnly,omitempty"`
	Value      any               `json:"value,omitempty"`
	Options    []Option          `json:"options,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	// Widget carries renderer-specific payloads (the composite field, the
	// generated stylesheet). It is never serialised.
	Widget any `json:"-"`
}

// Attribute returns the named attribute or an empty string.
func (f Field) Attribute(name string) string {
	if f.Attributes == nil {
		return ""
	}
	return f.Attributes[name]
}

// SetAttribute stores an attribute value, allocating the map on first use.
func (f *Field) SetAttribute(name, value string) {
	if f == nil {
		return
	}
	if f.Attributes == nil {
		f.Attributes = make(map[string]string)
	}
	f.Attributes[name] = value
}

// Clone returns a copy of f that shares no maps or slices with it.
func (f Field) Clone() Field {
	cloned := f
	if f.Attributes != nil {
		cloned.Attributes = make(map[string]string, len(f.Attributes))
		for key, value := range f.Attributes {
			cloned.Attributes[key] = value
		}
	}
	if f.Options != nil {
		cloned.Options = append([]Option(nil), f.Options...)
	}
	return cloned
}
