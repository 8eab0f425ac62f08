package layout

import (
	"github.com/goliatone/go-hasone/pkg/model"
	"github.com/goliatone/go-hasone/pkg/store"
)

// Store holds every form and record type found by LoadFS.
type Store struct {
	forms map[string]Form
	types []store.TypeDef
}

// Form is a single named layout.
type Form struct {
	ID     string
	Source string
	// Type names the record type edited by the form.
	Type   string
	Tabs   []TabConfig
	Attach []Attachment
}

// TabConfig lists the fields of one tab in display order.
type TabConfig struct {
	Name   string        `json:"name" yaml:"name"`
	Fields []FieldConfig `json:"fields" yaml:"fields"`
}

// FieldConfig declares a field. Kind accepts the aliases understood by
// model.ParseFieldKind.
type FieldConfig struct {
	Name     string         `json:"name" yaml:"name"`
	Kind     string         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Label    string         `json:"label,omitempty" yaml:"label,omitempty"`
	ReadOnly bool           `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	Options  []model.Option `json:"options,omitempty" yaml:"options,omitempty"`
}

// Attachment requests a has-one composite for Relation in Tab.
type Attachment struct {
	Tab      string `json:"tab" yaml:"tab"`
	Relation string `json:"relation" yaml:"relation"`
	ReadOnly bool   `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
}
