package layout

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-hasone/pkg/model"
	"github.com/goliatone/go-hasone/pkg/store"
)

// LoadFS walks the provided filesystem and parses JSON/YAML layout files.
// When fsys is nil or no layout files are present, the returned store is
// empty. Form ids and type names must be unique across files.
func LoadFS(fsys fs.FS) (*Store, error) {
	s := &Store{forms: make(map[string]Form)}
	if fsys == nil {
		return s, nil
	}

	seenTypes := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isLayoutFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("layout: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for _, def := range doc.Types {
			name := strings.TrimSpace(def.Name)
			if name == "" {
				return fmt.Errorf("layout: file %s defines a type without a name", path)
			}
			if prev, exists := seenTypes[name]; exists {
				return fmt.Errorf("layout: duplicate type %q (files %s and %s)", name, prev, path)
			}
			seenTypes[name] = path
			def.Name = name
			s.types = append(s.types, def)
		}

		for formID, raw := range doc.Forms {
			id := strings.TrimSpace(formID)
			if id == "" {
				return fmt.Errorf("layout: file %s defines an empty form id", path)
			}
			if _, exists := s.forms[id]; exists {
				return fmt.Errorf("layout: duplicate form %q (file %s)", id, path)
			}
			form, err := normaliseForm(raw, id, path)
			if err != nil {
				return err
			}
			s.forms[id] = form
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Form returns the layout registered under id.
func (s *Store) Form(id string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	form, ok := s.forms[id]
	return form, ok
}

// Forms lists the form ids, sorted.
func (s *Store) Forms() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Types returns the record types declared alongside the forms, in file order.
func (s *Store) Types() []store.TypeDef {
	if s == nil {
		return nil
	}
	return append([]store.TypeDef(nil), s.types...)
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

// Build materialises the form's tabs as a FieldList. Relations are not
// attached; callers pass the list to hasone.AddFieldToTab for each entry in
// Attach once the parent record is known.
func (f Form) Build() *model.FieldList {
	fields := model.NewFieldList()
	for _, tab := range f.Tabs {
		list := fields.EnsureTab(tab.Name)
		for _, cfg := range tab.Fields {
			kind, _ := model.ParseFieldKind(cfg.Kind)
			list.Append(model.Field{
				Name:     cfg.Name,
				Kind:     kind,
				Label:    cfg.Label,
				ReadOnly: cfg.ReadOnly,
				Options:  append([]model.Option(nil), cfg.Options...),
			})
		}
	}
	return fields
}

type documentFile struct {
	Types []store.TypeDef     `json:"types" yaml:"types"`
	Forms map[string]formFile `json:"forms" yaml:"forms"`
}

type formFile struct {
	Type   string       `json:"type" yaml:"type"`
	Tabs   []TabConfig  `json:"tabs" yaml:"tabs"`
	Attach []Attachment `json:"attach" yaml:"attach"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("layout: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("layout: parse %s: invalid JSON or YAML", source)
}

func normaliseForm(raw formFile, id, source string) (Form, error) {
	form := Form{
		ID:     id,
		Source: source,
		Type:   strings.TrimSpace(raw.Type),
	}

	tabs := make(map[string]bool, len(raw.Tabs))
	for idx, tab := range raw.Tabs {
		name := strings.TrimSpace(tab.Name)
		if name == "" {
			return Form{}, fmt.Errorf("layout: form %q (file %s) tab %d has no name", id, source, idx)
		}
		if tabs[name] {
			return Form{}, fmt.Errorf("layout: form %q (file %s) defines duplicate tab %q", id, source, name)
		}
		tabs[name] = true

		cleaned := TabConfig{Name: name, Fields: make([]FieldConfig, 0, len(tab.Fields))}
		for fieldIdx, field := range tab.Fields {
			field.Name = strings.TrimSpace(field.Name)
			if field.Name == "" {
				return Form{}, fmt.Errorf("layout: form %q (file %s) tab %q field %d has no name", id, source, name, fieldIdx)
			}
			if _, ok := model.ParseFieldKind(field.Kind); !ok {
				return Form{}, fmt.Errorf("layout: form %q (file %s) field %q has unknown kind %q", id, source, field.Name, field.Kind)
			}
			field.Options = append([]model.Option(nil), field.Options...)
			cleaned.Fields = append(cleaned.Fields, field)
		}
		form.Tabs = append(form.Tabs, cleaned)
	}

	for idx, attach := range raw.Attach {
		attach.Tab = strings.TrimSpace(attach.Tab)
		attach.Relation = strings.TrimSpace(attach.Relation)
		if attach.Relation == "" {
			return Form{}, fmt.Errorf("layout: form %q (file %s) attachment %d has no relation", id, source, idx)
		}
		if !tabs[attach.Tab] {
			return Form{}, fmt.Errorf("layout: form %q (file %s) attaches %q to unknown tab %q", id, source, attach.Relation, attach.Tab)
		}
		form.Attach = append(form.Attach, attach)
	}

	return form, nil
}

func isLayoutFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
