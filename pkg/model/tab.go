package model

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldNotFound reports a lookup against a name missing from the tab.
	ErrFieldNotFound = errors.New("model: field not found")
	// ErrIndexOutOfRange reports a positional insert outside [0, Len()].
	ErrIndexOutOfRange = errors.New("model: index out of range")
)

// TabFieldList is the ordered set of fields rendered inside one tab. Order
// drives layout. Names are expected to be unique but the list does not
// enforce it; name lookups resolve to the first match.
type TabFieldList struct {
	name   string
	fields []Field
}

// NewTabFieldList constructs a tab seeded with the provided fields.
func NewTabFieldList(name string, fields ...Field) *TabFieldList {
	tab := &TabFieldList{name: name}
	for _, field := range fields {
		tab.fields = append(tab.fields, field.Clone())
	}
	return tab
}

// Name returns the tab path (e.g. "Root.Main").
func (t *TabFieldList) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Len reports the number of fields in the tab.
func (t *TabFieldList) Len() int {
	if t == nil {
		return 0
	}
	return len(t.fields)
}

// Append adds the field at the end of the tab.
func (t *TabFieldList) Append(field Field) {
	t.fields = append(t.fields, field)
}

// InsertAt splices fields in at index, shifting the remainder right.
// index == Len() appends.
func (t *TabFieldList) InsertAt(index int, fields ...Field) error {
	if index < 0 || index > len(t.fields) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(t.fields))
	}
	if len(fields) == 0 {
		return nil
	}

	out := make([]Field, 0, len(t.fields)+len(fields))
	out = append(out, t.fields[:index]...)
	out = append(out, fields...)
	out = append(out, t.fields[index:]...)
	t.fields = out
	return nil
}

// InsertAfter places field directly after the first field named anchor.
func (t *TabFieldList) InsertAfter(anchor string, field Field) error {
	idx := t.IndexOf(anchor)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, anchor)
	}
	return t.InsertAt(idx+1, field)
}

// InsertBefore places field directly before the first field named next. An
// empty next appends, matching the "anchor is last" case.
func (t *TabFieldList) InsertBefore(next string, field Field) error {
	if next == "" {
		t.Append(field)
		return nil
	}
	idx := t.IndexOf(next)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, next)
	}
	return t.InsertAt(idx, field)
}

// IndexOf returns the position of the first field named name, or -1.
func (t *TabFieldList) IndexOf(name string) int {
	if t == nil {
		return -1
	}
	for i := range t.fields {
		if t.fields[i].Name == name {
			return i
		}
	}
	return -1
}

// FieldNamed returns a pointer into the tab for in-place updates.
func (t *TabFieldList) FieldNamed(name string) (*Field, bool) {
	idx := t.IndexOf(name)
	if idx < 0 {
		return nil, false
	}
	return &t.fields[idx], true
}

// At returns the field at index.
func (t *TabFieldList) At(index int) (*Field, bool) {
	if t == nil || index < 0 || index >= len(t.fields) {
		return nil, false
	}
	return &t.fields[index], true
}

// Names lists field names in render order.
func (t *TabFieldList) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.fields))
	for i := range t.fields {
		names[i] = t.fields[i].Name
	}
	return names
}

// Fields returns a copy of the fields in render order.
func (t *TabFieldList) Fields() []Field {
	if t == nil {
		return nil
	}
	out := make([]Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// ChangeOrder moves the named fields to the front of the tab in the given
// order. Fields not listed keep their relative order after them. Each listed
// name claims the next unclaimed field with that name, so duplicates can be
// ordered by repeating the name.
func (t *TabFieldList) ChangeOrder(names []string) error {
	claimed := make([]bool, len(t.fields))
	ordered := make([]Field, 0, len(t.fields))

	for _, name := range names {
		found := false
		for i := range t.fields {
			if claimed[i] || t.fields[i].Name != name {
				continue
			}
			claimed[i] = true
			ordered = append(ordered, t.fields[i])
			found = true
			break
		}
		if !found {
			return fmt.Errorf("%w: %q", ErrFieldNotFound, name)
		}
	}
	for i := range t.fields {
		if !claimed[i] {
			ordered = append(ordered, t.fields[i])
		}
	}

	t.fields = ordered
	return nil
}

// Clone returns a deep copy of the tab. Widget payloads are shared.
func (t *TabFieldList) Clone() *TabFieldList {
	if t == nil {
		return nil
	}
	return NewTabFieldList(t.name, t.fields...)
}
