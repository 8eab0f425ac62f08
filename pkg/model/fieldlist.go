package model

import (
	"fmt"
	"strings"
)

// FieldList groups tabs by path in the order they were first created.
type FieldList struct {
	order []string
	tabs  map[string]*TabFieldList
}

// NewFieldList constructs an empty field list.
func NewFieldList() *FieldList {
	return &FieldList{tabs: make(map[string]*TabFieldList)}
}

// Tab returns the tab registered under name.
func (l *FieldList) Tab(name string) (*TabFieldList, bool) {
	if l == nil {
		return nil, false
	}
	tab, ok := l.tabs[strings.TrimSpace(name)]
	return tab, ok
}

// EnsureTab returns the named tab, creating it when missing.
func (l *FieldList) EnsureTab(name string) *TabFieldList {
	key := strings.TrimSpace(name)
	if tab, ok := l.tabs[key]; ok {
		return tab
	}
	if l.tabs == nil {
		l.tabs = make(map[string]*TabFieldList)
	}
	tab := NewTabFieldList(key)
	l.tabs[key] = tab
	l.order = append(l.order, key)
	return tab
}

// AddFieldToTab appends field to the named tab, creating the tab on demand.
func (l *FieldList) AddFieldToTab(tab string, field Field) error {
	if strings.TrimSpace(tab) == "" {
		return fmt.Errorf("model: tab name is required")
	}
	if strings.TrimSpace(field.Name) == "" {
		return fmt.Errorf("model: field name is required (tab %q)", tab)
	}
	l.EnsureTab(tab).Append(field)
	return nil
}

// Tabs returns tab names in creation order.
func (l *FieldList) Tabs() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.order...)
}

// FieldNamed searches every tab, in order, for the first field named name.
func (l *FieldList) FieldNamed(name string) (*Field, string, bool) {
	if l == nil {
		return nil, "", false
	}
	for _, key := range l.order {
		if field, ok := l.tabs[key].FieldNamed(name); ok {
			return field, key, true
		}
	}
	return nil, "", false
}

// Clone returns a deep copy of the list. Widget payloads are shared.
func (l *FieldList) Clone() *FieldList {
	out := NewFieldList()
	if l == nil {
		return out
	}
	for _, key := range l.order {
		out.order = append(out.order, key)
		out.tabs[key] = l.tabs[key].Clone()
	}
	return out
}

// ReplaceWith overwrites l with the tabs and fields of other. Tabs present
// in both keep their identity so callers holding them see the new fields.
func (l *FieldList) ReplaceWith(other *FieldList) {
	if l == nil || other == nil || l == other {
		return
	}
	tabs := make(map[string]*TabFieldList, len(other.order))
	for _, key := range other.order {
		tab, ok := l.tabs[key]
		if !ok {
			tab = NewTabFieldList(key)
		}
		tab.fields = other.tabs[key].Clone().fields
		tabs[key] = tab
	}
	l.order = append([]string(nil), other.order...)
	l.tabs = tabs
}
