package render

import (
	"fmt"
	"html"
	"sort"

	"github.com/goliatone/go-hasone/pkg/hasone"
)

// ActionView is a localised action ready for templating.
type ActionView struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Link  string `json:"link"`
}

// FieldView is the template-facing projection of a composite field. Message
// is sanitised HTML; everything else is plain text.
type FieldView struct {
	Name         string            `json:"name"`
	Label        string            `json:"label"`
	ReadOnly     bool              `json:"readOnly"`
	RecordExists bool              `json:"recordExists"`
	RecordTitle  string            `json:"recordTitle"`
	MessageKind  string            `json:"messageKind"`
	Message      string            `json:"message"`
	Before       []ActionView      `json:"before"`
	After        []ActionView      `json:"after"`
	Errors       []string          `json:"errors"`
	CSSVars      []CSSVar          `json:"cssVars"`
	Attributes   map[string]string `json:"attributes"`
}

// CSSVar is a single custom property emitted on the field wrapper.
type CSSVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Actions returns every action in display order.
func (v FieldView) Actions() []ActionView {
	out := make([]ActionView, 0, len(v.Before)+len(v.After))
	out = append(out, v.Before...)
	return append(out, v.After...)
}

// BuildView projects field into a FieldView, applying translations, error
// payloads, and theme CSS variables from opts.
func BuildView(field *hasone.CompositeField, opts RenderOptions) (FieldView, error) {
	if field == nil {
		return FieldView{}, fmt.Errorf("render: composite field is nil")
	}

	model := field.Field()
	view := FieldView{
		Name:         field.Name(),
		Label:        model.Label,
		ReadOnly:     field.ReadOnly(),
		RecordExists: field.RecordExists(),
		Errors:       FieldErrors(opts.Errors, field.Name()),
		Attributes:   model.Attributes,
	}
	if view.Label == "" {
		view.Label = field.Name()
	}
	if view.RecordExists {
		view.RecordTitle = field.Record().Title()
	}

	msg := field.Message()
	view.MessageKind = string(msg.Kind)
	view.Message = SanitizeMessage(translate(opts, messageKey(msg.Kind), msg.HTML, html.EscapeString(msg.ObjectName)))

	for _, action := range field.Actions() {
		item := ActionView{
			Kind:  string(action.Kind),
			Label: translate(opts, actionKey(action.Kind), action.Label),
			Link:  action.Link,
		}
		if action.Before {
			view.Before = append(view.Before, item)
		} else {
			view.After = append(view.After, item)
		}
	}

	if opts.Theme != nil && len(opts.Theme.CSSVars) > 0 {
		names := make([]string, 0, len(opts.Theme.CSSVars))
		for name := range opts.Theme.CSSVars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			view.CSSVars = append(view.CSSVars, CSSVar{Name: name, Value: opts.Theme.CSSVars[name]})
		}
	}

	return view, nil
}

func messageKey(kind hasone.MessageKind) string {
	switch kind {
	case hasone.MessageChoose:
		return KeyMessageChoose
	case hasone.MessageTypeID:
		return KeyMessageTypeID
	default:
		return KeyMessageGeneric
	}
}

func actionKey(kind hasone.ActionKind) string {
	switch kind {
	case hasone.ActionEdit:
		return KeyActionEdit
	case hasone.ActionReplace:
		return KeyActionReplace
	default:
		return KeyActionCreate
	}
}
