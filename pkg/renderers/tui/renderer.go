package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-hasone/pkg/entity"
	"github.com/goliatone/go-hasone/pkg/hasone"
	"github.com/goliatone/go-hasone/pkg/render"
)

// Renderer implements render.Renderer for terminal sessions. Render prints a
// summary of the field; Interact lets the user pick and perform an action.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain"
	}
	return "application/json"
}

// Summary is the terminal projection of a composite field.
type Summary struct {
	Relation string          `json:"relation"`
	Label    string          `json:"label"`
	ReadOnly bool            `json:"readOnly"`
	Record   string          `json:"record,omitempty"`
	Message  string          `json:"message,omitempty"`
	Actions  []SummaryAction `json:"actions,omitempty"`
	Errors   []string        `json:"errors,omitempty"`
}

// SummaryAction is a single action in a Summary.
type SummaryAction struct {
	Kind  hasone.ActionKind `json:"kind"`
	Label string            `json:"label"`
	Link  string            `json:"link,omitempty"`
}

// Render serialises the field summary without prompting.
func (r *Renderer) Render(ctx context.Context, field *hasone.CompositeField, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary, err := Summarize(field, opts)
	if err != nil {
		return nil, err
	}
	if r.outputFormat == OutputFormatPrettyText {
		return []byte(summary.String()), nil
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: encode summary: %w", err)
	}
	return data, nil
}

// Summarize builds the localised Summary for field. Markup in the prompt is
// stripped to plain text.
func Summarize(field *hasone.CompositeField, opts render.RenderOptions) (Summary, error) {
	view, err := render.BuildView(field, opts)
	if err != nil {
		return Summary{}, fmt.Errorf("tui: %w", err)
	}

	summary := Summary{
		Relation: view.Name,
		Label:    view.Label,
		ReadOnly: view.ReadOnly,
		Record:   view.RecordTitle,
		Message:  plainText(view.Message),
		Errors:   view.Errors,
	}
	for _, action := range view.Actions() {
		summary.Actions = append(summary.Actions, SummaryAction{
			Kind:  hasone.ActionKind(action.Kind),
			Label: action.Label,
			Link:  action.Link,
		})
	}
	return summary, nil
}

// String renders the summary as indented text.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:", s.Label)
	if s.Record != "" {
		fmt.Fprintf(&b, " %s", s.Record)
	} else {
		b.WriteString(" (none)")
	}
	if s.ReadOnly {
		b.WriteString(" [read-only]")
	}
	b.WriteByte('\n')
	if s.Message != "" {
		fmt.Fprintf(&b, "  %s\n", s.Message)
	}
	for _, action := range s.Actions {
		fmt.Fprintf(&b, "  - %s", action.Label)
		if action.Link != "" {
			fmt.Fprintf(&b, " (%s)", action.Link)
		}
		b.WriteByte('\n')
	}
	for _, message := range s.Errors {
		fmt.Fprintf(&b, "  ! %s\n", message)
	}
	return b.String()
}

// CreateFunc stores a new related record titled title.
type CreateFunc func(ctx context.Context, title string) (entity.Record, error)

// Interact prints the field summary, asks the user to pick an action, and
// performs it. Create and replace prompt for a title, store the record via
// create, and link it through the field. Replace asks for confirmation
// before unlinking the current record. Picking "Cancel" or declining the
// confirmation returns an empty kind and no error.
func (r *Renderer) Interact(ctx context.Context, field *hasone.CompositeField, opts render.RenderOptions, create CreateFunc) (hasone.ActionKind, error) {
	summary, err := Summarize(field, opts)
	if err != nil {
		return "", err
	}
	if err := r.driver.Info(ctx, r.theme.InfoPrefix+strings.TrimRight(summary.String(), "\n")); err != nil {
		return "", err
	}
	if len(summary.Actions) == 0 {
		return "", ErrNoActions
	}

	labels := make([]string, 0, len(summary.Actions)+1)
	for _, action := range summary.Actions {
		labels = append(labels, action.Label)
	}
	labels = append(labels, "Cancel")

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: r.theme.PromptPrefix + summary.Label,
		Options: labels,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(summary.Actions) {
		return "", nil
	}

	action := summary.Actions[idx]
	switch action.Kind {
	case hasone.ActionCreate, hasone.ActionReplace:
		if create == nil {
			return "", ErrCreateRequired
		}
		if action.Kind == hasone.ActionReplace {
			ok, err := r.driver.Confirm(ctx, ConfirmConfig{
				Message: r.theme.PromptPrefix + fmt.Sprintf("Unlink %s?", summary.Record),
				Default: false,
			})
			if err != nil {
				return "", err
			}
			if !ok {
				return "", nil
			}
		}
		title, err := r.driver.Input(ctx, InputConfig{
			Message:   r.theme.PromptPrefix + "Title",
			Validator: requireText,
		})
		if err != nil {
			return "", err
		}
		record, err := create(ctx, strings.TrimSpace(title))
		if err != nil {
			return "", fmt.Errorf("tui: create record: %w", err)
		}
		if err := field.Invoke(ctx, action.Kind, record); err != nil {
			return "", err
		}
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+fmt.Sprintf("Linked %s", record.Title())); err != nil {
			return "", err
		}
	case hasone.ActionEdit:
		if err := field.Invoke(ctx, action.Kind, nil); err != nil {
			return "", err
		}
		if action.Link != "" {
			if err := r.driver.Info(ctx, r.theme.InfoPrefix+"Edit at "+action.Link); err != nil {
				return "", err
			}
		}
	}
	return action.Kind, nil
}

func requireText(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("a title is required")
	}
	return nil
}

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

func plainText(markup string) string {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(markup)))
}
