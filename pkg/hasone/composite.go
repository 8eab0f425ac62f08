package hasone

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/goliatone/go-hasone/pkg/entity"
	"github.com/goliatone/go-hasone/pkg/model"
)

// ActionKind identifies an inline action offered by a CompositeField.
type ActionKind string

const (
	ActionCreate  ActionKind = "create"
	ActionEdit    ActionKind = "edit"
	ActionReplace ActionKind = "replace"
)

// dropdownThreshold mirrors the host heuristic: related types with fewer
// records are offered as a dropdown, larger ones as a numeric ID input.
const dropdownThreshold = 100

// Action is a renderer-facing descriptor for one button.
type Action struct {
	Kind  ActionKind `json:"kind"`
	Label string     `json:"label"`
	Link  string     `json:"link,omitempty"`
	// Before places the action ahead of the message's trailing fragment.
	Before bool `json:"before,omitempty"`
}

// MessageKind selects the prompt shown above the actions.
type MessageKind string

const (
	MessageChoose  MessageKind = "choose"
	MessageTypeID  MessageKind = "type-id"
	MessageGeneric MessageKind = "generic"
)

// Message is the prompt rendered above the actions. HTML carries inline
// emphasis around the escaped object name.
type Message struct {
	Kind       MessageKind `json:"kind"`
	ObjectName string      `json:"objectName"`
	HTML       string      `json:"html"`
}

// CompositeField is the widget inserted next to a relation's identifier
// field. Construct it through Attach.
type CompositeField struct {
	relation  string
	parent    entity.Entity
	anchor    model.Field
	record    entity.Record
	schema    entity.Schema
	canCreate bool
	count     int
	readOnly  bool
	baseLink  string
	logger    *slog.Logger
}

func newCompositeField(ctx context.Context, relation string, parent entity.Entity, anchor model.Field, cfg config) (*CompositeField, error) {
	record, err := parent.Related(ctx, relation)
	if err != nil {
		return nil, fmt.Errorf("hasone: load related %q: %w", relation, err)
	}

	field := &CompositeField{
		relation:  relation,
		parent:    parent,
		anchor:    anchor,
		record:    record,
		canCreate: true,
		count:     -1,
		readOnly:  cfg.readOnly,
		baseLink:  cfg.baseLink,
		logger:    cfg.logger,
	}

	if cfg.catalog != nil {
		if schema, ok := cfg.catalog.Schema(parent.RelationTarget(relation)); ok && schema != nil {
			field.schema = schema
			field.canCreate = schema.CanCreate(ctx)
			if count, err := schema.Count(ctx); err == nil {
				field.count = count
			} else {
				cfg.logger.Debug("hasone: related count unavailable",
					slog.String("relation", relation), slog.Any("error", err))
			}
		}
	}

	return field, nil
}

// Name returns the relation name, which is also the field name.
func (c *CompositeField) Name() string {
	return c.relation
}

// Anchor returns the identifier field snapshot taken at attach time.
func (c *CompositeField) Anchor() model.Field {
	return c.anchor
}

// Record returns the currently related record, which may be nil.
func (c *CompositeField) Record() entity.Record {
	return c.record
}

// RecordExists reports whether a persisted record is linked.
func (c *CompositeField) RecordExists() bool {
	return entity.RecordExists(c.record)
}

// ReadOnly reports whether the field is view-only.
func (c *CompositeField) ReadOnly() bool {
	return c.readOnly || c.anchor.ReadOnly
}

// PerformReadonlyTransformation returns a view-only copy of the field.
func (c *CompositeField) PerformReadonlyTransformation() *CompositeField {
	clone := *c
	clone.readOnly = true
	return &clone
}

// Field wraps the composite as a model field for insertion into a tab.
func (c *CompositeField) Field() model.Field {
	field := model.Field{
		Name:     c.relation,
		Kind:     model.FieldKindComposite,
		Label:    c.anchor.Label,
		ReadOnly: c.ReadOnly(),
		Widget:   c,
	}
	field.SetAttribute(AttrRelation, c.relation)
	return field
}

// Actions lists the buttons available in the field's current state.
func (c *CompositeField) Actions() []Action {
	if c.ReadOnly() || !c.canCreate {
		return nil
	}

	if c.RecordExists() {
		return []Action{
			{
				Kind:   ActionEdit,
				Label:  "Edit existing",
				Link:   c.href("item", strconv.FormatInt(c.record.ID(), 10), "edit"),
				Before: true,
			},
			{
				Kind:  ActionReplace,
				Label: "Unlink existing and add new",
				Link:  c.href("item", "new"),
			},
		}
	}

	return []Action{
		{
			Kind:  ActionCreate,
			Label: "Create and link new",
			Link:  c.href("item", "new"),
		},
	}
}

// Offers reports whether kind is among the current actions.
func (c *CompositeField) Offers(kind ActionKind) bool {
	for _, action := range c.Actions() {
		if action.Kind == kind {
			return true
		}
	}
	return false
}

// Message returns the prompt shown above the actions. It renders in
// read-only mode too.
func (c *CompositeField) Message() Message {
	name := c.objectName()
	kind := c.messageKind()
	escaped := html.EscapeString(name)

	var text string
	switch kind {
	case MessageChoose:
		text = fmt.Sprintf("Choose an existing <em>%s</em> from the above dropdown, or...", escaped)
	case MessageTypeID:
		text = fmt.Sprintf("Type the ID of an existing <em>%s</em> in the above field, or...", escaped)
	default:
		text = fmt.Sprintf("Assign an existing <em>%s</em> above, or...", escaped)
	}

	return Message{Kind: kind, ObjectName: name, HTML: text}
}

func (c *CompositeField) messageKind() MessageKind {
	switch c.anchor.Kind {
	case model.FieldKindChoice:
		return MessageChoose
	case model.FieldKindNumeric:
		return MessageTypeID
	case model.FieldKindUnknown:
		if c.count < 0 {
			return MessageGeneric
		}
		if c.count < dropdownThreshold {
			return MessageChoose
		}
		return MessageTypeID
	default:
		return MessageGeneric
	}
}

func (c *CompositeField) objectName() string {
	if c.schema != nil {
		if name := c.schema.SingularName(); name != "" {
			return name
		}
	}
	if target := c.parent.RelationTarget(c.relation); target != "" {
		return target
	}
	return c.relation
}

// Invoke performs kind. ActionCreate and ActionReplace link record (which
// must already be persisted) by setting the parent's identifier and
// persisting the parent. When persisting fails the previous identifier is
// restored before the error is returned. ActionEdit has no side effects.
func (c *CompositeField) Invoke(ctx context.Context, kind ActionKind, record entity.Record) error {
	if !c.Offers(kind) {
		return fmt.Errorf("%w: %s on %q", ErrActionUnavailable, kind, c.relation)
	}

	switch kind {
	case ActionCreate, ActionReplace:
		return c.linkRecord(ctx, record)
	default:
		return nil
	}
}

func (c *CompositeField) linkRecord(ctx context.Context, record entity.Record) error {
	if !entity.RecordExists(record) {
		return fmt.Errorf("%w: relation %q", ErrRecordNotPersisted, c.relation)
	}

	previous := c.parent.RelationID(c.relation)
	c.parent.SetRelationID(c.relation, record.ID())
	if err := c.parent.Persist(ctx); err != nil {
		c.parent.SetRelationID(c.relation, previous)
		return fmt.Errorf("hasone: link %q: %w", c.relation, err)
	}

	c.record = record
	c.logger.Debug("hasone: linked record",
		slog.String("relation", c.relation),
		slog.Int64("previous", previous),
		slog.Int64("id", record.ID()),
	)
	return nil
}

func (c *CompositeField) href(elems ...string) string {
	if c.baseLink == "" {
		return ""
	}
	link, err := url.JoinPath(c.baseLink, elems...)
	if err != nil {
		return ""
	}
	return link
}
