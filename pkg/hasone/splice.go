package hasone

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-hasone/pkg/entity"
	"github.com/goliatone/go-hasone/pkg/model"
)

// Attach inserts a stylesheet and a CompositeField for relation directly
// after the relation's identifier field in tab. The tab is left untouched
// when the relation is invalid, the identifier field is missing, or the
// related record cannot be loaded.
func Attach(ctx context.Context, tab *model.TabFieldList, relation string, parent entity.Entity, options ...Option) (*CompositeField, error) {
	relation = strings.TrimSpace(relation)
	if err := checkRelation(relation, parent); err != nil {
		return nil, err
	}

	idx := findAnchor(tab, relation)
	if idx < 0 {
		return nil, &RelationFieldNotFoundError{
			Relation: relation,
			Field:    model.IDFieldName(relation),
			Tab:      tab.Name(),
		}
	}
	anchor, _ := tab.At(idx)

	cfg := newConfig(options)
	composite, err := newCompositeField(ctx, relation, parent, anchor.Clone(), cfg)
	if err != nil {
		return nil, err
	}

	style := newStyleField(relation, composite.ReadOnly(), cfg.style)
	anchor.SetAttribute(AttrAnchor, relation)

	// Inserting at idx+1 is "before the field that followed the anchor", or
	// an append when the anchor was last.
	if err := tab.InsertAt(idx+1, style, composite.Field()); err != nil {
		return nil, fmt.Errorf("hasone: splice %q: %w", relation, err)
	}

	cfg.logger.Debug("hasone: attached field",
		slog.String("relation", relation),
		slog.String("tab", tab.Name()),
		slog.Int("position", idx+1),
		slog.Bool("readOnly", composite.ReadOnly()),
		slog.Bool("recordExists", composite.RecordExists()),
	)
	return composite, nil
}

// AddFieldToTab resolves tab inside fields and attaches relation to it.
func AddFieldToTab(ctx context.Context, fields *model.FieldList, tab, relation string, parent entity.Entity, options ...Option) (*CompositeField, error) {
	relation = strings.TrimSpace(relation)
	if err := checkRelation(relation, parent); err != nil {
		return nil, err
	}

	target, ok := fields.Tab(tab)
	if !ok {
		return nil, &RelationFieldNotFoundError{
			Relation: relation,
			Field:    model.IDFieldName(relation),
			Tab:      tab,
		}
	}
	return Attach(ctx, target, relation, parent, options...)
}

// ReorderTab moves every composite field already present in tab directly
// after its identifier field and stamps it with the merged inline style.
// A composite that already has its style field keeps that field directly
// ahead of it and is not stamped. Composites without an identifier field
// keep their position. It returns the names of the composites that were
// moved.
func ReorderTab(tab *model.TabFieldList, options ...Option) ([]string, error) {
	if tab == nil {
		return nil, nil
	}
	cfg := newConfig(options)

	anchored := make(map[string]bool)
	styled := make(map[string]bool)
	for _, field := range tab.Fields() {
		if field.Kind != model.FieldKindComposite {
			continue
		}
		anchored[field.Name] = tab.IndexOf(model.IDFieldName(field.Name)) >= 0
		if style, ok := tab.FieldNamed(StyleFieldName(field.Name)); ok && style.Kind == model.FieldKindStyle {
			styled[field.Name] = true
		}
	}

	order := make([]string, 0, tab.Len())
	placed := make(map[string]bool)
	var moved []string
	for _, field := range tab.Fields() {
		if field.Kind == model.FieldKindComposite && anchored[field.Name] {
			continue
		}
		if field.Kind == model.FieldKindStyle {
			if relation, ok := strings.CutSuffix(field.Name, StyleFieldSuffix); ok && anchored[relation] && styled[relation] {
				continue
			}
		}
		order = append(order, field.Name)

		prefix, ok := model.RelationFromIDField(field.Name)
		if !ok || !anchored[prefix] || placed[prefix] {
			continue
		}
		if styled[prefix] {
			order = append(order, StyleFieldName(prefix))
		}
		order = append(order, prefix)
		placed[prefix] = true
		moved = append(moved, prefix)
	}

	if err := tab.ChangeOrder(order); err != nil {
		return nil, fmt.Errorf("hasone: reorder tab %q: %w", tab.Name(), err)
	}

	for _, name := range moved {
		if styled[name] {
			continue
		}
		field, ok := tab.FieldNamed(name)
		if !ok {
			continue
		}
		field.SetAttribute("style", cfg.style.inline()+field.Attribute("style"))
	}

	cfg.logger.Debug("hasone: reordered tab",
		slog.String("tab", tab.Name()),
		slog.Any("moved", moved),
	)
	return moved, nil
}

func checkRelation(relation string, parent entity.Entity) error {
	if parent == nil || relation == "" {
		return &InvalidRelationError{Relation: relation}
	}
	if !parent.HasRelation(relation) {
		return &InvalidRelationError{Relation: relation, Entity: parent.TypeName()}
	}
	return nil
}

func findAnchor(tab *model.TabFieldList, relation string) int {
	for i, name := range tab.Names() {
		if prefix, ok := model.RelationFromIDField(name); ok && prefix == relation {
			return i
		}
	}
	return -1
}
