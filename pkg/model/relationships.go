package model

import (
	"strings"
	"unicode"
)

// RelationshipKind enumerates supported relationship types.
type RelationshipKind string

const (
	RelationshipBelongsTo RelationshipKind = "belongsTo"
	RelationshipHasOne    RelationshipKind = "hasOne"
	RelationshipHasMany   RelationshipKind = "hasMany"
)

const (
	RelationshipTypeKey       = "type"
	RelationshipTargetKey     = "target"
	RelationshipForeignKeyKey = "foreignKey"
	RelationshipCardKey       = "cardinality"
	RelationshipInverseKey    = "inverse"
)

// IDSuffix is appended to a relation name to form its identifier field.
const IDSuffix = "ID"

var relationshipKeyLookup = map[string]string{
	"type":        RelationshipTypeKey,
	"kind":        RelationshipTypeKey,
	"target":      RelationshipTargetKey,
	"foreignkey":  RelationshipForeignKeyKey,
	"foreignid":   RelationshipForeignKeyKey,
	"cardinality": RelationshipCardKey,
	"inverse":     RelationshipInverseKey,
}

// Relationship describes a named association from a parent entity.
type Relationship struct {
	Name        string           `json:"name"`
	Kind        RelationshipKind `json:"kind"`
	Target      string           `json:"target"`
	ForeignKey  string           `json:"foreignKey,omitempty"`
	Cardinality string           `json:"cardinality,omitempty"`
	Inverse     string           `json:"inverse,omitempty"`
}

// IDFieldName returns the identifier field for the relationship. The foreign
// key wins when set; otherwise the `<Name>ID` convention applies.
func (r Relationship) IDFieldName() string {
	if r.ForeignKey != "" {
		return r.ForeignKey
	}
	return IDFieldName(r.Name)
}

// IDFieldName applies the `<Relation>ID` naming convention.
func IDFieldName(relation string) string {
	return relation + IDSuffix
}

// RelationFromIDField extracts `<prefix>` from a name shaped `<prefix>ID`.
// The prefix must be non-empty.
func RelationFromIDField(name string) (string, bool) {
	if len(name) <= len(IDSuffix) || !strings.HasSuffix(name, IDSuffix) {
		return "", false
	}
	return name[:len(name)-len(IDSuffix)], true
}

// RelationshipFromMetadata hydrates a relationship from loose string
// metadata (layout files, `x-relationships` extensions). Keys are matched
// case and separator insensitively. Missing type or target yields false.
func RelationshipFromMetadata(name string, metadata map[string]string) (*Relationship, bool) {
	if len(metadata) == 0 {
		return nil, false
	}

	canonical := make(map[string]string, len(metadata))
	for key, value := range metadata {
		if mapped, ok := relationshipKeyLookup[normaliseKey(key)]; ok {
			canonical[mapped] = strings.TrimSpace(value)
		}
	}

	kind, ok := NormalizeRelationshipKind(canonical[RelationshipTypeKey])
	if !ok {
		return nil, false
	}
	target := canonical[RelationshipTargetKey]
	if target == "" {
		return nil, false
	}

	cardinality := strings.ToLower(canonical[RelationshipCardKey])
	if cardinality == "" {
		cardinality = deriveCardinality(kind)
	}

	return &Relationship{
		Name:        strings.TrimSpace(name),
		Kind:        kind,
		Target:      target,
		ForeignKey:  canonical[RelationshipForeignKeyKey],
		Cardinality: cardinality,
		Inverse:     canonical[RelationshipInverseKey],
	}, true
}

// NormalizeRelationshipKind accepts any casing of the known kinds.
func NormalizeRelationshipKind(raw string) (RelationshipKind, bool) {
	switch normaliseKey(raw) {
	case "belongsto":
		return RelationshipBelongsTo, true
	case "hasone":
		return RelationshipHasOne, true
	case "hasmany":
		return RelationshipHasMany, true
	default:
		return "", false
	}
}

func deriveCardinality(kind RelationshipKind) string {
	switch kind {
	case RelationshipHasMany:
		return "many"
	case RelationshipBelongsTo, RelationshipHasOne:
		return "one"
	default:
		return ""
	}
}

func normaliseKey(raw string) string {
	var builder strings.Builder
	builder.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			builder.WriteRune(unicode.ToLower(r))
		}
	}
	return builder.String()
}
