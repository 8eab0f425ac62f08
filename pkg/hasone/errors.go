package hasone

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRelation matches *InvalidRelationError via errors.Is.
	ErrInvalidRelation = errors.New("hasone: invalid relation")
	// ErrRelationFieldNotFound matches *RelationFieldNotFoundError via errors.Is.
	ErrRelationFieldNotFound = errors.New("hasone: relation field not found")
	// ErrActionUnavailable reports an Invoke call for an action the field
	// does not currently offer.
	ErrActionUnavailable = errors.New("hasone: action unavailable")
	// ErrRecordNotPersisted reports an attempt to link a record that has no
	// stored identifier yet.
	ErrRecordNotPersisted = errors.New("hasone: record not persisted")
)

// InvalidRelationError reports a relation the parent entity does not declare.
type InvalidRelationError struct {
	Relation string
	Entity   string
}

func (e *InvalidRelationError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("hasone: relation %q is not a has-one relation of the parent", e.Relation)
	}
	return fmt.Sprintf("hasone: relation %q is not a has-one relation of %s", e.Relation, e.Entity)
}

func (e *InvalidRelationError) Is(target error) bool {
	return target == ErrInvalidRelation
}

// RelationFieldNotFoundError reports that the relation's identifier field is
// absent from the tab. The identifier field must be added before Attach runs.
type RelationFieldNotFoundError struct {
	Relation string
	Field    string
	Tab      string
}

func (e *RelationFieldNotFoundError) Error() string {
	return fmt.Sprintf("hasone: field %q for relation %q not found in tab %q", e.Field, e.Relation, e.Tab)
}

func (e *RelationFieldNotFoundError) Is(target error) bool {
	return target == ErrRelationFieldNotFound
}
