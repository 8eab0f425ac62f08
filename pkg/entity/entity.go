// Package entity declares the persistence collaborators a has-one field
// delegates to. Implementations live in pkg/store; host applications can
// adapt their own ORM types by satisfying these interfaces.
package entity

import (
	"context"
	"errors"
)

// ErrNotFound reports a missing record or relation target.
var ErrNotFound = errors.New("entity: not found")

// Record is the related record shown by a has-one field.
type Record interface {
	ID() int64
	TypeName() string
	Title() string
	// Exists reports whether the record holds a real value (not a blank
	// placeholder returned for an unset relation).
	Exists() bool
	// InDB reports whether the record has been written to the store.
	InDB() bool
}

// RecordExists reports whether r is present and persisted.
func RecordExists(r Record) bool {
	return r != nil && r.Exists() && r.InDB()
}

// Entity is the parent record owning one or more has-one relations.
type Entity interface {
	TypeName() string
	HasRelation(name string) bool
	// RelationTarget returns the related type name, or "" when unknown.
	RelationTarget(name string) string
	// Related loads the record currently linked through name. A nil record
	// with a nil error means nothing is linked.
	Related(ctx context.Context, name string) (Record, error)
	RelationID(name string) int64
	SetRelationID(name string, id int64)
	Persist(ctx context.Context) error
}

// Schema describes a related type to the widget.
type Schema interface {
	TypeName() string
	SingularName() string
	CanCreate(ctx context.Context) bool
	Count(ctx context.Context) (int, error)
}

// Catalog resolves schemas by type name.
type Catalog interface {
	Schema(typeName string) (Schema, bool)
}

// CatalogFunc adapts a function into a Catalog.
type CatalogFunc func(typeName string) (Schema, bool)

// Schema calls the underlying function.
func (fn CatalogFunc) Schema(typeName string) (Schema, bool) {
	return fn(typeName)
}
