package store

import (
	"context"

	"github.com/goliatone/go-hasone/pkg/entity"
)

// Record is a stored row bound to its store. It acts as both the parent
// entity and the related record of a has-one field.
type Record struct {
	store *Store
	row   Row
	inDB  bool
}

var (
	_ entity.Record = (*Record)(nil)
	_ entity.Entity = (*Record)(nil)
)

func (r *Record) ID() int64        { return r.row.ID }
func (r *Record) TypeName() string { return r.row.Type }
func (r *Record) Title() string    { return r.row.Title }
func (r *Record) Exists() bool     { return r != nil }
func (r *Record) InDB() bool       { return r != nil && r.inDB }

// SetTitle updates the title; call Persist to store it.
func (r *Record) SetTitle(title string) {
	r.row.Title = title
}

// HasRelation reports whether the record's type declares a has-one relation
// named name.
func (r *Record) HasRelation(name string) bool {
	def, ok := r.store.typeDef(r.row.Type)
	if !ok {
		return false
	}
	_, declared := def.HasOne[name]
	return declared
}

func (r *Record) RelationTarget(name string) string {
	def, ok := r.store.typeDef(r.row.Type)
	if !ok {
		return ""
	}
	return def.HasOne[name]
}

// Related loads the linked record. An unset identifier yields nil.
func (r *Record) Related(ctx context.Context, name string) (entity.Record, error) {
	id := r.row.Relations[name]
	if id == 0 {
		return nil, nil
	}
	target := r.RelationTarget(name)
	if target == "" {
		return nil, entity.ErrNotFound
	}
	related, err := r.store.Get(ctx, target, id)
	if err != nil {
		return nil, err
	}
	return related, nil
}

func (r *Record) RelationID(name string) int64 {
	return r.row.Relations[name]
}

func (r *Record) SetRelationID(name string, id int64) {
	if r.row.Relations == nil {
		r.row.Relations = map[string]int64{}
	}
	if id == 0 {
		delete(r.row.Relations, name)
		return
	}
	r.row.Relations[name] = id
}

// Persist inserts or updates the record.
func (r *Record) Persist(ctx context.Context) error {
	return r.store.save(ctx, r)
}

// Row returns a copy of the underlying row.
func (r *Record) Row() Row {
	row := r.row
	row.Relations = make(map[string]int64, len(r.row.Relations))
	for key, value := range r.row.Relations {
		row.Relations[key] = value
	}
	return row
}
