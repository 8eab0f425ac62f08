package hasone

import (
	"context"
	"errors"

	"github.com/goliatone/go-hasone/pkg/entity"
	"github.com/goliatone/go-hasone/pkg/model"
)

type stubRecord struct {
	id       int64
	typeName string
	title    string
	inDB     bool
}

func (r stubRecord) ID() int64        { return r.id }
func (r stubRecord) TypeName() string { return r.typeName }
func (r stubRecord) Title() string    { return r.title }
func (r stubRecord) Exists() bool     { return r.id != 0 }
func (r stubRecord) InDB() bool       { return r.inDB }

type stubEntity struct {
	relations  map[string]string
	ids        map[string]int64
	related    map[string]entity.Record
	relatedErr error
	persistErr error
	persisted  int
	hasCalls   int
}

func newStubEntity() *stubEntity {
	return &stubEntity{
		relations: map[string]string{"Owner": "Member"},
		ids:       map[string]int64{},
		related:   map[string]entity.Record{},
	}
}

func (e *stubEntity) TypeName() string { return "Project" }

func (e *stubEntity) HasRelation(name string) bool {
	e.hasCalls++
	_, ok := e.relations[name]
	return ok
}

func (e *stubEntity) RelationTarget(name string) string { return e.relations[name] }

func (e *stubEntity) Related(_ context.Context, name string) (entity.Record, error) {
	if e.relatedErr != nil {
		return nil, e.relatedErr
	}
	return e.related[name], nil
}

func (e *stubEntity) RelationID(name string) int64 { return e.ids[name] }

func (e *stubEntity) SetRelationID(name string, id int64) { e.ids[name] = id }

func (e *stubEntity) Persist(context.Context) error {
	if e.persistErr != nil {
		return e.persistErr
	}
	e.persisted++
	return nil
}

type stubSchema struct {
	name      string
	canCreate bool
	count     int
	countErr  error
}

func (s stubSchema) TypeName() string                   { return "Member" }
func (s stubSchema) SingularName() string               { return s.name }
func (s stubSchema) CanCreate(context.Context) bool     { return s.canCreate }
func (s stubSchema) Count(context.Context) (int, error) { return s.count, s.countErr }

func catalogOf(schema entity.Schema) entity.Catalog {
	return entity.CatalogFunc(func(typeName string) (entity.Schema, bool) {
		if typeName != schema.TypeName() {
			return nil, false
		}
		return schema, true
	})
}

var errPersist = errors.New("disk full")

func newTab(fields ...model.Field) *model.TabFieldList {
	return model.NewTabFieldList("Root.Main", fields...)
}

func textField(name string) model.Field {
	return model.Field{Name: name, Kind: model.FieldKindText}
}
