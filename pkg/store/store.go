// Package store provides a small typed record store that satisfies the
// entity collaborators used by has-one fields. Rows are persisted through a
// Driver; pkg/store/memory and pkg/store/sqlite ship implementations.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-hasone/pkg/entity"
)

// Row is the driver-level representation of a record.
type Row struct {
	Type      string           `json:"type"`
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	Relations map[string]int64 `json:"relations,omitempty"`
}

// Driver persists rows. Update must apply the whole row or nothing and
// return entity.ErrNotFound for unknown rows.
type Driver interface {
	Insert(ctx context.Context, row Row) (int64, error)
	Update(ctx context.Context, row Row) error
	Get(ctx context.Context, typeName string, id int64) (Row, error)
	Count(ctx context.Context, typeName string) (int, error)
	Close() error
}

// TypeDef declares a record type and its has-one relations (relation name
// to target type).
type TypeDef struct {
	Name     string            `json:"name" yaml:"name"`
	Singular string            `json:"singular,omitempty" yaml:"singular,omitempty"`
	HasOne   map[string]string `json:"hasOne,omitempty" yaml:"hasOne,omitempty"`
	ReadOnly bool              `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
}

// Store tracks type definitions and hands out records bound to a driver.
type Store struct {
	mu     sync.RWMutex
	driver Driver
	types  map[string]TypeDef
}

// Ensure Store can resolve related schemas.
var _ entity.Catalog = (*Store)(nil)

// New wraps driver.
func New(driver Driver) (*Store, error) {
	if driver == nil {
		return nil, errors.New("store: driver is required")
	}
	return &Store{driver: driver, types: make(map[string]TypeDef)}, nil
}

// Define registers a type. Redefining a type replaces it.
func (s *Store) Define(def TypeDef) error {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return errors.New("store: type name is required")
	}
	def.Name = name

	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[name] = def
	return nil
}

// Types lists registered type names, sorted.
func (s *Store) Types() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.types))
	for name := range s.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) typeDef(name string) (TypeDef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.types[name]
	return def, ok
}

// New returns an unsaved record of typeName.
func (s *Store) New(typeName, title string) (*Record, error) {
	if _, ok := s.typeDef(typeName); !ok {
		return nil, fmt.Errorf("store: unknown type %q", typeName)
	}
	return &Record{store: s, row: Row{Type: typeName, Title: title, Relations: map[string]int64{}}}, nil
}

// Create stores a new record of typeName and returns it.
func (s *Store) Create(ctx context.Context, typeName, title string) (*Record, error) {
	record, err := s.New(typeName, title)
	if err != nil {
		return nil, err
	}
	if err := record.Persist(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

// Get loads a stored record.
func (s *Store) Get(ctx context.Context, typeName string, id int64) (*Record, error) {
	if _, ok := s.typeDef(typeName); !ok {
		return nil, fmt.Errorf("store: unknown type %q", typeName)
	}
	row, err := s.driver.Get(ctx, typeName, id)
	if err != nil {
		return nil, err
	}
	if row.Relations == nil {
		row.Relations = map[string]int64{}
	}
	return &Record{store: s, row: row, inDB: true}, nil
}

// Schema implements entity.Catalog.
func (s *Store) Schema(typeName string) (entity.Schema, bool) {
	def, ok := s.typeDef(typeName)
	if !ok {
		return nil, false
	}
	return schema{def: def, driver: s.driver}, true
}

// Close releases the driver.
func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) save(ctx context.Context, r *Record) error {
	def, ok := s.typeDef(r.row.Type)
	if !ok {
		return fmt.Errorf("store: unknown type %q", r.row.Type)
	}
	for relation, id := range r.row.Relations {
		target, declared := def.HasOne[relation]
		if !declared {
			return fmt.Errorf("store: %s has no relation %q", def.Name, relation)
		}
		if id == 0 {
			continue
		}
		if _, err := s.driver.Get(ctx, target, id); err != nil {
			return fmt.Errorf("store: %s.%sID=%d: %w", def.Name, relation, id, err)
		}
	}

	if !r.inDB {
		id, err := s.driver.Insert(ctx, r.row)
		if err != nil {
			return fmt.Errorf("store: insert %s: %w", def.Name, err)
		}
		r.row.ID = id
		r.inDB = true
		return nil
	}
	if err := s.driver.Update(ctx, r.row); err != nil {
		return fmt.Errorf("store: update %s %d: %w", def.Name, r.row.ID, err)
	}
	return nil
}

type schema struct {
	def    TypeDef
	driver Driver
}

func (s schema) TypeName() string { return s.def.Name }

func (s schema) SingularName() string {
	if s.def.Singular != "" {
		return s.def.Singular
	}
	return s.def.Name
}

func (s schema) CanCreate(context.Context) bool { return !s.def.ReadOnly }

func (s schema) Count(ctx context.Context) (int, error) {
	return s.driver.Count(ctx, s.def.Name)
}
