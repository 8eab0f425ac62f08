// Package memory implements store.Driver with in-process maps. It backs
// tests and examples and mirrors the sqlite driver's semantics.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-hasone/pkg/entity"
	"github.com/goliatone/go-hasone/pkg/store"
)

// Driver keeps rows per type in memory.
type Driver struct {
	mu     sync.RWMutex
	rows   map[string]map[int64]store.Row
	nextID map[string]int64
	// FailUpdates makes Update return the error, for exercising rollbacks.
	FailUpdates error
}

var _ store.Driver = (*Driver)(nil)

// New constructs an empty driver.
func New() *Driver {
	return &Driver{
		rows:   make(map[string]map[int64]store.Row),
		nextID: make(map[string]int64),
	}
}

func (d *Driver) Insert(ctx context.Context, row store.Row) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID[row.Type]++
	row.ID = d.nextID[row.Type]
	if d.rows[row.Type] == nil {
		d.rows[row.Type] = make(map[int64]store.Row)
	}
	d.rows[row.Type][row.ID] = cloneRow(row)
	return row.ID, nil
}

func (d *Driver) Update(ctx context.Context, row store.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.FailUpdates != nil {
		return d.FailUpdates
	}
	if _, ok := d.rows[row.Type][row.ID]; !ok {
		return fmt.Errorf("%w: %s %d", entity.ErrNotFound, row.Type, row.ID)
	}
	d.rows[row.Type][row.ID] = cloneRow(row)
	return nil
}

func (d *Driver) Get(ctx context.Context, typeName string, id int64) (store.Row, error) {
	if err := ctx.Err(); err != nil {
		return store.Row{}, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	row, ok := d.rows[typeName][id]
	if !ok {
		return store.Row{}, fmt.Errorf("%w: %s %d", entity.ErrNotFound, typeName, id)
	}
	return cloneRow(row), nil
}

func (d *Driver) Count(ctx context.Context, typeName string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rows[typeName]), nil
}

func (d *Driver) Close() error { return nil }

func cloneRow(row store.Row) store.Row {
	cloned := row
	if row.Relations != nil {
		cloned.Relations = make(map[string]int64, len(row.Relations))
		for key, value := range row.Relations {
			cloned.Relations[key] = value
		}
	}
	return cloned
}
