// Package sqlite implements store.Driver on a single SQLite table using the
// pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/goliatone/go-hasone/pkg/entity"
	"github.com/goliatone/go-hasone/pkg/store"
)

const schemaDDL = `CREATE TABLE IF NOT EXISTS records (
	type TEXT NOT NULL,
	id INTEGER NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	relations TEXT NOT NULL DEFAULT '{}',
	PRIMARY KEY (type, id)
)`

// Driver stores rows in SQLite. Relations are kept as a JSON object.
type Driver struct {
	db   *sql.DB
	path string
}

var _ store.Driver = (*Driver)(nil)

// Open opens (creating when needed) the database at path. ":memory:" is
// accepted for ephemeral stores.
func Open(path string) (*Driver, error) {
	if path == "" {
		path = "hasone.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("sqlite: create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise get its own database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: create records table: %w", err)
	}
	return &Driver{db: db, path: path}, nil
}

func (d *Driver) Insert(ctx context.Context, row store.Row) (id int64, retErr error) {
	relations, err := encodeRelations(row.Relations)
	if err != nil {
		return 0, err
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(id), 0) + 1 FROM records WHERE type = ?`, row.Type,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("sqlite: next id: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO records(type, id, title, relations) VALUES(?, ?, ?, ?)`,
		row.Type, id, row.Title, relations,
	); err != nil {
		return 0, fmt.Errorf("sqlite: insert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return id, nil
}

func (d *Driver) Update(ctx context.Context, row store.Row) (retErr error) {
	relations, err := encodeRelations(row.Relations)
	if err != nil {
		return err
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE records SET title = ?, relations = ? WHERE type = ? AND id = ?`,
		row.Title, relations, row.Type, row.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s %d", entity.ErrNotFound, row.Type, row.ID)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

func (d *Driver) Get(ctx context.Context, typeName string, id int64) (store.Row, error) {
	var (
		row       = store.Row{Type: typeName, ID: id}
		relations string
	)
	err := d.db.QueryRowContext(ctx,
		`SELECT title, relations FROM records WHERE type = ? AND id = ?`, typeName, id,
	).Scan(&row.Title, &relations)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Row{}, fmt.Errorf("%w: %s %d", entity.ErrNotFound, typeName, id)
	}
	if err != nil {
		return store.Row{}, fmt.Errorf("sqlite: select: %w", err)
	}
	if err := json.Unmarshal([]byte(relations), &row.Relations); err != nil {
		return store.Row{}, fmt.Errorf("sqlite: decode relations: %w", err)
	}
	return row, nil
}

func (d *Driver) Count(ctx context.Context, typeName string) (int, error) {
	var count int
	if err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE type = ?`, typeName,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: count: %w", err)
	}
	return count, nil
}

func (d *Driver) Close() error { return d.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (d *Driver) DB() *sql.DB { return d.db }

// Path returns the configured database path.
func (d *Driver) Path() string { return d.path }

func encodeRelations(relations map[string]int64) (string, error) {
	if len(relations) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(relations)
	if err != nil {
		return "", fmt.Errorf("sqlite: encode relations: %w", err)
	}
	return string(data), nil
}
