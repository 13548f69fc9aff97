// Package sqlite provides a SQLite-backed curve store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/viability/pkg/domain"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS curves (
	id         TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	body       TEXT NOT NULL
)`

// Store persists curves in a single SQLite table.
// The curve is stored as a JSON document next to its indexed columns.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite serialises writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save inserts or replaces the curve.
func (s *Store) Save(ctx context.Context, curve *domain.Curve) error {
	if curve.ID == "" {
		return fmt.Errorf("curve id is required")
	}
	body, err := json.Marshal(curve)
	if err != nil {
		return fmt.Errorf("failed to marshal curve: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO curves (id, created_at, body) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET created_at = excluded.created_at, body = excluded.body`,
		curve.ID, curve.CreatedAt.UTC().UnixMilli(), string(body),
	)
	if err != nil {
		return fmt.Errorf("save curve: %w", err)
	}
	return nil
}

// Load retrieves the curve by ID.
func (s *Store) Load(ctx context.Context, id string) (*domain.Curve, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM curves WHERE id = ?`, id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCurveNotFound
		}
		return nil, fmt.Errorf("load curve: %w", err)
	}

	var curve domain.Curve
	if err := json.Unmarshal([]byte(body), &curve); err != nil {
		return nil, fmt.Errorf("failed to unmarshal curve: %w", err)
	}
	return &curve, nil
}

// Delete removes the curve. Deleting an unknown ID is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM curves WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete curve: %w", err)
	}
	return nil
}

// List returns curve IDs ordered by creation time, then ID.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM curves ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list curves: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan curve id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
