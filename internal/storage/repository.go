// Package storage is the SQLite-backed reference rate catalog.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"juros/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

// NewSQLiteRepository opens dbPath, creating its directory, and migrates it.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping is used by the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// List implements rates.Catalog.
func (r *SQLiteRepository) List(ctx context.Context) ([]core.ReferenceRate, error) {
	rows, err := r.queries.ListReferenceRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reference rates: %w", err)
	}

	out := make([]core.ReferenceRate, 0, len(rows))
	for _, row := range rows {
		rr := core.ReferenceRate{Name: row.Name, Note: row.Note}
		if row.MinPercent.Valid {
			v := row.MinPercent.Float64
			rr.MinPercent = &v
		}
		if row.MaxPercent.Valid {
			v := row.MaxPercent.Float64
			rr.MaxPercent = &v
		}
		out = append(out, rr)
	}
	return out, nil
}

// Count returns how many reference rates are stored.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountReferenceRates(ctx)
	if err != nil {
		return 0, fmt.Errorf("count reference rates: %w", err)
	}
	return n, nil
}
