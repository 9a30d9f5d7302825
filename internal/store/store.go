// Package store persists prompts, test runs and results in DuckDB.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// ErrNotFound reports a missing row.
var ErrNotFound = errors.New("not found")

// ErrAlreadyCompleted reports a second completion of a test run.
var ErrAlreadyCompleted = errors.New("test run already completed")

// Store wraps a DuckDB connection with the benchmark schema applied.
type Store struct {
	db      *sql.DB
	catalog []string
}

// Open opens (or creates) the database at path and ensures the schema.
// An empty path or ":memory:" opens an in-memory database.
func Open(ctx context.Context, path string, catalog []string) (*Store, error) {
	dsn := strings.TrimSpace(path)
	if dsn == ":memory:" {
		dsn = ""
	}
	if dsn != "" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	store, err := New(ctx, db, catalog)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an existing connection and applies the schema.
func New(ctx context.Context, db *sql.DB, catalog []string) (*Store, error) {
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, err
	}
	return &Store{db: db, catalog: slices.Clone(catalog)}, nil
}

// DB exposes the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close releases the connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
