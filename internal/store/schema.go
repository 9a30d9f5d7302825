package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

// schemaDDL holds the DuckDB schema definition.
//
//go:embed schema.sql
var schemaDDL string

// dropDDL removes every table and sequence, children first.
const dropDDL = `
DROP TABLE IF EXISTS results;
DROP TABLE IF EXISTS test_runs;
DROP TABLE IF EXISTS prompts;
DROP SEQUENCE IF EXISTS results_id_seq;
DROP SEQUENCE IF EXISTS test_runs_id_seq;
DROP SEQUENCE IF EXISTS prompts_id_seq;
`

// SchemaDDL returns the schema DDL used for initializing DuckDB databases.
func SchemaDDL() string {
	return schemaDDL
}

// EnsureSchema applies the schema DDL to the provided database connection.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("store: db is nil")
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Reset drops all tables and recreates the schema.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, dropDDL); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return EnsureSchema(ctx, s.db)
}
