package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"toolbench/internal/example"
)

const selectPrompts = `SELECT id, prompt, prompt_category, %s, %s, expected_order FROM prompts`

// InsertPrompt validates and persists one example, returning its id.
func (s *Store) InsertPrompt(ctx context.Context, ex example.BenchmarkExample) (int64, error) {
	return s.insertPrompt(ctx, s.db, ex)
}

// InsertPrompts persists examples in one transaction. Nothing is written if any insert fails.
func (s *Store) InsertPrompts(ctx context.Context, examples []example.BenchmarkExample) ([]int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	ids := make([]int64, 0, len(examples))
	for i, ex := range examples {
		id, err := s.insertPrompt(ctx, tx, ex)
		if err != nil {
			return nil, fmt.Errorf("prompt %d: %w", i+1, err)
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return ids, nil
}

func (s *Store) insertPrompt(ctx context.Context, q queryer, ex example.BenchmarkExample) (int64, error) {
	ex = ex.WithDefaultTools(s.catalog)
	if err := ex.Validate(); err != nil {
		return 0, fmt.Errorf("insert prompt: %w", err)
	}
	const query = `INSERT INTO prompts (prompt, prompt_category, correct_tools, tools_available, expected_order)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`
	var id int64
	if err := q.QueryRowContext(ctx, query,
		ex.Prompt, ex.Category, listArg(ex.CorrectTools), listArg(ex.ToolsAvailable), ex.ExpectedOrder,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert prompt: %w", err)
	}
	return id, nil
}

// ListPrompts returns every prompt ordered by id.
func (s *Store) ListPrompts(ctx context.Context) ([]example.BenchmarkExample, error) {
	query := fmt.Sprintf(selectPrompts, listColumn("correct_tools"), listColumn("tools_available")) + " ORDER BY id"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()
	var out []example.BenchmarkExample
	for rows.Next() {
		ex, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return out, nil
}

// GetPrompt returns one prompt by id.
func (s *Store) GetPrompt(ctx context.Context, id int64) (example.BenchmarkExample, error) {
	query := fmt.Sprintf(selectPrompts, listColumn("correct_tools"), listColumn("tools_available")) + " WHERE id = ?"
	ex, err := scanPrompt(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return example.BenchmarkExample{}, fmt.Errorf("prompt %d: %w", id, ErrNotFound)
	}
	return ex, err
}

// CountPrompts returns the number of stored prompts.
func (s *Store) CountPrompts(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM prompts").Scan(&count); err != nil {
		return 0, fmt.Errorf("count prompts: %w", err)
	}
	return count, nil
}

// DeletePrompt removes a prompt. Prompts referenced by results cannot be removed.
func (s *Store) DeletePrompt(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM prompts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete prompt %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete prompt %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("prompt %d: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrompt(row rowScanner) (example.BenchmarkExample, error) {
	var (
		ex        example.BenchmarkExample
		correct   string
		available string
	)
	if err := row.Scan(&ex.ID, &ex.Prompt, &ex.Category, &correct, &available, &ex.ExpectedOrder); err != nil {
		return example.BenchmarkExample{}, err
	}
	var err error
	if ex.CorrectTools, err = decodeList(correct); err != nil {
		return example.BenchmarkExample{}, err
	}
	if ex.ToolsAvailable, err = decodeList(available); err != nil {
		return example.BenchmarkExample{}, err
	}
	return ex, nil
}
