package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TestRun is one pass of an agent over the prompt corpus.
type TestRun struct {
	ID            int64          `json:"id"`
	ModelName     string         `json:"model_name"`
	Instructions  string         `json:"instructions"`
	AgentType     string         `json:"agent_type"`
	StartedAt     time.Time      `json:"started_at"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	Configuration map[string]any `json:"configuration,omitempty"`
}

const selectRuns = `SELECT id, model_name, instructions, agent_type, started_at, completed_at, CAST(configuration AS VARCHAR) FROM test_runs`

// CreateTestRun inserts a run and returns its id.
func (s *Store) CreateTestRun(ctx context.Context, run TestRun) (int64, error) {
	if strings.TrimSpace(run.ModelName) == "" {
		return 0, fmt.Errorf("create test run: model name is required")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	config, err := encodeJSON(run.Configuration)
	if err != nil {
		return 0, fmt.Errorf("create test run: %w", err)
	}
	var id int64
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO test_runs (model_name, instructions, agent_type, started_at, configuration)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id`,
		run.ModelName, run.Instructions, run.AgentType, run.StartedAt.UTC(), config,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create test run: %w", err)
	}
	return id, nil
}

// CompleteTestRun stamps completed_at. It fails if the run is missing or already completed.
func (s *Store) CompleteTestRun(ctx context.Context, id int64, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE test_runs SET completed_at = ? WHERE id = ? AND completed_at IS NULL",
		at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("complete test run %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete test run %d: %w", id, err)
	}
	if affected == 1 {
		return nil
	}
	if _, err := s.GetTestRun(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("complete test run %d: %w", id, ErrAlreadyCompleted)
}

// GetTestRun returns one run by id.
func (s *Store) GetTestRun(ctx context.Context, id int64) (TestRun, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, selectRuns+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return TestRun{}, fmt.Errorf("test run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return TestRun{}, fmt.Errorf("get test run %d: %w", id, err)
	}
	return run, nil
}

// ListTestRuns returns runs, newest first.
func (s *Store) ListTestRuns(ctx context.Context) ([]TestRun, error) {
	rows, err := s.db.QueryContext(ctx, selectRuns+" ORDER BY started_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list test runs: %w", err)
	}
	defer rows.Close()
	var out []TestRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list test runs: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func scanRun(row rowScanner) (TestRun, error) {
	var (
		run          TestRun
		instructions sql.NullString
		agentType    sql.NullString
		completed    sql.NullTime
		config       sql.NullString
	)
	if err := row.Scan(&run.ID, &run.ModelName, &instructions, &agentType, &run.StartedAt, &completed, &config); err != nil {
		return TestRun{}, err
	}
	run.Instructions = instructions.String
	run.AgentType = agentType.String
	run.StartedAt = run.StartedAt.UTC()
	run.CompletedAt = timePointer(completed)
	var err error
	if run.Configuration, err = decodeJSON(config); err != nil {
		return TestRun{}, err
	}
	return run, nil
}
