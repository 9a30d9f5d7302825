package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sort"
	"time"
)

// Result is the scored outcome of one prompt within one run.
type Result struct {
	ID        int64     `json:"id"`
	PromptID  int64     `json:"prompt_id"`
	TestRunID int64     `json:"test_run_id"`
	ToolCalls []string  `json:"tool_calls"`
	TimeTaken float64   `json:"time_taken"`
	Success   bool      `json:"success"`
	ErrorType *string   `json:"error_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ResultDetail joins a result with its prompt and run.
type ResultDetail struct {
	Result
	Prompt       string   `json:"prompt"`
	Category     string   `json:"prompt_category"`
	CorrectTools []string `json:"correct_tools"`
	ModelName    string   `json:"model_name"`
	AgentType    string   `json:"agent_type"`
}

// ModelSuccessRate aggregates results per model.
type ModelSuccessRate struct {
	Model       string  `json:"model"`
	Total       int     `json:"total"`
	Successful  int     `json:"successful"`
	SuccessRate float64 `json:"success_rate"`
	AvgTime     float64 `json:"avg_time"`
}

// ToolMiss counts how often an expected tool was not called.
type ToolMiss struct {
	Tool     string `json:"tool"`
	Expected int    `json:"expected"`
	Missed   int    `json:"missed"`
}

// InsertResult persists a result. Its prompt and run must already exist.
func (s *Store) InsertResult(ctx context.Context, result Result) (int64, error) {
	if result.PromptID <= 0 || result.TestRunID <= 0 {
		return 0, fmt.Errorf("insert result: prompt and test run ids are required")
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}
	if result.TimeTaken < 0 {
		result.TimeTaken = 0
	}
	const query = `INSERT INTO results (prompt_id, test_run_id, tool_calls, time_taken, success_rate, error_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	var id int64
	err := s.db.QueryRowContext(ctx, query,
		result.PromptID, result.TestRunID, listArg(result.ToolCalls), result.TimeTaken, result.Success,
		nullableString(result.ErrorType), result.CreatedAt.UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert result: %w", err)
	}
	return id, nil
}

// ListResults returns the results of one run ordered by id.
func (s *Store) ListResults(ctx context.Context, runID int64) ([]Result, error) {
	query := fmt.Sprintf(
		`SELECT id, prompt_id, test_run_id, %s, time_taken, success_rate, error_type, created_at
		 FROM results WHERE test_run_id = ? ORDER BY id`,
		listColumn("tool_calls"),
	)
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()
	var out []Result
	for rows.Next() {
		var (
			r         Result
			calls     string
			errorType sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.PromptID, &r.TestRunID, &calls, &r.TimeTaken, &r.Success, &errorType, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("list results: %w", err)
		}
		if r.ToolCalls, err = decodeList(calls); err != nil {
			return nil, err
		}
		r.ErrorType = stringPointer(errorType)
		r.CreatedAt = r.CreatedAt.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// ResultsWithDetails joins results with prompts and runs. A runID of 0 selects every run.
func (s *Store) ResultsWithDetails(ctx context.Context, runID int64) ([]ResultDetail, error) {
	var args []any
	filter := ""
	if runID > 0 {
		filter = "WHERE r.test_run_id = ?"
		args = append(args, runID)
	}
	query := fmt.Sprintf(
		`SELECT r.id, r.prompt_id, r.test_run_id, %s, r.time_taken, r.success_rate, r.error_type, r.created_at,
		        p.prompt, p.prompt_category, %s, t.model_name, t.agent_type
		 FROM results r
		 JOIN prompts p ON p.id = r.prompt_id
		 JOIN test_runs t ON t.id = r.test_run_id
		 %s
		 ORDER BY r.test_run_id, r.id`,
		listColumn("r.tool_calls"),
		listColumn("p.correct_tools"),
		filter,
	)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("results with details: %w", err)
	}
	defer rows.Close()
	var out []ResultDetail
	for rows.Next() {
		var (
			d         ResultDetail
			calls     string
			correct   string
			errorType sql.NullString
			agentType sql.NullString
		)
		if err := rows.Scan(
			&d.ID, &d.PromptID, &d.TestRunID, &calls, &d.TimeTaken, &d.Success, &errorType, &d.CreatedAt,
			&d.Prompt, &d.Category, &correct, &d.ModelName, &agentType,
		); err != nil {
			return nil, fmt.Errorf("results with details: %w", err)
		}
		if d.ToolCalls, err = decodeList(calls); err != nil {
			return nil, err
		}
		if d.CorrectTools, err = decodeList(correct); err != nil {
			return nil, err
		}
		d.ErrorType = stringPointer(errorType)
		d.AgentType = agentType.String
		d.CreatedAt = d.CreatedAt.UTC()
		out = append(out, d)
	}
	return out, rows.Err()
}

// SuccessRateByModel aggregates every result by model, best first.
func (s *Store) SuccessRateByModel(ctx context.Context) ([]ModelSuccessRate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.model_name,
		       COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE r.success_rate) AS successful,
		       ROUND(CAST(COUNT(*) FILTER (WHERE r.success_rate) AS DOUBLE) * 100 / COUNT(*), 2) AS success_rate,
		       ROUND(AVG(r.time_taken), 4) AS avg_time
		FROM results r
		JOIN test_runs t ON t.id = r.test_run_id
		GROUP BY t.model_name
		ORDER BY success_rate DESC, t.model_name`)
	if err != nil {
		return nil, fmt.Errorf("success rate by model: %w", err)
	}
	defer rows.Close()
	var out []ModelSuccessRate
	for rows.Next() {
		var m ModelSuccessRate
		if err := rows.Scan(&m.Model, &m.Total, &m.Successful, &m.SuccessRate, &m.AvgTime); err != nil {
			return nil, fmt.Errorf("success rate by model: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ToolConfusion counts, per expected tool, the results of a run that never called it.
func (s *Store) ToolConfusion(ctx context.Context, runID int64) ([]ToolMiss, error) {
	details, err := s.ResultsWithDetails(ctx, runID)
	if err != nil {
		return nil, err
	}
	byTool := map[string]*ToolMiss{}
	for _, d := range details {
		for _, tool := range d.CorrectTools {
			miss := byTool[tool]
			if miss == nil {
				miss = &ToolMiss{Tool: tool}
				byTool[tool] = miss
			}
			miss.Expected++
			if !slices.Contains(d.ToolCalls, tool) {
				miss.Missed++
			}
		}
	}
	out := make([]ToolMiss, 0, len(byTool))
	for _, miss := range byTool {
		out = append(out, *miss)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Missed != out[j].Missed {
			return out[i].Missed > out[j].Missed
		}
		return out[i].Tool < out[j].Tool
	})
	return out, nil
}
