package report

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"toolbench/internal/runner"
	"toolbench/internal/store"
)

// Source is the subset of the store a report reads from.
type Source interface {
	SuccessRateByModel(ctx context.Context) ([]store.ModelSuccessRate, error)
	ListTestRuns(ctx context.Context) ([]store.TestRun, error)
	GetTestRun(ctx context.Context, id int64) (store.TestRun, error)
	ResultsWithDetails(ctx context.Context, runID int64) ([]store.ResultDetail, error)
}

// Report is the rendered view of stored results.
type Report struct {
	Models []store.ModelSuccessRate `json:"models"`
	Runs   []RunSummary             `json:"runs"`
}

// RunSummary describes one run.
type RunSummary struct {
	ID          int64                             `json:"id,omitempty"`
	RunKey      string                            `json:"run_key,omitempty"`
	Model       string                            `json:"model"`
	AgentType   string                            `json:"agent_type"`
	StartedAt   time.Time                         `json:"started_at"`
	CompletedAt *time.Time                        `json:"completed_at,omitempty"`
	Total       int                               `json:"total"`
	Passed      int                               `json:"passed"`
	Errored     int                               `json:"errored"`
	PassRate    float64                           `json:"pass_rate"`
	MeanTime    float64                           `json:"mean_time"`
	ByCategory  map[string]runner.CategorySummary `json:"by_category,omitempty"`
	Misses      []store.ToolMiss                  `json:"missed_tools,omitempty"`
}

// outcome is the minimal view of a result used for aggregation.
type outcome struct {
	category  string
	expected  []string
	calls     []string
	timeTaken float64
	success   bool
	errored   bool
}

// Build reads the model leaderboard and run summaries. A runID of 0 covers every run.
func Build(ctx context.Context, src Source, runID int64) (Report, error) {
	models, err := src.SuccessRateByModel(ctx)
	if err != nil {
		return Report{}, err
	}
	var runs []store.TestRun
	if runID > 0 {
		run, err := src.GetTestRun(ctx, runID)
		if err != nil {
			return Report{}, fmt.Errorf("run %d: %w", runID, err)
		}
		runs = []store.TestRun{run}
	} else {
		runs, err = src.ListTestRuns(ctx)
		if err != nil {
			return Report{}, err
		}
	}
	report := Report{Models: models}
	for _, run := range runs {
		details, err := src.ResultsWithDetails(ctx, run.ID)
		if err != nil {
			return Report{}, fmt.Errorf("run %d: %w", run.ID, err)
		}
		outcomes := make([]outcome, 0, len(details))
		for _, d := range details {
			outcomes = append(outcomes, outcome{
				category:  d.Category,
				expected:  d.CorrectTools,
				calls:     d.ToolCalls,
				timeTaken: d.TimeTaken,
				success:   d.Success,
				errored:   d.ErrorType != nil,
			})
		}
		summary := aggregate(outcomes)
		summary.ID = run.ID
		summary.Model = run.ModelName
		summary.AgentType = run.AgentType
		summary.StartedAt = run.StartedAt
		summary.CompletedAt = run.CompletedAt
		report.Runs = append(report.Runs, summary)
	}
	return report, nil
}

// FromResults builds a single-run report from a results.json payload.
func FromResults(results runner.Results) Report {
	outcomes := make([]outcome, 0, len(results.Prompts))
	for _, p := range results.Prompts {
		outcomes = append(outcomes, outcome{
			category:  p.Category,
			expected:  p.Expected,
			calls:     p.ToolCalls,
			timeTaken: p.TimeTaken,
			success:   p.Success,
			errored:   p.Error != "",
		})
	}
	summary := aggregate(outcomes)
	summary.ID = results.TestRunID
	summary.RunKey = results.RunKey
	summary.Model = results.Model
	summary.AgentType = results.AgentType
	summary.StartedAt = results.StartedAt
	if !results.FinishedAt.IsZero() {
		finished := results.FinishedAt
		summary.CompletedAt = &finished
	}
	model := store.ModelSuccessRate{
		Model:       results.Model,
		Total:       summary.Total,
		Successful:  summary.Passed,
		SuccessRate: summary.PassRate * 100,
		AvgTime:     summary.MeanTime,
	}
	return Report{Models: []store.ModelSuccessRate{model}, Runs: []RunSummary{summary}}
}

func aggregate(outcomes []outcome) RunSummary {
	summary := RunSummary{ByCategory: map[string]runner.CategorySummary{}}
	misses := map[string]*store.ToolMiss{}
	var totalTime float64
	for _, o := range outcomes {
		summary.Total++
		totalTime += o.timeTaken
		if o.errored {
			summary.Errored++
		}
		category := summary.ByCategory[o.category]
		category.Total++
		if o.success {
			summary.Passed++
			category.Passed++
		}
		summary.ByCategory[o.category] = category
		for _, tool := range o.expected {
			miss := misses[tool]
			if miss == nil {
				miss = &store.ToolMiss{Tool: tool}
				misses[tool] = miss
			}
			miss.Expected++
			if !slices.Contains(o.calls, tool) {
				miss.Missed++
			}
		}
	}
	if summary.Total > 0 {
		summary.PassRate = float64(summary.Passed) / float64(summary.Total)
		summary.MeanTime = totalTime / float64(summary.Total)
	}
	for name, category := range summary.ByCategory {
		if category.Total > 0 {
			category.PassRate = float64(category.Passed) / float64(category.Total)
		}
		summary.ByCategory[name] = category
	}
	for _, miss := range misses {
		if miss.Missed > 0 {
			summary.Misses = append(summary.Misses, *miss)
		}
	}
	sort.Slice(summary.Misses, func(i, j int) bool {
		if summary.Misses[i].Missed != summary.Misses[j].Missed {
			return summary.Misses[i].Missed > summary.Misses[j].Missed
		}
		return summary.Misses[i].Tool < summary.Misses[j].Tool
	})
	return summary
}
