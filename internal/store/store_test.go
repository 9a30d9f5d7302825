package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolbench/internal/example"
	"toolbench/internal/store"
	"toolbench/internal/store/storetest"
	"toolbench/internal/testutil"
	"toolbench/internal/tools"
)

func calendarExample() example.BenchmarkExample {
	return example.BenchmarkExample{
		Prompt:       "Find meetings tomorrow",
		Category:     "calendar_query",
		CorrectTools: []string{tools.CalendarToolName},
	}
}

func TestSchemaTablesExist(t *testing.T) {
	s := storetest.Open(t)
	ctx := testutil.Context(t, 0)
	for _, table := range []string{"prompts", "test_runs", "results"} {
		var count int
		require.NoError(t, s.DB().QueryRowContext(ctx,
			"SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?", table).Scan(&count))
		assert.Equal(t, 1, count, table)
	}
}

func TestPromptRoundTripPreservesOrder(t *testing.T) {
	s := storetest.Open(t)
	ctx := testutil.Context(t, 0)

	ex := example.BenchmarkExample{
		Prompt:         "Pull sales, then chart it's trend",
		Category:       "analysis",
		CorrectTools:   []string{tools.DatabaseToolName, tools.StatisticalAnalysisToolName, tools.CodeToolName},
		ToolsAvailable: []string{tools.CodeToolName, tools.DatabaseToolName, tools.StatisticalAnalysisToolName},
		ExpectedOrder:  true,
	}
	id, err := s.InsertPrompt(ctx, ex)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := s.GetPrompt(ctx, id)
	require.NoError(t, err)
	ex.ID = id
	assert.Equal(t, ex, got)
}

func TestInsertPromptDefaultsToolsAvailable(t *testing.T) {
	s := storetest.Open(t)
	ctx := testutil.Context(t, 0)

	id, err := s.InsertPrompt(ctx, calendarExample())
	require.NoError(t, err)
	got, err := s.GetPrompt(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, tools.DefaultNames, got.ToolsAvailable)
}

func TestInsertPromptRejectsToolsOutsideAvailable(t *testing.T) {
	s := storetest.Open(t)
	ctx := testutil.Context(t, 0)

	ex := calendarExample()
	ex.ToolsAvailable = []string{tools.DatabaseToolName}
	_, err := s.InsertPrompt(ctx, ex)
	require.Error(t, err)
	count, err := s.CountPrompts(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInsertPromptsIsAtomic(t *testing.T) {
	s := storetest.Open(t)
	ctx := testutil.Context(t, 0)

	bad := calendarExample()
	bad.CorrectTools = nil
	_, err := s.InsertPrompts(ctx, []example.BenchmarkExample{calendarExample(), bad})
	require.Error(t, err)
	count, err := s.CountPrompts(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	ids, err := s.InsertPrompts(ctx, []example.BenchmarkExample{calendarExample(), calendarExample()})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Less(t, ids[0], ids[1])

	prompts, err := s.ListPrompts(ctx)
	require.NoError(t, err)
	require.Len(t, prompts, 2)
	assert.Equal(t, ids[0], prompts[0].ID)
}

func TestDeletePrompt(t *testing.T) {
	s := storetest.Open(t)
	ctx := testutil.Context(t, 0)

	id, err := s.InsertPrompt(ctx, calendarExample())
	require.NoError(t, err)
	require.NoError(t, s.DeletePrompt(ctx, id))
	assert.ErrorIs(t, s.DeletePrompt(ctx, id), store.ErrNotFound)
	_, err = s.GetPrompt(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCompleteTestRunOnlyOnce(t *testing.T) {
	s := storetest.Open(t)
	ctx := testutil.Context(t, 0)

	started := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	id, err := s.CreateTestRun(ctx, store.TestRun{
		ModelName:     "gpt-4o-mini",
		Instructions:  "You are a helpful AI assistant.",
		AgentType:     "swarm",
		StartedAt:     started,
		Configuration: map[string]any{"max_steps": float64(10)},
	})
	require.NoError(t, err)

	run, err := s.GetTestRun(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, run.CompletedAt)
	assert.True(t, started.Equal(run.StartedAt))
	assert.Equal(t, float64(10), run.Configuration["max_steps"])

	done := started.Add(time.Minute)
	require.NoError(t, s.CompleteTestRun(ctx, id, done))
	assert.ErrorIs(t, s.CompleteTestRun(ctx, id, done.Add(time.Minute)), store.ErrAlreadyCompleted)
	assert.ErrorIs(t, s.CompleteTestRun(ctx, id+100, done), store.ErrNotFound)

	run, err = s.GetTestRun(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, run.CompletedAt)
	assert.True(t, done.Equal(*run.CompletedAt))
}

func TestResultsRequirePersistedParents(t *testing.T) {
	s := storetest.Open(t)
	ctx := testutil.Context(t, 0)

	_, err := s.InsertResult(ctx, store.Result{PromptID: 99, TestRunID: 99})
	require.Error(t, err)
}

func TestResultToolCallsKeepQuotesAndCommas(t *testing.T) {
	s := storetest.Open(t)
	ctx := testutil.Context(t, 0)

	promptID, err := s.InsertPrompt(ctx, calendarExample())
	require.NoError(t, err)
	runID, err := s.CreateTestRun(ctx, store.TestRun{ModelName: "m", AgentType: "swarm"})
	require.NoError(t, err)

	calls := []string{"o'brien_tool", `say "hi"`, "a, b", "[]::VARCHAR[]"}
	_, err = s.InsertResult(ctx, store.Result{PromptID: promptID, TestRunID: runID, ToolCalls: calls})
	require.NoError(t, err)
	_, err = s.InsertResult(ctx, store.Result{PromptID: promptID, TestRunID: runID})
	require.NoError(t, err)

	results, err := s.ListResults(ctx, runID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, calls, results[0].ToolCalls)
	assert.Equal(t, []string{}, results[1].ToolCalls)
}

func TestResultsAndAggregates(t *testing.T) {
	s := storetest.Open(t)
	ctx := testutil.Context(t, 0)

	promptID, err := s.InsertPrompt(ctx, calendarExample())
	require.NoError(t, err)
	dbPrompt := calendarExample()
	dbPrompt.CorrectTools = []string{tools.DatabaseToolName}
	dbPromptID, err := s.InsertPrompt(ctx, dbPrompt)
	require.NoError(t, err)

	strong, err := s.CreateTestRun(ctx, store.TestRun{ModelName: "strong", AgentType: "swarm"})
	require.NoError(t, err)
	weak, err := s.CreateTestRun(ctx, store.TestRun{ModelName: "weak", AgentType: "react"})
	require.NoError(t, err)

	failure := errors.New("agent failed").Error()
	for _, r := range []store.Result{
		{PromptID: promptID, TestRunID: strong, ToolCalls: []string{tools.CalendarToolName, tools.CalendarToolName}, TimeTaken: 0.5, Success: true},
		{PromptID: dbPromptID, TestRunID: strong, ToolCalls: []string{tools.DatabaseToolName}, TimeTaken: 1.5, Success: true},
		{PromptID: promptID, TestRunID: weak, ToolCalls: []string{tools.DatabaseToolName}, TimeTaken: 1, Success: false},
		{PromptID: dbPromptID, TestRunID: weak, ToolCalls: []string{}, Success: false, ErrorType: &failure},
	} {
		_, err := s.InsertResult(ctx, r)
		require.NoError(t, err)
	}

	results, err := s.ListResults(ctx, strong)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []string{tools.CalendarToolName, tools.CalendarToolName}, results[0].ToolCalls)
	assert.Nil(t, results[0].ErrorType)

	details, err := s.ResultsWithDetails(ctx, weak)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "weak", details[0].ModelName)
	assert.Equal(t, "Find meetings tomorrow", details[0].Prompt)
	require.NotNil(t, details[1].ErrorType)
	assert.Equal(t, "agent failed", *details[1].ErrorType)
	assert.Empty(t, details[1].ToolCalls)

	all, err := s.ResultsWithDetails(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	rates, err := s.SuccessRateByModel(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, store.ModelSuccessRate{Model: "strong", Total: 2, Successful: 2, SuccessRate: 100, AvgTime: 1}, rates[0])
	assert.Equal(t, "weak", rates[1].Model)
	assert.Zero(t, rates[1].SuccessRate)

	confusion, err := s.ToolConfusion(ctx, weak)
	require.NoError(t, err)
	assert.Equal(t, []store.ToolMiss{
		{Tool: tools.CalendarToolName, Expected: 1, Missed: 1},
		{Tool: tools.DatabaseToolName, Expected: 1, Missed: 1},
	}, confusion)

	runs, err := s.ListTestRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
}

func TestResetClearsEverything(t *testing.T) {
	s := storetest.Open(t)
	ctx := testutil.Context(t, 0)

	_, err := s.InsertPrompt(ctx, calendarExample())
	require.NoError(t, err)
	require.NoError(t, s.Reset(ctx))

	count, err := s.CountPrompts(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	id, err := s.InsertPrompt(ctx, calendarExample())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}
