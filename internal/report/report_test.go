package report_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolbench/internal/example"
	"toolbench/internal/report"
	"toolbench/internal/runner"
	"toolbench/internal/store"
	"toolbench/internal/store/storetest"
	"toolbench/internal/testutil"
	"toolbench/internal/tools"
)

func seedStore(t *testing.T) (*store.Store, int64, int64) {
	t.Helper()
	s := storetest.Open(t)
	ctx := testutil.Context(t, 0)

	ids, err := s.InsertPrompts(ctx, []example.BenchmarkExample{
		{Prompt: "Any meetings this week?", Category: "calendar", CorrectTools: []string{tools.CalendarToolName}},
		{Prompt: "Average of last quarter sales", Category: "analysis", CorrectTools: []string{tools.DatabaseToolName, tools.StatisticalAnalysisToolName}},
	})
	require.NoError(t, err)

	started := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	strong, err := s.CreateTestRun(ctx, store.TestRun{ModelName: "strong", AgentType: "swarm", StartedAt: started})
	require.NoError(t, err)
	weak, err := s.CreateTestRun(ctx, store.TestRun{ModelName: "weak", AgentType: "react", StartedAt: started.Add(time.Hour)})
	require.NoError(t, err)

	for _, r := range []store.Result{
		{PromptID: ids[0], TestRunID: strong, ToolCalls: []string{tools.CalendarToolName}, TimeTaken: 1, Success: true},
		{PromptID: ids[1], TestRunID: strong, ToolCalls: []string{tools.DatabaseToolName, tools.StatisticalAnalysisToolName}, TimeTaken: 3, Success: true},
		{PromptID: ids[0], TestRunID: weak, ToolCalls: []string{tools.SearchWebToolName}, TimeTaken: 2, Success: false},
		{PromptID: ids[1], TestRunID: weak, ToolCalls: []string{tools.DatabaseToolName}, TimeTaken: 2, Success: false},
	} {
		_, err := s.InsertResult(ctx, r)
		require.NoError(t, err)
	}
	return s, strong, weak
}

func TestBuildAllRuns(t *testing.T) {
	s, strong, weak := seedStore(t)
	rep, err := report.Build(testutil.Context(t, 0), s, 0)
	require.NoError(t, err)

	require.Len(t, rep.Models, 2)
	assert.Equal(t, "strong", rep.Models[0].Model)
	assert.InDelta(t, 100.0, rep.Models[0].SuccessRate, 0.001)

	require.Len(t, rep.Runs, 2)
	byID := map[int64]report.RunSummary{}
	for _, r := range rep.Runs {
		byID[r.ID] = r
	}
	assert.Equal(t, 2, byID[strong].Passed)
	assert.InDelta(t, 2.0, byID[strong].MeanTime, 0.001)
	assert.Empty(t, byID[strong].Misses)

	assert.Zero(t, byID[weak].Passed)
	assert.Equal(t, []store.ToolMiss{
		{Tool: tools.CalendarToolName, Expected: 1, Missed: 1},
		{Tool: tools.StatisticalAnalysisToolName, Expected: 1, Missed: 1},
	}, byID[weak].Misses)
	assert.Equal(t, 1, byID[weak].ByCategory["analysis"].Total)
}

func TestBuildSingleRun(t *testing.T) {
	s, _, weak := seedStore(t)
	rep, err := report.Build(testutil.Context(t, 0), s, weak)
	require.NoError(t, err)
	require.Len(t, rep.Runs, 1)
	assert.Equal(t, "weak", rep.Runs[0].Model)

	_, err = report.Build(testutil.Context(t, 0), s, weak+100)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRenderFormats(t *testing.T) {
	s, _, _ := seedStore(t)
	rep, err := report.Build(testutil.Context(t, 0), s, 0)
	require.NoError(t, err)

	var table bytes.Buffer
	require.NoError(t, report.Render(&table, rep, "table"))
	assert.Contains(t, table.String(), "SUCCESS RATE")
	assert.Contains(t, table.String(), "100.0%")
	assert.Contains(t, table.String(), "missed tools: calendar_tool 1/1")

	var markdown bytes.Buffer
	require.NoError(t, report.Render(&markdown, rep, "markdown"))
	assert.Contains(t, markdown.String(), "| strong | 2 | 2 | 100.0% | 2.000s |")

	var raw bytes.Buffer
	require.NoError(t, report.Render(&raw, rep, "JSON"))
	var decoded report.Report
	require.NoError(t, json.Unmarshal(raw.Bytes(), &decoded))
	assert.Len(t, decoded.Runs, 2)

	assert.Error(t, report.Render(&raw, rep, "html"))
}

func TestLoadRunFromOutputs(t *testing.T) {
	dir := t.TempDir()
	older := runner.Results{
		RunKey: runner.FormatRunID(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "aaaa"),
		Model:  "old",
	}
	newer := runner.Results{
		RunKey:    runner.FormatRunID(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), "bbbb"),
		Model:     "new",
		AgentType: "swarm",
		Prompts: []runner.PromptResult{
			{Category: "calendar", Expected: []string{tools.CalendarToolName}, ToolCalls: []string{tools.CalendarToolName}, TimeTaken: 1, Success: true},
			{Category: "calendar", Expected: []string{tools.CalendarToolName}, Error: "boom"},
		},
	}
	for _, r := range []runner.Results{older, newer} {
		_, err := runner.WriteRunOutputs(r, dir)
		require.NoError(t, err)
	}

	latest, err := report.LoadRun(dir, "latest")
	require.NoError(t, err)
	assert.Equal(t, "new", latest.Model)

	byKey, err := report.LoadRun(dir, older.RunKey)
	require.NoError(t, err)
	assert.Equal(t, "old", byKey.Model)

	byPath, err := report.LoadRun(dir, filepath.Join(dir, newer.RunKey, "results.json"))
	require.NoError(t, err)
	assert.Equal(t, newer.RunKey, byPath.RunKey)

	_, err = report.LoadRun(dir, "missing")
	assert.Error(t, err)

	rep := report.FromResults(latest)
	require.Len(t, rep.Runs, 1)
	assert.Equal(t, 1, rep.Runs[0].Passed)
	assert.Equal(t, 1, rep.Runs[0].Errored)
	assert.InDelta(t, 50.0, rep.Models[0].SuccessRate, 0.001)
	assert.Equal(t, []store.ToolMiss{{Tool: tools.CalendarToolName, Expected: 2, Missed: 1}}, rep.Runs[0].Misses)
}

func TestParseFormat(t *testing.T) {
	format, err := report.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, "table", format)
	format, err = report.ParseFormat(" Markdown ")
	require.NoError(t, err)
	assert.Equal(t, "markdown", format)
}
