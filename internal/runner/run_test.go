package runner

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolbench/internal/agent"
	"toolbench/internal/example"
	"toolbench/internal/store"
	"toolbench/internal/store/storetest"
	"toolbench/internal/testutil"
	"toolbench/internal/tools"
)

type scriptedCall struct {
	tool string
	args map[string]any
}

type scriptedStep struct {
	calls []scriptedCall
	err   error
}

// scriptedAgent calls tools by prompt text, the way a model would.
type scriptedAgent struct {
	steps    map[string]scriptedStep
	requests []agent.Request
}

func (a *scriptedAgent) Respond(ctx context.Context, req agent.Request) (string, error) {
	a.requests = append(a.requests, req)
	step := a.steps[req.Prompt]
	for _, call := range step.calls {
		for _, d := range req.Tools {
			if d.Name != call.tool {
				continue
			}
			args, err := tools.ArgsFromMap(call.args)
			if err != nil {
				return "", err
			}
			_, _ = d.Call(ctx, args)
		}
	}
	if step.err != nil {
		return "", step.err
	}
	return "ok", nil
}

type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (o *recordingObserver) add(event string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) OnRunStart(RunInfo)         { o.add("run_start") }
func (o *recordingObserver) OnPromptStart(PromptEvent)  { o.add("prompt_start") }
func (o *recordingObserver) OnToolCall(e ToolEvent)     { o.add("tool:" + e.Call.Tool) }
func (o *recordingObserver) OnPromptEnd(r PromptResult) { o.add("prompt_end:" + r.Status()) }
func (o *recordingObserver) OnRunEnd(Results)           { o.add("run_end") }

func seedPrompts(t *testing.T, s *store.Store, examples ...example.BenchmarkExample) []example.BenchmarkExample {
	t.Helper()
	ctx := testutil.Context(t, 0)
	_, err := s.InsertPrompts(ctx, examples)
	require.NoError(t, err)
	prompts, err := s.ListPrompts(ctx)
	require.NoError(t, err)
	return prompts
}

func newRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	registry, err := tools.NewDefaultRegistry(tools.CatalogOptions{})
	require.NoError(t, err)
	return registry
}

func fixedClock() *testutil.FakeClock {
	return testutil.NewFakeClock(time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC))
}

func TestRunScoresEachPromptAndContinuesAfterAgentFailure(t *testing.T) {
	s := storetest.Open(t)
	prompts := seedPrompts(t, s,
		example.BenchmarkExample{Prompt: "meetings", Category: "calendar", CorrectTools: []string{tools.CalendarToolName}},
		example.BenchmarkExample{Prompt: "broken", Category: "calendar", CorrectTools: []string{tools.CalendarToolName}},
		example.BenchmarkExample{Prompt: "users", Category: "data", CorrectTools: []string{tools.DatabaseToolName, tools.StatisticalAnalysisToolName}},
	)
	bot := &scriptedAgent{steps: map[string]scriptedStep{
		"meetings": {calls: []scriptedCall{
			{tool: tools.CalendarToolName, args: map[string]any{"start_date": "2025-03-21"}},
			{tool: tools.SummaryToolName},
		}},
		"broken": {
			calls: []scriptedCall{{tool: tools.CalendarToolName, args: map[string]any{"start_date": "2025-03-21"}}},
			err:   errors.New("provider error (500): upstream"),
		},
		"users": {calls: []scriptedCall{{tool: tools.DatabaseToolName, args: map[string]any{"query": "SELECT 1"}}}},
	}}
	observer := &recordingObserver{}
	clock := fixedClock()
	r, err := New(Dependencies{Store: s, Agent: bot, Tools: newRegistry(t), Observer: observer, Now: clock.Now})
	require.NoError(t, err)

	outputDir := t.TempDir()
	results, err := r.Run(testutil.Context(t, 0), RunRequest{
		Model:     "gpt-4o-mini",
		AgentType: "swarm",
		Prompts:   prompts,
		OutputDir: outputDir,
	})
	require.NoError(t, err)
	require.Len(t, results.Prompts, 3)

	first, second, third := results.Prompts[0], results.Prompts[1], results.Prompts[2]
	assert.True(t, first.Success)
	assert.Equal(t, []string{tools.CalendarToolName, tools.SummaryToolName}, first.ToolCalls)
	assert.False(t, second.Success)
	assert.Empty(t, second.ToolCalls)
	assert.Zero(t, second.TimeTaken)
	assert.Contains(t, second.Error, "upstream")
	assert.False(t, third.Success)
	assert.Equal(t, []string{tools.DatabaseToolName}, third.ToolCalls)

	assert.Equal(t, 1, results.Summary.Passed)
	assert.Equal(t, 1, results.Summary.Failed)
	assert.Equal(t, 1, results.Summary.Errored)
	assert.InDelta(t, 0.5, results.Summary.ByCategory["calendar"].PassRate, 1e-9)

	ctx := testutil.Context(t, 0)
	stored, err := s.ListResults(ctx, results.TestRunID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	require.NotNil(t, stored[1].ErrorType)
	assert.Equal(t, "provider error (500): upstream", *stored[1].ErrorType)

	run, err := s.GetTestRun(ctx, results.TestRunID)
	require.NoError(t, err)
	assert.NotNil(t, run.CompletedAt)

	assert.Equal(t, filepath.Join(outputDir, results.RunKey, "results.json"), results.OutputPath)
	loaded, err := ReadRunOutputs(results.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, results.Summary.Passed, loaded.Summary.Passed)

	assert.Equal(t, []string{
		"run_start",
		"prompt_start", "tool:" + tools.CalendarToolName, "tool:" + tools.SummaryToolName, "prompt_end:pass",
		"prompt_start", "tool:" + tools.CalendarToolName, "prompt_end:error",
		"prompt_start", "tool:" + tools.DatabaseToolName, "prompt_end:fail",
		"run_end",
	}, observer.events)
}

func TestRunOffersOnlyAvailableTools(t *testing.T) {
	s := storetest.Open(t)
	prompts := seedPrompts(t, s, example.BenchmarkExample{
		Prompt:         "stats",
		Category:       "analysis",
		CorrectTools:   []string{tools.StatisticalAnalysisToolName},
		ToolsAvailable: []string{tools.StatisticalAnalysisToolName, tools.CodeToolName},
	})
	bot := &scriptedAgent{}
	r, err := New(Dependencies{Store: s, Agent: bot, Tools: newRegistry(t)})
	require.NoError(t, err)

	_, err = r.Run(testutil.Context(t, 0), RunRequest{Model: "m", Prompts: prompts})
	require.NoError(t, err)
	require.Len(t, bot.requests, 1)
	var names []string
	for _, d := range bot.requests[0].Tools {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{tools.StatisticalAnalysisToolName, tools.CodeToolName}, names)
}

type failingStore struct {
	Store
	inserts   int
	failAfter int
	completed bool
}

func (f *failingStore) InsertResult(ctx context.Context, result store.Result) (int64, error) {
	f.inserts++
	if f.inserts > f.failAfter {
		return 0, errors.New("insert result: disk full")
	}
	return f.Store.InsertResult(ctx, result)
}

func (f *failingStore) CompleteTestRun(ctx context.Context, id int64, at time.Time) error {
	f.completed = true
	return f.Store.CompleteTestRun(ctx, id, at)
}

func TestRunAbortsOnPersistenceFailure(t *testing.T) {
	s := storetest.Open(t)
	prompts := seedPrompts(t, s,
		example.BenchmarkExample{Prompt: "a", Category: "c", CorrectTools: []string{tools.SummaryToolName}},
		example.BenchmarkExample{Prompt: "b", Category: "c", CorrectTools: []string{tools.SummaryToolName}},
	)
	fs := &failingStore{Store: s, failAfter: 1}
	r, err := New(Dependencies{Store: fs, Agent: &scriptedAgent{}, Tools: newRegistry(t)})
	require.NoError(t, err)

	results, err := r.Run(testutil.Context(t, 0), RunRequest{Model: "m", Prompts: prompts})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert result: disk full")
	assert.False(t, fs.completed)
	assert.Len(t, results.Prompts, 1)
}

type slowAgent struct{}

func (slowAgent) Respond(ctx context.Context, _ agent.Request) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestRunPromptTimeoutBecomesAgentError(t *testing.T) {
	s := storetest.Open(t)
	prompts := seedPrompts(t, s, example.BenchmarkExample{Prompt: "a", Category: "c", CorrectTools: []string{tools.SummaryToolName}})
	r, err := New(Dependencies{Store: s, Agent: slowAgent{}, Tools: newRegistry(t)})
	require.NoError(t, err)

	results, err := r.Run(testutil.Context(t, 0), RunRequest{Model: "m", Prompts: prompts, PromptTimeout: 10 * time.Millisecond})
	require.NoError(t, err)
	require.Len(t, results.Prompts, 1)
	assert.Contains(t, results.Prompts[0].Error, "deadline exceeded")
}

func TestVerboseObserverWritesPlainLines(t *testing.T) {
	var buf bytes.Buffer
	o := NewVerboseObserver(&buf, true)
	o.OnRunStart(RunInfo{RunKey: "k", Model: "m", AgentType: "swarm", Prompts: 1})
	o.OnPromptStart(PromptEvent{Index: 0, Total: 1, Prompt: "hello", Category: "c"})
	o.OnPromptEnd(PromptResult{Success: true, Expected: []string{"a"}, ToolCalls: []string{"a"}})
	out := buf.String()
	assert.Contains(t, out, "[toolbench] Run k model=m agent=swarm prompts=1")
	assert.Contains(t, out, "Prompt 1/1 [c] hello")
	assert.True(t, strings.Contains(out, "PASS expected=a used=a"))
}
