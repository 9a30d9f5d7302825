// Package runner executes benchmark prompts against an agent and scores tool selection.
package runner

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"toolbench/internal/agent"
	"toolbench/internal/example"
	"toolbench/internal/store"
	"toolbench/internal/tracker"
)

// Runner drives prompts through an agent one at a time.
type Runner struct {
	store    Store
	agent    agent.Agent
	tools    ToolSource
	observer RunObserver
	logger   zerolog.Logger
	now      func() time.Time
	runKey   func(time.Time) string
	episode  *tracker.Episode
}

// New validates dependencies and builds a Runner with its own episode.
func New(deps Dependencies) (*Runner, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if deps.Agent == nil {
		return nil, fmt.Errorf("agent is required")
	}
	if deps.Tools == nil {
		return nil, fmt.Errorf("tool source is required")
	}
	r := &Runner{
		store:    deps.Store,
		agent:    deps.Agent,
		tools:    deps.Tools,
		observer: deps.Observer,
		logger:   deps.Logger,
		now:      deps.Now,
		runKey:   deps.RunKey,
	}
	if r.observer == nil {
		r.observer = NopObserver{}
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.runKey == nil {
		r.runKey = NewRunKey
	}
	r.episode = tracker.NewEpisode(tracker.WithClock(r.now))
	return r, nil
}

// Run creates a test run, scores every prompt, then completes the run.
// Agent failures become failed results. Persistence failures abort the run.
func (r *Runner) Run(ctx context.Context, req RunRequest) (Results, error) {
	if req.Model == "" {
		return Results{}, fmt.Errorf("model is required")
	}
	startedAt := r.now()
	results := Results{
		RunKey:       r.runKey(startedAt),
		Model:        req.Model,
		AgentType:    req.AgentType,
		Instructions: req.Instructions,
		StartedAt:    startedAt,
		Prompts:      make([]PromptResult, 0, len(req.Prompts)),
	}
	runID, err := r.store.CreateTestRun(ctx, store.TestRun{
		ModelName:     req.Model,
		Instructions:  req.Instructions,
		AgentType:     req.AgentType,
		StartedAt:     startedAt,
		Configuration: req.Configuration,
	})
	if err != nil {
		return results, fmt.Errorf("create test run: %w", err)
	}
	results.TestRunID = runID
	logger := r.logger.With().Int64("test_run_id", runID).Str("run_key", results.RunKey).Logger()
	logger.Info().Str("model", req.Model).Int("prompts", len(req.Prompts)).Msg("run started")
	r.observer.OnRunStart(RunInfo{
		RunKey:    results.RunKey,
		TestRunID: runID,
		Model:     req.Model,
		AgentType: req.AgentType,
		Prompts:   len(req.Prompts),
	})

	for i, ex := range req.Prompts {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("run interrupted: %w", err)
		}
		result := r.runPrompt(ctx, req, i, ex)
		id, err := r.store.InsertResult(ctx, store.Result{
			PromptID:  ex.ID,
			TestRunID: runID,
			ToolCalls: result.ToolCalls,
			TimeTaken: result.TimeTaken,
			Success:   result.Success,
			ErrorType: errorType(result.Error),
			CreatedAt: r.now(),
		})
		if err != nil {
			logger.Error().Err(err).Int64("prompt_id", ex.ID).Msg("persist result failed")
			return results, fmt.Errorf("prompt %d: %w", ex.ID, err)
		}
		result.ResultID = id
		results.Prompts = append(results.Prompts, result)
		logger.Debug().
			Int64("prompt_id", ex.ID).
			Str("status", result.Status()).
			Strs("tool_calls", result.ToolCalls).
			Float64("time_taken", result.TimeTaken).
			Msg("prompt scored")
		r.observer.OnPromptEnd(result)
	}

	results.FinishedAt = r.now()
	if err := r.store.CompleteTestRun(ctx, runID, results.FinishedAt); err != nil {
		return results, fmt.Errorf("complete test run: %w", err)
	}
	results.Summary = summarize(results.Prompts)
	if req.OutputDir != "" {
		path, err := WriteRunOutputs(results, req.OutputDir)
		if err != nil {
			return results, err
		}
		results.OutputPath = path
	}
	logger.Info().
		Int("passed", results.Summary.Passed).
		Int("failed", results.Summary.Failed).
		Int("errored", results.Summary.Errored).
		Float64("pass_rate", results.Summary.PassRate).
		Msg("run completed")
	r.observer.OnRunEnd(results)
	return results, nil
}

// runPrompt invokes the agent on one prompt against a freshly cleared episode.
func (r *Runner) runPrompt(ctx context.Context, req RunRequest, index int, ex example.BenchmarkExample) PromptResult {
	result := PromptResult{
		Index:         index,
		PromptID:      ex.ID,
		Prompt:        ex.Prompt,
		Category:      ex.Category,
		Expected:      slices.Clone(ex.CorrectTools),
		ExpectedOrder: ex.ExpectedOrder,
		ToolCalls:     []string{},
	}
	r.episode.Clear()
	r.episode.SetHook(func(call tracker.Call) {
		r.observer.OnToolCall(ToolEvent{Index: index, PromptID: ex.ID, Call: call})
	})
	defer r.episode.SetHook(nil)
	r.observer.OnPromptStart(PromptEvent{
		Index:    index,
		Total:    len(req.Prompts),
		PromptID: ex.ID,
		Prompt:   ex.Prompt,
		Category: ex.Category,
		Expected: result.Expected,
	})

	descriptors, err := r.tools.Descriptors(ex.ToolsAvailable...)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	promptCtx := tracker.WithEpisode(ctx, r.episode)
	if req.PromptTimeout > 0 {
		var cancel context.CancelFunc
		promptCtx, cancel = context.WithTimeout(promptCtx, req.PromptTimeout)
		defer cancel()
	}
	response, err := r.agent.Respond(promptCtx, agent.Request{
		Prompt:       ex.Prompt,
		Model:        req.Model,
		Tools:        descriptors,
		Instructions: req.Instructions,
	})
	if err != nil {
		r.logger.Warn().Err(err).Int64("prompt_id", ex.ID).Msg("agent invocation failed")
		result.Error = err.Error()
		return result
	}
	calls := r.episode.Calls()
	result.Response = response
	result.ToolCalls = tracker.ToolNames(calls)
	result.TimeTaken = tracker.TotalDuration(calls).Seconds()
	result.Success = Score(ex.CorrectTools, result.ToolCalls, ex.ExpectedOrder)
	return result
}

func errorType(message string) *string {
	if message == "" {
		return nil
	}
	return &message
}
