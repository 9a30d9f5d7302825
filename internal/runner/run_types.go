package runner

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"toolbench/internal/agent"
	"toolbench/internal/example"
	"toolbench/internal/store"
	"toolbench/internal/tools"
)

// Store is the persistence a run needs.
type Store interface {
	CreateTestRun(ctx context.Context, run store.TestRun) (int64, error)
	CompleteTestRun(ctx context.Context, id int64, at time.Time) error
	InsertResult(ctx context.Context, result store.Result) (int64, error)
}

// ToolSource resolves the descriptors offered to the agent for one prompt.
type ToolSource interface {
	Descriptors(names ...string) ([]tools.Descriptor, error)
}

// Dependencies wires a Runner to its collaborators.
type Dependencies struct {
	Store    Store
	Agent    agent.Agent
	Tools    ToolSource
	Observer RunObserver
	Logger   zerolog.Logger
	Now      func() time.Time
	RunKey   func(now time.Time) string
}

// RunRequest configures one run over a prompt corpus.
type RunRequest struct {
	Model         string
	Instructions  string
	AgentType     string
	Prompts       []example.BenchmarkExample
	Configuration map[string]any
	PromptTimeout time.Duration
	OutputDir     string
}
