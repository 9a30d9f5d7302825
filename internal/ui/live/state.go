package live

import "time"

// PromptStatus is the display state of one prompt.
type PromptStatus string

const (
	StatusQueued  PromptStatus = "queued"
	StatusRunning PromptStatus = "running"
	StatusPass    PromptStatus = "pass"
	StatusFail    PromptStatus = "fail"
	StatusError   PromptStatus = "error"
)

// ToolStatus captures the latest tool call for a prompt.
type ToolStatus struct {
	Name     string
	Duration time.Duration
	Failed   bool
}

// PromptRow holds UI state for a single prompt.
type PromptRow struct {
	Index      int
	ID         int64
	Text       string
	Category   string
	Expected   []string
	Status     PromptStatus
	Calls      []string
	LastTool   ToolStatus
	HasTool    bool
	Failures   int
	StartedAt  time.Time
	FinishedAt time.Time
	TimeTaken  float64
	Error      string
}

// StatusCounts aggregates counts by status bucket.
type StatusCounts struct {
	Queued    int
	Running   int
	Done      int
	Passed    int
	Failed    int
	Errored   int
	ToolCalls int
}

// State captures the live UI state for a run.
type State struct {
	RunKey    string
	TestRunID int64
	Model     string
	AgentType string
	StartedAt time.Time
	Finished  bool
	LastEvent string
	Rows      []PromptRow
	Counts    StatusCounts
}
