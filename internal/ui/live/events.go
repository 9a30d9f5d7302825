package live

import (
	"time"

	"toolbench/internal/runner"
)

// EventKind mirrors the runner.RunObserver callbacks.
type EventKind int

const (
	EventRunStart EventKind = iota
	EventPromptStart
	EventToolCall
	EventPromptEnd
	EventRunEnd
)

// Event is one observer callback. Only the field matching Kind is set.
type Event struct {
	Kind    EventKind
	At      time.Time
	Run     runner.RunInfo
	Prompt  runner.PromptEvent
	Tool    runner.ToolEvent
	Result  runner.PromptResult
	Summary runner.RunSummary
}
