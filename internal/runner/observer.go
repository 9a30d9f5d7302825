package runner

import "toolbench/internal/tracker"

// RunInfo describes a run as it starts.
type RunInfo struct {
	RunKey    string
	TestRunID int64
	Model     string
	AgentType string
	Prompts   int
}

// PromptEvent announces a prompt about to be sent to the agent.
type PromptEvent struct {
	Index    int
	Total    int
	PromptID int64
	Prompt   string
	Category string
	Expected []string
}

// ToolEvent reports one tool call recorded during a prompt.
type ToolEvent struct {
	Index    int
	PromptID int64
	Call     tracker.Call
}

// RunObserver receives run lifecycle events for UI, logging or metrics.
// OnToolCall may be invoked from several goroutines at once.
type RunObserver interface {
	OnRunStart(info RunInfo)
	OnPromptStart(event PromptEvent)
	OnToolCall(event ToolEvent)
	OnPromptEnd(result PromptResult)
	OnRunEnd(results Results)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnRunStart(RunInfo)        {}
func (NopObserver) OnPromptStart(PromptEvent) {}
func (NopObserver) OnToolCall(ToolEvent)      {}
func (NopObserver) OnPromptEnd(PromptResult)  {}
func (NopObserver) OnRunEnd(Results)          {}

// MultiObserver fans events out in order.
type MultiObserver []RunObserver

func (m MultiObserver) OnRunStart(info RunInfo) {
	for _, o := range m {
		o.OnRunStart(info)
	}
}

func (m MultiObserver) OnPromptStart(event PromptEvent) {
	for _, o := range m {
		o.OnPromptStart(event)
	}
}

func (m MultiObserver) OnToolCall(event ToolEvent) {
	for _, o := range m {
		o.OnToolCall(event)
	}
}

func (m MultiObserver) OnPromptEnd(result PromptResult) {
	for _, o := range m {
		o.OnPromptEnd(result)
	}
}

func (m MultiObserver) OnRunEnd(results Results) {
	for _, o := range m {
		o.OnRunEnd(results)
	}
}
