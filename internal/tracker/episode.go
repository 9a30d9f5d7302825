// Package tracker records the tool calls an agent makes while answering one prompt.
package tracker

import (
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Call is one observed tool invocation. It is immutable once recorded.
type Call struct {
	Tool      string
	Arguments map[string]any
	Duration  time.Duration
	Timestamp time.Time
	Result    string
	Failed    bool
}

// Seconds returns the call duration in fractional seconds.
func (c Call) Seconds() float64 {
	return c.Duration.Seconds()
}

// Hook observes calls as they are recorded.
type Hook func(Call)

// Option configures an Episode.
type Option func(*Episode)

// WithClock overrides the clock used for timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(e *Episode) {
		if now != nil {
			e.now = now
		}
	}
}

// WithHook registers a hook invoked after every recorded call.
func WithHook(hook Hook) Option {
	return func(e *Episode) {
		e.hook = hook
	}
}

// Episode accumulates the calls made between two Clear operations.
type Episode struct {
	id   string
	now  func() time.Time
	hook Hook

	mu    sync.Mutex
	calls []Call
}

// NewEpisode returns an empty episode.
func NewEpisode(opts ...Option) *Episode {
	e := &Episode{id: uuid.NewString(), now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ID identifies the episode in logs.
func (e *Episode) ID() string {
	return e.id
}

// Record appends a call in completion order. It is safe for concurrent use.
func (e *Episode) Record(call Call) {
	if call.Duration < 0 {
		call.Duration = 0
	}
	if call.Timestamp.IsZero() {
		call.Timestamp = e.now()
	}
	call.Arguments = maps.Clone(call.Arguments)

	e.mu.Lock()
	e.calls = append(e.calls, call)
	hook := e.hook
	e.mu.Unlock()

	if hook != nil {
		hook(call)
	}
}

// Calls returns a snapshot of the recorded calls.
func (e *Episode) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Call, len(e.calls))
	copy(out, e.calls)
	return out
}

// Len reports how many calls have been recorded since the last Clear.
func (e *Episode) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

// Clear empties the episode.
func (e *Episode) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

// SetHook replaces the hook invoked after every recorded call.
func (e *Episode) SetHook(hook Hook) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hook = hook
}

// ToolNames returns the tool names of calls in order, duplicates included.
func ToolNames(calls []Call) []string {
	names := make([]string, 0, len(calls))
	for _, call := range calls {
		names = append(names, call.Tool)
	}
	return names
}

// TotalDuration sums the durations of calls.
func TotalDuration(calls []Call) time.Duration {
	var total time.Duration
	for _, call := range calls {
		total += call.Duration
	}
	return total
}
