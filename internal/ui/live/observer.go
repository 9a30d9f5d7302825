package live

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"toolbench/internal/runner"
)

const eventBuffer = 256

// Controller owns the Bubble Tea program and feeds it runner callbacks.
// It satisfies runner.RunObserver.
type Controller struct {
	mu     sync.Mutex
	events chan Event
	closed bool
	exited chan struct{}
	now    func() time.Time
}

var _ runner.RunObserver = (*Controller)(nil)

// Start runs the live table on out in the alternate screen.
func Start(out io.Writer, opts Options) *Controller {
	c := &Controller{
		events: make(chan Event, eventBuffer),
		exited: make(chan struct{}),
		now:    time.Now,
	}
	program := tea.NewProgram(NewModel(c.events, opts),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithAltScreen(),
	)
	go func() {
		defer close(c.exited)
		_, _ = program.Run()
	}()
	return c
}

// Close ends the event stream; the program quits after draining it.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.events)
	}
}

// Wait returns once the program has restored the terminal.
func (c *Controller) Wait() {
	if c != nil {
		<-c.exited
	}
}

func (c *Controller) OnRunStart(info runner.RunInfo) {
	c.send(Event{Kind: EventRunStart, Run: info}, true)
}

func (c *Controller) OnPromptStart(event runner.PromptEvent) {
	c.send(Event{Kind: EventPromptStart, Prompt: event}, true)
}

// OnToolCall may drop the event when the program falls behind.
func (c *Controller) OnToolCall(event runner.ToolEvent) {
	c.send(Event{Kind: EventToolCall, Tool: event}, false)
}

func (c *Controller) OnPromptEnd(result runner.PromptResult) {
	c.send(Event{Kind: EventPromptEnd, Result: result}, true)
}

func (c *Controller) OnRunEnd(results runner.Results) {
	c.send(Event{Kind: EventRunEnd, Summary: results.Summary}, true)
	c.Close()
}

func (c *Controller) send(event Event, wait bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	event.At = c.now()
	if !wait {
		select {
		case c.events <- event:
		default:
		}
		return
	}
	select {
	case c.events <- event:
	case <-c.exited:
	}
}
