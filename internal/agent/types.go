package agent

import (
	"context"

	"toolbench/internal/tools"
)

// Provider sends one model request and streams back the reply.
type Provider interface {
	Stream(ctx context.Context, prompt Prompt) (Stream, error)
}

// ProviderFactory binds a Provider to a model name.
type ProviderFactory func(model string) (Provider, error)

// Stream is drained with Recv until io.EOF.
type Stream interface {
	Recv() (StreamEvent, error)
}

type StreamEventType int

const (
	StreamEventMessage StreamEventType = iota
	StreamEventToolCall
)

// StreamEvent is either reply text or a tool call, depending on Type.
type StreamEvent struct {
	Type     StreamEventType
	Message  string
	ToolCall ToolCall
}

// Prompt is everything sent to the model for one step of the loop.
type Prompt struct {
	Instructions      string
	InputItems        []HistoryItem
	Tools             []ToolDefinition
	ParallelToolCalls bool
}

// ToolDefinition is a tool as advertised to the model.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  *tools.Schema
}

// HistoryItem is one conversation turn. Content is a HistoryText, ToolCall or ToolOutput.
type HistoryItem struct {
	Role    string
	Content any
}

type HistoryContent interface {
	historyContent()
}

type HistoryText struct {
	Text string
}

// ToolCall is a call requested by the model.
type ToolCall struct {
	ID   string
	Name string
	Args tools.Args
}

// ToolOutput answers the ToolCall with the same ID.
type ToolOutput struct {
	ToolCallID string
	Result     tools.CallResult
}

func (HistoryText) historyContent() {}
func (ToolCall) historyContent()    {}
func (ToolOutput) historyContent()  {}

// definitionsFor advertises enabled descriptors only.
func definitionsFor(descriptors []tools.Descriptor) []ToolDefinition {
	var defs []ToolDefinition
	for _, d := range descriptors {
		if d.Enabled {
			defs = append(defs, ToolDefinition{Name: d.Name, Description: d.Description, Parameters: d.Parameters})
		}
	}
	return defs
}
