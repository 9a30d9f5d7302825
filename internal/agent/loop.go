package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/iter"

	"toolbench/internal/tools"
)

// ErrStepLimit signals that the model kept calling tools past the step budget.
var ErrStepLimit = errors.New("step limit reached")

// Type selects the agent strategy.
type Type string

const (
	TypeSwarm Type = "swarm"
	TypeReAct Type = "react"
)

// Default step budgets per agent type.
const (
	DefaultSwarmSteps = 10
	DefaultReActSteps = 7
)

// ParseType validates an agent type name. Empty selects swarm.
func ParseType(value string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(value))) {
	case "", TypeSwarm:
		return TypeSwarm, nil
	case TypeReAct:
		return TypeReAct, nil
	default:
		return "", fmt.Errorf("unsupported agent type %q", value)
	}
}

// Request is one prompt handed to an agent.
type Request struct {
	Prompt       string
	Model        string
	Tools        []tools.Descriptor
	Instructions string
}

// Agent answers a prompt, possibly by calling tools.
type Agent interface {
	Respond(ctx context.Context, req Request) (string, error)
}

// LoopConfig configures a ToolLoop.
type LoopConfig struct {
	Type          Type
	MaxSteps      int
	ParallelTools bool
	MaxParallel   int
	Limits        tools.Limits
	Logger        zerolog.Logger
	Clock         func() time.Time
}

// ToolLoop drives a provider through repeated tool-calling turns.
type ToolLoop struct {
	factory ProviderFactory
	config  LoopConfig
}

// NewToolLoop builds a ToolLoop, filling in per-type defaults.
func NewToolLoop(factory ProviderFactory, config LoopConfig) (*ToolLoop, error) {
	if factory == nil {
		return nil, fmt.Errorf("provider factory is required")
	}
	agentType, err := ParseType(string(config.Type))
	if err != nil {
		return nil, err
	}
	config.Type = agentType
	if config.MaxSteps <= 0 {
		config.MaxSteps = DefaultSwarmSteps
		if agentType == TypeReAct {
			config.MaxSteps = DefaultReActSteps
		}
	}
	if agentType == TypeReAct {
		config.ParallelTools = false
	}
	if config.MaxParallel <= 0 {
		config.MaxParallel = 4
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	return &ToolLoop{factory: factory, config: config}, nil
}

// Config returns the effective configuration.
func (l *ToolLoop) Config() LoopConfig {
	return l.config
}

// Respond runs the loop until the model answers without calling tools.
func (l *ToolLoop) Respond(ctx context.Context, req Request) (string, error) {
	provider, err := l.factory(req.Model)
	if err != nil {
		return "", fmt.Errorf("build provider: %w", err)
	}
	byName := make(map[string]tools.Descriptor, len(req.Tools))
	for _, d := range req.Tools {
		if d.Enabled {
			byName[d.Name] = d
		}
	}
	defs := definitionsFor(req.Tools)
	history := []HistoryItem{{Role: "user", Content: HistoryText{Text: req.Prompt}}}

	for step := 1; ; step++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if step > l.config.MaxSteps {
			return latestAssistantMessage(history), ErrStepLimit
		}
		prompt := Prompt{
			Instructions:      req.Instructions,
			InputItems:        history,
			Tools:             defs,
			ParallelToolCalls: l.config.ParallelTools,
		}
		stream, err := provider.Stream(ctx, prompt)
		if err != nil {
			return "", err
		}
		message, calls, err := collectStream(stream)
		if err != nil {
			return "", err
		}
		if message != "" {
			history = append(history, HistoryItem{Role: "assistant", Content: HistoryText{Text: message}})
		}
		l.config.Logger.Debug().
			Str("agent", string(l.config.Type)).
			Int("step", step).
			Int("tool_calls", len(calls)).
			Msg("model turn")
		if len(calls) == 0 {
			return latestAssistantMessage(history), nil
		}
		for i := range calls {
			if calls[i].ID == "" {
				calls[i].ID = "call-" + uuid.NewString()
			}
		}
		outputs := l.executeAll(ctx, byName, calls)
		for i, call := range calls {
			history = append(history,
				HistoryItem{Role: "assistant", Content: call},
				HistoryItem{Role: "tool", Content: outputs[i]},
			)
		}
	}
}

// executeAll runs one turn's tool calls, preserving call order in the result.
func (l *ToolLoop) executeAll(ctx context.Context, byName map[string]tools.Descriptor, calls []ToolCall) []ToolOutput {
	run := func(call *ToolCall) ToolOutput {
		return ToolOutput{ToolCallID: call.ID, Result: l.execute(ctx, byName, *call)}
	}
	if l.config.ParallelTools && len(calls) > 1 {
		mapper := iter.Mapper[ToolCall, ToolOutput]{MaxGoroutines: l.config.MaxParallel}
		return mapper.Map(calls, run)
	}
	outputs := make([]ToolOutput, 0, len(calls))
	for i := range calls {
		outputs = append(outputs, run(&calls[i]))
	}
	return outputs
}

func (l *ToolLoop) execute(ctx context.Context, byName map[string]tools.Descriptor, call ToolCall) tools.CallResult {
	d, ok := byName[call.Name]
	if !ok {
		l.config.Logger.Warn().Str("tool", call.Name).Msg("model requested unknown tool")
		return tools.CallResult{
			Tool:   call.Name,
			Output: "error: unknown tool",
			Error:  fmt.Sprintf("%s: %s", tools.ErrUnknownTool, call.Name),
		}
	}
	result := tools.Execute(ctx, d, call.Args, l.config.Limits, l.config.Clock)
	event := l.config.Logger.Debug().
		Str("tool", call.Name).
		Str("call_id", call.ID).
		Dur("duration", result.Duration).
		Int("bytes", result.OutputBytes)
	if result.Error != "" {
		event = event.Str("error", result.Error)
	}
	event.Msg("tool call")
	return result
}

// collectStream drains a stream into its text and tool calls.
func collectStream(stream Stream) (string, []ToolCall, error) {
	var text strings.Builder
	var calls []ToolCall
	for {
		event, err := stream.Recv()
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", nil, err
		}
		switch event.Type {
		case StreamEventMessage:
			text.WriteString(event.Message)
		case StreamEventToolCall:
			calls = append(calls, event.ToolCall)
		default:
			return "", nil, fmt.Errorf("unknown stream event type: %d", event.Type)
		}
	}
	return text.String(), calls, nil
}

// latestAssistantMessage returns the most recent assistant text message.
func latestAssistantMessage(history []HistoryItem) string {
	for i := len(history) - 1; i >= 0; i-- {
		item := history[i]
		if item.Role != "assistant" {
			continue
		}
		if text, ok := item.Content.(HistoryText); ok {
			return text.Text
		}
	}
	return ""
}
