package agent

import (
	"fmt"
	"strings"

	"toolbench/internal/tools"
)

// Wire types for the OpenAI-compatible /chat/completions endpoint.
type (
	chatRequest struct {
		Model             string        `json:"model"`
		Stream            bool          `json:"stream"`
		Messages          []chatMessage `json:"messages"`
		Tools             []chatTool    `json:"tools,omitempty"`
		ToolChoice        string        `json:"tool_choice,omitempty"`
		ParallelToolCalls *bool         `json:"parallel_tool_calls,omitempty"`
		Temperature       *float64      `json:"temperature,omitempty"`
	}

	chatMessage struct {
		Role       string         `json:"role"`
		Content    string         `json:"content,omitempty"`
		ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
		ToolCallID string         `json:"tool_call_id,omitempty"`
	}

	chatTool struct {
		Type     string       `json:"type"`
		Function chatFunction `json:"function"`
	}

	chatFunction struct {
		Name        string        `json:"name"`
		Description string        `json:"description,omitempty"`
		Parameters  *tools.Schema `json:"parameters,omitempty"`
	}

	chatToolCall struct {
		ID       string           `json:"id"`
		Type     string           `json:"type"`
		Function chatFunctionCall `json:"function"`
	}

	chatFunctionCall struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	}
)

// encodeMessages flattens instructions and history into chat messages.
// Consecutive tool calls are folded into one assistant message.
func encodeMessages(prompt Prompt) ([]chatMessage, error) {
	var out []chatMessage
	if text := strings.TrimSpace(prompt.Instructions); text != "" {
		out = append(out, chatMessage{Role: "system", Content: prompt.Instructions})
	}
	for _, item := range prompt.InputItems {
		switch c := item.Content.(type) {
		case string:
			out = append(out, chatMessage{Role: item.Role, Content: c})
		case HistoryText:
			out = append(out, chatMessage{Role: item.Role, Content: c.Text})
		case ToolCall:
			if c.ID == "" {
				return nil, fmt.Errorf("tool call id is required for %s", c.Name)
			}
			call := chatToolCall{
				ID:       c.ID,
				Type:     "function",
				Function: chatFunctionCall{Name: c.Name, Arguments: string(c.Args.JSON())},
			}
			if n := len(out); n > 0 && len(out[n-1].ToolCalls) > 0 {
				out[n-1].ToolCalls = append(out[n-1].ToolCalls, call)
				continue
			}
			out = append(out, chatMessage{Role: item.Role, ToolCalls: []chatToolCall{call}})
		case ToolOutput:
			out = append(out, chatMessage{Role: "tool", Content: c.Result.Output, ToolCallID: c.ToolCallID})
		default:
			return nil, fmt.Errorf("unsupported history content type %T", item.Content)
		}
	}
	return out, nil
}

// encodeTools advertises definitions as function tools. A nil schema
// becomes an empty object schema.
func encodeTools(defs []ToolDefinition) []chatTool {
	out := make([]chatTool, len(defs))
	for i, def := range defs {
		params := def.Parameters
		if params == nil {
			empty := tools.ObjectSchema(nil)
			params = &empty
		}
		out[i] = chatTool{
			Type:     "function",
			Function: chatFunction{Name: def.Name, Description: def.Description, Parameters: params},
		}
	}
	return out
}
