package agent

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"toolbench/internal/tools"
)

const (
	sseDataPrefix = "data:"
	sseDone       = "[DONE]"
	maxSSELine    = 1024 * 1024
)

// chatChunk is one server-sent event of a streamed chat completion.
type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content   string          `json:"content"`
			ToolCalls []toolCallDelta `json:"tool_calls"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// toolCallDelta is a fragment of one tool call. Fragments sharing an Index
// belong to the same call; arguments arrive as concatenated JSON text.
type toolCallDelta struct {
	Index    int              `json:"index"`
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function chatFunctionCall `json:"function"`
}

type pendingCall struct {
	id   string
	name string
	args strings.Builder
}

// streamAssembly folds chunks into the final reply text and tool calls.
type streamAssembly struct {
	text  strings.Builder
	calls map[int]*pendingCall
}

func (a *streamAssembly) add(chunk chatChunk) {
	for _, choice := range chunk.Choices {
		a.text.WriteString(choice.Delta.Content)
		for _, delta := range choice.Delta.ToolCalls {
			call := a.calls[delta.Index]
			if call == nil {
				call = &pendingCall{}
				a.calls[delta.Index] = call
			}
			if delta.ID != "" {
				call.id = delta.ID
			}
			if delta.Function.Name != "" {
				call.name = delta.Function.Name
			}
			call.args.WriteString(delta.Function.Arguments)
		}
	}
}

// events emits the message first, then tool calls by stream index.
func (a *streamAssembly) events() []StreamEvent {
	out := make([]StreamEvent, 0, len(a.calls)+1)
	if a.text.Len() > 0 {
		out = append(out, StreamEvent{Type: StreamEventMessage, Message: a.text.String()})
	}
	for _, index := range slices.Sorted(maps.Keys(a.calls)) {
		call := a.calls[index]
		raw := call.args.String()
		args, err := tools.ParseArgs(raw)
		if err != nil {
			// keep the bad payload so the tool reports the failure
			args = tools.Args{"_raw": jsonString(raw)}
		}
		id := call.id
		if id == "" {
			id = fmt.Sprintf("call-%d", index)
		}
		out = append(out, StreamEvent{
			Type:     StreamEventToolCall,
			ToolCall: ToolCall{ID: id, Name: call.name, Args: args},
		})
	}
	return out
}

// parseOpenRouterStream consumes an SSE body until [DONE] or EOF.
func parseOpenRouterStream(r io.Reader) ([]StreamEvent, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELine)

	assembly := &streamAssembly{calls: map[int]*pendingCall{}}
	for scanner.Scan() {
		data, ok := strings.CutPrefix(strings.TrimSpace(scanner.Text()), sseDataPrefix)
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == sseDone {
			break
		}
		var chunk chatChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return nil, fmt.Errorf("parse stream chunk: %w", err)
		}
		if chunk.Error != nil {
			return nil, fmt.Errorf("provider stream error: %s", chunk.Error.Message)
		}
		assembly.add(chunk)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}
	return assembly.events(), nil
}

// staticStream replays already parsed events.
type staticStream struct {
	events []StreamEvent
	index  int
}

func (s *staticStream) Recv() (StreamEvent, error) {
	if s.index >= len(s.events) {
		return StreamEvent{}, io.EOF
	}
	event := s.events[s.index]
	s.index++
	return event, nil
}

func jsonString(text string) json.RawMessage {
	payload, err := json.Marshal(text)
	if err != nil {
		return json.RawMessage(`""`)
	}
	return payload
}
