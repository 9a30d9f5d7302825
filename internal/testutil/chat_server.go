package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// ChatToolCall is a function call the fake model emits.
type ChatToolCall struct {
	Name string
	Args map[string]any
}

// ChatRule scripts the fake model for user prompts containing Match.
// Status answers with an HTTP error instead of a completion.
type ChatRule struct {
	Match  string
	Tools  []ChatToolCall
	Reply  string
	Status int
}

// ChatRequest is the part of a chat-completions request the fake inspects.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Tools    []struct {
		Function struct {
			Name string `json:"name"`
		} `json:"function"`
	} `json:"tools"`
	ParallelToolCalls *bool `json:"parallel_tool_calls"`
}

// ChatMessage is one message of a chat-completions request.
type ChatMessage struct {
	Role       string `json:"role"`
	Content    string `json:"content"`
	ToolCallID string `json:"tool_call_id"`
}

// ToolNames lists the tools offered in the request.
func (r ChatRequest) ToolNames() []string {
	names := make([]string, 0, len(r.Tools))
	for _, tool := range r.Tools {
		names = append(names, tool.Function.Name)
	}
	return names
}

// ChatServer is an OpenAI-compatible streaming endpoint driven by rules.
// After tool results arrive it answers with plain text.
type ChatServer struct {
	server   *httptest.Server
	mu       sync.Mutex
	rules    []ChatRule
	requests []ChatRequest
}

// NewChatServer starts a fake chat-completions server.
func NewChatServer(rules ...ChatRule) *ChatServer {
	s := &ChatServer{rules: rules}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// URL returns the base URL to configure as the provider endpoint.
func (s *ChatServer) URL() string {
	return s.server.URL
}

// Close shuts the server down.
func (s *ChatServer) Close() {
	s.server.Close()
}

// AddRule appends a rule. Earlier rules win.
func (s *ChatServer) AddRule(rule ChatRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, rule)
}

// Requests returns the decoded requests received so far.
func (s *ChatServer) Requests() []ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatRequest(nil), s.requests...)
}

func (s *ChatServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/chat/completions") {
		http.NotFound(w, r)
		return
	}
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.requests = append(s.requests, req)
	rules := append([]ChatRule(nil), s.rules...)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/event-stream")
	if len(req.Messages) > 0 && req.Messages[len(req.Messages)-1].Role == "tool" {
		writeContent(w, "Done.")
		return
	}
	rule, ok := matchRule(rules, lastUserMessage(req.Messages))
	if !ok {
		writeContent(w, "No tools needed.")
		return
	}
	if rule.Status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rule.Status)
		fmt.Fprintf(w, `{"error":{"message":"scripted failure"}}`)
		return
	}
	if len(rule.Tools) == 0 {
		writeContent(w, rule.Reply)
		return
	}
	writeToolCalls(w, rule.Tools)
}

func lastUserMessage(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}

func matchRule(rules []ChatRule, prompt string) (ChatRule, bool) {
	for _, rule := range rules {
		if strings.Contains(prompt, rule.Match) {
			return rule, true
		}
	}
	return ChatRule{}, false
}

func writeContent(w http.ResponseWriter, text string) {
	chunk := map[string]any{
		"choices": []any{map[string]any{"delta": map[string]any{"content": text}}},
	}
	writeChunk(w, chunk)
	fmt.Fprint(w, "data: [DONE]\n\n")
}

func writeToolCalls(w http.ResponseWriter, calls []ChatToolCall) {
	deltas := make([]any, 0, len(calls))
	for i, call := range calls {
		args := call.Args
		if args == nil {
			args = map[string]any{}
		}
		encoded, _ := json.Marshal(args)
		deltas = append(deltas, map[string]any{
			"index": i,
			"id":    fmt.Sprintf("call_%d", i),
			"type":  "function",
			"function": map[string]any{
				"name":      call.Name,
				"arguments": string(encoded),
			},
		})
	}
	writeChunk(w, map[string]any{
		"choices": []any{map[string]any{"delta": map[string]any{"tool_calls": deltas}, "finish_reason": "tool_calls"}},
	})
	fmt.Fprint(w, "data: [DONE]\n\n")
}

func writeChunk(w http.ResponseWriter, chunk any) {
	payload, _ := json.Marshal(chunk)
	fmt.Fprintf(w, "data: %s\n\n", payload)
}
