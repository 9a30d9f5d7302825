package agent

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolbench/internal/testutil"
	"toolbench/internal/tools"
	"toolbench/internal/tracker"
)

type stubStream struct {
	events []StreamEvent
	index  int
}

func (s *stubStream) Recv() (StreamEvent, error) {
	if s.index >= len(s.events) {
		return StreamEvent{}, io.EOF
	}
	event := s.events[s.index]
	s.index++
	return event, nil
}

type stubProvider struct {
	mu      sync.Mutex
	streams [][]StreamEvent
	prompts []Prompt
	err     error
}

func (p *stubProvider) Stream(_ context.Context, prompt Prompt) (Stream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return nil, p.err
	}
	if len(p.prompts) > len(p.streams) {
		return nil, errors.New("no streams")
	}
	return &stubStream{events: p.streams[len(p.prompts)-1]}, nil
}

func factoryFor(provider Provider) ProviderFactory {
	return func(string) (Provider, error) { return provider, nil }
}

func toolCallEvent(t *testing.T, id, name string, values map[string]any) StreamEvent {
	t.Helper()
	args, err := tools.ArgsFromMap(values)
	require.NoError(t, err)
	return StreamEvent{Type: StreamEventToolCall, ToolCall: ToolCall{ID: id, Name: name, Args: args}}
}

func catalogDescriptors(t *testing.T, disabled ...string) []tools.Descriptor {
	t.Helper()
	registry, err := tools.NewDefaultRegistry(tools.CatalogOptions{Disabled: disabled})
	require.NoError(t, err)
	descs, err := registry.Descriptors()
	require.NoError(t, err)
	return descs
}

func TestToolLoopDefaultsPerType(t *testing.T) {
	swarm, err := NewToolLoop(factoryFor(&stubProvider{}), LoopConfig{})
	require.NoError(t, err)
	assert.Equal(t, TypeSwarm, swarm.Config().Type)
	assert.Equal(t, DefaultSwarmSteps, swarm.Config().MaxSteps)

	react, err := NewToolLoop(factoryFor(&stubProvider{}), LoopConfig{Type: TypeReAct, ParallelTools: true})
	require.NoError(t, err)
	assert.Equal(t, DefaultReActSteps, react.Config().MaxSteps)
	assert.False(t, react.Config().ParallelTools)

	_, err = NewToolLoop(factoryFor(&stubProvider{}), LoopConfig{Type: "planner"})
	assert.Error(t, err)
}

func TestToolLoopAnswersWithoutTools(t *testing.T) {
	provider := &stubProvider{streams: [][]StreamEvent{{{Type: StreamEventMessage, Message: "hello"}}}}
	loop, err := NewToolLoop(factoryFor(provider), LoopConfig{})
	require.NoError(t, err)

	out, err := loop.Respond(testutil.Context(t, time.Second), Request{Prompt: "hi", Instructions: "be brief"})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	require.Len(t, provider.prompts, 1)
	assert.Equal(t, "be brief", provider.prompts[0].Instructions)
}

func TestToolLoopExecutesCallsAndRecordsEpisode(t *testing.T) {
	provider := &stubProvider{streams: [][]StreamEvent{
		{
			toolCallEvent(t, "c1", tools.CalendarToolName, map[string]any{"start_date": "2024-03-20"}),
			toolCallEvent(t, "c2", tools.DatabaseToolName, map[string]any{"query": "SELECT * FROM users"}),
		},
		{{Type: StreamEventMessage, Message: "done"}},
	}}
	loop, err := NewToolLoop(factoryFor(provider), LoopConfig{ParallelTools: true})
	require.NoError(t, err)

	episode := tracker.NewEpisode()
	ctx := tracker.WithEpisode(testutil.Context(t, time.Second), episode)
	out, err := loop.Respond(ctx, Request{Prompt: "check", Tools: catalogDescriptors(t)})
	require.NoError(t, err)
	assert.Equal(t, "done", out)

	assert.ElementsMatch(t, []string{tools.CalendarToolName, tools.DatabaseToolName}, tracker.ToolNames(episode.Calls()))

	require.Len(t, provider.prompts, 2)
	history := provider.prompts[1].InputItems
	require.Len(t, history, 5)
	first := history[2].Content.(ToolOutput)
	assert.Equal(t, "c1", first.ToolCallID)
	assert.Contains(t, first.Result.Output, "Calendar Events")
	second := history[4].Content.(ToolOutput)
	assert.Equal(t, "c2", second.ToolCallID)
	assert.Contains(t, second.Result.Output, "Total rows")
}

func TestToolLoopReturnsToolErrorsToModel(t *testing.T) {
	provider := &stubProvider{streams: [][]StreamEvent{
		{toolCallEvent(t, "c1", tools.CalendarToolName, map[string]any{})},
		{{Type: StreamEventMessage, Message: "sorry"}},
	}}
	loop, err := NewToolLoop(factoryFor(provider), LoopConfig{Type: TypeReAct})
	require.NoError(t, err)

	episode := tracker.NewEpisode()
	ctx := tracker.WithEpisode(testutil.Context(t, time.Second), episode)
	out, err := loop.Respond(ctx, Request{Prompt: "x", Tools: catalogDescriptors(t)})
	require.NoError(t, err)
	assert.Equal(t, "sorry", out)

	calls := episode.Calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Failed)

	output := provider.prompts[1].InputItems[2].Content.(ToolOutput)
	assert.Contains(t, output.Result.Output, "error: ")
}

func TestToolLoopUnknownAndDisabledToolsAreNotExecuted(t *testing.T) {
	provider := &stubProvider{streams: [][]StreamEvent{
		{
			toolCallEvent(t, "c1", "weather_tool", nil),
			toolCallEvent(t, "c2", tools.CodeToolName, map[string]any{"code": "print(1)", "language": "python"}),
		},
		{{Type: StreamEventMessage, Message: "ok"}},
	}}
	loop, err := NewToolLoop(factoryFor(provider), LoopConfig{})
	require.NoError(t, err)

	episode := tracker.NewEpisode()
	ctx := tracker.WithEpisode(testutil.Context(t, time.Second), episode)
	_, err = loop.Respond(ctx, Request{Prompt: "x", Tools: catalogDescriptors(t, tools.CodeToolName)})
	require.NoError(t, err)

	assert.Zero(t, episode.Len())
	for _, def := range provider.prompts[0].Tools {
		assert.NotEqual(t, tools.CodeToolName, def.Name)
	}
	for _, index := range []int{2, 4} {
		output := provider.prompts[1].InputItems[index].Content.(ToolOutput)
		assert.Equal(t, "error: unknown tool", output.Result.Output)
	}
}

func TestToolLoopStepLimit(t *testing.T) {
	call := toolCallEvent(t, "", tools.SummaryToolName, nil)
	provider := &stubProvider{streams: [][]StreamEvent{{call}, {call}, {call}}}
	loop, err := NewToolLoop(factoryFor(provider), LoopConfig{MaxSteps: 2})
	require.NoError(t, err)

	episode := tracker.NewEpisode()
	ctx := tracker.WithEpisode(testutil.Context(t, time.Second), episode)
	_, err = loop.Respond(ctx, Request{Prompt: "x", Tools: catalogDescriptors(t)})
	require.ErrorIs(t, err, ErrStepLimit)
	assert.Equal(t, 2, episode.Len())
	assert.Len(t, provider.prompts, 2)
}

func TestToolLoopProviderErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	loop, err := NewToolLoop(factoryFor(&stubProvider{err: boom}), LoopConfig{})
	require.NoError(t, err)
	_, err = loop.Respond(testutil.Context(t, time.Second), Request{Prompt: "x"})
	require.ErrorIs(t, err, boom)
}

func TestTextCompleterCollectsStream(t *testing.T) {
	provider := &stubProvider{streams: [][]StreamEvent{{
		{Type: StreamEventMessage, Message: "a"},
		{Type: StreamEventMessage, Message: "b"},
	}}}
	out, err := TextCompleter{Provider: provider}.Complete(testutil.Context(t, time.Second), "generate")
	require.NoError(t, err)
	assert.Equal(t, "ab", out)
	assert.Empty(t, provider.prompts[0].Tools)
}
