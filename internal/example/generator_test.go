package example

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `Sure! Here are the examples.

1. **Prompt:** What meetings do I have next week?
**Prompt Category:** calendar_query
**Correct Tools:** ['calendar_tool']
**Expected Outcome:** A list of meetings

2. Prompt: Count users per country
Prompt Category: database_query
Correct Tools: ["database_tool", "statistical_analysis_tool"]

3. Prompt: this one has no tools
Prompt Category: broken`

type fakeCompleter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func TestGenerateParsesValidBlocks(t *testing.T) {
	var logs bytes.Buffer
	completer := &fakeCompleter{response: sampleResponse}
	gen := NewGenerator(completer, "- calendar_tool:", WithLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)))

	examples := gen.Generate(context.Background(), 5)

	require.Len(t, examples, 2)
	assert.Equal(t, "What meetings do I have next week?", examples[0].Prompt)
	assert.Equal(t, []string{"database_tool", "statistical_analysis_tool"}, examples[1].CorrectTools)
	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "exactly 5 diverse examples")
	assert.Contains(t, completer.prompts[0], "- calendar_tool:")
	assert.Equal(t, 2, strings.Count(logs.String(), "skipping unparsable block"))
}

func TestGenerateNeverExceedsRequested(t *testing.T) {
	gen := NewGenerator(&fakeCompleter{response: sampleResponse}, "")
	examples := gen.Generate(context.Background(), 1)
	assert.Len(t, examples, 1)
}

func TestGenerateReturnsEmptyOnModelError(t *testing.T) {
	gen := NewGenerator(&fakeCompleter{err: errors.New("503 upstream")}, "")
	examples := gen.Generate(context.Background(), 10)
	assert.Empty(t, examples)
}

func TestGenerateCorpusContinuesAfterFailure(t *testing.T) {
	calls := 0
	completer := CompleterFunc(func(context.Context, string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("timeout")
		}
		return sampleResponse, nil
	})
	result := NewGenerator(completer, "").GenerateCorpus(context.Background(), 3, 10)
	assert.Equal(t, 3, result.Batches)
	assert.Equal(t, 1, result.EmptyBatches)
	assert.Len(t, result.Examples, 4)
}

func TestCachedCompleterHitsOnce(t *testing.T) {
	inner := &fakeCompleter{response: "ok"}
	cached, err := NewCachedCompleter(inner, "gpt-4o-mini", 0)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		out, err := cached.Complete(context.Background(), "same prompt")
		require.NoError(t, err)
		assert.Equal(t, "ok", out)
	}
	assert.Len(t, inner.prompts, 1)
	assert.Equal(t, 1, cached.Len())
}

func TestGenerateCorpusThroughCacheCallsModelPerBatch(t *testing.T) {
	var prompts []string
	inner := CompleterFunc(func(_ context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		n := len(prompts)
		return "Prompt: question " + strconv.Itoa(n) + "\nPrompt Category: c\nCorrect Tools: ['calendar_tool']", nil
	})
	cached, err := NewCachedCompleter(inner, "m", 0)
	require.NoError(t, err)

	result := NewGenerator(cached, "").GenerateCorpus(context.Background(), 3, 1)

	assert.Len(t, prompts, 3)
	require.Len(t, result.Examples, 3)
	got := []string{result.Examples[0].Prompt, result.Examples[1].Prompt, result.Examples[2].Prompt}
	assert.Equal(t, []string{"question 1", "question 2", "question 3"}, got)
	assert.Equal(t, 3, cached.Len())
}

func TestCachedCompleterSeparatesBatches(t *testing.T) {
	inner := &fakeCompleter{response: "ok"}
	cached, err := NewCachedCompleter(inner, "m", 0)
	require.NoError(t, err)

	ctx := context.Background()
	for _, c := range []context.Context{WithBatch(ctx, 0), WithBatch(ctx, 1), WithBatch(ctx, 1), ctx} {
		_, err := cached.Complete(c, "same prompt")
		require.NoError(t, err)
	}
	assert.Len(t, inner.prompts, 3)
}

func TestCachedCompleterDoesNotCacheErrors(t *testing.T) {
	inner := &fakeCompleter{err: errors.New("boom")}
	cached, err := NewCachedCompleter(inner, "m", 4)
	require.NoError(t, err)
	_, err = cached.Complete(context.Background(), "p")
	require.Error(t, err)
	_, err = cached.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Len(t, inner.prompts, 2)
}

func TestToolDistribution(t *testing.T) {
	dist := ToolDistribution([]BenchmarkExample{
		{CorrectTools: []string{"calendar_tool"}},
		{CorrectTools: []string{"calendar_tool", "database_tool"}},
		{CorrectTools: []string{"code_tool"}},
	})
	assert.Equal(t, []ToolCount{
		{Tool: "calendar_tool", Count: 2},
		{Tool: "code_tool", Count: 1},
		{Tool: "database_tool", Count: 1},
	}, dist)
}
