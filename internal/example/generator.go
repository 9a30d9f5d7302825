package example

import (
	"context"

	"github.com/rs/zerolog"

	"toolbench/internal/prompt"
)

// Completer is the language-model boundary: one blocking call, text in and text out.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Generator asks a model for synthetic examples and parses its answer.
type Generator struct {
	completer        Completer
	toolDescriptions string
	examples         []string
	logger           zerolog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets the logger used for skipped blocks and failed calls.
func WithLogger(logger zerolog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithFewShotExamples replaces the worked examples included in the prompt.
func WithFewShotExamples(examples []string) GeneratorOption {
	return func(g *Generator) {
		g.examples = examples
	}
}

// NewGenerator builds a generator for a catalog description.
func NewGenerator(completer Completer, toolDescriptions string, opts ...GeneratorOption) *Generator {
	g := &Generator{
		completer:        completer,
		toolDescriptions: toolDescriptions,
		logger:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate makes one model call and returns between 0 and n parsed examples.
// A failed call yields an empty batch so multi-batch drivers can continue.
func (g *Generator) Generate(ctx context.Context, n int) []BenchmarkExample {
	if n <= 0 {
		return nil
	}
	text, err := prompt.RenderGenerationPrompt(prompt.GenerationData{
		ToolDescriptions: g.toolDescriptions,
		NumSamples:       n,
		Examples:         g.examples,
	})
	if err != nil {
		g.logger.Error().Err(err).Msg("render generation prompt")
		return nil
	}
	response, err := g.completer.Complete(ctx, text)
	if err != nil {
		g.logger.Warn().Err(err).Int("requested", n).Msg("generation call failed")
		return nil
	}

	blocks := SplitBlocks(response)
	examples := make([]BenchmarkExample, 0, n)
	for i, block := range blocks {
		ex, ok := Parse(block)
		if !ok {
			g.logger.Debug().Int("block", i).Str("text", block).Msg("skipping unparsable block")
			continue
		}
		if len(examples) == n {
			g.logger.Debug().Int("block", i).Msg("dropping example beyond requested count")
			continue
		}
		examples = append(examples, ex)
	}
	g.logger.Info().Int("requested", n).Int("parsed", len(examples)).Int("blocks", len(blocks)).Msg("generated examples")
	return examples
}

// CorpusResult holds the examples from several batches.
type CorpusResult struct {
	Examples     []BenchmarkExample
	Batches      int
	EmptyBatches int
}

// GenerateCorpus runs batches of perBatch examples and concatenates the results.
// Each batch is a fresh model call even behind a CachedCompleter.
func (g *Generator) GenerateCorpus(ctx context.Context, batches, perBatch int) CorpusResult {
	var result CorpusResult
	for i := 0; i < batches; i++ {
		if ctx.Err() != nil {
			break
		}
		g.logger.Info().Int("batch", i+1).Int("of", batches).Msg("generating batch")
		batch := g.Generate(WithBatch(ctx, i), perBatch)
		result.Batches++
		if len(batch) == 0 {
			result.EmptyBatches++
		}
		result.Examples = append(result.Examples, batch...)
	}
	return result
}
