package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"toolbench/internal/agent"
	"toolbench/internal/example"
)

type generateOptions struct {
	batches int
	samples int
	model   string
	dryRun  bool
}

func newGenerateCmd(a *app) *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate benchmark prompts with a model and store them",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.batches < 0 || opts.samples < 0 {
				return usagef("--batches and --samples must not be negative")
			}
			return runGenerate(cmd, a, opts)
		},
	}
	cmd.Flags().IntVar(&opts.batches, "batches", 0, "number of generation calls (default: generator.batches)")
	cmd.Flags().IntVar(&opts.samples, "samples", 0, "examples requested per call (default: generator.samples_per_batch)")
	cmd.Flags().StringVar(&opts.model, "model", "", "generator model (default: generator.model)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the examples without storing them")
	return cmd
}

func runGenerate(cmd *cobra.Command, a *app, opts generateOptions) error {
	env, err := a.load()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	cfg := env.cfg.Generator
	batches := cfg.Batches
	if opts.batches > 0 {
		batches = opts.batches
	}
	samples := cfg.SamplesPerBatch
	if opts.samples > 0 {
		samples = opts.samples
	}
	model := cfg.Model
	if opts.model != "" {
		model = opts.model
	}

	registry, err := env.registry()
	if err != nil {
		return err
	}
	provider, err := agent.NewProvider(env.providerSettings(model), nil)
	if err != nil {
		return fmt.Errorf("configure provider: %w", err)
	}
	var completer example.Completer = agent.TextCompleter{Provider: provider}
	if cfg.Cache {
		completer, err = example.NewCachedCompleter(completer, model, example.DefaultCacheSize)
		if err != nil {
			return err
		}
	}
	logger := env.component("generator")
	generator := example.NewGenerator(completer, registry.DescribeForPrompt(), example.WithLogger(logger))
	result := generator.GenerateCorpus(ctx, batches, samples)

	var accepted []example.BenchmarkExample
	for _, ex := range result.Examples {
		if unknown := example.UnknownTools(ex, registry); len(unknown) > 0 {
			logger.Warn().Str("prompt", ex.Prompt).Strs("unknown_tools", unknown).Msg("skipping example with unknown tools")
			continue
		}
		accepted = append(accepted, ex)
	}

	fmt.Fprintf(a.stdout, "Generated %d examples in %d batches (%d empty)\n", len(result.Examples), result.Batches, result.EmptyBatches)
	fmt.Fprintln(a.stdout, "Tool distribution:")
	for _, count := range example.ToolDistribution(accepted) {
		fmt.Fprintf(a.stdout, "  %-28s %d\n", count.Tool, count.Count)
	}
	if opts.dryRun {
		for i, ex := range accepted {
			fmt.Fprintf(a.stdout, "%d. [%s] %s -> %s\n", i+1, ex.Category, ex.Prompt, strings.Join(ex.CorrectTools, ", "))
		}
		return nil
	}
	if len(accepted) == 0 {
		return fmt.Errorf("no examples generated")
	}

	s, err := env.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	ids, err := s.InsertPrompts(ctx, accepted)
	if err != nil {
		return fmt.Errorf("store examples: %w", err)
	}
	fmt.Fprintf(a.stdout, "Stored %d prompts\n", len(ids))
	return nil
}
