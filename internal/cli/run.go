package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"toolbench/internal/agent"
	"toolbench/internal/metrics"
	"toolbench/internal/runner"
	"toolbench/internal/tools"
	"toolbench/internal/ui/live"
)

type runOptions struct {
	model       string
	agentType   string
	ui          string
	verbose     bool
	noColor     bool
	metricsFile string
	outputDir   string
}

func newRunCmd(a *app) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every stored prompt through the agent and score tool selection",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, a, opts)
		},
	}
	cmd.Flags().StringVar(&opts.model, "model", "", "model under test (default: runner.model)")
	cmd.Flags().StringVar(&opts.agentType, "agent", "", "agent type: swarm or react (default: runner.agent_type)")
	cmd.Flags().StringVar(&opts.ui, "ui", "auto", "progress display: auto, live or plain")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "print every event as a plain line and log at debug level")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "results directory (default: runner.output_dir)")
	return cmd
}

func runBenchmark(cmd *cobra.Command, a *app, opts runOptions) error {
	if opts.verbose && a.logLevel == "" {
		a.logLevel = "debug"
	}
	env, err := a.load()
	if err != nil {
		return err
	}
	cfg := env.cfg.Runner
	model := cfg.Model
	if opts.model != "" {
		model = opts.model
	}
	agentValue := cfg.AgentType
	if opts.agentType != "" {
		agentValue = opts.agentType
	}
	agentType, err := agent.ParseType(agentValue)
	if err != nil {
		return usageError{err: err}
	}
	decision, err := resolveUIMode(opts.ui, opts.verbose, a.stdout)
	if err != nil {
		return usageError{err: err}
	}
	if decision.warning != "" {
		fmt.Fprintln(a.stderr, decision.warning)
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}
	outputDir := cfg.OutputDir
	if opts.outputDir != "" {
		outputDir = opts.outputDir
	}
	metricsFile := env.cfg.Metrics.File
	if opts.metricsFile != "" {
		metricsFile = opts.metricsFile
	}

	ctx := cmd.Context()
	s, err := env.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	prompts, err := s.ListPrompts(ctx)
	if err != nil {
		return err
	}
	if len(prompts) == 0 {
		return fmt.Errorf("no prompts stored; run 'toolbench generate' or 'toolbench import' first")
	}
	registry, err := env.registry()
	if err != nil {
		return err
	}
	loop, err := agent.NewToolLoop(agent.FactoryFromSettings(env.providerSettings(model), nil), agent.LoopConfig{
		Type:          agentType,
		MaxSteps:      cfg.MaxSteps,
		ParallelTools: cfg.ParallelTools,
		Limits:        tools.DefaultLimits(),
		Logger:        env.component("agent"),
	})
	if err != nil {
		return err
	}
	effective := loop.Config()

	collector := metrics.NewCollector()
	observers := runner.MultiObserver{collector}
	var ui *live.Controller
	if decision.useLive {
		ui = live.Start(a.stdout, live.Options{NoColor: opts.noColor})
		observers = append(observers, ui)
	} else {
		observers = append(observers, runner.NewVerboseObserver(a.stdout, opts.noColor))
	}

	r, err := runner.New(runner.Dependencies{
		Store:    s,
		Agent:    loop,
		Tools:    registry,
		Observer: observers,
		Logger:   env.component("runner"),
	})
	if err != nil {
		return err
	}
	results, err := r.Run(ctx, runner.RunRequest{
		Model:        model,
		Instructions: cfg.Instructions,
		AgentType:    string(agentType),
		Prompts:      prompts,
		Configuration: map[string]any{
			"provider":       env.cfg.Provider.Name,
			"temperature":    env.cfg.Provider.Temperature,
			"max_steps":      effective.MaxSteps,
			"parallel_tools": effective.ParallelTools,
			"prompt_timeout": cfg.PromptTimeout,
			"disabled_tools": env.cfg.Tools.Disabled,
		},
		PromptTimeout: timeout,
		OutputDir:     outputDir,
	})
	if ui != nil {
		ui.Close()
		ui.Wait()
	}
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	if metricsFile != "" {
		if err := collector.WriteFile(metricsFile); err != nil {
			return err
		}
		env.logger.Info().Str("path", metricsFile).Msg("wrote metrics")
	}

	summary := results.Summary
	fmt.Fprintf(a.stdout, "Run %s completed (test run %d)\n", results.RunKey, results.TestRunID)
	fmt.Fprintf(a.stdout, "Passed %d/%d (%.1f%%), errors %d, mean time %.3fs\n",
		summary.Passed, summary.Total, summary.PassRate*100, summary.Errored, summary.MeanTime)
	if results.OutputPath != "" {
		fmt.Fprintf(a.stdout, "Results: %s\n", results.OutputPath)
	}
	return nil
}
