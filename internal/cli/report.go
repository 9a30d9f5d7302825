package cli

import (
	"github.com/spf13/cobra"

	"toolbench/internal/report"
)

type reportOptions struct {
	format  string
	runID   int64
	results string
}

func newReportCmd(a *app) *cobra.Command {
	var opts reportOptions
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize stored results by model and run",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(opts.format)
			if err != nil {
				return usageError{err: err}
			}
			if opts.runID < 0 {
				return usagef("--run must be a positive test run id")
			}
			env, err := a.load()
			if err != nil {
				return err
			}
			if opts.results != "" {
				results, err := report.LoadRun(env.cfg.Runner.OutputDir, opts.results)
				if err != nil {
					return err
				}
				return report.Render(a.stdout, report.FromResults(results), format)
			}
			ctx := cmd.Context()
			s, err := env.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			rep, err := report.Build(ctx, s, opts.runID)
			if err != nil {
				return err
			}
			return report.Render(a.stdout, rep, format)
		},
	}
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format (table, markdown, json)")
	cmd.Flags().Int64Var(&opts.runID, "run", 0, "limit run summaries to one test run id")
	cmd.Flags().StringVar(&opts.results, "results", "", "report a results.json by run key, path or \"latest\" instead of the database")
	return cmd
}
