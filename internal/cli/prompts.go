package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"toolbench/internal/example"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json|file.yaml>",
		Short: "Import curated prompts into the database",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.load()
			if err != nil {
				return err
			}
			registry, err := env.registry()
			if err != nil {
				return err
			}
			examples, err := example.LoadCorpus(args[0], registry)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := env.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			ids, err := s.InsertPrompts(ctx, examples)
			if err != nil {
				return fmt.Errorf("import prompts: %w", err)
			}
			fmt.Fprintf(a.stdout, "Imported %d prompts\n", len(ids))
			return nil
		},
	}
}

func newPromptsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prompts",
		Short: "List stored prompts",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.load()
			if err != nil {
				return err
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
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCATEGORY\tCORRECT TOOLS\tORDERED\tPROMPT")
			for _, p := range prompts {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n",
					p.ID, p.Category, strings.Join(p.CorrectTools, ","), p.ExpectedOrder, truncate(p.Prompt, 70))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%d prompts\n", len(prompts))
			return nil
		},
	}
}

func truncate(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= limit {
		return text
	}
	return text[:limit-3] + "..."
}
