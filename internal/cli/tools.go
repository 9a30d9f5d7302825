package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newToolsCmd(a *app) *cobra.Command {
	var (
		describe bool
		schemas  bool
	)
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tool catalog",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.load()
			if err != nil {
				return err
			}
			registry, err := env.registry()
			if err != nil {
				return err
			}
			if describe {
				fmt.Fprint(a.stdout, registry.DescribeForPrompt())
				return nil
			}
			descriptors, err := registry.Descriptors()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tENABLED\tREQUIRED\tDESCRIPTION")
			for _, d := range descriptors {
				fmt.Fprintf(tw, "%s\t%t\t%v\t%s\n", d.Name, d.Enabled, d.Parameters.Required, truncate(d.Description, 60))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if !schemas {
				return nil
			}
			for _, d := range descriptors {
				payload, err := json.MarshalIndent(d.Parameters, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "\n%s:\n%s\n", d.Name, payload)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&describe, "describe", false, "print the catalog as shown to the example generator")
	cmd.Flags().BoolVar(&schemas, "schemas", false, "print each tool's JSON schema")
	return cmd
}
