package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"toolbench/internal/config"
)

func newInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default toolbench.yml",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(a.configPath)
			if path == "" {
				path = config.ConfigFileName
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}
			if force {
				if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("remove existing config: %w", err)
				}
			}
			if err := config.Scaffold(abs); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Wrote %s\n", abs)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func newInitDBCmd(a *app) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Create the database schema",
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
			if reset {
				if err := s.Reset(ctx); err != nil {
					return fmt.Errorf("reset database: %w", err)
				}
				env.logger.Warn().Str("path", env.cfg.Database.Path).Msg("database reset")
			}
			fmt.Fprintf(a.stdout, "Database ready at %s\n", env.cfg.Database.Path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "drop and recreate every table")
	return cmd
}
