package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"course-recommendation-workers/internal/recommendation"
	"course-recommendation-workers/pkg/registry"
)

func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Inspect and maintain the scoring tables file",
	}
	cmd.AddCommand(newTablesDumpCmd(), newTablesValidateCmd(), newTablesInitCmd())
	return cmd
}

func newTablesDumpCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the tables in file form (built-in tables unless --path is set)",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := recommendation.LoadTables(path)
			if err != nil {
				return err
			}
			version := "builtin"
			if path != "" {
				version = path
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tables.ToRegistry(version))
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "tables file to load")
	return cmd
}

func newTablesValidateCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a tables file loads and can produce pathways",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := recommendation.LoadTables(path)
			if err != nil {
				return fmt.Errorf("tables validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tables valid: %d categories\n", len(tables.Order))
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "configs/scoring-tables.json", "tables file to validate")
	return cmd
}

func newTablesInitCmd() *cobra.Command {
	var (
		path    string
		version string
		force   bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the built-in tables to a file as a starting point",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := registry.SaveRegistry(path, recommendation.DefaultTables().ToRegistry(version)); err != nil {
				return fmt.Errorf("write tables: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "configs/scoring-tables.json", "destination file")
	cmd.Flags().StringVar(&version, "version", "1.0.0", "version recorded in the file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
