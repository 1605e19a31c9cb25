package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "recommend",
		Short: "Run the course recommendation engine offline",
		Long: `recommend scores a course catalog against a learner's assessment results
without a broker, database or search cluster, and manages the scoring tables
file the worker manager loads at startup.`,
		SilenceUsage: true,
	}

	root.AddCommand(newRunCmd(), newTablesCmd())
	return root
}
