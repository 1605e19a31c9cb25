package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"course-recommendation-workers/internal/recommendation"
)

type runOptions struct {
	input    string
	tables   string
	strategy string
	limit    int
	pretty   bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Recommend courses for one request file",
		Long: `Reads a JSON request with "scores", "courses" and optionally "userProfile"
and "priorResults", and prints the ranked, explained recommendations.

Examples:
  recommend run --input request.json
  cat request.json | recommend run --strategy weighted --limit 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "request file, - for stdin")
	cmd.Flags().StringVar(&opts.tables, "tables", "", "scoring tables file (default: built-in tables)")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "auto, scoreband or weighted (overrides the request)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "maximum recommendations (overrides the request)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", true, "indent the JSON output")
	return cmd
}

func runRecommend(cmd *cobra.Command, opts *runOptions) error {
	data, err := readInput(cmd.InOrStdin(), opts.input)
	if err != nil {
		return err
	}

	var req recommendation.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse request: %w", err)
	}
	if opts.strategy != "" {
		req.Strategy = recommendation.ParseStrategy(opts.strategy)
	}
	if opts.limit > 0 {
		req.Limit = opts.limit
	}
	// Inline catalogs usually omit the flag; treat those courses as active.
	if !anyActive(req.Courses) {
		for i := range req.Courses {
			req.Courses[i].IsActive = true
		}
	}

	tables, err := recommendation.LoadTables(opts.tables)
	if err != nil {
		return err
	}
	engine, err := recommendation.NewEngine(tables, recommendation.DefaultConfig())
	if err != nil {
		return err
	}

	resp := engine.Recommend(req)

	enc := json.NewEncoder(cmd.OutOrStdout())
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" || path == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func anyActive(courses []recommendation.Course) bool {
	for _, c := range courses {
		if c.IsActive {
			return true
		}
	}
	return false
}
