package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agusespa/testimpact/internal/change"
	"github.com/agusespa/testimpact/internal/vcs"
)

var (
	analyzeNoBackend   bool
	analyzeShowRemoved bool
	analyzeCheck       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze uncommitted changes in the working tree",
	Long: `Compare the working tree with HEAD, report changed functions and the
overall change type, and ask the backend which tests are affected.

Untracked files count as newly added. In a repository without commits every
file is treated as new.

Examples:
  testimpact analyze                   # Working tree vs HEAD
  testimpact analyze --no-backend      # Local analysis only
  testimpact analyze --check           # Verify the backend is reachable first
  testimpact analyze --format=json     # Machine-readable output`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeNoBackend, "no-backend", false, "Skip the backend and only report local analysis")
	analyzeCmd.Flags().BoolVar(&analyzeShowRemoved, "show-removed", false, "List functions that were deleted")
	analyzeCmd.Flags().BoolVar(&analyzeCheck, "check", false, "Check backend health before analyzing")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if analyzeCheck && !analyzeNoBackend {
		if err := a.client.Health(ctx); err != nil {
			return fmt.Errorf("backend health check failed: %w", err)
		}
		fmt.Fprintf(a.errOut, "✓ backend at %s is healthy\n", a.client.BaseURL())
	}

	source := vcs.NewWorkingTree(a.root, a.runner, a.blobs, a.filter)
	return a.analyze(ctx, source, "working tree", analysisOptions{
		policy:      change.WorkingDirectoryPolicy,
		useBackend:  !analyzeNoBackend,
		showRemoved: analyzeShowRemoved,
	})
}
