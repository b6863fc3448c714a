package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agusespa/testimpact/internal/change"
	"github.com/agusespa/testimpact/internal/vcs"
)

var (
	compareNoBackend   bool
	compareShowRemoved bool
)

var compareCmd = &cobra.Command{
	Use:   "compare <base> <head>",
	Short: "Analyze the changes between two commits",
	Long: `Compare two revisions (commits, branches or tags) and report which tests
are affected by the changes between them.

Examples:
  testimpact compare main HEAD
  testimpact compare v1.2.0 v1.3.0 --format=markdown > impact.md`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&compareNoBackend, "no-backend", false, "Skip the backend and only report local analysis")
	compareCmd.Flags().BoolVar(&compareShowRemoved, "show-removed", false, "List functions that were deleted")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	source, err := vcs.NewCommitRange(ctx, a.runner, a.blobs, a.filter, args[0], args[1])
	if err != nil {
		return err
	}

	scope := fmt.Sprintf("%s..%s", args[0], args[1])
	return a.analyze(ctx, source, scope, analysisOptions{
		policy:      change.CommitComparisonPolicy,
		useBackend:  !compareNoBackend,
		showRemoved: compareShowRemoved,
	})
}
