package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agusespa/testimpact/internal/change"
	"github.com/agusespa/testimpact/internal/vcs"
	"github.com/agusespa/testimpact/internal/watcher"
)

var watchNoBackend bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-analyze the working tree whenever files change",
	Long: `Watch the repository and re-run the working tree analysis after source
or test files change, or when HEAD moves. Bursts of changes are debounced
into a single run. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoBackend, "no-backend", false, "Skip the backend and only report local analysis")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	w, err := watcher.New(watcher.Options{
		Root:         a.root,
		Debounce:     a.cfg.Watch.Debounce(),
		PollInterval: a.cfg.Watch.PollInterval(),
		Relevant:     a.relevant,
		Logger:       a.logger,
	})
	if err != nil {
		return err
	}
	defer w.Close()

	source := vcs.NewWorkingTree(a.root, a.runner, a.blobs, a.filter)
	opts := analysisOptions{
		policy:     change.WorkingDirectoryPolicy,
		useBackend: !watchNoBackend,
	}
	trigger := func(ctx context.Context) {
		if err := a.analyze(ctx, source, "working tree", opts); err != nil {
			a.logger.Error("analysis failed", "error", err)
		}
	}

	ctx := cmd.Context()
	trigger(ctx)
	fmt.Fprintf(a.errOut, "Watching %s for changes (Ctrl+C to stop)\n", a.root)

	return w.Run(ctx, trigger)
}

// relevant accepts source and test files the analysis would look at.
func (a *app) relevant(relPath string) bool {
	return a.filter.IsSource(relPath) || a.filter.IsTest(relPath)
}
