package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/agusespa/testimpact/internal/backend"
	"github.com/agusespa/testimpact/internal/change"
	"github.com/agusespa/testimpact/internal/engine"
	"github.com/agusespa/testimpact/internal/extract"
	"github.com/agusespa/testimpact/internal/logging"
	"github.com/agusespa/testimpact/internal/report"
	"github.com/agusespa/testimpact/internal/vcs"
	"github.com/agusespa/testimpact/pkg/config"
	"github.com/agusespa/testimpact/pkg/spinner"
)

// app holds everything a subcommand needs, built from flags and config.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	format     report.Format
	out        io.Writer
	errOut     io.Writer
	root       string
	runner     *vcs.GitRunner
	blobs      *vcs.BlobStore
	filter     vcs.FileFilter
	extractors *extract.Registry
	client     *backend.Client
}

func loadConfig() (*config.Config, error) {
	if configFlag != "" {
		return config.LoadConfig(configFlag)
	}
	return config.LoadConfigOrDefault(defaultConfigFile)
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return nil, err
	}

	level := logging.LevelFromVerbosity(verboseFlag, quietFlag, logging.LevelFromString(cfg.Logging.Level))
	logger := logging.New(cmd.ErrOrStderr(), level, cfg.Logging.Format)

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	root, err := vcs.RepoRoot(cmd.Context(), wd)
	if err != nil {
		return nil, err
	}

	runner := vcs.NewGitRunner(root)
	blobs, err := vcs.NewBlobStore(runner, 0)
	if err != nil {
		return nil, err
	}

	extractors, err := extract.NewRegistryForKind(cfg.Analysis.Extractor)
	if err != nil {
		return nil, err
	}

	logger.Debug("configuration loaded",
		"root", root,
		"backend", cfg.Backend.BaseURL,
		"extractor", cfg.Analysis.Extractor)

	return &app{
		cfg:    cfg,
		logger: logger,
		format: format,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		root:   root,
		runner: runner,
		blobs:  blobs,
		filter: vcs.FileFilter{
			Extensions:   cfg.Analysis.Extensions,
			TestPatterns: cfg.Analysis.TestPatterns,
			TestDirs:     cfg.Analysis.TestDirs,
		},
		extractors: extractors,
		client:     backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.APIKey, cfg.Backend.Timeout(), logger),
	}, nil
}

func (a *app) Close() {
	a.extractors.Close()
}

// showProgress reports whether a spinner may draw on stderr.
func (a *app) showProgress() bool {
	return !quietFlag && a.format == report.FormatHuman
}

type analysisOptions struct {
	policy      change.Policy
	useBackend  bool
	showRemoved bool
}

// analyze runs the engine on source and prints the report. A backend
// failure is returned after the local analysis has been printed.
func (a *app) analyze(ctx context.Context, source vcs.ChangeSource, scope string, opts analysisOptions) error {
	var spin *spinner.Spinner
	if a.showProgress() {
		spin = spinner.New(a.errOut, "Analyzing changes...")
		spin.Start()
		defer spin.Stop()
	}

	engineOpts := engine.Options{
		ShowRemoved: opts.showRemoved,
		Logger:      a.logger,
	}
	if opts.useBackend {
		engineOpts.Backend = a.client
	}
	if spin != nil {
		engineOpts.Progress = func(done, total int) {
			spin.Progress("Analyzing files", done, total)
		}
	}

	rep, err := engine.New(a.extractors, opts.policy, engineOpts).Analyze(ctx, source, scope)
	if spin != nil {
		spin.Stop()
	}
	if rep == nil {
		return err
	}

	if writeErr := report.Write(a.out, a.format, *rep); writeErr != nil {
		return errors.Join(err, fmt.Errorf("failed to write report: %w", writeErr))
	}
	return err
}
