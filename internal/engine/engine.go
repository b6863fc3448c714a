// Package engine runs one change-impact analysis end to end: list changes,
// analyze functions, ask the backend which tests are affected.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/agusespa/testimpact/internal/change"
	"github.com/agusespa/testimpact/internal/impact"
	"github.com/agusespa/testimpact/internal/report"
	"github.com/agusespa/testimpact/internal/vcs"
)

// ImpactBackend is the part of the backend client the engine needs.
type ImpactBackend interface {
	AnalyzeImpact(ctx context.Context, req impact.Request) (*impact.Response, error)
}

type Options struct {
	// Backend is optional; without it only the local analysis runs.
	Backend     ImpactBackend
	ShowRemoved bool
	Progress    func(done, total int)
	Logger      *slog.Logger
	Now         func() time.Time
}

type Engine struct {
	extractors  change.ExtractorResolver
	analyzer    *change.Analyzer
	backend     ImpactBackend
	showRemoved bool
	logger      *slog.Logger
	now         func() time.Time
}

func New(extractors change.ExtractorResolver, policy change.Policy, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	analyzer := change.NewAnalyzer(extractors, policy, logger)
	if opts.Progress != nil {
		analyzer.OnProgress(opts.Progress)
	}

	return &Engine{
		extractors:  extractors,
		analyzer:    analyzer,
		backend:     opts.Backend,
		showRemoved: opts.ShowRemoved,
		logger:      logger,
		now:         now,
	}
}

// Analyze produces a report for source. When the backend call fails the
// returned report still carries the local analysis, alongside the error.
func (e *Engine) Analyze(ctx context.Context, source vcs.ChangeSource, scope string) (*report.Report, error) {
	changes, err := source.Changes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list changes: %w", err)
	}
	e.logger.Debug("changes listed", "scope", scope, "files", len(changes.Files))

	run := e.analyzer.Run(ctx, source, changes.Paths())
	rep := &report.Report{Scope: scope, Run: run}

	if e.showRemoved {
		rep.Removed = make(map[string][]string)
		for _, c := range run.Changes {
			removed := change.RemovedFunctions(e.extractors.For(c.FilePath), c.OldContent, c.NewContent)
			if len(removed) > 0 {
				rep.Removed[c.FilePath] = removed
			}
		}
	}

	if e.backend == nil {
		return rep, nil
	}
	if len(run.Changes) == 0 {
		e.logger.Info("no analyzable changes, skipping backend")
		return rep, nil
	}

	tests, err := source.TestFiles(ctx)
	if err != nil {
		e.logger.Warn("failed to list test files", "error", err)
		tests = nil
	}

	req := impact.BuildRequest(run.Changes, tests, changes.Diff)
	resp, err := e.backend.AnalyzeImpact(ctx, req)
	if err != nil {
		return rep, fmt.Errorf("impact analysis failed: %w", err)
	}

	result := impact.MapResponse(*resp, run.Summary, e.now())
	e.logger.Info("impact analysis complete",
		"context_id", result.ContextID,
		"affected_tests", len(result.AffectedTests))
	rep.Result = &result

	return rep, nil
}
