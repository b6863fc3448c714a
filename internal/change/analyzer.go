package change

import (
	"context"
	"io"
	"log/slog"
	"slices"

	"github.com/agusespa/testimpact/internal/extract"
	"github.com/agusespa/testimpact/internal/types"
)

// SnapshotSource supplies old and new content for one changed file.
type SnapshotSource interface {
	Snapshot(ctx context.Context, filePath string) (types.SourceSnapshot, error)
}

// ExtractorResolver selects the extractor for a file path.
type ExtractorResolver interface {
	For(filePath string) extract.Extractor
}

// Analyzer turns snapshots into CodeChange records and summaries.
type Analyzer struct {
	extractors ExtractorResolver
	policy     Policy
	logger     *slog.Logger
	progress   func(done, total int)
}

func NewAnalyzer(extractors ExtractorResolver, policy Policy, logger *slog.Logger) *Analyzer {
	if extractors == nil {
		extractors = extract.NewRegistry()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Analyzer{
		extractors: extractors,
		policy:     policy,
		logger:     logger,
	}
}

// OnProgress registers fn to be called after each file Run handles.
func (a *Analyzer) OnProgress(fn func(done, total int)) {
	a.progress = fn
}

func (a *Analyzer) Policy() Policy {
	return a.policy
}

func (a *Analyzer) AnalyzeFileChange(snapshot types.SourceSnapshot) types.CodeChange {
	ex := a.extractors.For(snapshot.FilePath)
	delta := EstimateLineDelta(snapshot.OldContent, snapshot.NewContent)

	return types.CodeChange{
		FilePath:         snapshot.FilePath,
		OldContent:       snapshot.OldContent,
		NewContent:       snapshot.NewContent,
		ChangedFunctions: ChangedFunctions(ex, snapshot.OldContent, snapshot.NewContent),
		LinesAdded:       delta.Added,
		LinesRemoved:     delta.Removed,
	}
}

// Aggregate sums line counts, unions changed functions and classifies the
// totals with the analyzer's policy.
func (a *Analyzer) Aggregate(changes []types.CodeChange) types.ChangeSummary {
	return Aggregate(changes, a.policy)
}

func Aggregate(changes []types.CodeChange, policy Policy) types.ChangeSummary {
	summary := types.ChangeSummary{
		FilesChangedCount: len(changes),
		ChangedFunctions:  []string{},
	}

	seen := make(map[string]bool)
	for _, c := range changes {
		summary.LinesAdded += c.LinesAdded
		summary.LinesRemoved += c.LinesRemoved
		for _, name := range c.ChangedFunctions {
			if !seen[name] {
				seen[name] = true
				summary.ChangedFunctions = append(summary.ChangedFunctions, name)
			}
		}
	}
	slices.Sort(summary.ChangedFunctions)

	summary.ChangeType = policy.ClassifyChangeType(summary.LinesAdded, summary.LinesRemoved)
	return summary
}

// Run analyzes files one at a time in the given order. A file whose
// snapshot cannot be loaded is recorded in Failed and skipped. The context
// is only checked between files; once it is done the remaining files are
// recorded as failed.
func (a *Analyzer) Run(ctx context.Context, source SnapshotSource, filePaths []string) *types.AnalysisRun {
	run := &types.AnalysisRun{Changes: []types.CodeChange{}}

	for i, path := range filePaths {
		if err := ctx.Err(); err != nil {
			a.logger.Warn("analysis interrupted", "remaining", len(filePaths)-i, "error", err)
			for _, rest := range filePaths[i:] {
				run.Failed = append(run.Failed, types.FailedFile{FilePath: rest, Err: err})
			}
			break
		}

		snapshot, err := source.Snapshot(ctx, path)
		if err != nil {
			a.logger.Warn("skipping file", "path", path, "error", err)
			run.Failed = append(run.Failed, types.FailedFile{FilePath: path, Err: err})
			a.report(i+1, len(filePaths))
			continue
		}

		change := a.AnalyzeFileChange(snapshot)
		a.logger.Debug("analyzed file",
			"path", path,
			"changed_functions", len(change.ChangedFunctions),
			"lines_added", change.LinesAdded,
			"lines_removed", change.LinesRemoved)
		run.Changes = append(run.Changes, change)
		a.report(i+1, len(filePaths))
	}

	run.Summary = a.Aggregate(run.Changes)
	a.logger.Info("analysis complete",
		"analyzed", run.Analyzed(),
		"total", run.Total(),
		"change_type", run.Summary.ChangeType)

	return run
}

func (a *Analyzer) report(done, total int) {
	if a.progress != nil {
		a.progress(done, total)
	}
}
