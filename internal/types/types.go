package types

import "fmt"

// SourceSnapshot pairs the old and new content of one file.
// OldContent is empty when the file was newly created.
type SourceSnapshot struct {
	FilePath   string
	OldContent string
	NewContent string
}

// FunctionSpan is the literal source text of one function definition
type FunctionSpan struct {
	Name string
	Text string
}

// CodeChange describes the analyzed changes of a single file
type CodeChange struct {
	FilePath         string   `json:"file_path"`
	OldContent       string   `json:"-"`
	NewContent       string   `json:"-"`
	ChangedFunctions []string `json:"changed_functions"`
	LinesAdded       int      `json:"lines_added"`
	LinesRemoved     int      `json:"lines_removed"`
}

type ChangeType string

const (
	ChangeTypeRefactor        ChangeType = "refactor"
	ChangeTypeFeatureAddition ChangeType = "feature_addition"
	ChangeTypeBugFix          ChangeType = "bug_fix"
	ChangeTypeBreakingChange  ChangeType = "breaking_change"
)

// ChangeSummary aggregates a set of CodeChange records
type ChangeSummary struct {
	FilesChangedCount int        `json:"files_changed_count"`
	ChangedFunctions  []string   `json:"changed_functions"`
	LinesAdded        int        `json:"lines_added"`
	LinesRemoved      int        `json:"lines_removed"`
	ChangeType        ChangeType `json:"change_type"`
}

type ImpactLevel string

const (
	ImpactCritical ImpactLevel = "critical"
	ImpactHigh     ImpactLevel = "high"
	ImpactMedium   ImpactLevel = "medium"
	ImpactLow      ImpactLevel = "low"
)

// AffectedTest is a backend verdict for a single test
type AffectedTest struct {
	TestPath       string      `json:"test_path"`
	TestName       string      `json:"test_name"`
	ImpactLevel    ImpactLevel `json:"impact_level"`
	Reason         string      `json:"reason"`
	RequiresUpdate bool        `json:"requires_update"`
	LineNumber     *int        `json:"line_number,omitempty"`
}

// ImpactResult is the terminal artifact of one analysis run
type ImpactResult struct {
	ContextID     string         `json:"context_id"`
	AffectedTests []AffectedTest `json:"affected_tests"`
	ChangeSummary ChangeSummary  `json:"change_summary"`
	TimestampMs   int64          `json:"timestamp_ms"`
}

// FileChangeKind tags a changed file in the backend request
type FileChangeKind string

const (
	FileModified FileChangeKind = "modified"
	FileAdded    FileChangeKind = "added"
	FileRemoved  FileChangeKind = "removed"
)

// FailedFile records a file that could not be analyzed
type FailedFile struct {
	FilePath string
	Err      error
}

func (f FailedFile) Error() string {
	return fmt.Sprintf("%s: %v", f.FilePath, f.Err)
}

// AnalysisRun is the outcome of analyzing a changed-file set.
// Changes keeps the order of the input file list.
type AnalysisRun struct {
	Changes []CodeChange
	Summary ChangeSummary
	Failed  []FailedFile
}

func (r *AnalysisRun) Analyzed() int {
	return len(r.Changes)
}

func (r *AnalysisRun) Total() int {
	return len(r.Changes) + len(r.Failed)
}

func (r *AnalysisRun) Partial() bool {
	return len(r.Failed) > 0
}
