package impact

import "github.com/agusespa/testimpact/internal/types"

// FileChange is one entry of files_changed in the backend request
type FileChange struct {
	Path       string               `json:"path" validate:"required"`
	ChangeType types.FileChangeKind `json:"change_type" validate:"required,oneof=modified added removed"`
}

// Request is the payload sent to the impact backend
type Request struct {
	FilesChanged []FileChange `json:"files_changed" validate:"required,min=1,dive"`
	RelatedTests []string     `json:"related_tests"`
	Diff         string       `json:"diff"`
}

// ImpactedTest is a single verdict returned by the backend. Optional fields
// are pointers so that absent values can be told apart from zero values.
type ImpactedTest struct {
	TestPath       string   `json:"test_path"`
	TestName       string   `json:"test_name,omitempty"`
	Severity       string   `json:"severity"`
	Reasons        []string `json:"reasons"`
	ImpactScore    *float64 `json:"impact_score,omitempty"`
	RequiresUpdate *bool    `json:"requires_update,omitempty"`
	LineNumber     *int     `json:"line_number,omitempty"`
}

type ResponseSummary struct {
	ChangeType   string `json:"change_type"`
	LinesChanged int    `json:"lines_changed"`
}

// Response is the backend answer to a Request
type Response struct {
	ContextID     string           `json:"context_id"`
	ImpactedTests []ImpactedTest   `json:"impacted_tests"`
	Summary       *ResponseSummary `json:"summary,omitempty"`
}
