package impact

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agusespa/testimpact/internal/types"
)

func ptr[T any](v T) *T {
	return &v
}

func TestBuildRequest(t *testing.T) {
	changes := []types.CodeChange{
		{FilePath: "app/calc.py", ChangedFunctions: []string{"add"}},
		{FilePath: "app/io.py"},
	}
	known := []string{"tests/test_calc.py"}

	req := BuildRequest(changes, known, "diff --git a/app/calc.py b/app/calc.py")

	assert.Equal(t, []FileChange{
		{Path: "app/calc.py", ChangeType: types.FileModified},
		{Path: "app/io.py", ChangeType: types.FileModified},
	}, req.FilesChanged)
	assert.Equal(t, known, req.RelatedTests)
	assert.Equal(t, "diff --git a/app/calc.py b/app/calc.py", req.Diff)

	known[0] = "mutated"
	assert.Equal(t, "tests/test_calc.py", req.RelatedTests[0])
}

func TestBuildRequest_NoKnownTests(t *testing.T) {
	req := BuildRequest(nil, nil, "")

	assert.NotNil(t, req.FilesChanged)
	assert.NotNil(t, req.RelatedTests)
	assert.Empty(t, req.RelatedTests)
}

func TestMapSeverity(t *testing.T) {
	tests := []struct {
		input    string
		expected types.ImpactLevel
	}{
		{"critical", types.ImpactCritical},
		{"high", types.ImpactHigh},
		{"medium", types.ImpactMedium},
		{"low", types.ImpactLow},
		{"HIGH", types.ImpactHigh},
		{" low ", types.ImpactLow},
		{"severe", types.ImpactMedium},
		{"", types.ImpactMedium},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapSeverity(tt.input))
		})
	}
}

func TestMapResponse(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	summary := types.ChangeSummary{FilesChangedCount: 1, ChangedFunctions: []string{"add"}, ChangeType: types.ChangeTypeBugFix}

	resp := Response{
		ContextID: "ctx-42",
		ImpactedTests: []ImpactedTest{
			{TestPath: "tests/test_calc.py", Severity: "critical", Reasons: []string{"calls add", "asserts result"}, ImpactScore: ptr(0.9)},
			{TestPath: "tests/test_io.py", TestName: "test_read", Severity: "unknown", ImpactScore: ptr(0.5), RequiresUpdate: ptr(true)},
			{TestPath: "tests/test_misc.py", Severity: "low", RequiresUpdate: ptr(true), LineNumber: ptr(12)},
			{TestPath: "", Severity: "high"},
		},
		Summary: &ResponseSummary{ChangeType: "refactor", LinesChanged: 99},
	}

	result := MapResponse(resp, summary, now)

	assert.Equal(t, "ctx-42", result.ContextID)
	assert.Equal(t, int64(1_700_000_000_000), result.TimestampMs)
	assert.Equal(t, summary, result.ChangeSummary)
	require.Len(t, result.AffectedTests, 3)

	first := result.AffectedTests[0]
	assert.Equal(t, "test_calc", first.TestName)
	assert.Equal(t, types.ImpactCritical, first.ImpactLevel)
	assert.Equal(t, "calls add; asserts result", first.Reason)
	assert.True(t, first.RequiresUpdate)
	assert.Nil(t, first.LineNumber)

	second := result.AffectedTests[1]
	assert.Equal(t, "test_read", second.TestName)
	assert.Equal(t, types.ImpactMedium, second.ImpactLevel)
	assert.False(t, second.RequiresUpdate, "score takes precedence over the explicit flag")

	third := result.AffectedTests[2]
	assert.True(t, third.RequiresUpdate)
	require.NotNil(t, third.LineNumber)
	assert.Equal(t, 12, *third.LineNumber)
}

func TestMapResponse_MissingFields(t *testing.T) {
	result := MapResponse(Response{
		ImpactedTests: []ImpactedTest{{TestPath: "tests/test_x.py"}},
	}, types.ChangeSummary{}, time.Now())

	_, err := uuid.Parse(result.ContextID)
	assert.NoError(t, err, "missing context id is replaced with a generated one")

	require.Len(t, result.AffectedTests, 1)
	assert.Equal(t, types.ImpactMedium, result.AffectedTests[0].ImpactLevel)
	assert.False(t, result.AffectedTests[0].RequiresUpdate)
	assert.Equal(t, "", result.AffectedTests[0].Reason)
}

func TestMapResponse_NoVerdicts(t *testing.T) {
	result := MapResponse(Response{ContextID: "c"}, types.ChangeSummary{}, time.Now())

	assert.NotNil(t, result.AffectedTests)
	assert.Empty(t, result.AffectedTests)
}
