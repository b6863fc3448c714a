// Package impact converts change summaries into backend requests and backend
// verdicts into impact results.
package impact

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agusespa/testimpact/internal/types"
)

// requiresUpdateScore is the impact score above which a test needs updating.
const requiresUpdateScore = 0.5

var severityLevels = map[string]types.ImpactLevel{
	"critical": types.ImpactCritical,
	"high":     types.ImpactHigh,
	"medium":   types.ImpactMedium,
	"low":      types.ImpactLow,
}

// BuildRequest lists every changed file as modified and attaches the known
// test files and the raw diff.
func BuildRequest(changes []types.CodeChange, knownTestPaths []string, diff string) Request {
	req := Request{
		FilesChanged: make([]FileChange, 0, len(changes)),
		RelatedTests: append([]string{}, knownTestPaths...),
		Diff:         diff,
	}

	for _, c := range changes {
		req.FilesChanged = append(req.FilesChanged, FileChange{
			Path:       c.FilePath,
			ChangeType: types.FileModified,
		})
	}

	return req
}

// MapResponse folds backend verdicts into an ImpactResult. The summary
// computed locally is kept even when the backend returns its own.
func MapResponse(resp Response, summary types.ChangeSummary, now time.Time) types.ImpactResult {
	result := types.ImpactResult{
		ContextID:     resp.ContextID,
		AffectedTests: make([]types.AffectedTest, 0, len(resp.ImpactedTests)),
		ChangeSummary: summary,
		TimestampMs:   now.UnixMilli(),
	}
	if result.ContextID == "" {
		result.ContextID = uuid.New().String()
	}

	for _, verdict := range resp.ImpactedTests {
		if strings.TrimSpace(verdict.TestPath) == "" {
			continue
		}
		result.AffectedTests = append(result.AffectedTests, mapVerdict(verdict))
	}

	return result
}

func mapVerdict(v ImpactedTest) types.AffectedTest {
	test := types.AffectedTest{
		TestPath:    v.TestPath,
		TestName:    v.TestName,
		ImpactLevel: MapSeverity(v.Severity),
		Reason:      strings.Join(v.Reasons, "; "),
		LineNumber:  v.LineNumber,
	}

	if test.TestName == "" {
		test.TestName = testNameFromPath(v.TestPath)
	}

	switch {
	case v.ImpactScore != nil:
		test.RequiresUpdate = *v.ImpactScore > requiresUpdateScore
	case v.RequiresUpdate != nil:
		test.RequiresUpdate = *v.RequiresUpdate
	}

	return test
}

// MapSeverity maps a backend severity string to an impact level. Unknown or
// empty severities become medium.
func MapSeverity(severity string) types.ImpactLevel {
	if level, ok := severityLevels[strings.ToLower(strings.TrimSpace(severity))]; ok {
		return level
	}
	return types.ImpactMedium
}

func testNameFromPath(testPath string) string {
	base := filepath.Base(testPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
