package change

import "github.com/agusespa/testimpact/internal/types"

// largeChangeThreshold is the combined line count above which a change is
// always treated as a feature addition.
const largeChangeThreshold = 100

// Policy holds the differences between the analysis call sites.
type Policy struct {
	// EnableBreakingChangeRule classifies pure removals as breaking changes.
	EnableBreakingChangeRule bool
}

var (
	WorkingDirectoryPolicy = Policy{EnableBreakingChangeRule: false}
	CommitComparisonPolicy = Policy{EnableBreakingChangeRule: true}
)

// ClassifyChangeType maps line totals to a change category. Rules are
// evaluated in order and the first match wins.
func (p Policy) ClassifyChangeType(linesAdded, linesRemoved int) types.ChangeType {
	switch {
	case linesAdded+linesRemoved > largeChangeThreshold:
		return types.ChangeTypeFeatureAddition
	case linesRemoved > 2*linesAdded:
		return types.ChangeTypeRefactor
	case linesAdded > 2*linesRemoved:
		return types.ChangeTypeFeatureAddition
	case p.EnableBreakingChangeRule && linesRemoved > 0 && linesAdded == 0:
		return types.ChangeTypeBreakingChange
	default:
		return types.ChangeTypeBugFix
	}
}
