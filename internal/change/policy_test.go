package change

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agusespa/testimpact/internal/types"
)

func TestClassifyChangeType(t *testing.T) {
	tests := []struct {
		name     string
		added    int
		removed  int
		expected types.ChangeType
	}{
		{"large addition", 150, 0, types.ChangeTypeFeatureAddition},
		{"large removal hits size rule first", 0, 150, types.ChangeTypeFeatureAddition},
		{"just above threshold", 60, 41, types.ChangeTypeFeatureAddition},
		{"at threshold falls through", 50, 50, types.ChangeTypeBugFix},
		{"mostly removed", 5, 20, types.ChangeTypeRefactor},
		{"mostly added", 20, 5, types.ChangeTypeFeatureAddition},
		{"balanced", 10, 8, types.ChangeTypeBugFix},
		{"no change", 0, 0, types.ChangeTypeBugFix},
		{"exactly double removed", 5, 10, types.ChangeTypeBugFix},
		{"exactly double added", 10, 5, types.ChangeTypeBugFix},
	}

	for _, policy := range []Policy{WorkingDirectoryPolicy, CommitComparisonPolicy} {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.expected, policy.ClassifyChangeType(tt.added, tt.removed))
			})
		}
	}
}

func TestClassifyChangeType_PureRemovalIsRefactorUnderBothPolicies(t *testing.T) {
	// removed > 2*added holds whenever added is 0, so the refactor rule
	// fires before the breaking-change rule.
	assert.Equal(t, types.ChangeTypeRefactor, WorkingDirectoryPolicy.ClassifyChangeType(0, 5))
	assert.Equal(t, types.ChangeTypeRefactor, CommitComparisonPolicy.ClassifyChangeType(0, 5))
}

func TestPolicies(t *testing.T) {
	assert.False(t, WorkingDirectoryPolicy.EnableBreakingChangeRule)
	assert.True(t, CommitComparisonPolicy.EnableBreakingChangeRule)
}
