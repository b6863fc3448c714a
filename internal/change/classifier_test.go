package change

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agusespa/testimpact/internal/extract"
)

func TestChangedFunctions(t *testing.T) {
	tests := []struct {
		name     string
		oldCode  string
		newCode  string
		expected []string
	}{
		{
			name:     "new file reports every function",
			oldCode:  "",
			newCode:  "def add(a, b):\n    return a + b\n\ndef sub(a, b):\n    return a - b\n",
			expected: []string{"add", "sub"},
		},
		{
			name:     "whitespace-only old content is a new file",
			oldCode:  "  \n\t\n",
			newCode:  "def add(a, b):\n    return a + b\n",
			expected: []string{"add"},
		},
		{
			name:     "modified body and added function",
			oldCode:  "def f():\n    return 1\n",
			newCode:  "def f():\n    return 2\n\ndef g():\n    return 3\n",
			expected: []string{"f", "g"},
		},
		{
			name:     "identical content",
			oldCode:  "def f():\n    return 1\n",
			newCode:  "def f():\n    return 1\n",
			expected: []string{},
		},
		{
			name:     "indentation change is a modification",
			oldCode:  "def f():\n    return 1\n",
			newCode:  "def f():\n        return 1\n",
			expected: []string{"f"},
		},
		{
			name:     "trailing blank line difference changes the span",
			oldCode:  "def f():\n    return 1\ndef g():\n    pass\n",
			newCode:  "def f():\n    return 1\n\ndef g():\n    pass\n",
			expected: []string{"f"},
		},
		{
			name:     "removed function is not reported",
			oldCode:  "def gone():\n    pass\n\ndef f():\n    return 1\n",
			newCode:  "def f():\n    return 1\n",
			expected: []string{},
		},
		{
			name:     "change outside functions is not reported",
			oldCode:  "X = 1\n\ndef f():\n    return X\n",
			newCode:  "X = 2\n\ndef f():\n    return X\n",
			expected: []string{},
		},
		{
			name:     "order follows the new file",
			oldCode:  "def a():\n    return 1\ndef b():\n    return 1\n",
			newCode:  "def b():\n    return 2\ndef a():\n    return 2\n",
			expected: []string{"b", "a"},
		},
		{
			name:     "duplicate definitions reported once",
			oldCode:  "",
			newCode:  "def f():\n    return 1\ndef f():\n    return 2\n",
			expected: []string{"f"},
		},
	}

	ex := extract.NewHeuristic()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ChangedFunctions(ex, tt.oldCode, tt.newCode))
		})
	}
}

func TestChangedFunctions_NewFileMatchesNameList(t *testing.T) {
	ex := extract.NewHeuristic()
	code := "def one():\n    pass\nclass K:\n    def two(self):\n        pass\ndef three():\n    pass\n"

	assert.Equal(t, ex.FunctionNames(code), ChangedFunctions(ex, "", code))
}

func TestChangedFunctions_NeverReportsIdenticalSpans(t *testing.T) {
	ex := extract.NewHeuristic()
	oldCode := "def keep():\n    return 1\n\ndef edit():\n    return 1\n"
	newCode := "def keep():\n    return 1\n\ndef edit():\n    return 42\n"

	changed := ChangedFunctions(ex, oldCode, newCode)
	assert.NotContains(t, changed, "keep")
	assert.Equal(t, []string{"edit"}, changed)
}

func TestRemovedFunctions(t *testing.T) {
	ex := extract.NewHeuristic()

	removed := RemovedFunctions(ex,
		"def a():\n    pass\ndef b():\n    pass\ndef c():\n    pass\n",
		"def b():\n    pass\n")
	assert.Equal(t, []string{"a", "c"}, removed)

	assert.Empty(t, RemovedFunctions(ex, "", "def a():\n    pass\n"))
}
