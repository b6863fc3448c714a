package change

import "strings"

type LineDelta struct {
	Added   int
	Removed int
}

// EstimateLineDelta compares non-blank line counts. It is a length
// heuristic: ten lines replaced by ten other lines yields 0/0.
func EstimateLineDelta(oldContent, newContent string) LineDelta {
	oldCount := nonBlankLines(oldContent)
	newCount := nonBlankLines(newContent)

	return LineDelta{
		Added:   max(0, newCount-oldCount),
		Removed: max(0, oldCount-newCount),
	}
}

func nonBlankLines(content string) int {
	count := 0
	for line := range strings.SplitSeq(content, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
