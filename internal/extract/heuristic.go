package extract

import (
	"regexp"
	"strings"
)

var definitionPattern = regexp.MustCompile(`^\s*def\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

// Heuristic extracts functions with a line pattern and an indentation rule.
// It does not understand strings, comments, decorators or signatures that
// span several lines.
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

func (h *Heuristic) FunctionNames(code string) []string {
	names := []string{}
	for _, line := range splitLines(code) {
		if name, ok := definitionName(line); ok {
			names = append(names, name)
		}
	}
	return names
}

// FunctionSpan starts at the first definition line of name and keeps every
// following line that is blank or indented deeper than the definition. The
// first non-blank line at the same or lesser depth ends the span.
func (h *Heuristic) FunctionSpan(code, name string) string {
	lines := splitLines(code)

	start := -1
	for i, line := range lines {
		if found, ok := definitionName(line); ok && found == name {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}

	depth := indentation(lines[start])
	span := []string{lines[start]}
	for _, line := range lines[start+1:] {
		if !isBlank(line) && indentation(line) <= depth {
			break
		}
		span = append(span, line)
	}

	return strings.Join(span, "\n")
}

func definitionName(line string) (string, bool) {
	m := definitionPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}
