// Package extract finds function definitions and their source spans.
package extract

import "strings"

// Extractor locates function definitions in source text.
// Implementations never fail: input without definitions yields empty results.
type Extractor interface {
	// FunctionNames returns every defined function name in document order.
	// Names defined more than once are reported once per definition.
	FunctionNames(code string) []string

	// FunctionSpan returns the source text of the first definition of name,
	// or "" when name is not defined.
	FunctionSpan(code, name string) string
}

// splitLines splits on \n only; a trailing \r stays part of the line.
func splitLines(code string) []string {
	return strings.Split(code, "\n")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// indentation counts the leading ASCII whitespace characters, the same set
// \s matches in the definition pattern. Other space characters such as
// U+00A0 are treated as content.
func indentation(line string) int {
	n := 0
	for n < len(line) && isIndent(line[n]) {
		n++
	}
	return n
}

func isIndent(c byte) bool {
	switch c {
	case ' ', '\t', '\f', '\r':
		return true
	}
	return false
}
