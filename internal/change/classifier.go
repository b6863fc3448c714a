// Package change detects function-level changes between two versions of a
// file and summarizes them across a changed-file set.
package change

import (
	"strings"

	"github.com/agusespa/testimpact/internal/extract"
)

// ChangedFunctions reports functions of newCode that are new or whose span
// text differs from the span of the same name in oldCode. Names keep the
// order in which they appear in newCode and are never repeated.
//
// Functions that exist only in oldCode are not reported; use RemovedFunctions.
func ChangedFunctions(ex extract.Extractor, oldCode, newCode string) []string {
	newNames := ex.FunctionNames(newCode)
	changed := make([]string, 0, len(newNames))
	seen := make(map[string]bool, len(newNames))

	report := func(name string) {
		if !seen[name] {
			seen[name] = true
			changed = append(changed, name)
		}
	}

	if strings.TrimSpace(oldCode) == "" {
		for _, name := range newNames {
			report(name)
		}
		return changed
	}

	oldNames := make(map[string]bool)
	for _, name := range ex.FunctionNames(oldCode) {
		oldNames[name] = true
	}

	for _, name := range newNames {
		if seen[name] {
			continue
		}
		if !oldNames[name] {
			report(name)
			continue
		}
		if ex.FunctionSpan(oldCode, name) != ex.FunctionSpan(newCode, name) {
			report(name)
		}
	}

	return changed
}

// RemovedFunctions lists names defined in oldCode but not in newCode, in
// oldCode order.
func RemovedFunctions(ex extract.Extractor, oldCode, newCode string) []string {
	present := make(map[string]bool)
	for _, name := range ex.FunctionNames(newCode) {
		present[name] = true
	}

	removed := []string{}
	for _, name := range ex.FunctionNames(oldCode) {
		if !present[name] {
			present[name] = true
			removed = append(removed, name)
		}
	}
	return removed
}
