// Package report renders analysis runs and impact results for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/agusespa/testimpact/internal/types"
)

type Format string

const (
	FormatHuman    Format = "human"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatHuman:
		return FormatHuman, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want human, markdown or json)", s)
	}
}

// Report is everything one command invocation prints.
type Report struct {
	// Scope names what was compared, e.g. "working tree" or "a1b2c3d..d4e5f6a".
	Scope string
	Run   *types.AnalysisRun
	// Result is nil when the backend was not consulted.
	Result *types.ImpactResult
	// Removed maps file paths to functions present only in the old content.
	Removed map[string][]string
}

// Counts tallies affected tests per impact level.
type Counts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

func (c Counts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low
}

func CountTests(tests []types.AffectedTest) Counts {
	var c Counts
	for _, t := range tests {
		switch t.ImpactLevel {
		case types.ImpactCritical:
			c.Critical++
		case types.ImpactHigh:
			c.High++
		case types.ImpactLow:
			c.Low++
		default:
			c.Medium++
		}
	}
	return c
}

func Write(w io.Writer, format Format, r Report) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatMarkdown:
		return writeMarkdown(w, r)
	default:
		return writeHuman(w, r)
	}
}

func severityIcon(level types.ImpactLevel) string {
	switch level {
	case types.ImpactCritical:
		return "🔴"
	case types.ImpactHigh:
		return "🟠"
	case types.ImpactMedium:
		return "🟡"
	case types.ImpactLow:
		return "🔵"
	default:
		return "⚪️"
	}
}

// FilesLine renders the partial-success line, e.g. "3/4 files analyzed".
func FilesLine(run *types.AnalysisRun) string {
	return fmt.Sprintf("%d/%d files analyzed", run.Analyzed(), run.Total())
}

func testLabel(t types.AffectedTest) string {
	label := t.TestPath
	if t.TestName != "" {
		label += "::" + t.TestName
	}
	if t.LineNumber != nil {
		label += fmt.Sprintf(":%d", *t.LineNumber)
	}
	return label
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if len(v) > 0 {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

func writeHuman(w io.Writer, r Report) error {
	var b strings.Builder
	s := r.Run.Summary

	if r.Scope != "" {
		fmt.Fprintf(&b, "Changes in %s\n", r.Scope)
	}
	fmt.Fprintf(&b, "  %s\n", FilesLine(r.Run))
	fmt.Fprintf(&b, "  Change type: %s\n", s.ChangeType)
	fmt.Fprintf(&b, "  Lines: +%d -%d\n", s.LinesAdded, s.LinesRemoved)
	if len(s.ChangedFunctions) > 0 {
		fmt.Fprintf(&b, "  Changed functions: %s\n", strings.Join(s.ChangedFunctions, ", "))
	}

	if len(r.Run.Failed) > 0 {
		b.WriteString("\nSkipped files:\n")
		for _, f := range r.Run.Failed {
			fmt.Fprintf(&b, "  ⚪️ %s\n", f.Error())
		}
	}

	if keys := sortedKeys(r.Removed); len(keys) > 0 {
		b.WriteString("\nRemoved functions:\n")
		for _, path := range keys {
			fmt.Fprintf(&b, "  %s: %s\n", path, strings.Join(r.Removed[path], ", "))
		}
	}

	if r.Result != nil {
		tests := r.Result.AffectedTests
		fmt.Fprintf(&b, "\nAffected tests (%d):\n", len(tests))
		for _, t := range tests {
			fmt.Fprintf(&b, "  %s %-8s %s", severityIcon(t.ImpactLevel), t.ImpactLevel, testLabel(t))
			if t.RequiresUpdate {
				b.WriteString(" [update required]")
			}
			b.WriteString("\n")
			if t.Reason != "" {
				fmt.Fprintf(&b, "           %s\n", t.Reason)
			}
		}
		c := CountTests(tests)
		b.WriteString("---\n")
		fmt.Fprintf(&b, "Summary: %d critical, %d high, %d medium, %d low\n", c.Critical, c.High, c.Medium, c.Low)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeMarkdown(w io.Writer, r Report) error {
	var b strings.Builder
	s := r.Run.Summary

	b.WriteString("# Test Impact Report\n\n")
	if r.Scope != "" {
		fmt.Fprintf(&b, "**Scope:** `%s`\n", r.Scope)
	}
	fmt.Fprintf(&b, "**Files:** %s\n", FilesLine(r.Run))
	fmt.Fprintf(&b, "**Change type:** %s\n", s.ChangeType)
	fmt.Fprintf(&b, "**Lines:** +%d -%d\n", s.LinesAdded, s.LinesRemoved)
	if len(s.ChangedFunctions) > 0 {
		names := make([]string, len(s.ChangedFunctions))
		for i, n := range s.ChangedFunctions {
			names[i] = "`" + n + "`"
		}
		fmt.Fprintf(&b, "**Changed functions:** %s\n", strings.Join(names, ", "))
	}
	b.WriteString("\n")

	if len(r.Run.Failed) > 0 {
		b.WriteString("## ⚪️ Skipped files\n\n")
		for _, f := range r.Run.Failed {
			fmt.Fprintf(&b, "- `%s`: %v\n", f.FilePath, f.Err)
		}
		b.WriteString("\n")
	}

	if keys := sortedKeys(r.Removed); len(keys) > 0 {
		b.WriteString("## Removed functions\n\n")
		for _, path := range keys {
			fmt.Fprintf(&b, "- `%s`: %s\n", path, strings.Join(r.Removed[path], ", "))
		}
		b.WriteString("\n")
	}

	if r.Result != nil {
		for _, t := range r.Result.AffectedTests {
			fmt.Fprintf(&b, "## %s %s: %s\n", severityIcon(t.ImpactLevel), strings.ToUpper(string(t.ImpactLevel)), testLabel(t))
			if t.Reason != "" {
				fmt.Fprintf(&b, "**Reason:** %s\n", t.Reason)
			}
			fmt.Fprintf(&b, "**Requires update:** %t\n\n---\n\n", t.RequiresUpdate)
		}
		c := CountTests(r.Result.AffectedTests)
		fmt.Fprintf(&b, "**Summary:** %d critical, %d high, %d medium, %d low\n", c.Critical, c.High, c.Medium, c.Low)
		fmt.Fprintf(&b, "\n_Context: %s_\n", r.Result.ContextID)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

type failedJSON struct {
	FilePath string `json:"file_path"`
	Error    string `json:"error"`
}

type reportJSON struct {
	Scope    string              `json:"scope,omitempty"`
	Analyzed int                 `json:"analyzed"`
	Total    int                 `json:"total"`
	Summary  types.ChangeSummary `json:"summary"`
	Changes  []types.CodeChange  `json:"changes"`
	Failed   []failedJSON        `json:"failed,omitempty"`
	Removed  map[string][]string `json:"removed_functions,omitempty"`
	Result   *types.ImpactResult `json:"result,omitempty"`
	Counts   *Counts             `json:"counts,omitempty"`
}

func writeJSON(w io.Writer, r Report) error {
	out := reportJSON{
		Scope:    r.Scope,
		Analyzed: r.Run.Analyzed(),
		Total:    r.Run.Total(),
		Summary:  r.Run.Summary,
		Changes:  r.Run.Changes,
		Removed:  r.Removed,
		Result:   r.Result,
	}
	for _, f := range r.Run.Failed {
		out.Failed = append(out.Failed, failedJSON{FilePath: f.FilePath, Error: f.Err.Error()})
	}
	if r.Result != nil {
		c := CountTests(r.Result.AffectedTests)
		out.Counts = &c
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
