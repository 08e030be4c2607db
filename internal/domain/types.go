// Package domain holds the pure data types shared across the application.
// Nothing in this package performs I/O or depends on an adapter.
package domain

import "strings"

// Severity levels reported by the analysis providers. The set is open:
// unknown values are carried through unchanged rather than rejected.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Finding is a single issue reported by an analysis provider against the
// post-image of a pull request. File must use the same path convention as
// the diff's post-image paths; no normalization is applied downstream.
type Finding struct {
	File     string `json:"file_path"`
	Line     int    `json:"line_number"`
	Severity string `json:"severity"`
	Comment  string `json:"comment"`
}

// Review is the full output of one analysis provider run.
type Review struct {
	ProviderName string    `json:"providerName"`
	ModelName    string    `json:"modelName"`
	Summary      string    `json:"summary"`
	Findings     []Finding `json:"findings"`
}

// NormalizeSeverity lower-cases a severity for comparisons. Empty severities
// default to info, matching the original behavior of treating unlabeled
// findings as informational.
func NormalizeSeverity(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SeverityInfo
	}
	return s
}

// SeverityTag renders the bold badge prepended to inline comment bodies,
// e.g. "**[ERROR]**".
func SeverityTag(severity string) string {
	return "**[" + strings.ToUpper(NormalizeSeverity(severity)) + "]**"
}

// CountBySeverity tallies findings per normalized severity.
func CountBySeverity(findings []Finding) map[string]int {
	counts := make(map[string]int, 3)
	for _, f := range findings {
		counts[NormalizeSeverity(f.Severity)]++
	}
	return counts
}
