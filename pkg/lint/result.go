package lint

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/goxmlint/pkg/config"
)

// workdayMinutes converts technical-debt minutes into working days.
const workdayMinutes = 8 * 60

// AnalysisResult aggregates the diagnostics of a run over a set of files.
// Filters only ever remove diagnostics, never add them.
type AnalysisResult struct {
	// Files lists every analyzed file exactly once, in first-seen order.
	Files []string

	// Diagnostics holds all collected diagnostics.
	Diagnostics []Diagnostic
}

// NewAnalysisResult creates an empty result.
func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{}
}

// AddFile records an analyzed file, de-duplicating repeats.
func (r *AnalysisResult) AddFile(path string) {
	if !slices.Contains(r.Files, path) {
		r.Files = append(r.Files, path)
	}
}

// Add appends diagnostics to the result.
func (r *AnalysisResult) Add(diags ...Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, diags...)
}

// Merge folds another result into this one.
func (r *AnalysisResult) Merge(other *AnalysisResult) {
	if other == nil {
		return
	}
	for _, f := range other.Files {
		r.AddFile(f)
	}
	r.Diagnostics = append(r.Diagnostics, other.Diagnostics...)
}

// FilterBySeverity retains diagnostics at or above the minimum severity.
func (r *AnalysisResult) FilterBySeverity(minimum config.Severity) {
	r.Diagnostics = slices.DeleteFunc(r.Diagnostics, func(d Diagnostic) bool {
		return !d.Severity.AtLeast(minimum)
	})
}

// FilterByCategory retains diagnostics in any of the given categories.
func (r *AnalysisResult) FilterByCategory(categories ...Category) {
	r.Diagnostics = slices.DeleteFunc(r.Diagnostics, func(d Diagnostic) bool {
		return !slices.Contains(categories, d.Category)
	})
}

// FilterByIssueType retains diagnostics of any of the given issue types.
func (r *AnalysisResult) FilterByIssueType(types ...IssueType) {
	r.Diagnostics = slices.DeleteFunc(r.Diagnostics, func(d Diagnostic) bool {
		return !slices.Contains(types, d.IssueType)
	})
}

// FilterByTag retains diagnostics carrying any of the given tags.
func (r *AnalysisResult) FilterByTag(tags ...string) {
	r.Diagnostics = slices.DeleteFunc(r.Diagnostics, func(d Diagnostic) bool {
		for _, tag := range d.Tags {
			if slices.Contains(tags, tag) {
				return false
			}
		}
		return true
	})
}

// Sort orders diagnostics by (file, start line, start column).
// The sort is stable so equal positions keep their insertion order.
func (r *AnalysisResult) Sort() {
	slices.SortStableFunc(r.Diagnostics, func(a, b Diagnostic) int {
		if c := strings.Compare(a.Location.File, b.Location.File); c != 0 {
			return c
		}
		if c := a.Location.Range.StartLine - b.Location.Range.StartLine; c != 0 {
			return c
		}
		return a.Location.Range.StartColumn - b.Location.Range.StartColumn
	})
}

// CountBySeverity tallies diagnostics per severity level.
func (r *AnalysisResult) CountBySeverity() map[config.Severity]int {
	counts := make(map[config.Severity]int)
	for _, d := range r.Diagnostics {
		counts[d.Severity]++
	}
	return counts
}

// CountByIssueType tallies diagnostics per issue type.
func (r *AnalysisResult) CountByIssueType() map[IssueType]int {
	counts := make(map[IssueType]int)
	for _, d := range r.Diagnostics {
		counts[d.IssueType]++
	}
	return counts
}

// HasIssuesAtOrAbove reports whether any diagnostic meets the threshold.
func (r *AnalysisResult) HasIssuesAtOrAbove(threshold config.Severity) bool {
	for _, d := range r.Diagnostics {
		if d.Severity.AtLeast(threshold) {
			return true
		}
	}
	return false
}

// TotalEffortMinutes sums remediation effort over all diagnostics.
func (r *AnalysisResult) TotalEffortMinutes() int {
	total := 0
	for _, d := range r.Diagnostics {
		total += d.EffortMinutes
	}
	return total
}

// TotalEffortDisplay formats the technical debt as "Nd Nh Nmin" using an
// 8-hour workday, omitting leading zero units ("1h 30min", "45min"). Zero
// effort renders as "0min".
func (r *AnalysisResult) TotalEffortDisplay() string {
	return FormatEffort(r.TotalEffortMinutes())
}

// FormatEffort renders a minute count in workday units.
func FormatEffort(minutes int) string {
	if minutes <= 0 {
		return "0min"
	}

	days := minutes / workdayMinutes
	hours := (minutes % workdayMinutes) / 60
	mins := minutes % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dmin", days, hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh %dmin", hours, mins)
	default:
		return fmt.Sprintf("%dmin", mins)
	}
}
