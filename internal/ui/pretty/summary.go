package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// summarySeverities is the display order for severity breakdowns,
// most severe first.
var summarySeverities = []config.Severity{
	config.SeverityBlocker,
	config.SeverityHigh,
	config.SeverityMedium,
	config.SeverityLow,
	config.SeverityInfo,
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "12 issues (8 blocker, 4 medium) in 3 files, 6 fixable".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.DiagnosticsTotal == 0 {
		msg := s.Success.Render("No issues found") + s.Dim.Render(fmt.Sprintf(" (%d files checked)", stats.FilesProcessed))
		if stats.FilesErrored > 0 {
			msg += ", " + s.Failure.Render(fmt.Sprintf("%d errored", stats.FilesErrored))
		}
		return msg + "\n"
	}

	var parts []string

	issueWord := "issues"
	if stats.DiagnosticsTotal == 1 {
		issueWord = "issue"
	}

	// Severity breakdown, most severe first
	var severityParts []string
	for _, sev := range summarySeverities {
		if count := stats.DiagnosticsBySeverity[sev]; count > 0 {
			severityParts = append(severityParts, s.SeverityStyle(sev).Render(fmt.Sprintf("%d %s", count, sev)))
		}
	}

	if len(severityParts) > 0 {
		parts = append(parts, fmt.Sprintf("%d %s (%s)", stats.DiagnosticsTotal, issueWord, strings.Join(severityParts, ", ")))
	} else {
		parts = append(parts, fmt.Sprintf("%d %s", stats.DiagnosticsTotal, issueWord))
	}

	fileWord := wordFiles
	if stats.FilesWithIssues == 1 {
		fileWord = wordFile
	}
	parts = append(parts, fmt.Sprintf("in %d %s", stats.FilesWithIssues, fileWord))

	if stats.DiagnosticsFixable > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d fixable", stats.DiagnosticsFixable)))
	}

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d errored", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	// Files
	builder.WriteString("  Files checked:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesWithIssues > 0 {
		builder.WriteString("  Files with issues: " +
			s.Failure.Render(strconv.Itoa(stats.FilesWithIssues)) + "\n")
	}

	if stats.FilesErrored > 0 {
		builder.WriteString("  Files errored:     " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	if stats.CacheHits > 0 {
		builder.WriteString("  Cache hits:        " +
			s.SummaryValue.Render(strconv.Itoa(stats.CacheHits)) + "\n")
	}

	builder.WriteString("\n")

	// Diagnostics by severity
	builder.WriteString("  Total issues:      " +
		s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)) + "\n")

	for _, sev := range summarySeverities {
		if count := stats.DiagnosticsBySeverity[sev]; count > 0 {
			label := fmt.Sprintf("    %-15s", string(sev)+":")
			builder.WriteString(label + "  " +
				s.SeverityStyle(sev).Render(strconv.Itoa(count)) + "\n")
		}
	}

	if stats.DiagnosticsFixable > 0 {
		builder.WriteString("    Fixable:         " +
			s.Success.Render(strconv.Itoa(stats.DiagnosticsFixable)) + "\n")
	}

	builder.WriteString("\n")

	// Overall status
	switch {
	case stats.DiagnosticsBySeverity[config.SeverityBlocker] > 0 || stats.DiagnosticsBySeverity[config.SeverityHigh] > 0:
		builder.WriteString(s.Failure.Render("Lint failed"))
	case stats.DiagnosticsTotal > 0:
		builder.WriteString(s.Medium.Render("Lint completed with issues"))
	default:
		builder.WriteString(s.Success.Render("Lint passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
