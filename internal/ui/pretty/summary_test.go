package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/runner"

	"github.com/yaklabco/goxmlint/internal/ui/pretty"
)

func TestFormatSummary_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:   10,
		FilesWithIssues:  3,
		DiagnosticsTotal: 15,
		DiagnosticsBySeverity: map[config.Severity]int{
			config.SeverityBlocker: 5,
			config.SeverityMedium:  10,
		},
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Summary")
	assert.Contains(t, result, "Files checked:")
	assert.Contains(t, result, "10")
	assert.Contains(t, result, "Files with issues:")
	assert.Contains(t, result, "3")
	assert.Contains(t, result, "Total issues:")
	assert.Contains(t, result, "15")
	assert.Contains(t, result, "blocker:")
	assert.Contains(t, result, "5")
	assert.Contains(t, result, "medium:")
}

func TestFormatSummary_NoIssues(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:        5,
		FilesWithIssues:       0,
		DiagnosticsTotal:      0,
		DiagnosticsBySeverity: map[config.Severity]int{},
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Lint passed")
	assert.NotContains(t, result, "Files with issues:")
}

func TestFormatSummary_WithBlockers(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:   10,
		FilesWithIssues:  2,
		DiagnosticsTotal: 5,
		DiagnosticsBySeverity: map[config.Severity]int{
			config.SeverityBlocker: 2,
			config.SeverityMedium:  3,
		},
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Lint failed")
}

func TestFormatSummary_MediumOnly(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:   10,
		FilesWithIssues:  2,
		DiagnosticsTotal: 5,
		DiagnosticsBySeverity: map[config.Severity]int{
			config.SeverityMedium: 5,
		},
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Lint completed with issues")
}

func TestFormatSummary_WithCacheHits(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:        10,
		CacheHits:             7,
		DiagnosticsTotal:      0,
		DiagnosticsBySeverity: map[config.Severity]int{},
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Cache hits:")
	assert.Contains(t, result, "7")
}

func TestFormatSummary_WithErroredFiles(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:        8,
		FilesErrored:          2,
		DiagnosticsTotal:      0,
		DiagnosticsBySeverity: map[config.Severity]int{},
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Files errored:")
	assert.Contains(t, result, "2")
}

func TestFormatSummaryOneLine_NoIssues(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:        5,
		FilesWithIssues:       0,
		DiagnosticsTotal:      0,
		DiagnosticsBySeverity: map[config.Severity]int{},
	}

	result := styles.FormatSummaryOneLine(stats)

	assert.Contains(t, result, "No issues found")
	assert.Contains(t, result, "5 files checked")
}

func TestFormatSummaryOneLine_WithIssues(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:     10,
		FilesWithIssues:    3,
		DiagnosticsTotal:   12,
		DiagnosticsFixable: 8,
		DiagnosticsBySeverity: map[config.Severity]int{
			config.SeverityHigh:   4,
			config.SeverityMedium: 8,
		},
	}

	result := styles.FormatSummaryOneLine(stats)

	assert.Contains(t, result, "12 issues")
	assert.Contains(t, result, "4 high")
	assert.Contains(t, result, "8 medium")
	assert.Contains(t, result, "in 3 files")
	assert.Contains(t, result, "8 fixable")
}

func TestFormatSummaryOneLine_SingleIssue(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:     1,
		FilesWithIssues:    1,
		DiagnosticsTotal:   1,
		DiagnosticsFixable: 1,
		DiagnosticsBySeverity: map[config.Severity]int{
			config.SeverityMedium: 1,
		},
	}

	result := styles.FormatSummaryOneLine(stats)

	assert.Contains(t, result, "1 issue")
	assert.Contains(t, result, "in 1 file")
	assert.Contains(t, result, "1 fixable")
}

func TestFormatSummaryOneLine_SeverityOrder(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:   3,
		FilesWithIssues:  3,
		DiagnosticsTotal: 6,
		DiagnosticsBySeverity: map[config.Severity]int{
			config.SeverityLow:     1,
			config.SeverityBlocker: 2,
			config.SeverityMedium:  3,
		},
	}

	result := styles.FormatSummaryOneLine(stats)

	// Most severe first regardless of map order
	blockerIdx := strings.Index(result, "2 blocker")
	mediumIdx := strings.Index(result, "3 medium")
	lowIdx := strings.Index(result, "1 low")
	assert.True(t, blockerIdx >= 0 && mediumIdx > blockerIdx && lowIdx > mediumIdx,
		"expected blocker before medium before low: %q", result)
}

func TestFormatSummaryOneLine_NoFixable(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:     5,
		FilesWithIssues:    2,
		DiagnosticsTotal:   3,
		DiagnosticsFixable: 0,
		DiagnosticsBySeverity: map[config.Severity]int{
			config.SeverityBlocker: 3,
		},
	}

	result := styles.FormatSummaryOneLine(stats)

	assert.Contains(t, result, "3 issues")
	assert.Contains(t, result, "3 blocker")
	assert.NotContains(t, result, "fixable")
}
