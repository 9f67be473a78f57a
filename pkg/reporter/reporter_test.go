package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/fix"
	"github.com/yaklabco/goxmlint/pkg/lint"
	"github.com/yaklabco/goxmlint/pkg/markup"
	"github.com/yaklabco/goxmlint/pkg/reporter"
	"github.com/yaklabco/goxmlint/pkg/runner"
)

// sampleResult builds a two-file result with one diagnostic, the way the
// runner would assemble it.
func sampleResult() *runner.Result {
	diag := lint.NewDiagnostic("VAL-ATTR-001",
		lint.Location{File: "product.wxs", Range: markup.NewSourceRange(3, 5, 3, 40)},
		"Component is missing a Guid attribute").
		WithRuleName("component-missing-guid").
		WithSeverity(config.SeverityBlocker).
		WithCategory(lint.CategoryValidation).
		WithHelp(`Add Guid="*" to the Component element`).
		WithFix(lint.Fix{
			Description: `Add Guid="*"`,
			Safe:        true,
			Action: lint.FixAction{
				Kind:  lint.FixAddAttribute,
				Range: markup.NewSourceRange(3, 5, 3, 40),
				Name:  "Guid",
				Value: "*",
			},
		}).
		WithTags("wix")

	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path: "product.wxs",
				Result: &lint.FileResult{
					Diagnostics: []lint.Diagnostic{*diag},
				},
			},
			{
				Path:   "fragment.wxs",
				Result: &lint.FileResult{},
			},
		},
		Stats: runner.Stats{
			FilesDiscovered:  2,
			FilesProcessed:   2,
			FilesWithIssues:  1,
			DiagnosticsTotal: 1,
			DiagnosticsBySeverity: map[config.Severity]int{
				config.SeverityBlocker: 1,
			},
			DiagnosticsFixable: 1,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected reporter.Format
		wantErr  bool
	}{
		{"text", reporter.FormatText, false},
		{"", reporter.FormatText, false},
		{"table", reporter.FormatTable, false},
		{"json", reporter.FormatJSON, false},
		{"sarif", reporter.FormatSARIF, false},
		{"summary", reporter.FormatSummary, false},
		{"xml", "", true},
		{"diff", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	valid := []reporter.Format{
		reporter.FormatText,
		reporter.FormatTable,
		reporter.FormatJSON,
		reporter.FormatSARIF,
		reporter.FormatSummary,
	}
	for _, format := range valid {
		assert.True(t, format.IsValid(), "%s should be valid", format)
	}

	assert.False(t, reporter.Format("xml").IsValid())
	assert.False(t, reporter.Format("").IsValid())
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	for _, format := range []reporter.Format{
		reporter.FormatText,
		reporter.FormatTable,
		reporter.FormatJSON,
		reporter.FormatSARIF,
		reporter.FormatSummary,
	} {
		t.Run(string(format), func(t *testing.T) {
			r, err := reporter.New(reporter.Options{Writer: &buf, Format: format})
			require.NoError(t, err)
			assert.NotNil(t, r)
		})
	}

	_, err := reporter.New(reporter.Options{Writer: &buf, Format: "bogus"})
	assert.Error(t, err)
}

func TestTextReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	r := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
	})

	count, err := r.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), "No files to check.")
}

func TestTextReporter_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	r := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
	})

	result := &runner.Result{Stats: runner.Stats{FilesProcessed: 3}}
	count, err := r.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestTextReporter_WithDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	r := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		GroupByFile: true,
	})

	count, err := r.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	output := buf.String()
	assert.Contains(t, output, "product.wxs")
	assert.Contains(t, output, "Component is missing a Guid attribute")
	assert.Contains(t, output, "(VAL-ATTR-001)")
	assert.Contains(t, output, "blocker")
	assert.Contains(t, output, "1 fixable")
	assert.NotContains(t, output, "fragment.wxs") // clean file not listed
}

func TestTextReporter_ReportsFileErrors(t *testing.T) {
	var buf bytes.Buffer
	r := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		GroupByFile: true,
	})

	result := &runner.Result{
		Files: []runner.FileOutcome{
			{Path: "broken.wxs", Error: assert.AnError},
		},
		Stats: runner.Stats{FilesDiscovered: 1, FilesErrored: 1},
	}

	_, err := r.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "broken.wxs")
	assert.Contains(t, buf.String(), "error:")
}

func TestJSONReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	r := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	count, err := r.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Empty(t, output.Files)
	assert.Equal(t, 0, output.Summary.TotalIssues)
}

func TestJSONReporter_WithDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	r := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	count, err := r.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	require.Len(t, output.Files, 2)
	require.Len(t, output.Files[0].Diagnostics, 1)

	diag := output.Files[0].Diagnostics[0]
	assert.Equal(t, "VAL-ATTR-001", diag.RuleID)
	assert.Equal(t, "component-missing-guid", diag.RuleName)
	assert.Equal(t, "blocker", diag.Severity)
	assert.Equal(t, "validation", diag.Category)
	assert.Equal(t, "bug", diag.IssueType)
	assert.Equal(t, 3, diag.Range.StartLine)
	assert.Equal(t, 5, diag.Range.StartColumn)
	assert.True(t, diag.Fixable)
	require.NotNil(t, diag.Fix)
	assert.True(t, diag.Fix.Safe)
	assert.NotEmpty(t, diag.Fingerprint)
	assert.Equal(t, []string{"wix"}, diag.Tags)

	assert.Equal(t, 2, output.Summary.FilesChecked)
	assert.Equal(t, 1, output.Summary.FilesWithIssues)
	assert.Equal(t, 1, output.Summary.Fixable)
	assert.Equal(t, 1, output.Summary.BySeverity["blocker"])
}

func TestJSONReporter_Compact(t *testing.T) {
	var buf bytes.Buffer
	r := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})

	_, err := r.Report(context.Background(), sampleResult())
	require.NoError(t, err)

	// Compact output is a single line.
	assert.NotContains(t, string(bytes.TrimSpace(buf.Bytes())), "\n")
}

func TestSARIFReporter_Output(t *testing.T) {
	var buf bytes.Buffer
	r := reporter.NewSARIFReporter(reporter.Options{Writer: &buf})

	count, err := r.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var output reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	require.Len(t, output.Runs, 1)
	run := output.Runs[0]
	assert.Equal(t, "goxmlint", run.Tool.Driver.Name)

	require.Len(t, run.Tool.Driver.Rules, 1)
	rule := run.Tool.Driver.Rules[0]
	assert.Equal(t, "VAL-ATTR-001", rule.ID)
	assert.Equal(t, "component-missing-guid", rule.Name)
	assert.Equal(t, "error", rule.DefaultConfig.Level)

	require.Len(t, run.Results, 1)
	result := run.Results[0]
	assert.Equal(t, "VAL-ATTR-001", result.RuleID)
	assert.Equal(t, "error", result.Level)
	require.Len(t, result.Locations, 1)
	loc := result.Locations[0].PhysicalLocation
	assert.Equal(t, "product.wxs", loc.ArtifactLocation.URI)
	assert.Equal(t, 3, loc.Region.StartLine)
	assert.NotEmpty(t, result.PartialFingerprints["primaryLocationLineHash"])
	require.Len(t, result.Fixes, 1)
	assert.Equal(t, `Add Guid="*"`, result.Fixes[0].Description.Text)
}

func TestSARIFReporter_SeverityLevels(t *testing.T) {
	tests := []struct {
		severity config.Severity
		level    string
	}{
		{config.SeverityBlocker, "error"},
		{config.SeverityHigh, "error"},
		{config.SeverityMedium, "warning"},
		{config.SeverityLow, "note"},
		{config.SeverityInfo, "note"},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			diag := lint.NewDiagnostic("BP-IDIOM-001",
				lint.Location{File: "a.wxs", Range: markup.NewSourceRange(1, 1, 1, 5)},
				"message").
				WithSeverity(tt.severity)

			result := &runner.Result{
				Files: []runner.FileOutcome{{
					Path:   "a.wxs",
					Result: &lint.FileResult{Diagnostics: []lint.Diagnostic{*diag}},
				}},
			}

			var buf bytes.Buffer
			r := reporter.NewSARIFReporter(reporter.Options{Writer: &buf})
			_, err := r.Report(context.Background(), result)
			require.NoError(t, err)

			var output reporter.SARIFOutput
			require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
			require.Len(t, output.Runs[0].Results, 1)
			assert.Equal(t, tt.level, output.Runs[0].Results[0].Level)
		})
	}
}

func TestTableReporter_WithDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	r := reporter.NewTableReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
	})

	count, err := r.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	output := buf.String()
	assert.Contains(t, output, "FILE")
	assert.Contains(t, output, "product.wxs")
	assert.Contains(t, output, "VAL-ATTR-001")
	assert.Contains(t, output, "--fix")
}

func TestDiffRenderer_NilResult(t *testing.T) {
	var buf bytes.Buffer
	r := reporter.NewDiffRenderer(reporter.Options{Writer: &buf, Color: "never"})

	count, err := r.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, buf.String())
}

func TestDiffRenderer_WithDiffs(t *testing.T) {
	var buf bytes.Buffer
	r := reporter.NewDiffRenderer(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
	})

	result := &fix.Result{
		Diffs: map[string]string{
			"product.wxs": "@@ -3,1 +3,1 @@\n-  <Component Id=\"C1\" />\n+  <Component Id=\"C1\" Guid=\"*\" />\n",
		},
	}

	count, err := r.Render(result)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	output := buf.String()
	assert.Contains(t, output, "diff --git a/product.wxs b/product.wxs")
	assert.Contains(t, output, `+  <Component Id="C1" Guid="*" />`)
	assert.Contains(t, output, "1 file changed")
	assert.Contains(t, output, "1 insertion(+)")
	assert.Contains(t, output, "1 deletion(-)")
}

func TestTextReporter_RuleFormat(t *testing.T) {
	tests := []struct {
		format   config.RuleFormat
		contains string
	}{
		{config.RuleFormatName, "(component-missing-guid)"},
		{config.RuleFormatID, "(VAL-ATTR-001)"},
		{config.RuleFormatCombined, "(VAL-ATTR-001/component-missing-guid)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			r := reporter.NewTextReporter(reporter.Options{
				Writer:     &buf,
				Color:      "never",
				RuleFormat: tt.format,
			})

			_, err := r.Report(context.Background(), sampleResult())
			require.NoError(t, err)
			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := reporter.DefaultOptions()

	assert.Equal(t, reporter.FormatText, opts.Format)
	assert.Equal(t, "auto", opts.Color)
	assert.True(t, opts.ShowContext)
	assert.True(t, opts.ShowSummary)
	assert.True(t, opts.GroupByFile)
	assert.Equal(t, config.RuleFormatID, opts.RuleFormat)
}
