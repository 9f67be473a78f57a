package reporter

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/goxmlint/internal/ui/pretty"
	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/runner"
)

// Table layout constants for summary output.
// Both tables use the same width for visual consistency.
const (
	tableWidth         = 90 // Width of table separators (same for both tables).
	ruleColWidth       = 30 // Width of the rule name column.
	fileColWidth       = 60 // Width of the file path column (wider for relative paths).
	numColWidth        = 7  // Width of numeric columns.
	severeColWidth     = 8  // Width of the severe column.
	fixableColWidth    = 8  // Width of fixable column.
	maxRuleNameLength  = 28 // Maximum characters for rule name before truncation.
	maxFilePathLength  = 58 // Maximum characters for file path before truncation.
	totalPartsCapacity = 2  // Expected number of parts in total summary line.
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// ruleSummary aggregates diagnostics for a single rule.
type ruleSummary struct {
	RuleID   string
	RuleName string
	Issues   int
	Severe   int // blocker and high severity
	Fixable  bool
}

// fileSummary aggregates diagnostics for a single file.
type fileSummary struct {
	Path   string
	Issues int
	Severe int
}

// SummaryReporter formats results as aggregated summary tables,
// one grouped by rule and one grouped by file.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil || result.Stats.DiagnosticsTotal == 0 {
		fmt.Fprintln(r.out, r.styles.Success.Render("No issues found"))
		return 0, nil
	}

	rules, files := r.aggregate(result)

	r.renderRuleTable(rules)
	fmt.Fprintln(r.out)
	r.renderFileTable(files)
	fmt.Fprintln(r.out)
	r.renderTotals(result.Stats)

	return result.Stats.DiagnosticsTotal, nil
}

// aggregate groups diagnostics by rule and by file, most frequent first.
func (r *SummaryReporter) aggregate(result *runner.Result) ([]ruleSummary, []fileSummary) {
	ruleIndex := make(map[string]*ruleSummary)
	fileIndex := make(map[string]*fileSummary)

	for _, file := range result.Files {
		if file.Result == nil {
			continue
		}

		for _, diag := range file.Result.Diagnostics {
			rule, ok := ruleIndex[diag.RuleID]
			if !ok {
				rule = &ruleSummary{RuleID: diag.RuleID, RuleName: diag.RuleName}
				ruleIndex[diag.RuleID] = rule
			}
			rule.Issues++
			if isSevere(diag.Severity) {
				rule.Severe++
			}
			if diag.Fix != nil {
				rule.Fixable = true
			}

			path := r.displayPath(file.Path)
			fileSum, ok := fileIndex[path]
			if !ok {
				fileSum = &fileSummary{Path: path}
				fileIndex[path] = fileSum
			}
			fileSum.Issues++
			if isSevere(diag.Severity) {
				fileSum.Severe++
			}
		}
	}

	rules := make([]ruleSummary, 0, len(ruleIndex))
	for _, rule := range ruleIndex {
		rules = append(rules, *rule)
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Issues != rules[j].Issues {
			return rules[i].Issues > rules[j].Issues
		}
		return rules[i].RuleID < rules[j].RuleID
	})

	files := make([]fileSummary, 0, len(fileIndex))
	for _, file := range fileIndex {
		files = append(files, *file)
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Issues != files[j].Issues {
			return files[i].Issues > files[j].Issues
		}
		return files[i].Path < files[j].Path
	})

	return rules, files
}

func isSevere(severity config.Severity) bool {
	return severity == config.SeverityBlocker || severity == config.SeverityHigh
}

// displayPath makes a path relative to WorkingDir when configured.
func (r *SummaryReporter) displayPath(path string) string {
	if r.opts.WorkingDir == "" {
		return path
	}
	rel, err := filepath.Rel(r.opts.WorkingDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func (r *SummaryReporter) renderRuleTable(rules []ruleSummary) {
	if len(rules) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Rules Summary"))
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	// Header - pad first, then style
	fmt.Fprintf(r.out, "%s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("Rule", ruleColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Severe", severeColWidth)),
		r.styles.TableHeader.Render(padLeft("Fixable", fixableColWidth)),
	)
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	// Rows
	for _, rule := range rules {
		ruleName := config.FormatRuleID(r.opts.RuleFormat, rule.RuleID, rule.RuleName)
		if len(ruleName) > maxRuleNameLength {
			ruleName = ruleName[:maxRuleNameLength] + "…"
		}

		// Pad first, then style
		paddedName := padRight(ruleName, ruleColWidth)
		styledName := paddedName
		if rule.Severe > 0 {
			styledName = r.styles.TableErrorRow.Render(paddedName)
		}

		fixable := padLeft("", fixableColWidth)
		if rule.Fixable {
			fixable = r.styles.Success.Render(padLeft("✓", fixableColWidth))
		}

		fmt.Fprintf(r.out, "%s %s %s %s\n",
			styledName,
			padLeft(strconv.Itoa(rule.Issues), numColWidth),
			padLeft(strconv.Itoa(rule.Severe), severeColWidth),
			fixable,
		)
	}
}

func (r *SummaryReporter) renderFileTable(files []fileSummary) {
	if len(files) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	// Header - pad first, then style
	fmt.Fprintf(r.out, "%s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Severe", severeColWidth)),
	)
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	// Rows
	for _, file := range files {
		path := file.Path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}

		// Pad first, then style
		paddedPath := padRight(path, fileColWidth)
		styledPath := paddedPath
		if file.Severe > 0 {
			styledPath = r.styles.TableErrorRow.Render(paddedPath)
		}

		fmt.Fprintf(r.out, "%s %s %s\n",
			styledPath,
			padLeft(strconv.Itoa(file.Issues), numColWidth),
			padLeft(strconv.Itoa(file.Severe), severeColWidth),
		)
	}
}

func (r *SummaryReporter) renderTotals(stats runner.Stats) {
	parts := make([]string, 0, totalPartsCapacity)

	// Total issues
	issueWord := "issues"
	if stats.DiagnosticsTotal == 1 {
		issueWord = "issue"
	}
	parts = append(parts, fmt.Sprintf("%d %s", stats.DiagnosticsTotal, issueWord))

	// Severity breakdown, most severe first
	var severityParts []string
	for _, sev := range []config.Severity{
		config.SeverityBlocker,
		config.SeverityHigh,
		config.SeverityMedium,
		config.SeverityLow,
		config.SeverityInfo,
	} {
		if count := stats.DiagnosticsBySeverity[sev]; count > 0 {
			severityParts = append(severityParts, r.styles.SeverityStyle(sev).Render(fmt.Sprintf("%d %s", count, sev)))
		}
	}
	if len(severityParts) > 0 {
		parts[0] = fmt.Sprintf("%d %s (%s)", stats.DiagnosticsTotal, issueWord, strings.Join(severityParts, ", "))
	}

	// Files with issues
	fileWord := "files"
	if stats.FilesWithIssues == 1 {
		fileWord = "file"
	}
	parts = append(parts, fmt.Sprintf("in %d %s", stats.FilesWithIssues, fileWord))

	fmt.Fprintln(r.out, r.styles.Bold.Render("Total: ")+strings.Join(parts, " "))
}
