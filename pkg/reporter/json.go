package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/goxmlint/pkg/lint"
	"github.com/yaklabco/goxmlint/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string           `json:"path"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	FromCache   bool             `json:"fromCache,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// JSONDiagnostic represents a single diagnostic.
type JSONDiagnostic struct {
	RuleID        string    `json:"ruleId"`
	RuleName      string    `json:"ruleName,omitempty"`
	Severity      string    `json:"severity"`
	Category      string    `json:"category"`
	IssueType     string    `json:"issueType"`
	Message       string    `json:"message"`
	Range         JSONRange `json:"range"`
	Help          string    `json:"help,omitempty"`
	Fixable       bool      `json:"fixable"`
	Fix           *JSONFix  `json:"fix,omitempty"`
	Fingerprint   string    `json:"fingerprint"`
	Tags          []string  `json:"tags,omitempty"`
	EffortMinutes int       `json:"effortMinutes,omitempty"`
	Context       string    `json:"context,omitempty"`
}

// JSONRange is a 1-based source range.
type JSONRange struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

// JSONFix describes a proposed fix.
type JSONFix struct {
	Description string `json:"description"`
	Safe        bool   `json:"safe"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked    int            `json:"filesChecked"`
	FilesWithIssues int            `json:"filesWithIssues"`
	FilesErrored    int            `json:"filesErrored"`
	CacheHits       int            `json:"cacheHits,omitempty"`
	TotalIssues     int            `json:"totalIssues"`
	Fixable         int            `json:"fixable"`
	BySeverity      map[string]int `json:"bySeverity"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalIssues, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			BySeverity: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	if len(result.Files) > 0 {
		output.Files = make([]JSONFileResult, 0, len(result.Files))
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:        file.Path,
			Diagnostics: make([]JSONDiagnostic, 0),
			FromCache:   file.CacheHit,
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
			output.Summary.FilesErrored++
		}

		if file.Result != nil {
			for _, diag := range file.Result.Diagnostics {
				fileResult.Diagnostics = append(fileResult.Diagnostics, buildJSONDiagnostic(diag))
				output.Summary.TotalIssues++
				output.Summary.BySeverity[string(diag.Severity)]++
				if diag.Fix != nil {
					output.Summary.Fixable++
				}
			}
		}

		if len(fileResult.Diagnostics) > 0 {
			output.Summary.FilesWithIssues++
		}
		if file.CacheHit {
			output.Summary.CacheHits++
		}

		output.Files = append(output.Files, fileResult)
		output.Summary.FilesChecked++
	}

	return output
}

func buildJSONDiagnostic(diag lint.Diagnostic) JSONDiagnostic {
	jsonDiag := JSONDiagnostic{
		RuleID:    diag.RuleID,
		RuleName:  diag.RuleName,
		Severity:  string(diag.Severity),
		Category:  string(diag.Category),
		IssueType: string(diag.IssueType),
		Message:   diag.Message,
		Range: JSONRange{
			StartLine:   diag.Location.Range.StartLine,
			StartColumn: diag.Location.Range.StartColumn,
			EndLine:     diag.Location.Range.EndLine,
			EndColumn:   diag.Location.Range.EndColumn,
		},
		Help:          diag.Help,
		Fixable:       diag.Fix != nil,
		Fingerprint:   diag.Fingerprint(),
		Tags:          diag.Tags,
		EffortMinutes: diag.EffortMinutes,
		Context:       diag.Context,
	}

	if diag.Fix != nil {
		jsonDiag.Fix = &JSONFix{
			Description: diag.Fix.Description,
			Safe:        diag.Fix.Safe,
		}
	}

	return jsonDiag
}
