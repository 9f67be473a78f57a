package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/lint"
	"github.com/yaklabco/goxmlint/pkg/runner"
)

// SARIF version used by this reporter.
const sarifVersion = "2.1.0"

// SARIF schema URI.
const sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes a rule (linter check).
type SARIFRule struct {
	ID               string                `json:"id"`
	Name             string                `json:"name,omitempty"`
	ShortDescription SARIFMultiformatText  `json:"shortDescription,omitempty"`
	Help             *SARIFMultiformatText `json:"help,omitempty"`
	HelpURI          string                `json:"helpUri,omitempty"`
	DefaultConfig    *SARIFRuleConfig      `json:"defaultConfiguration,omitempty"`
	Properties       map[string]any        `json:"properties,omitempty"`
}

// SARIFMultiformatText contains text in multiple formats.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFRuleConfig contains rule configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFResult represents a single diagnostic result.
type SARIFResult struct {
	RuleID              string            `json:"ruleId"`
	Level               string            `json:"level"`
	Message             SARIFMessage      `json:"message"`
	Locations           []SARIFLocation   `json:"locations"`
	RelatedLocations    []SARIFLocation   `json:"relatedLocations,omitempty"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
	Fixes               []SARIFFix        `json:"fixes,omitempty"`
	Properties          map[string]any    `json:"properties,omitempty"`
}

// SARIFMessage contains the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
	Message          *SARIFMessage         `json:"message,omitempty"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion describes the affected text region.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// SARIFFix represents a proposed fix.
type SARIFFix struct {
	Description SARIFMessage `json:"description"`
}

// SARIFReporter formats results as SARIF.
type SARIFReporter struct {
	opts Options
	out  io.Writer
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{
		opts: opts,
		out:  opts.Writer,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.out)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}

	return len(output.Runs[0].Results), nil
}

func (r *SARIFReporter) buildOutput(result *runner.Result) *SARIFOutput {
	output := &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs: []SARIFRun{{
			Tool: SARIFTool{
				Driver: SARIFDriver{
					Name:           "goxmlint",
					Version:        "0.1.0",
					InformationURI: "https://github.com/yaklabco/goxmlint",
					Rules:          make([]SARIFRule, 0),
				},
			},
			Results: make([]SARIFResult, 0),
		}},
	}

	if result == nil {
		return output
	}

	// Track rules we've already added
	rulesSeen := make(map[string]bool)

	for _, file := range result.Files {
		if file.Result == nil {
			continue
		}

		for _, diag := range file.Result.Diagnostics {
			if !rulesSeen[diag.RuleID] {
				output.Runs[0].Tool.Driver.Rules = append(output.Runs[0].Tool.Driver.Rules, buildSARIFRule(diag))
				rulesSeen[diag.RuleID] = true
			}

			output.Runs[0].Results = append(output.Runs[0].Results, buildSARIFResult(diag))
		}
	}

	return output
}

func buildSARIFRule(diag lint.Diagnostic) SARIFRule {
	rule := SARIFRule{
		ID:   diag.RuleID,
		Name: diag.RuleName,
		ShortDescription: SARIFMultiformatText{
			Text: diag.Message,
		},
		HelpURI: diag.DocURL,
		DefaultConfig: &SARIFRuleConfig{
			Level: severityToSARIFLevel(diag.Severity),
		},
	}

	if diag.Help != "" {
		rule.Help = &SARIFMultiformatText{Text: diag.Help}
	}

	props := make(map[string]any)
	if diag.Category != "" {
		props["category"] = string(diag.Category)
	}
	if len(diag.Tags) > 0 {
		props["tags"] = diag.Tags
	}
	if diag.Security != nil && len(diag.Security.CWE) > 0 {
		props["cwe"] = diag.Security.CWE
	}
	if len(props) > 0 {
		rule.Properties = props
	}

	return rule
}

func buildSARIFResult(diag lint.Diagnostic) SARIFResult {
	sarifResult := SARIFResult{
		RuleID: diag.RuleID,
		Level:  severityToSARIFLevel(diag.Severity),
		Message: SARIFMessage{
			Text: diag.Message,
		},
		Locations: []SARIFLocation{sarifLocation(diag.Location)},
		PartialFingerprints: map[string]string{
			"primaryLocationLineHash": diag.Fingerprint(),
		},
	}

	for _, related := range diag.Related {
		loc := sarifLocation(related.Location)
		if related.Message != "" {
			loc.Message = &SARIFMessage{Text: related.Message}
		}
		sarifResult.RelatedLocations = append(sarifResult.RelatedLocations, loc)
	}

	if diag.Fix != nil {
		sarifResult.Fixes = append(sarifResult.Fixes, SARIFFix{
			Description: SARIFMessage{Text: diag.Fix.Description},
		})
	}

	props := make(map[string]any)
	if diag.IssueType != "" {
		props["issueType"] = string(diag.IssueType)
	}
	if diag.EffortMinutes > 0 {
		props["effortMinutes"] = diag.EffortMinutes
	}
	if len(props) > 0 {
		sarifResult.Properties = props
	}

	return sarifResult
}

func sarifLocation(loc lint.Location) SARIFLocation {
	return SARIFLocation{
		PhysicalLocation: SARIFPhysicalLocation{
			ArtifactLocation: SARIFArtifactLocation{
				URI: loc.File,
			},
			Region: SARIFRegion{
				StartLine:   loc.Range.StartLine,
				StartColumn: loc.Range.StartColumn,
				EndLine:     loc.Range.EndLine,
				EndColumn:   loc.Range.EndColumn,
			},
		},
	}
}

// severityToSARIFLevel converts a severity to its SARIF level.
func severityToSARIFLevel(severity config.Severity) string {
	switch severity {
	case config.SeverityBlocker, config.SeverityHigh:
		return "error"
	case config.SeverityMedium:
		return "warning"
	case config.SeverityLow, config.SeverityInfo:
		return "note"
	default:
		return "warning"
	}
}
