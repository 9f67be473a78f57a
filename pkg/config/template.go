package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes all rules with their documentation.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string

	// IncludeRules is a list of rule IDs to include.
	// If empty, all rules are included.
	IncludeRules []string
}

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Severity    Severity
	Tags        []string
	CanFix      bool
}

// RuleInfoProvider is a function that returns rule information.
// This allows decoupling from the lint package to avoid circular imports.
type RuleInfoProvider func() []RuleInfo

// DefaultRuleInfoProvider is set by the lint package during init.
//
//nolint:gochecknoglobals // Intentional extension point for rule info.
var DefaultRuleInfoProvider RuleInfoProvider

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Full {
		return generateFullTemplate(opts)
	}
	return generateMinimalTemplate(opts)
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate(opts TemplateOptions) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`# goxmlint configuration
# See: https://github.com/yaklabco/goxmlint

# Default severity for all rules: info, low, medium, high, or blocker
# severity_default: medium

# Minimum severity that fails the run
# fail_on: info

# Directories searched for plugin manifests
# plugin_dirs:
#   - .goxmlint/plugins

# Number of parallel workers (0 = auto)
# jobs: 0

# Baseline file of suppressed fingerprints
# baseline: .goxmlint-baseline.json

# Cross-file reference validation
# cross_file: false

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "obj/**"

# Rule-specific configuration
# rules:
#   BP-IDIOM-002:
#     enabled: true
#     severity: low
#   SEC-005:
#     severity: blocker
`)

	if opts.Format == "json" {
		return templateToJSON()
	}

	return buf.Bytes(), nil
}

// generateFullTemplate creates a full template with all rules documented.
func generateFullTemplate(opts TemplateOptions) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`# goxmlint configuration - Full Template
# See: https://github.com/yaklabco/goxmlint
#
# This template includes all available rules with their default settings.
# Uncomment and modify settings as needed.

# Default severity for all rules: info, low, medium, high, or blocker
severity_default: medium

# Minimum severity that fails the run
fail_on: info

# Number of parallel workers (0 = auto based on CPU cores)
jobs: 0

# Backup configuration for auto-fix
backups:
  enabled: true
  mode: sidecar

# File patterns to ignore (glob patterns)
ignore:
  - "vendor/**"
  - "obj/**"
  - ".git/**"

# Rule-specific configuration
rules:
`)

	rules := getRuleInfos()

	// Filter by IncludeRules if specified
	if len(opts.IncludeRules) > 0 {
		includeSet := make(map[string]bool)
		for _, id := range opts.IncludeRules {
			includeSet[id] = true
		}
		filtered := make([]RuleInfo, 0)
		for _, r := range rules {
			if includeSet[r.ID] {
				filtered = append(filtered, r)
			}
		}
		rules = filtered
	}

	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID < rules[j].ID
	})

	for _, rule := range rules {
		buf.WriteString(fmt.Sprintf("\n  # %s: %s\n", rule.ID, rule.Name))
		buf.WriteString(fmt.Sprintf("  # %s\n", wrapComment(rule.Description, commentWrapWidth)))
		if len(rule.Tags) > 0 {
			buf.WriteString(fmt.Sprintf("  # Tags: %s\n", strings.Join(rule.Tags, ", ")))
		}
		if rule.CanFix {
			buf.WriteString("  # Auto-fix: yes\n")
		}
		buf.WriteString(fmt.Sprintf("  %s:\n", rule.ID))
		buf.WriteString(fmt.Sprintf("    enabled: %t\n", rule.Enabled))
		buf.WriteString(fmt.Sprintf("    severity: %s\n", rule.Severity))
	}

	if opts.Format == "json" {
		return templateToJSON()
	}

	return buf.Bytes(), nil
}

// getRuleInfos returns information about all registered rules.
func getRuleInfos() []RuleInfo {
	if DefaultRuleInfoProvider != nil {
		return DefaultRuleInfoProvider()
	}

	// Fallback to a static list of well-known rules
	return []RuleInfo{
		{
			ID: "BP-IDIOM-001", Name: "missing-major-upgrade", Enabled: true, Severity: SeverityMedium,
			Description: "Package should have a MajorUpgrade element for proper upgrade handling",
			Tags:        []string{"best-practice"}, CanFix: true,
		},
		{
			ID: "BP-IDIOM-002", Name: "hardcoded-component-guid", Enabled: true, Severity: SeverityLow,
			Description: "Component should use auto-generated GUID (*) instead of hardcoded value",
			Tags:        []string{"best-practice"}, CanFix: true,
		},
		{
			ID: "SEC-001", Name: "localsystem-service", Enabled: true, Severity: SeverityHigh,
			Description: "Service running as LocalSystem has excessive privileges",
			Tags:        []string{"security"},
		},
		{
			ID: "SEC-005", Name: "hardcoded-sensitive-property", Enabled: true, Severity: SeverityBlocker,
			Description: "Property with sensitive name has hardcoded value",
			Tags:        []string{"security"}, CanFix: true,
		},
		{
			ID: "VAL-ATTR-001", Name: "component-missing-guid", Enabled: true, Severity: SeverityBlocker,
			Description: "Component requires a Guid attribute",
			Tags:        []string{"validation"}, CanFix: true,
		},
	}
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

// templateToJSON builds the JSON form of the template configuration.
func templateToJSON() ([]byte, error) {
	cfg := map[string]any{
		"severity_default": "medium",
		"fail_on":          "info",
		"jobs":             0,
		"backups": map[string]any{
			"enabled": true,
			"mode":    "sidecar",
		},
		"ignore": []string{"vendor/**", "obj/**", ".git/**"},
		"rules":  map[string]any{},
	}

	rulesMap := make(map[string]any)
	for _, r := range getRuleInfos() {
		rulesMap[r.ID] = map[string]any{
			"enabled":  r.Enabled,
			"severity": string(r.Severity),
		}
	}
	cfg["rules"] = rulesMap

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# goxmlint configuration
# See: https://github.com/yaklabco/goxmlint`
}
