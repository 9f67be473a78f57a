package lint

import (
	"fmt"
	"hash/fnv"

	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/markup"
)

// IssueType classifies a diagnostic in SonarQube terms.
type IssueType string

const (
	IssueBug             IssueType = "bug"
	IssueVulnerability   IssueType = "vulnerability"
	IssueCodeSmell       IssueType = "code_smell"
	IssueSecurityHotspot IssueType = "security_hotspot"
	IssueSecret          IssueType = "secret"
)

// Category is the legacy rule grouping; each category derives an IssueType.
type Category string

const (
	CategoryBestPractice    Category = "best-practice"
	CategorySecurity        Category = "security"
	CategoryPerformance     Category = "performance"
	CategoryMaintainability Category = "maintainability"
	CategoryValidation      Category = "validation"
	CategoryDeadCode        Category = "dead-code"
)

// IssueType derives the SonarQube issue type from the legacy category.
func (c Category) IssueType() IssueType {
	switch c {
	case CategorySecurity:
		return IssueVulnerability
	case CategoryValidation:
		return IssueBug
	default:
		return IssueCodeSmell
	}
}

// Location ties a diagnostic to a file and source range.
type Location struct {
	File  string
	Range markup.SourceRange
}

// RelatedInfo points at a secondary location that explains a diagnostic,
// e.g. the definition a dangling reference should have matched.
type RelatedInfo struct {
	Location Location
	Message  string
}

// SecurityStandard references external security classifications.
type SecurityStandard struct {
	CWE      []string
	OWASP    []string
	SANSRank int
}

// InsertPosition selects where AddElement places the new child.
type InsertPosition string

const (
	InsertFirst InsertPosition = "first"
	InsertLast  InsertPosition = "last"
)

// FixActionKind discriminates the FixAction union.
type FixActionKind string

const (
	FixAddAttribute     FixActionKind = "add_attribute"
	FixRemoveAttribute  FixActionKind = "remove_attribute"
	FixReplaceAttribute FixActionKind = "replace_attribute"
	FixAddElement       FixActionKind = "add_element"
	FixRemoveElement    FixActionKind = "remove_element"
	FixReplaceText      FixActionKind = "replace_text"
)

// FixAction is one range-addressed textual edit.
// Range is the target element's range; for AddElement it is the parent's.
type FixAction struct {
	Kind  FixActionKind
	Range markup.SourceRange

	// Name and Value parameterize attribute actions; Value doubles as the
	// replacement text for ReplaceText.
	Name  string
	Value string

	// Element, Attributes, and Position parameterize AddElement.
	Element    string
	Attributes []markup.Attr
	Position   InsertPosition
}

// Fix pairs a described action with its safety classification.
// Unsafe fixes are gated behind explicit opt-in by the fixer policy.
type Fix struct {
	Description string
	Action      FixAction
	Safe        bool
}

// Diagnostic represents a single issue found in a file.
type Diagnostic struct {
	// RuleID is the identifier of the rule that produced this diagnostic.
	RuleID string

	// RuleName is the human-readable rule name (e.g. "component-missing-guid").
	RuleName string

	// Category is the legacy grouping; IssueType is derived from it.
	Category Category

	// IssueType classifies the diagnostic (bug, vulnerability, ...).
	IssueType IssueType

	// Severity indicates the importance of the diagnostic.
	Severity config.Severity

	// Message is the human-readable description of the issue.
	Message string

	// Location is where the issue occurs.
	Location Location

	// Help is optional remediation guidance.
	Help string

	// Fix is the optional suggested fix.
	Fix *Fix

	// Related holds secondary locations.
	Related []RelatedInfo

	// EffortMinutes is the estimated remediation effort.
	EffortMinutes int

	// Tags are free-form labels inherited from the rule.
	Tags []string

	// Security references external security standards, when applicable.
	Security *SecurityStandard

	// DocURL links to extended rule documentation.
	DocURL string

	// Context names the evaluation context that produced the diagnostic;
	// empty for the main document language.
	Context string
}

// NewDiagnostic creates a diagnostic for a rule match at a location.
func NewDiagnostic(ruleID string, loc Location, message string) *Diagnostic {
	return &Diagnostic{
		RuleID:    ruleID,
		Category:  CategoryBestPractice,
		IssueType: CategoryBestPractice.IssueType(),
		Severity:  config.SeverityMedium,
		Message:   message,
		Location:  loc,
	}
}

// WithRuleName sets the human-readable rule name.
func (d *Diagnostic) WithRuleName(name string) *Diagnostic {
	d.RuleName = name
	return d
}

// WithSeverity sets the severity.
func (d *Diagnostic) WithSeverity(severity config.Severity) *Diagnostic {
	d.Severity = severity
	return d
}

// WithCategory sets the category and re-derives the issue type.
func (d *Diagnostic) WithCategory(category Category) *Diagnostic {
	d.Category = category
	d.IssueType = category.IssueType()
	return d
}

// WithHelp sets remediation guidance.
func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	d.Help = help
	return d
}

// WithFix attaches a suggested fix.
func (d *Diagnostic) WithFix(fix Fix) *Diagnostic {
	d.Fix = &fix
	return d
}

// WithRelated appends a secondary location.
func (d *Diagnostic) WithRelated(loc Location, message string) *Diagnostic {
	d.Related = append(d.Related, RelatedInfo{Location: loc, Message: message})
	return d
}

// WithEffort sets the remediation effort estimate.
func (d *Diagnostic) WithEffort(minutes int) *Diagnostic {
	d.EffortMinutes = minutes
	return d
}

// WithTags sets the diagnostic tags.
func (d *Diagnostic) WithTags(tags ...string) *Diagnostic {
	d.Tags = tags
	return d
}

// WithSecurity attaches security-standard references.
func (d *Diagnostic) WithSecurity(std SecurityStandard) *Diagnostic {
	d.Security = &std
	return d
}

// WithContext names the evaluation context.
func (d *Diagnostic) WithContext(context string) *Diagnostic {
	d.Context = context
	return d
}

// HasFix returns true if this diagnostic carries a suggested fix.
func (d *Diagnostic) HasFix() bool {
	return d.Fix != nil
}

// fingerprintMessageLen bounds how much of the message feeds the fingerprint
// so that trailing detail (counts, values) does not destabilize it.
const fingerprintMessageLen = 50

// Fingerprint returns a stable identity for "the same" diagnostic across
// runs: a hash of rule ID, file path, start line, and the message prefix.
// It must not change given unchanged inputs; baselines and SARIF
// de-duplication depend on that.
func (d *Diagnostic) Fingerprint() string {
	msg := d.Message
	if len(msg) > fingerprintMessageLen {
		msg = msg[:fingerprintMessageLen]
	}

	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%s:%d:%s", d.RuleID, d.Location.File, d.Location.Range.StartLine, msg)
	return fmt.Sprintf("%016x", h.Sum64())
}
