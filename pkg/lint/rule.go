package lint

import (
	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/markup"
)

// defaultEffortMinutes is the remediation estimate used when a rule does
// not specify one.
const defaultEffortMinutes = 10

// FixTemplate describes the fix a rule offers. The target range is bound
// when the rule matches a concrete node.
type FixTemplate struct {
	Description string
	Kind        FixActionKind

	// Name and Value parameterize attribute actions and ReplaceText.
	Name  string
	Value string

	// Element, Attributes, and Position parameterize AddElement.
	Element    string
	Attributes []markup.Attr
	Position   InsertPosition

	// Unsafe marks fixes that may change behavior; they are gated behind
	// explicit opt-in by the fixer policy.
	Unsafe bool
}

// Instantiate binds the template to a matched node, producing a Fix.
func (t *FixTemplate) Instantiate(node *markup.Node) Fix {
	return Fix{
		Description: t.Description,
		Safe:        !t.Unsafe,
		Action: FixAction{
			Kind:       t.Kind,
			Range:      node.Range,
			Name:       t.Name,
			Value:      t.Value,
			Element:    t.Element,
			Attributes: t.Attributes,
			Position:   t.Position,
		},
	}
}

// Rule is a declarative, data-driven rule: a condition evaluated against
// nodes plus the consequence (message, severity, optional fix) emitted on a
// match. Rules are immutable after construction and shared read-only across
// parallel file evaluations.
type Rule struct {
	// ID uniquely identifies the rule (e.g. "VAL-ATTR-001").
	ID string

	// Name is the human-readable kebab-case name.
	Name string

	// Description explains what the rule checks.
	Description string

	// Severity is the default severity for diagnostics from this rule.
	Severity config.Severity

	// Category groups the rule; the diagnostic issue type derives from it.
	Category Category

	// Target is the element tag the rule applies to. Empty means global:
	// the rule is evaluated against every node, the synthetic root included.
	Target string

	// Condition must hold for the rule to fire.
	Condition Condition

	// Message is the diagnostic message template. Supports {element} for
	// the tag name and {attr:NAME} for attribute values.
	Message string

	// Help is optional remediation guidance (same template expansion).
	Help string

	// Tags are free-form labels.
	Tags []string

	// Fix is the optional fix template.
	Fix *FixTemplate

	// EffortMinutes estimates remediation effort per match.
	EffortMinutes int

	// Security references external security standards.
	Security *SecurityStandard

	// DocURL links to extended documentation.
	DocURL string

	// Contexts restricts where the rule applies: empty means the main
	// document language, "*" means every context, otherwise the listed
	// embedded-language context names.
	Contexts []string

	// Enabled is the default enablement; config may override per rule.
	Enabled bool

	// Plugin is the owning plugin ID ("" for built-in rules).
	Plugin string

	// Deprecation metadata.
	Deprecated      bool
	DeprecatedBy    string
	DeprecatedSince string
}

// NewRule creates an enabled rule with defaults matching most rules:
// medium severity, best-practice category, always-true condition.
func NewRule(id, name string) *Rule {
	return &Rule{
		ID:            id,
		Name:          name,
		Severity:      config.SeverityMedium,
		Category:      CategoryBestPractice,
		Condition:     Always(),
		EffortMinutes: defaultEffortMinutes,
		Enabled:       true,
	}
}

// WithDescription sets the rule description.
func (r *Rule) WithDescription(desc string) *Rule {
	r.Description = desc
	return r
}

// WithSeverity sets the default severity.
func (r *Rule) WithSeverity(severity config.Severity) *Rule {
	r.Severity = severity
	return r
}

// WithCategory sets the category.
func (r *Rule) WithCategory(category Category) *Rule {
	r.Category = category
	return r
}

// WithTarget restricts the rule to elements with the given tag name.
func (r *Rule) WithTarget(element string) *Rule {
	r.Target = element
	return r
}

// WithCondition sets the match condition.
func (r *Rule) WithCondition(condition Condition) *Rule {
	r.Condition = condition
	return r
}

// WithMessage sets the diagnostic message template.
func (r *Rule) WithMessage(message string) *Rule {
	r.Message = message
	return r
}

// WithHelp sets the remediation guidance template.
func (r *Rule) WithHelp(help string) *Rule {
	r.Help = help
	return r
}

// WithTags sets the rule tags.
func (r *Rule) WithTags(tags ...string) *Rule {
	r.Tags = tags
	return r
}

// WithFix attaches a fix template.
func (r *Rule) WithFix(fix FixTemplate) *Rule {
	r.Fix = &fix
	return r
}

// WithEffort sets the per-match remediation estimate.
func (r *Rule) WithEffort(minutes int) *Rule {
	r.EffortMinutes = minutes
	return r
}

// WithSecurity attaches security-standard references.
func (r *Rule) WithSecurity(std SecurityStandard) *Rule {
	r.Security = &std
	return r
}

// WithContexts restricts the evaluation contexts.
func (r *Rule) WithContexts(contexts ...string) *Rule {
	r.Contexts = contexts
	return r
}

// WithPlugin records the owning plugin ID.
func (r *Rule) WithPlugin(pluginID string) *Rule {
	r.Plugin = pluginID
	return r
}

// IsGlobal reports whether the rule applies to every node.
func (r *Rule) IsGlobal() bool {
	return r.Target == ""
}

// AppliesToContext reports whether the rule runs in the named evaluation
// context. The empty context is the main document language.
func (r *Rule) AppliesToContext(context string) bool {
	if len(r.Contexts) == 0 {
		return context == ""
	}
	for _, c := range r.Contexts {
		if c == "*" || c == context {
			return true
		}
	}
	return false
}

// CanFix reports whether the rule offers an automatic fix.
func (r *Rule) CanFix() bool {
	return r.Fix != nil
}
