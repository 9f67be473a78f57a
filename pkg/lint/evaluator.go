package lint

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/markup"
)

// attrTemplateRe matches {attr:NAME} placeholders in message templates.
var attrTemplateRe = regexp.MustCompile(`\{attr:([^}]+)\}`)

// missingAttrPlaceholder is substituted when a templated attribute is absent.
const missingAttrPlaceholder = "(none)"

// EvaluatorStats counts work done by a single evaluation pass.
type EvaluatorStats struct {
	NodesVisited   int
	RulesEvaluated int
	Matches        int
}

// RuleEvaluator walks a Document and applies the registry's rules,
// producing diagnostics. It is read-only for the duration of a run and a
// single instance is shared by reference across parallel file evaluations.
type RuleEvaluator struct {
	registry  *Registry
	evaluator *Evaluator
	resolved  map[string]ResolvedRule
}

// NewRuleEvaluator builds an evaluator over the registry with per-rule
// configuration resolved up front.
func NewRuleEvaluator(registry *Registry, cfg *config.Config) *RuleEvaluator {
	return newRuleEvaluatorWith(registry, cfg, NewEvaluator())
}

// newRuleEvaluatorWith reuses an existing condition evaluator so its regex
// cache survives across files.
func newRuleEvaluatorWith(registry *Registry, cfg *config.Config, evaluator *Evaluator) *RuleEvaluator {
	resolved := make(map[string]ResolvedRule)
	for _, rr := range ResolveRules(registry, cfg) {
		resolved[rr.Rule.ID] = rr
	}
	return &RuleEvaluator{
		registry:  registry,
		evaluator: evaluator,
		resolved:  resolved,
	}
}

// ConditionEvaluator exposes the shared condition evaluator, e.g. for
// plugin validation.
func (re *RuleEvaluator) ConditionEvaluator() *Evaluator {
	return re.evaluator
}

// EvaluateDocument walks every node in document order exactly once and
// applies element-indexed rules plus every global rule. The evalContext
// names the embedded-language context being evaluated ("" for the main
// document).
func (re *RuleEvaluator) EvaluateDocument(
	ctx context.Context,
	doc *markup.Document,
	evalContext string,
) ([]Diagnostic, EvaluatorStats, error) {
	var diags []Diagnostic
	var stats EvaluatorStats

	if doc == nil || doc.Root == nil {
		return nil, stats, nil
	}

	nodes := append([]*markup.Node{doc.Root}, doc.Descendants()...)

	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return diags, stats, fmt.Errorf("evaluation cancelled: %w", err)
		}

		// Text runs and comments carry no rules of their own.
		if node.Kind == markup.KindText || node.Kind == markup.KindComment {
			continue
		}
		stats.NodesVisited++

		for _, rule := range re.registry.RulesForElement(node.Kind) {
			stats.RulesEvaluated++
			if d, ok := re.apply(rule, node, doc, evalContext); ok {
				diags = append(diags, d)
				stats.Matches++
			}
		}

		for _, rule := range re.registry.GlobalRules() {
			stats.RulesEvaluated++
			if d, ok := re.apply(rule, node, doc, evalContext); ok {
				diags = append(diags, d)
				stats.Matches++
			}
		}
	}

	return diags, stats, nil
}

// EvaluateNode applies element-indexed and global rules to a single node,
// typically a synthetic node for an embedded-language region.
func (re *RuleEvaluator) EvaluateNode(
	node *markup.Node,
	doc *markup.Document,
	evalContext string,
) []Diagnostic {
	var diags []Diagnostic
	for _, rule := range re.registry.RulesForElement(node.Kind) {
		if d, ok := re.apply(rule, node, doc, evalContext); ok {
			diags = append(diags, d)
		}
	}
	for _, rule := range re.registry.GlobalRules() {
		if d, ok := re.apply(rule, node, doc, evalContext); ok {
			diags = append(diags, d)
		}
	}
	return diags
}

// apply evaluates one rule against one node and builds the diagnostic on a
// match.
func (re *RuleEvaluator) apply(
	rule *Rule,
	node *markup.Node,
	doc *markup.Document,
	evalContext string,
) (Diagnostic, bool) {
	rr, ok := re.resolved[rule.ID]
	if !ok || !rr.Enabled {
		return Diagnostic{}, false
	}
	if !rule.AppliesToContext(evalContext) {
		return Diagnostic{}, false
	}
	if !re.evaluator.Evaluate(node, rule.Condition) {
		return Diagnostic{}, false
	}

	loc := Location{File: doc.Path, Range: node.Range}
	d := NewDiagnostic(rule.ID, loc, ExpandTemplate(rule.Message, node)).
		WithRuleName(rule.Name).
		WithCategory(rule.Category).
		WithSeverity(rr.Severity).
		WithEffort(rule.EffortMinutes).
		WithContext(evalContext)

	if rule.Help != "" {
		d.WithHelp(ExpandTemplate(rule.Help, node))
	}
	if len(rule.Tags) > 0 {
		d.WithTags(rule.Tags...)
	}
	if rule.Security != nil {
		d.WithSecurity(*rule.Security)
	}
	if rule.DocURL != "" {
		d.DocURL = rule.DocURL
	}
	if rule.Fix != nil && rr.AutoFix {
		d.WithFix(rule.Fix.Instantiate(node))
	}

	return *d, true
}

// ExpandTemplate substitutes {element} with the node's tag name, {parent}
// with the parent's tag name, and {attr:NAME} with the attribute value, or
// "(none)" when absent.
func ExpandTemplate(template string, node *markup.Node) string {
	if template == "" || node == nil {
		return template
	}

	out := strings.ReplaceAll(template, "{element}", node.Kind)
	if strings.Contains(out, "{parent}") {
		parent := missingAttrPlaceholder
		if node.Parent != nil {
			parent = node.Parent.Kind
		}
		out = strings.ReplaceAll(out, "{parent}", parent)
	}
	out = attrTemplateRe.ReplaceAllStringFunc(out, func(match string) string {
		name := attrTemplateRe.FindStringSubmatch(match)[1]
		if v, ok := node.Attribute(name); ok {
			return v
		}
		return missingAttrPlaceholder
	})
	return out
}
