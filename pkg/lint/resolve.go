package lint

import "github.com/yaklabco/goxmlint/pkg/config"

// ResolvedRule pairs a Rule with its resolved configuration.
type ResolvedRule struct {
	// Rule is the underlying rule definition.
	Rule *Rule

	// Enabled indicates whether the rule should be run.
	Enabled bool

	// Severity is the resolved severity for diagnostics from this rule.
	Severity config.Severity

	// AutoFix indicates whether this rule's fix may be offered.
	AutoFix bool

	// Config is the rule-specific configuration (may be nil).
	Config *config.RuleConfig
}

// ResolveRules determines the effective configuration of every registered
// rule. Disabled rules are included with Enabled=false so callers can
// report them.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	rules := registry.Rules()
	resolved := make([]ResolvedRule, 0, len(rules))

	for _, rule := range rules {
		resolved = append(resolved, resolveRule(rule, cfg))
	}

	return resolved
}

// resolveRule resolves the configuration for a single rule.
func resolveRule(rule *Rule, cfg *config.Config) ResolvedRule {
	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  rule.Enabled && !rule.Deprecated,
		Severity: rule.Severity,
		AutoFix:  rule.CanFix(),
		Config:   nil,
	}

	if cfg == nil {
		return rr
	}

	// Check for explicit enable/disable from CLI.
	for _, id := range cfg.EnableRules {
		if id == rule.ID {
			rr.Enabled = true
			break
		}
	}
	for _, id := range cfg.DisableRules {
		if id == rule.ID {
			rr.Enabled = false
			break
		}
	}

	// Apply rule-specific config.
	if ruleCfg, ok := cfg.Rules[rule.ID]; ok {
		rr.Config = &ruleCfg

		if ruleCfg.Enabled != nil {
			rr.Enabled = *ruleCfg.Enabled
		}
		if ruleCfg.Severity != nil {
			if sev, ok := config.ParseSeverity(*ruleCfg.Severity); ok {
				rr.Severity = sev
			}
		}
		if ruleCfg.AutoFix != nil {
			rr.AutoFix = *ruleCfg.AutoFix && rule.CanFix()
		}
	}

	// Apply fix-rules filter from CLI.
	if len(cfg.FixRules) > 0 {
		rr.AutoFix = false
		for _, id := range cfg.FixRules {
			if id == rule.ID && rule.CanFix() {
				rr.AutoFix = true
				break
			}
		}
	}

	return rr
}
