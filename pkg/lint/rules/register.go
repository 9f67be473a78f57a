package rules

import "github.com/yaklabco/goxmlint/pkg/lint"

// RegisterAll registers all built-in WiX rules with the given registry.
func RegisterAll(registry *lint.Registry) {
	// Best practice
	registry.Register(NewMissingMajorUpgradeRule()) // BP-IDIOM-001
	registry.Register(NewHardcodedGUIDRule())       // BP-IDIOM-002
	registry.Register(NewDeprecatedProductRule())   // BP-IDIOM-003
	registry.Register(NewMissingUpgradeCodeRule())  // BP-IDIOM-004

	// Performance and maintainability
	registry.Register(NewMultiFileComponentRule()) // BP-PERF-001
	registry.Register(NewHardcodedPathRule())      // BP-MAINT-001
	registry.RegisterAll(namingRules())            // BP-MAINT-002-*

	// Security
	registry.Register(NewLocalSystemServiceRule()) // SEC-001
	registry.Register(NewHardcodedSecretRule())    // SEC-005

	// Dead code
	registry.Register(NewEmptyFeatureRule()) // DEAD-005

	// Validation
	registry.Register(NewComponentMissingGUIDRule()) // VAL-ATTR-001
	registry.Register(NewInvalidGUIDFormatRule())    // VAL-ATTR-002
	registry.Register(NewInvalidYesNoRule())         // VAL-ATTR-003
	registry.RegisterAll(requiredAttributeRules())   // VAL-ATTR-001-*
	registry.RegisterAll(placementRules())           // VAL-REL-001-*
}

// RuleSummaries describes the built-in rules for config templates and
// `rules` listings.
func RuleSummaries() map[string]string {
	registry := lint.NewRegistry()
	RegisterAll(registry)

	summaries := make(map[string]string, registry.Len())
	for _, rule := range registry.Rules() {
		summaries[rule.ID] = rule.Description
	}
	return summaries
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(lint.DefaultRegistry)
}
