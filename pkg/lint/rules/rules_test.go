package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/lint"
	"github.com/yaklabco/goxmlint/pkg/parser/wixml"
)

// lintSource parses WiX source and evaluates the given rules against it.
func lintSource(t *testing.T, source string, rules ...*lint.Rule) []lint.Diagnostic {
	t.Helper()

	doc, err := (&wixml.Parser{}).Parse(context.Background(), "test.wxs", []byte(source))
	require.NoError(t, err)

	registry := lint.NewRegistry()
	registry.RegisterAll(rules)

	diags, _, err := lint.NewRuleEvaluator(registry, config.NewConfig()).
		EvaluateDocument(context.Background(), doc, "")
	require.NoError(t, err)
	return diags
}

// ruleIDs extracts the rule IDs of a diagnostic slice.
func ruleIDs(diags []lint.Diagnostic) []string {
	ids := make([]string, 0, len(diags))
	for _, d := range diags {
		ids = append(ids, d.RuleID)
	}
	return ids
}
