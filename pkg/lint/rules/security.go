package rules

import (
	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/lint"
)

// NewLocalSystemServiceRule creates SEC-001.
func NewLocalSystemServiceRule() *lint.Rule {
	return lint.NewRule("SEC-001", "localsystem-service").
		WithDescription("Service running as LocalSystem has excessive privileges").
		WithSeverity(config.SeverityHigh).
		WithCategory(lint.CategorySecurity).
		WithTarget("ServiceInstall").
		WithCondition(lint.Any(
			lint.AttributeMissing("Account"),
			lint.AttributeEquals("Account", "LocalSystem"),
		)).
		WithMessage("Service '{attr:Id}' runs as LocalSystem which has excessive privileges").
		WithHelp("Consider using LocalService, NetworkService, or a dedicated service account").
		WithTags("security", "least-privilege").
		WithSecurity(lint.SecurityStandard{
			CWE:   []string{"CWE-250"},
			OWASP: []string{"A04:2021"},
		}).
		WithEffort(30)
}

// NewHardcodedSecretRule creates SEC-005.
func NewHardcodedSecretRule() *lint.Rule {
	return lint.NewRule("SEC-005", "hardcoded-sensitive-property").
		WithDescription("Property with sensitive name has hardcoded value").
		WithSeverity(config.SeverityBlocker).
		WithCategory(lint.CategorySecurity).
		WithTarget("Property").
		WithCondition(lint.All(
			lint.AttributeExists("Value"),
			lint.AttributeMatches("Id", `(?i)(password|secret|key|token|credential)`),
		)).
		WithMessage("Property '{attr:Id}' appears to contain hardcoded sensitive data").
		WithHelp("Remove hardcoded values and require them to be provided at install time").
		WithTags("security", "secrets").
		WithSecurity(lint.SecurityStandard{
			CWE:   []string{"CWE-798"},
			OWASP: []string{"A07:2021"},
		}).
		WithEffort(30).
		WithFix(lint.FixTemplate{
			Description: "Remove hardcoded value",
			Kind:        lint.FixRemoveAttribute,
			Name:        "Value",
			// Dropping the value changes install-time behavior.
			Unsafe: true,
		})
}
