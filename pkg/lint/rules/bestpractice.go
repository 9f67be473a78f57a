package rules

import (
	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/lint"
	"github.com/yaklabco/goxmlint/pkg/markup"
)

// guidLooseRe matches anything GUID-shaped, braces or parens included.
const guidLooseRe = `^[{(]?[0-9a-fA-F-]{36}[)}]?$`

// NewMissingMajorUpgradeRule creates BP-IDIOM-001.
func NewMissingMajorUpgradeRule() *lint.Rule {
	return lint.NewRule("BP-IDIOM-001", "missing-major-upgrade").
		WithDescription("Package should have a MajorUpgrade element for proper upgrade handling").
		WithSeverity(config.SeverityMedium).
		WithCategory(lint.CategoryBestPractice).
		WithTarget("Package").
		WithCondition(lint.MissingChild("MajorUpgrade")).
		WithMessage("Package is missing MajorUpgrade element").
		WithHelp(`Add <MajorUpgrade DowngradeErrorMessage="A newer version is already installed." /> to enable proper upgrade handling`).
		WithTags("upgrade").
		WithFix(lint.FixTemplate{
			Description: "Add MajorUpgrade element",
			Kind:        lint.FixAddElement,
			Element:     "MajorUpgrade",
			Attributes: []markup.Attr{
				{Name: "DowngradeErrorMessage", Value: "A newer version is already installed."},
			},
			Position: lint.InsertFirst,
		})
}

// NewHardcodedGUIDRule creates BP-IDIOM-002.
func NewHardcodedGUIDRule() *lint.Rule {
	return lint.NewRule("BP-IDIOM-002", "hardcoded-component-guid").
		WithDescription("Component should use auto-generated GUID (*) instead of hardcoded value").
		WithSeverity(config.SeverityLow).
		WithCategory(lint.CategoryBestPractice).
		WithTarget("Component").
		WithCondition(lint.All(
			lint.AttributeExists("Guid"),
			lint.AttributeNotEquals("Guid", "*"),
			lint.AttributeMatches("Guid", guidLooseRe),
		)).
		WithMessage(`Component '{attr:Id}' has hardcoded GUID, consider using Guid="*" for auto-generation`).
		WithTags("guid").
		WithFix(lint.FixTemplate{
			Description: "Use auto-generated GUID",
			Kind:        lint.FixReplaceAttribute,
			Name:        "Guid",
			Value:       "*",
		})
}

// NewDeprecatedProductRule creates BP-IDIOM-003.
func NewDeprecatedProductRule() *lint.Rule {
	return lint.NewRule("BP-IDIOM-003", "deprecated-product-element").
		WithDescription("Product element is deprecated in WiX v4, use Package instead").
		WithSeverity(config.SeverityMedium).
		WithCategory(lint.CategoryBestPractice).
		WithTarget("Product").
		WithCondition(lint.Always()).
		WithMessage("Product element is deprecated in WiX v4").
		WithHelp("Replace <Product> with <Package> for WiX v4 compatibility").
		WithTags("wix4", "deprecated")
}

// NewMissingUpgradeCodeRule creates BP-IDIOM-004.
func NewMissingUpgradeCodeRule() *lint.Rule {
	return lint.NewRule("BP-IDIOM-004", "missing-upgrade-code").
		WithDescription("Package should have an UpgradeCode for proper upgrade support").
		WithSeverity(config.SeverityHigh).
		WithCategory(lint.CategoryBestPractice).
		WithTarget("Package").
		WithCondition(lint.AttributeMissing("UpgradeCode")).
		WithMessage("Package is missing UpgradeCode attribute").
		WithHelp(`Add UpgradeCode="{GUID}" to enable upgrade detection`).
		WithTags("upgrade")
}

// NewMultiFileComponentRule creates BP-PERF-001.
func NewMultiFileComponentRule() *lint.Rule {
	return lint.NewRule("BP-PERF-001", "multi-file-component").
		WithDescription("Component should contain only one file for optimal repair behavior").
		WithSeverity(config.SeverityLow).
		WithCategory(lint.CategoryPerformance).
		WithTarget("Component").
		WithCondition(lint.ChildCount("File", lint.OpGt, 1)).
		WithMessage("Component '{attr:Id}' contains multiple files, consider splitting into separate components").
		WithHelp("Components with single files have better repair behavior and smaller reinstall footprint")
}

// NewHardcodedPathRule creates BP-MAINT-001.
func NewHardcodedPathRule() *lint.Rule {
	return lint.NewRule("BP-MAINT-001", "hardcoded-absolute-path").
		WithDescription("Avoid hardcoded absolute paths in Source attribute").
		WithSeverity(config.SeverityMedium).
		WithCategory(lint.CategoryMaintainability).
		WithTarget("File").
		WithCondition(lint.AttributeMatches("Source", `^[A-Za-z]:\\`)).
		WithMessage("File has hardcoded absolute path in Source attribute").
		WithHelp("Use relative paths or preprocessor variables like $(var.SourceDir)").
		WithTags("portability")
}

// NewEmptyFeatureRule creates DEAD-005.
func NewEmptyFeatureRule() *lint.Rule {
	return lint.NewRule("DEAD-005", "empty-feature").
		WithDescription("Feature has no content").
		WithSeverity(config.SeverityLow).
		WithCategory(lint.CategoryDeadCode).
		WithTarget("Feature").
		WithCondition(lint.All(
			lint.ChildCount("ComponentRef", lint.OpEq, 0),
			lint.ChildCount("ComponentGroupRef", lint.OpEq, 0),
			lint.ChildCount("FeatureRef", lint.OpEq, 0),
			lint.ChildCount("Feature", lint.OpEq, 0),
		)).
		WithMessage("Feature '{attr:Id}' has no content").
		WithHelp("Add components or remove the empty feature")
}
