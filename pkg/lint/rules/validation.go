package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/lint"
)

// guidStrictRe matches the canonical 8-4-4-4-12 GUID form, braces or parens
// included.
const guidStrictRe = `^[{(]?[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}[)}]?$`

// NewComponentMissingGUIDRule creates VAL-ATTR-001.
func NewComponentMissingGUIDRule() *lint.Rule {
	return lint.NewRule("VAL-ATTR-001", "component-missing-guid").
		WithDescription("Component requires a Guid attribute").
		WithSeverity(config.SeverityBlocker).
		WithCategory(lint.CategoryValidation).
		WithTarget("Component").
		WithCondition(lint.AttributeMissing("Guid")).
		WithMessage("Component '{attr:Id}' is missing required Guid attribute").
		WithHelp(`Add Guid="*" for auto-generation or specify a GUID`).
		WithFix(lint.FixTemplate{
			Description: "Add auto-generated GUID",
			Kind:        lint.FixAddAttribute,
			Name:        "Guid",
			Value:       "*",
		})
}

// NewInvalidGUIDFormatRule creates VAL-ATTR-002.
func NewInvalidGUIDFormatRule() *lint.Rule {
	return lint.NewRule("VAL-ATTR-002", "invalid-guid-format").
		WithDescription("GUID attribute has invalid format").
		WithSeverity(config.SeverityBlocker).
		WithCategory(lint.CategoryValidation).
		WithTarget("Component").
		WithCondition(lint.All(
			lint.AttributeExists("Guid"),
			lint.AttributeNotEquals("Guid", "*"),
			lint.AttributeNotMatches("Guid", guidStrictRe),
		)).
		WithMessage("Component '{attr:Id}' has invalid GUID format").
		WithHelp(`Use a valid GUID format or Guid="*" for auto-generation`)
}

// NewInvalidYesNoRule creates VAL-ATTR-003.
func NewInvalidYesNoRule() *lint.Rule {
	return lint.NewRule("VAL-ATTR-003", "invalid-yesno-value").
		WithDescription("Attribute requires yes/no value").
		WithSeverity(config.SeverityBlocker).
		WithCategory(lint.CategoryValidation).
		WithTarget("Component").
		WithCondition(lint.All(
			lint.AttributeExists("Permanent"),
			lint.AttributeNotIn("Permanent", "yes", "no"),
		)).
		WithMessage("Component '{attr:Id}' has invalid Permanent value, must be 'yes' or 'no'")
}

// newRequiredAttributeRule stamps out a VAL-ATTR-001-<Element> rule for one
// required attribute.
func newRequiredAttributeRule(element, attr string) *lint.Rule {
	id := fmt.Sprintf("VAL-ATTR-001-%s", element)
	name := fmt.Sprintf("%s-missing-%s", strings.ToLower(element), strings.ToLower(attr))

	return lint.NewRule(id, name).
		WithDescription(fmt.Sprintf("%s requires an %s attribute", element, attr)).
		WithSeverity(config.SeverityBlocker).
		WithCategory(lint.CategoryValidation).
		WithTarget(element).
		WithCondition(lint.AttributeMissing(attr)).
		WithMessage(fmt.Sprintf("%s is missing required %s attribute", element, attr))
}

// requiredAttributeRules covers elements whose schema demands an attribute
// beyond what VAL-ATTR-001 checks on Component.
func requiredAttributeRules() []*lint.Rule {
	return []*lint.Rule{
		newRequiredAttributeRule("Feature", "Id"),
		newRequiredAttributeRule("CustomAction", "Id"),
		newRequiredAttributeRule("Property", "Id"),
		newRequiredAttributeRule("RegistryValue", "Type"),
	}
}

// newPlacementRule stamps out a VAL-REL-001-<Element> rule from the schema's
// allowed-parent list. The synthetic document root counts as allowed so that
// fragments under direct analysis do not misfire.
func newPlacementRule(element string, validParents []string, displayParents string) *lint.Rule {
	id := fmt.Sprintf("VAL-REL-001-%s", element)
	name := fmt.Sprintf("invalid-parent-%s", strings.ToLower(element))

	noun := "parents"
	if !strings.Contains(displayParents, ",") {
		noun = "parent"
	}

	return lint.NewRule(id, name).
		WithDescription(fmt.Sprintf("%s must be a child of %s", element, displayParents)).
		WithSeverity(config.SeverityBlocker).
		WithCategory(lint.CategoryValidation).
		WithTarget(element).
		WithCondition(lint.ParentNotIn(validParents...)).
		WithMessage(fmt.Sprintf("%s cannot be a child of {parent}. Valid %s: %s",
			element, noun, displayParents))
}

// placementRules encodes the WiX v4 schema's parent-child constraints for
// the most commonly misplaced elements.
func placementRules() []*lint.Rule {
	return []*lint.Rule{
		newPlacementRule("RegistryValue",
			[]string{"Component", "RegistryKey", "RegistryValue"},
			"Component, RegistryKey"),
		newPlacementRule("Directory",
			[]string{"Directory", "DirectoryRef", "Fragment", "Package", "StandardDirectory", "Wix", "root"},
			"Directory, DirectoryRef, Fragment, Package, StandardDirectory"),
		newPlacementRule("Feature",
			[]string{"Package", "Fragment", "Feature", "FeatureRef", "FeatureGroup", "Module", "Wix", "root"},
			"Package, Fragment, Feature, FeatureGroup"),
		newPlacementRule("Component",
			[]string{"Directory", "DirectoryRef", "ComponentGroup", "Fragment", "StandardDirectory", "Wix", "root"},
			"Directory, DirectoryRef, ComponentGroup, Fragment"),
		newPlacementRule("File",
			[]string{"Component"},
			"Component"),
	}
}
