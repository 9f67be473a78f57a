package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/lint"
)

// standardDirectoryIDs are well-known directory Ids exempt from the naming
// convention.
const standardDirectoryIDs = "TARGETDIR|ProgramFilesFolder|ProgramFiles64Folder|CommonFilesFolder|SystemFolder|WindowsFolder|TempFolder|LocalAppDataFolder|AppDataFolder|INSTALLFOLDER|INSTALLDIR"

// newPrefixConventionRule stamps out a BP-MAINT-002-<Element> rule checking
// that Ids carry a recognizable prefix.
func newPrefixConventionRule(element, allowedPrefixes, suggestion string) *lint.Rule {
	id := fmt.Sprintf("BP-MAINT-002-%s", element)
	name := fmt.Sprintf("%s-naming-convention", strings.ToLower(element))

	return lint.NewRule(id, name).
		WithDescription(fmt.Sprintf("%s Id should follow naming convention", element)).
		WithSeverity(config.SeverityInfo).
		WithCategory(lint.CategoryMaintainability).
		WithTarget(element).
		WithCondition(lint.All(
			lint.AttributeExists("Id"),
			lint.AttributeNotMatches("Id", "^("+allowedPrefixes+")"),
		)).
		WithMessage(fmt.Sprintf("%s Id '{attr:Id}': %s", element, suggestion)).
		WithTags("naming").
		WithEffort(5)
}

// NewPropertyNamingRule creates BP-MAINT-002-Property: public properties
// are uppercase by MSI convention, so a lowercase first letter stands out.
func NewPropertyNamingRule() *lint.Rule {
	return lint.NewRule("BP-MAINT-002-Property", "property-naming-convention").
		WithDescription("Public Property Id should be uppercase").
		WithSeverity(config.SeverityInfo).
		WithCategory(lint.CategoryMaintainability).
		WithTarget("Property").
		WithCondition(lint.All(
			lint.AttributeExists("Id"),
			lint.AttributeMatches("Id", `^[a-z]`),
		)).
		WithMessage("Property Id '{attr:Id}': Public properties should be UPPERCASE").
		WithTags("naming").
		WithEffort(5)
}

// namingRules covers the Id prefix conventions per element.
func namingRules() []*lint.Rule {
	return []*lint.Rule{
		newPrefixConventionRule("Component",
			"C_|cmp|Cmp|Component",
			"Consider prefixing with 'C_' or 'cmp'"),
		newPrefixConventionRule("Feature",
			"F_|feat|Feat|Feature",
			"Consider prefixing with 'F_' or 'feat'"),
		newPrefixConventionRule("Directory",
			"D_|dir|Dir|Directory|"+standardDirectoryIDs,
			"Consider prefixing with 'D_' or 'dir'"),
		NewPropertyNamingRule(),
	}
}
