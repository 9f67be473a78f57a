package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxmlint/pkg/lint"
)

func TestComponentMissingGUID(t *testing.T) {
	rule := NewComponentMissingGUIDRule()

	diags := lintSource(t, `<Component Id="MainExe"/>`, rule)
	require.Len(t, diags, 1)
	assert.Equal(t, "VAL-ATTR-001", diags[0].RuleID)
	assert.Equal(t, lint.IssueBug, diags[0].IssueType)
	require.True(t, diags[0].HasFix())
	assert.Equal(t, lint.FixAddAttribute, diags[0].Fix.Action.Kind)

	diags = lintSource(t, `<Component Id="MainExe" Guid="*"/>`, rule)
	assert.Empty(t, diags)
}

func TestInvalidGUIDFormat(t *testing.T) {
	rule := NewInvalidGUIDFormatRule()

	tests := []struct {
		name string
		guid string
		want int
	}{
		{"auto guid", "*", 0},
		{"bare guid", "12345678-1234-1234-1234-123456789012", 0},
		{"braced guid", "{12345678-1234-1234-1234-123456789012}", 0},
		{"parenthesized guid", "(12345678-1234-1234-1234-123456789012)", 0},
		{"uppercase hex", "ABCDEF01-ABCD-ABCD-ABCD-ABCDEF012345", 0},
		{"too short", "12345678-1234", 1},
		{"wrong separators", "12345678_1234_1234_1234_123456789012", 1},
		{"non-hex digits", "1234567g-1234-1234-1234-123456789012", 1},
		{"plain text", "not-a-guid", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := lintSource(t, `<Component Id="C" Guid="`+tt.guid+`"/>`, rule)
			assert.Len(t, diags, tt.want)
		})
	}

	t.Run("missing guid is out of scope", func(t *testing.T) {
		diags := lintSource(t, `<Component Id="C"/>`, rule)
		assert.Empty(t, diags)
	})
}

func TestInvalidYesNo(t *testing.T) {
	rule := NewInvalidYesNoRule()

	diags := lintSource(t, `<Component Id="C" Permanent="true"/>`, rule)
	require.Len(t, diags, 1)
	assert.Equal(t, "VAL-ATTR-003", diags[0].RuleID)

	for _, v := range []string{"yes", "no"} {
		diags = lintSource(t, `<Component Id="C" Permanent="`+v+`"/>`, rule)
		assert.Empty(t, diags, "value %q", v)
	}

	diags = lintSource(t, `<Component Id="C"/>`, rule)
	assert.Empty(t, diags)
}

func TestRequiredAttributeRules(t *testing.T) {
	rules := requiredAttributeRules()

	tests := []struct {
		name   string
		source string
		wantID string
	}{
		{"feature", `<Feature Title="x"/>`, "VAL-ATTR-001-Feature"},
		{"custom action", `<CustomAction Execute="deferred"/>`, "VAL-ATTR-001-CustomAction"},
		{"property", `<Property Value="x"/>`, "VAL-ATTR-001-Property"},
		{"registry value", `<RegistryValue Name="x"/>`, "VAL-ATTR-001-RegistryValue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := lintSource(t, tt.source, rules...)
			assert.Contains(t, ruleIDs(diags), tt.wantID)
		})
	}

	t.Run("quiet when attribute present", func(t *testing.T) {
		diags := lintSource(t, `<CustomAction Id="CA_Install"/>`, rules...)
		assert.Empty(t, diags)
	})
}

func TestPlacementRules(t *testing.T) {
	rules := placementRules()

	t.Run("file outside component", func(t *testing.T) {
		diags := lintSource(t, `<Directory Id="INSTALLDIR"><File Source="a.txt"/></Directory>`, rules...)
		ids := ruleIDs(diags)
		assert.Contains(t, ids, "VAL-REL-001-File")

		require.NotEmpty(t, diags)
		var fileDiag lint.Diagnostic
		for _, d := range diags {
			if d.RuleID == "VAL-REL-001-File" {
				fileDiag = d
			}
		}
		assert.Equal(t, "File cannot be a child of Directory. Valid parent: Component", fileDiag.Message)
	})

	t.Run("registry value misplaced", func(t *testing.T) {
		diags := lintSource(t, `<Fragment><RegistryValue Type="string"/></Fragment>`, rules...)
		assert.Contains(t, ruleIDs(diags), "VAL-REL-001-RegistryValue")
	})

	t.Run("valid nesting is quiet", func(t *testing.T) {
		diags := lintSource(t, `<Wix>
  <Fragment>
    <Directory Id="INSTALLDIR">
      <Component Id="C_Main" Guid="*">
        <File Source="app.exe"/>
      </Component>
    </Directory>
    <Feature Id="F_Main"><ComponentRef Id="C_Main"/></Feature>
  </Fragment>
</Wix>`, rules...)
		assert.Empty(t, diags)
	})

	t.Run("document root counts as a valid parent", func(t *testing.T) {
		// A bare fragment file whose top element is Directory.
		diags := lintSource(t, `<Directory Id="INSTALLDIR"/>`, rules...)
		assert.Empty(t, diags)
	})
}
