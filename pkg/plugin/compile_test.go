package plugin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxmlint/pkg/lint"
	"github.com/yaklabco/goxmlint/pkg/markup"
	"github.com/yaklabco/goxmlint/pkg/plugin"
)

// elem builds an element node with attributes given as name/value pairs.
func elem(tag string, attrPairs ...string) *markup.Node {
	n := &markup.Node{Kind: tag}
	for i := 0; i+1 < len(attrPairs); i += 2 {
		n.Attrs = append(n.Attrs, markup.Attr{Name: attrPairs[i], Value: attrPairs[i+1]})
	}
	return n
}

func withParent(n *markup.Node, parentTag string) *markup.Node {
	parent := &markup.Node{Kind: parentTag}
	parent.Children = append(parent.Children, n)
	n.Parent = parent
	return n
}

func withChildren(n *markup.Node, tags ...string) *markup.Node {
	for _, tag := range tags {
		child := &markup.Node{Kind: tag, Parent: n}
		n.Children = append(n.Children, child)
	}
	return n
}

func evaluate(t *testing.T, expr string, node *markup.Node) bool {
	t.Helper()
	cond, err := plugin.CompileCondition(expr)
	require.NoError(t, err)
	return lint.NewEvaluator().Evaluate(node, cond)
}

func TestCompileConditionAttributes(t *testing.T) {
	component := elem("Component", "Id", "MainComponent", "Guid", "*")

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"exists present", `exists Id`, true},
		{"exists absent", `exists KeyPath`, false},
		{"missing absent", `missing KeyPath`, true},
		{"missing present", `missing Id`, false},
		{"equals", `Guid == "*"`, true},
		{"equals mismatch", `Guid == "fixed"`, false},
		{"not equals", `Guid != "fixed"`, true},
		{"equals absent attribute", `KeyPath == "yes"`, false},
		{"not equals absent attribute", `KeyPath != "yes"`, true},
		{"matches", `Id matches "^Main"`, true},
		{"matches mismatch", `Id matches "^Aux"`, false},
		{"not matches", `Id not matches "^Aux"`, true},
		{"in", `Guid in ["*", "{PUT-GUID-HERE}"]`, true},
		{"in mismatch", `Guid in [fixed]`, false},
		{"not in", `Guid not in [fixed]`, true},
		{"single quotes", `Guid == '*'`, true},
		{"always", `always`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, evaluate(t, tt.expr, component))
		})
	}
}

func TestCompileConditionStructure(t *testing.T) {
	component := withChildren(elem("Component", "Id", "C1"), "File", "File", "RegistryValue")

	assert.True(t, evaluate(t, `count(File) > 1`, component))
	assert.True(t, evaluate(t, `count(File) == 2`, component))
	assert.True(t, evaluate(t, `count(File) >= 2`, component))
	assert.True(t, evaluate(t, `count(Shortcut) == 0`, component))
	assert.False(t, evaluate(t, `count(File) < 2`, component))
	assert.True(t, evaluate(t, `count(RegistryValue) != 0`, component))
}

func TestCompileConditionParent(t *testing.T) {
	orphanFile := elem("File", "Id", "F1")
	nestedFile := withParent(elem("File", "Id", "F2"), "Component")

	assert.False(t, evaluate(t, `parent not in [Component, ComponentGroup]`, nestedFile))
	assert.False(t, evaluate(t, `parent not in [Component]`, nestedFile))
	assert.True(t, evaluate(t, `parent not in [Component]`, withParent(elem("File"), "Directory")))

	// A node with no parent at all never satisfies "parent not in".
	assert.False(t, evaluate(t, `parent not in [Component]`, orphanFile))
}

func TestCompileConditionText(t *testing.T) {
	script := &markup.Node{Kind: "shell", Text: "rm -rf /tmp/build"}

	assert.True(t, evaluate(t, `text matches "rm\\s+-rf"`, script))
	assert.False(t, evaluate(t, `text matches "curl"`, script))
	assert.True(t, evaluate(t, `text not matches "curl"`, script))
}

func TestCompileConditionCombinators(t *testing.T) {
	service := elem("ServiceInstall", "Name", "svc", "Account", "LocalSystem")

	assert.True(t, evaluate(t, `exists Name && Account == "LocalSystem"`, service))
	assert.False(t, evaluate(t, `exists Name && missing Account`, service))
	assert.True(t, evaluate(t, `missing Account || Account == "LocalSystem"`, service))
	assert.True(t, evaluate(t, `!missing Name`, service))
	assert.False(t, evaluate(t, `!(exists Name)`, service))
}

func TestCompileConditionPrecedence(t *testing.T) {
	node := elem("Property", "Id", "INSTALLDIR", "Secure", "yes")

	// && binds tighter than ||: the left disjunct alone decides this.
	assert.True(t, evaluate(t, `Id == "INSTALLDIR" || Id == "OTHER" && Secure == "no"`, node))

	// Parentheses override: the conjunction now covers the whole left side.
	assert.False(t, evaluate(t, `(Id == "INSTALLDIR" || Id == "OTHER") && Secure == "no"`, node))
}

func TestCompileConditionErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"dangling operator", `Guid ==`},
		{"missing operator", `Guid "value"`},
		{"invalid regex", `Id matches "(["`},
		{"invalid text regex", `text matches "(["`},
		{"unterminated string", `Id == "open`},
		{"trailing tokens", `Id == "x" Guid`},
		{"unclosed paren", `(exists Id`},
		{"unclosed list", `Id in ["a", "b"`},
		{"bad count", `count(File > 1`},
		{"unknown character", `Id @ "x"`},
		{"empty input", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plugin.CompileCondition(tt.expr)
			assert.Error(t, err)
		})
	}
}

func TestCompileConditionEmptyList(t *testing.T) {
	node := elem("Property", "Id", "X")

	// Membership in the empty set is always false, and its negation true.
	assert.False(t, evaluate(t, `Id in []`, node))
	assert.True(t, evaluate(t, `Id not in []`, node))
}
