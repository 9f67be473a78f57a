// Package markup provides the parsed document representation for goxmlint.
// It defines an immutable, range-annotated node tree that language parsers
// produce and the rule engine consumes:
// - Node: one element, text run, or comment with ordered attributes
// - Document: the source text, path, and root node of one parsed file
package markup

// Synthetic node kinds. Element nodes use their tag name as the kind.
const (
	KindRoot    = "root"
	KindText    = "text"
	KindComment = "comment"
)

// Attr is a single name/value attribute pair.
// Attribute order matches the raw source; names need not be unique.
type Attr struct {
	Name  string
	Value string
}

// Node represents a single node in the parsed markup tree.
// Children are owned by their parent; Parent is a non-owning back-reference
// used only for upward queries (e.g. relationship rules).
type Node struct {
	// Kind is the tag name, or one of the synthetic kinds above.
	Kind string

	// Text is the concatenated inner text of the node.
	Text string

	// Attrs holds attributes in source order. Lookups return the first match.
	Attrs []Attr

	// Range is the 1-based source span of the node.
	// Invariant: every child's range is contained in its parent's range, and
	// siblings appear in non-decreasing document order.
	Range SourceRange

	// Children are the node's direct children in document order.
	Children []*Node

	// Parent is the enclosing node, nil for the root.
	Parent *Node
}

// IsElement reports whether the node is a real element (not synthetic).
func (n *Node) IsElement() bool {
	switch n.Kind {
	case KindRoot, KindText, KindComment:
		return false
	default:
		return true
	}
}

// Attribute returns the value of the first attribute with the given name.
// The second return is false when the attribute is absent.
func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the node carries the named attribute.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.Attribute(name)
	return ok
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// ChildCount returns the number of direct children whose kind equals element.
func (n *Node) ChildCount(element string) int {
	count := 0
	for _, child := range n.Children {
		if child.Kind == element {
			count++
		}
	}
	return count
}

// HasChild reports whether any direct child has the given kind.
func (n *Node) HasChild(element string) bool {
	for _, child := range n.Children {
		if child.Kind == element {
			return true
		}
	}
	return false
}

// Descendants returns every node below n in document order (pre-order).
func (n *Node) Descendants() []*Node {
	var result []*Node
	for _, child := range n.Children {
		result = append(result, child)
		result = append(result, child.Descendants()...)
	}
	return result
}
