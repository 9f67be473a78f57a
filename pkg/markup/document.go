package markup

import "strings"

// Document is an immutable view of one parsed source file.
// It owns the original source text verbatim and the root of the node tree.
// A Document is created once per parse and discarded after diagnostics are
// extracted; nothing mutates it afterward.
type Document struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Source is the original file text, byte for byte.
	Source string

	// Root is the synthetic root node. Its children are the top-level
	// elements of the file.
	Root *Node
}

// NewDocument wraps a parsed root node with its source text.
func NewDocument(path, source string, root *Node) *Document {
	return &Document{Path: path, Source: source, Root: root}
}

// Lines returns the source split into lines without trailing newlines.
func (d *Document) Lines() []string {
	return strings.Split(strings.TrimSuffix(d.Source, "\n"), "\n")
}

// Line returns the 1-based source line, or "" when out of range.
func (d *Document) Line(line int) string {
	lines := d.Lines()
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// Descendants returns every node in the document in document order,
// excluding the synthetic root.
func (d *Document) Descendants() []*Node {
	if d.Root == nil {
		return nil
	}
	return d.Root.Descendants()
}

// ElementsOfKind returns all element nodes with the given tag name.
func (d *Document) ElementsOfKind(kind string) []*Node {
	return FindAll(d.Root, func(n *Node) bool {
		return n.Kind == kind
	})
}

// NodeAt returns the most specific node containing the 1-based point,
// found by depth-first descent. Returns nil when no node contains it.
func (d *Document) NodeAt(line, col int) *Node {
	if d.Root == nil {
		return nil
	}
	return nodeAt(d.Root, line, col)
}

func nodeAt(n *Node, line, col int) *Node {
	for _, child := range n.Children {
		if child.Range.ContainsPoint(line, col) {
			return nodeAt(child, line, col)
		}
	}
	if n.Kind == KindRoot || !n.Range.ContainsPoint(line, col) {
		return nil
	}
	return n
}
