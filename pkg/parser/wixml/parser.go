// Package wixml provides a Parser implementation for XML-family markup
// using the encoding/xml token stream.
package wixml

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/goxmlint/pkg/markup"
)

// Parser converts raw XML bytes into a markup.Document.
// A Parser is stateless and safe for concurrent use.
type Parser struct{}

// New creates a new XML parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions this parser handles by default.
func (p *Parser) Extensions() []string {
	return []string{".xml", ".wxs", ".wxi", ".wxl"}
}

// Parse converts raw XML bytes into a range-annotated Document.
//
// The method:
//  1. Checks for context cancellation.
//  2. Streams tokens from encoding/xml, tracking byte offsets.
//  3. Builds the markup.Node tree with 1-based line/column ranges.
//  4. Wraps everything in a Document owning the verbatim source.
//
// Returns nil and a *ParseError if the content is malformed.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*markup.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	index := newLineIndex(content)

	root := &markup.Node{Kind: markup.KindRoot}
	stack := []*markup.Node{root}

	decoder := xml.NewDecoder(bytes.NewReader(content))
	decoder.Strict = true

	for {
		startOffset := decoder.InputOffset()
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newParseError(path, err)
		}
		endOffset := decoder.InputOffset()

		parent := stack[len(stack)-1]

		switch t := tok.(type) {
		case xml.StartElement:
			node := &markup.Node{
				Kind:   t.Name.Local,
				Attrs:  attrsOf(t),
				Range:  index.rangeOf(startOffset, endOffset),
				Parent: parent,
			}
			parent.Children = append(parent.Children, node)
			stack = append(stack, node)

		case xml.EndElement:
			if len(stack) > 1 {
				node := stack[len(stack)-1]
				node.Range = extendRange(node.Range, index.rangeOf(startOffset, endOffset))
				stack = stack[:len(stack)-1]
			}

		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" {
				break
			}
			parent.Text += text
			node := &markup.Node{
				Kind:   markup.KindText,
				Text:   text,
				Range:  index.rangeOf(startOffset, endOffset),
				Parent: parent,
			}
			parent.Children = append(parent.Children, node)

		case xml.Comment:
			node := &markup.Node{
				Kind:   markup.KindComment,
				Text:   string(t),
				Range:  index.rangeOf(startOffset, endOffset),
				Parent: parent,
			}
			parent.Children = append(parent.Children, node)
		}
	}

	if len(stack) != 1 {
		return nil, &ParseError{Path: path, Line: index.lineCount(), Message: "unexpected end of input"}
	}

	root.Range = documentRange(root)

	return markup.NewDocument(path, string(content), root), nil
}

// attrsOf converts start-element attributes preserving source order.
func attrsOf(t xml.StartElement) []markup.Attr {
	if len(t.Attr) == 0 {
		return nil
	}
	attrs := make([]markup.Attr, 0, len(t.Attr))
	for _, a := range t.Attr {
		// Namespace declarations are not element attributes for rule purposes.
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		attrs = append(attrs, markup.Attr{Name: a.Name.Local, Value: a.Value})
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// extendRange grows the element's start-tag range to cover its end tag.
func extendRange(r, end markup.SourceRange) markup.SourceRange {
	r.EndLine = end.EndLine
	r.EndColumn = end.EndColumn
	return r
}

// documentRange spans from the first child to the last child of the root.
func documentRange(root *markup.Node) markup.SourceRange {
	if len(root.Children) == 0 {
		return markup.NewSourceRange(1, 1, 1, 1)
	}
	first := root.Children[0].Range
	last := root.Children[len(root.Children)-1].Range
	return markup.NewSourceRange(first.StartLine, first.StartColumn, last.EndLine, last.EndColumn)
}
