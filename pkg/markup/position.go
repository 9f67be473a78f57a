package markup

// Position represents a 1-based line and column in a file.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Before reports whether p comes strictly before other in document order.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// SourceRange represents a span in terms of 1-based line/column positions.
type SourceRange struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// NewSourceRange builds a range from start/end coordinates.
func NewSourceRange(startLine, startCol, endLine, endCol int) SourceRange {
	return SourceRange{
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
	}
}

// Start returns the start position.
func (r SourceRange) Start() Position {
	return Position{Line: r.StartLine, Column: r.StartColumn}
}

// End returns the end position.
func (r SourceRange) End() Position {
	return Position{Line: r.EndLine, Column: r.EndColumn}
}

// IsValid returns true if both start and end positions are valid.
func (r SourceRange) IsValid() bool {
	return r.StartLine > 0 && r.StartColumn > 0 &&
		r.EndLine > 0 && r.EndColumn > 0
}

// IsSingleLine returns true if start and end are on the same line.
func (r SourceRange) IsSingleLine() bool {
	return r.StartLine == r.EndLine
}

// ContainsPoint reports whether the 1-based (line, col) point falls inside
// the range, inclusive of both endpoints.
func (r SourceRange) ContainsPoint(line, col int) bool {
	if line < r.StartLine || line > r.EndLine {
		return false
	}
	if line == r.StartLine && col < r.StartColumn {
		return false
	}
	if line == r.EndLine && col > r.EndColumn {
		return false
	}
	return true
}

// Contains reports whether other lies entirely within r.
func (r SourceRange) Contains(other SourceRange) bool {
	return r.ContainsPoint(other.StartLine, other.StartColumn) &&
		r.ContainsPoint(other.EndLine, other.EndColumn)
}
