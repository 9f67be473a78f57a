package wixml

import (
	"encoding/xml"
	"errors"
	"fmt"
)

// ParseError describes malformed source. One ParseError is produced per
// failed file; it never aborts the batch.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// newParseError wraps an encoding/xml error, preserving its line when known.
func newParseError(path string, err error) *ParseError {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ParseError{Path: path, Line: syntaxErr.Line, Message: syntaxErr.Msg}
	}
	return &ParseError{Path: path, Message: err.Error()}
}
