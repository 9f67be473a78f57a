package plugin

import "fmt"

// LoadErrorKind classifies manifest and rule-file loading failures.
type LoadErrorKind string

const (
	// LoadErrorIO covers unreadable manifests and rule files.
	LoadErrorIO LoadErrorKind = "io"

	// LoadErrorParse covers malformed YAML or JSON.
	LoadErrorParse LoadErrorKind = "parse"

	// LoadErrorInvalid covers well-formed manifests with bad content:
	// missing plugin id, unknown severity, invalid regex, bad condition.
	LoadErrorInvalid LoadErrorKind = "invalid"

	// LoadErrorUnsupportedParser covers manifests requesting a base
	// parser this build does not provide.
	LoadErrorUnsupportedParser LoadErrorKind = "unsupported_parser"
)

// LoadError is one per-file loading failure. Loading collects these and
// keeps going; a bad plugin never prevents the others from loading.
type LoadError struct {
	Kind    LoadErrorKind
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("plugin %s: %s: %s", e.Kind, e.Path, msg)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func ioError(path string, err error) *LoadError {
	return &LoadError{Kind: LoadErrorIO, Path: path, Err: err}
}

func parseError(path string, err error) *LoadError {
	return &LoadError{Kind: LoadErrorParse, Path: path, Err: err}
}

func invalidError(path, format string, args ...any) *LoadError {
	return &LoadError{Kind: LoadErrorInvalid, Path: path, Message: fmt.Sprintf(format, args...)}
}

func unsupportedParserError(path, parser string) *LoadError {
	return &LoadError{
		Kind:    LoadErrorUnsupportedParser,
		Path:    path,
		Message: fmt.Sprintf("base parser %q is not available", parser),
	}
}
