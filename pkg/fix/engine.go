// Package fix collects fix-carrying diagnostics and rewrites source files.
// Edits are line-based: every action resolves against the diagnostic's range
// in the current text, and actions that no longer match their line are
// skipped silently, so applying fixes is best-effort by construction.
package fix

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/yaklabco/goxmlint/pkg/lint"
	"github.com/yaklabco/goxmlint/pkg/markup"
)

// FixError is a file-level failure: the file could not be read or written.
// Individual actions that do not match never produce a FixError.
type FixError struct {
	Path string
	Err  error
}

func (e *FixError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FixError) Unwrap() error { return e.Err }

// Preview describes what one fix would change, line-granular.
type Preview struct {
	File        string
	RuleID      string
	Description string
	Line        int
	Before      string
	After       string
}

// ApplyResult is the outcome of rewriting one file's content.
type ApplyResult struct {
	File string

	// FixesApplied counts the actions that matched; always <= collected.
	FixesApplied int

	// Applied lists the diagnostics whose fixes took effect.
	Applied []lint.Diagnostic

	NewContent string
}

// Engine accumulates fixes per file and applies them to source text.
type Engine struct {
	fixes map[string][]lint.Diagnostic
}

// NewEngine creates an empty fix engine.
func NewEngine() *Engine {
	return &Engine{fixes: make(map[string][]lint.Diagnostic)}
}

// Collect records every fix-carrying diagnostic, grouped by file.
func (e *Engine) Collect(diagnostics []lint.Diagnostic) {
	for _, d := range diagnostics {
		if d.HasFix() {
			file := d.Location.File
			e.fixes[file] = append(e.fixes[file], d)
		}
	}
}

// FixCount returns the number of collected fixes across all files.
func (e *Engine) FixCount() int {
	total := 0
	for _, fixes := range e.fixes {
		total += len(fixes)
	}
	return total
}

// Files returns the files with collected fixes, sorted.
func (e *Engine) Files() []string {
	files := make([]string, 0, len(e.fixes))
	for file := range e.fixes {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}

// Preview renders each collected fix for a file against its source without
// modifying anything. Fixes whose target line is out of range are omitted.
func (e *Engine) Preview(file, source string) []Preview {
	var previews []Preview
	lines := splitSource(source)

	for _, d := range e.fixes[file] {
		line := d.Location.Range.StartLine
		if line < 1 || line > len(lines.lines) {
			continue
		}
		before := lines.lines[line-1]
		after, ok := previewLine(before, d.Fix.Action)
		if !ok {
			continue
		}
		previews = append(previews, Preview{
			File:        file,
			RuleID:      d.RuleID,
			Description: d.Fix.Description,
			Line:        line,
			Before:      before,
			After:       after,
		})
	}
	return previews
}

// Apply rewrites the file's source with every collected fix that still
// matches. Fixes run bottom-to-top (line descending, then column
// descending) so earlier edits never shift the coordinates of later ones.
func (e *Engine) Apply(file, source string) ApplyResult {
	fixes := append([]lint.Diagnostic(nil), e.fixes[file]...)
	if len(fixes) == 0 {
		return ApplyResult{File: file, NewContent: source}
	}

	sort.SliceStable(fixes, func(i, j int) bool {
		ri, rj := fixes[i].Location.Range, fixes[j].Location.Range
		if ri.StartLine != rj.StartLine {
			return ri.StartLine > rj.StartLine
		}
		return ri.StartColumn > rj.StartColumn
	})

	lines := splitSource(source)
	var applied []lint.Diagnostic
	for _, d := range fixes {
		if applyAction(lines, d.Fix.Action) {
			applied = append(applied, d)
		}
	}

	return ApplyResult{
		File:         file,
		FixesApplied: len(applied),
		Applied:      applied,
		NewContent:   lines.join(),
	}
}

// sourceLines is a mutable line buffer that remembers whether the original
// text ended with a newline so the rewrite round-trips it.
type sourceLines struct {
	lines           []string
	trailingNewline bool
}

func splitSource(source string) *sourceLines {
	trailing := strings.HasSuffix(source, "\n")
	trimmed := strings.TrimSuffix(source, "\n")
	return &sourceLines{
		lines:           strings.Split(trimmed, "\n"),
		trailingNewline: trailing,
	}
}

func (s *sourceLines) join() string {
	out := strings.Join(s.lines, "\n")
	if s.trailingNewline {
		out += "\n"
	}
	return out
}

func (s *sourceLines) inRange(line int) bool {
	return line >= 1 && line <= len(s.lines)
}

// applyAction dispatches one fix action against the line buffer. A false
// return means the action no longer matched and was skipped.
func applyAction(lines *sourceLines, action lint.FixAction) bool {
	line := action.Range.StartLine
	if !lines.inRange(line) {
		return false
	}

	switch action.Kind {
	case lint.FixReplaceAttribute:
		return replaceAttributeLine(lines, line, action.Name, action.Value)
	case lint.FixAddAttribute:
		return addAttributeLine(lines, line, action.Name, action.Value)
	case lint.FixRemoveAttribute:
		return removeAttributeLine(lines, line, action.Name)
	case lint.FixRemoveElement:
		return removeElementLines(lines, action.Range)
	case lint.FixAddElement:
		return addElementLines(lines, action)
	case lint.FixReplaceText:
		lines.lines[line-1] = action.Value
		return true
	default:
		return false
	}
}

func attributePattern(name string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(name) + `="[^"]*"`)
}

func replaceAttributeLine(lines *sourceLines, line int, name, value string) bool {
	current := lines.lines[line-1]
	re := attributePattern(name)
	if !re.MatchString(current) {
		return false
	}
	lines.lines[line-1] = re.ReplaceAllLiteralString(current, fmt.Sprintf(`%s=%q`, name, value))
	return true
}

func addAttributeLine(lines *sourceLines, line int, name, value string) bool {
	current := lines.lines[line-1]

	insert := strings.LastIndex(current, "/>")
	if insert < 0 {
		insert = strings.LastIndex(current, ">")
	}
	if insert < 0 {
		return false
	}

	lines.lines[line-1] = fmt.Sprintf(`%s %s=%q%s`,
		strings.TrimRight(current[:insert], " \t"), name, value, current[insert:])
	return true
}

func removeAttributeLine(lines *sourceLines, line int, name string) bool {
	current := lines.lines[line-1]
	re := regexp.MustCompile(`\s*` + regexp.QuoteMeta(name) + `="[^"]*"`)
	if !re.MatchString(current) {
		return false
	}
	lines.lines[line-1] = re.ReplaceAllString(current, "")
	return true
}

// removeElementLines deletes the element's whole line span, inclusive.
func removeElementLines(lines *sourceLines, r markup.SourceRange) bool {
	start, end := r.StartLine, r.EndLine
	if end < start {
		end = start
	}
	if !lines.inRange(start) {
		return false
	}
	if end > len(lines.lines) {
		end = len(lines.lines)
	}
	lines.lines = append(lines.lines[:start-1], lines.lines[end:]...)
	return true
}

// addElementLines inserts a rendered child element under the parent whose
// range the action carries. A self-closing parent is expanded into an
// open/close pair with the child indented four spaces past the parent.
func addElementLines(lines *sourceLines, action lint.FixAction) bool {
	line := action.Range.StartLine
	current := lines.lines[line-1]
	rendered := renderElement(action.Element, action.Attributes)

	indent := current[:len(current)-len(strings.TrimLeft(current, " \t"))]
	childIndent := indent + "    "

	if strings.HasSuffix(strings.TrimRight(current, " \t"), "/>") {
		closePos := strings.LastIndex(current, "/>")
		tag := openingTagName(current)
		if tag == "" {
			return false
		}
		opened := strings.TrimRight(current[:closePos], " \t") + ">"
		inserted := []string{opened, childIndent + rendered, indent + "</" + tag + ">"}
		lines.lines = append(lines.lines[:line-1],
			append(inserted, lines.lines[line:]...)...)
		return true
	}

	at := line // after the opening tag's line
	if action.Position == lint.InsertLast && lines.inRange(action.Range.EndLine) {
		at = action.Range.EndLine - 1 // before the closing tag's line
	}
	lines.lines = append(lines.lines[:at],
		append([]string{childIndent + rendered}, lines.lines[at:]...)...)
	return true
}

func renderElement(element string, attrs []markup.Attr) string {
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(element)
	for _, a := range attrs {
		fmt.Fprintf(&sb, ` %s=%q`, a.Name, a.Value)
	}
	sb.WriteString(" />")
	return sb.String()
}

// openingTagName extracts the tag name from a line's first opening tag.
func openingTagName(line string) string {
	start := strings.Index(line, "<")
	if start < 0 {
		return ""
	}
	rest := line[start+1:]
	end := strings.IndexFunc(rest, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '>' || r == '/'
	})
	if end < 0 {
		return rest
	}
	return rest[:end]
}

// previewLine renders a single-line approximation of an action for display.
func previewLine(line string, action lint.FixAction) (string, bool) {
	switch action.Kind {
	case lint.FixReplaceAttribute:
		re := attributePattern(action.Name)
		if !re.MatchString(line) {
			return "", false
		}
		return re.ReplaceAllLiteralString(line, fmt.Sprintf(`%s=%q`, action.Name, action.Value)), true
	case lint.FixAddAttribute:
		buf := splitSource(line)
		if !addAttributeLine(buf, 1, action.Name, action.Value) {
			return "", false
		}
		return buf.lines[0], true
	case lint.FixRemoveAttribute:
		buf := splitSource(line)
		if !removeAttributeLine(buf, 1, action.Name) {
			return "", false
		}
		return buf.lines[0], true
	case lint.FixRemoveElement:
		return "", true
	case lint.FixAddElement:
		return line + "\n    " + renderElement(action.Element, action.Attributes), true
	case lint.FixReplaceText:
		return action.Value, true
	default:
		return line, true
	}
}
