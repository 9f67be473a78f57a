package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yaklabco/goxmlint/internal/ui/pretty"
	"github.com/yaklabco/goxmlint/pkg/fix"
)

// DiffRenderer colorizes unified diffs produced by a fix run in diff mode.
type DiffRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffRenderer creates a new diff renderer.
func NewDiffRenderer(opts Options) *DiffRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render writes each file's diff in path order and returns the number
// of files with changes.
func (r *DiffRenderer) Render(result *fix.Result) (int, error) {
	if result == nil || len(result.Diffs) == 0 {
		return 0, nil
	}

	paths := make([]string, 0, len(result.Diffs))
	for path := range result.Diffs {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var totalAdditions, totalDeletions int

	for _, path := range paths {
		additions, deletions := r.writeDiff(path, result.Diffs[path])
		totalAdditions += additions
		totalDeletions += deletions
	}

	if r.opts.ShowSummary {
		r.writeSummary(len(paths), totalAdditions, totalDeletions)
	}

	return len(paths), nil
}

// writeDiff outputs a single file's diff with formatting and returns
// its addition and deletion counts.
func (r *DiffRenderer) writeDiff(path, diff string) (additions, deletions int) {
	// Use relative path for display if possible.
	displayPath := relativePath(path)

	// Git-style header: "diff --git a/file b/file"
	header := fmt.Sprintf("diff --git a/%s b/%s", displayPath, displayPath)
	fmt.Fprintln(r.out, r.styles.DiffHeader.Render(header))

	fmt.Fprintln(r.out, r.styles.DiffRemove.Render("--- a/"+displayPath))
	fmt.Fprintln(r.out, r.styles.DiffAdd.Render("+++ b/"+displayPath))

	// Colorize the hunk content, skipping any header lines the
	// rendered diff already carries.
	for _, line := range strings.Split(diff, "\n") {
		if line == "" || strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "diff --git") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+"):
			additions++
		case strings.HasPrefix(line, "-"):
			deletions++
		}
		r.writeDiffLine(line)
	}

	fmt.Fprintln(r.out) // Blank line between files
	return additions, deletions
}

// relativePath converts an absolute path to a relative path from the current directory.
// If the relative path would require too many "../" traversals, use the basename instead.
func relativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Base(path)
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return filepath.Base(path)
	}
	// If relative path has too many parent traversals, just use basename.
	if strings.Count(rel, "..") > 2 {
		return filepath.Base(path)
	}
	return rel
}

// writeDiffLine formats a single diff line with color.
func (r *DiffRenderer) writeDiffLine(line string) {
	var styled string

	switch {
	case strings.HasPrefix(line, "@@"):
		styled = r.styles.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+"):
		styled = r.styles.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		styled = r.styles.DiffRemove.Render(line)
	default:
		styled = r.styles.DiffContext.Render(line)
	}

	fmt.Fprintln(r.out, styled)
}

// writeSummary writes a summary line at the end.
func (r *DiffRenderer) writeSummary(files, additions, deletions int) {
	var parts []string

	// Files changed.
	fileWord := "files"
	if files == 1 {
		fileWord = "file"
	}
	parts = append(parts, fmt.Sprintf("%d %s changed", files, fileWord))

	// Additions.
	if additions > 0 {
		insertionWord := "insertions"
		if additions == 1 {
			insertionWord = "insertion"
		}
		parts = append(parts, r.styles.DiffAdd.Render(fmt.Sprintf("%d %s(+)", additions, insertionWord)))
	}

	// Deletions.
	if deletions > 0 {
		deletionWord := "deletions"
		if deletions == 1 {
			deletionWord = "deletion"
		}
		parts = append(parts, r.styles.DiffRemove.Render(fmt.Sprintf("%d %s(-)", deletions, deletionWord)))
	}

	fmt.Fprintln(r.out, strings.Join(parts, ", "))
}
