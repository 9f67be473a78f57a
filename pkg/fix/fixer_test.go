package fix_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxmlint/pkg/fix"
	"github.com/yaklabco/goxmlint/pkg/lint"
	"github.com/yaklabco/goxmlint/pkg/markup"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "installer.wxs")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fileDiag(path string, line int, safe bool, action lint.FixAction) lint.Diagnostic {
	action.Range = markup.NewSourceRange(line, 1, line, 80)
	return lint.Diagnostic{
		RuleID:   "TEST-001",
		Message:  "test",
		Location: lint.Location{File: path, Range: action.Range},
		Fix:      &lint.Fix{Description: "test fix", Safe: safe, Action: action},
	}
}

func replaceGUID(path string, line int, safe bool) lint.Diagnostic {
	return fileDiag(path, line, safe, lint.FixAction{
		Kind: lint.FixReplaceAttribute, Name: "Guid", Value: "*",
	})
}

func TestFixerAppliesSafeFixes(t *testing.T) {
	path := writeSource(t, "<Component Id=\"C1\" Guid=\"{OLD}\" />\n")

	fixer := fix.NewFixer(false)
	fixer.Collect([]lint.Diagnostic{replaceGUID(path, 1, true)})

	result := fixer.ApplyAll(context.Background())
	assert.Equal(t, 1, result.FilesModified)
	assert.Equal(t, 1, result.FixesApplied)
	assert.Equal(t, 1, result.SafeApplied)
	assert.Zero(t, result.UnsafeApplied)
	assert.Empty(t, result.Errors)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<Component Id=\"C1\" Guid=\"*\" />\n", string(content))
}

func TestFixerSkipsUnsafeByDefault(t *testing.T) {
	original := "<Component Id=\"C1\" Guid=\"{OLD}\" />\n"
	path := writeSource(t, original)

	fixer := fix.NewFixer(false)
	fixer.Collect([]lint.Diagnostic{replaceGUID(path, 1, false)})

	result := fixer.ApplyAll(context.Background())
	assert.Zero(t, result.FixesApplied)
	assert.Equal(t, 1, result.Skipped)
	assert.Zero(t, result.FilesModified)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(content))
}

func TestFixerUnsafeOptIn(t *testing.T) {
	path := writeSource(t, "<Component Id=\"C1\" Guid=\"{OLD}\" />\n")

	fixer := fix.NewFixer(false).WithUnsafe(true)
	fixer.Collect([]lint.Diagnostic{replaceGUID(path, 1, false)})

	result := fixer.ApplyAll(context.Background())
	assert.Equal(t, 1, result.FixesApplied)
	assert.Equal(t, 1, result.UnsafeApplied)
	assert.Zero(t, result.SafeApplied)
	assert.Zero(t, result.Skipped)
}

func TestFixerDryRunWritesNothing(t *testing.T) {
	original := "<Component Id=\"C1\" Guid=\"{OLD}\" />\n"
	path := writeSource(t, original)

	fixer := fix.NewFixer(true)
	fixer.Collect([]lint.Diagnostic{replaceGUID(path, 1, true)})

	result := fixer.ApplyAll(context.Background())
	assert.Equal(t, 1, result.FixesApplied, "dry run still reports what would change")
	assert.Equal(t, 1, result.FilesModified)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(content))
}

func TestFixerShowOnlyCountsWithoutReading(t *testing.T) {
	fixer := fix.NewFixer(false).WithMode(fix.ModeShowOnly)
	fixer.Collect([]lint.Diagnostic{
		replaceGUID("/nonexistent/a.wxs", 1, true),
		replaceGUID("/nonexistent/a.wxs", 2, false),
	})

	result := fixer.ApplyAll(context.Background())
	assert.Equal(t, 1, result.FixesApplied)
	assert.Equal(t, 1, result.SafeApplied)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Errors)
}

func TestFixerDiffMode(t *testing.T) {
	original := "<Component Id=\"C1\" Guid=\"{OLD}\" />\n"
	path := writeSource(t, original)

	fixer := fix.NewFixer(false).WithMode(fix.ModeDiff)
	fixer.Collect([]lint.Diagnostic{replaceGUID(path, 1, true)})

	result := fixer.ApplyAll(context.Background())
	require.Contains(t, result.Diffs, path)
	assert.Contains(t, result.Diffs[path], `Guid="*"`)
	assert.Contains(t, result.Diffs[path], `Guid="{OLD}"`)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(content), "diff mode never writes")
}

func TestFixerBackups(t *testing.T) {
	original := "<Component Id=\"C1\" Guid=\"{OLD}\" />\n"
	path := writeSource(t, original)

	fixer := fix.NewFixer(false).WithBackups(true)
	fixer.Collect([]lint.Diagnostic{replaceGUID(path, 1, true)})

	result := fixer.ApplyAll(context.Background())
	assert.Equal(t, 1, result.FixesApplied)

	backup, err := os.ReadFile(path + ".goxmlint.bak")
	require.NoError(t, err)
	assert.Equal(t, original, string(backup))
}

func TestFixerUnreadableFileCountsFailed(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.wxs")

	fixer := fix.NewFixer(false)
	fixer.Collect([]lint.Diagnostic{replaceGUID(missing, 1, true)})

	result := fixer.ApplyAll(context.Background())
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)

	var fixErr *fix.FixError
	require.ErrorAs(t, result.Errors[0], &fixErr)
	assert.Equal(t, missing, fixErr.Path)
}

func TestFixerPendingFixesSorted(t *testing.T) {
	fixer := fix.NewFixer(false)
	fixer.Collect([]lint.Diagnostic{
		replaceGUID("b.wxs", 4, true),
		replaceGUID("b.wxs", 2, true),
		replaceGUID("a.wxs", 9, true),
		replaceGUID("a.wxs", 1, false), // skipped: unsafe under safe-only
	})

	pending := fixer.PendingFixes()
	require.Len(t, pending, 3)
	assert.Equal(t, "a.wxs", pending[0].File)
	assert.Equal(t, 9, pending[0].Line)
	assert.Equal(t, "b.wxs", pending[1].File)
	assert.Equal(t, 2, pending[1].Line)
	assert.Equal(t, 4, pending[2].Line)
}

func TestFixerNoMatchingFixLeavesFileAlone(t *testing.T) {
	original := "<Component Id=\"C1\" />\n"
	path := writeSource(t, original)

	fixer := fix.NewFixer(false)
	fixer.Collect([]lint.Diagnostic{replaceGUID(path, 1, true)})

	result := fixer.ApplyAll(context.Background())
	assert.Zero(t, result.FixesApplied)
	assert.Zero(t, result.FilesModified)
	assert.Empty(t, result.Errors)
}
