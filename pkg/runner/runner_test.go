package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxmlint/pkg/cache"
	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/lint"
	"github.com/yaklabco/goxmlint/pkg/parser/wixml"
	"github.com/yaklabco/goxmlint/pkg/runner"
)

const componentSource = `<Wix>
  <Component Id="C1" />
</Wix>
`

func guidRegistry(t *testing.T) *lint.Registry {
	t.Helper()
	registry := lint.NewRegistry()
	rule := lint.NewRule("TEST-001", "component-missing-guid").
		WithSeverity(config.SeverityHigh).
		WithCategory(lint.CategoryValidation).
		WithTarget("Component").
		WithCondition(lint.AttributeMissing("Guid")).
		WithMessage("Component must have a Guid attribute")
	registry.Register(rule)
	return registry
}

func newRunner(t *testing.T, cfg *config.Config) *runner.Runner {
	t.Helper()
	engine := lint.NewEngine(wixml.New(), guidRegistry(t))
	pipeline := runner.NewPipeline(func(string) *lint.Engine { return engine }, cfg)
	return runner.New(pipeline)
}

func writeSources(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(componentSource), 0o644))
	}
}

func TestRunnerNoFiles(t *testing.T) {
	dir := t.TempDir()

	result, err := newRunner(t, config.NewConfig()).Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	})
	require.NoError(t, err)

	assert.Zero(t, result.Stats.FilesDiscovered)
	assert.Empty(t, result.Files)
}

func TestRunnerSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeSources(t, dir, "product.wxs")

	result, err := newRunner(t, config.NewConfig()).Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.FilesDiscovered)
	assert.Equal(t, 1, result.Stats.FilesProcessed)
	assert.Equal(t, 1, result.Stats.FilesWithIssues)
	assert.Equal(t, 1, result.Stats.DiagnosticsTotal)
	assert.Equal(t, 1, result.Stats.DiagnosticsBySeverity[config.SeverityHigh])

	require.Len(t, result.Files, 1)
	require.NotNil(t, result.Files[0].Result)
	assert.Equal(t, "TEST-001", result.Files[0].Result.Diagnostics[0].RuleID)
}

func TestRunnerSkipsUnhandledExtensions(t *testing.T) {
	dir := t.TempDir()
	writeSources(t, dir, "product.wxs", "include.wxi", "strings.txt")

	result, err := newRunner(t, config.NewConfig()).Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	})
	require.NoError(t, err)

	// .txt is filtered during discovery, not during processing.
	assert.Equal(t, 2, result.Stats.FilesDiscovered)
	assert.Equal(t, 2, result.Stats.FilesProcessed)
}

func TestRunnerNilEngineCountsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeSources(t, dir, "product.wxs")

	pipeline := runner.NewPipeline(func(string) *lint.Engine { return nil }, config.NewConfig())
	result, err := runner.New(pipeline).Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.FilesSkipped)
	assert.Zero(t, result.Stats.FilesProcessed)
}

func TestRunnerDeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	names := []string{"e.wxs", "a.wxs", "c.wxs", "b.wxs", "d.wxs"}
	writeSources(t, dir, names...)

	serial, err := newRunner(t, config.NewConfig()).Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		Jobs:       1,
	})
	require.NoError(t, err)

	parallel, err := newRunner(t, config.NewConfig()).Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		Jobs:       4,
	})
	require.NoError(t, err)

	require.Len(t, serial.Files, len(names))
	require.Len(t, parallel.Files, len(names))
	for i := range serial.Files {
		assert.Equal(t, serial.Files[i].Path, parallel.Files[i].Path)
	}
	assert.Equal(t, serial.Stats.DiagnosticsTotal, parallel.Stats.DiagnosticsTotal)
}

func TestRunnerUnparsableFileCountsErrored(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.wxs"),
		[]byte("<Wix><Component></Wix>"), 0o644))
	writeSources(t, dir, "good.wxs")

	result, err := newRunner(t, config.NewConfig()).Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.FilesErrored)
	assert.Equal(t, 1, result.Stats.FilesProcessed)

	require.Len(t, result.Files, 2)
	assert.Error(t, result.Files[0].Error)
	assert.NoError(t, result.Files[1].Error)
}

func TestRunnerContextCancellation(t *testing.T) {
	dir := t.TempDir()
	writeSources(t, dir, "a.wxs", "b.wxs", "c.wxs")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(t, config.NewConfig()).Run(ctx, runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunnerCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeSources(t, dir, "product.wxs")

	cfg := config.NewConfig()
	engine := lint.NewEngine(wixml.New(), guidRegistry(t))
	c := cache.New(cache.ConfigHash(cfg))

	pipeline := runner.NewPipeline(func(string) *lint.Engine { return engine }, cfg).WithCache(c)
	opts := runner.Options{Paths: []string{"."}, WorkingDir: dir}

	first, err := runner.New(pipeline).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Zero(t, first.Stats.CacheHits)
	assert.Equal(t, 1, c.Len())

	second, err := runner.New(pipeline).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Stats.CacheHits)
	assert.Equal(t, first.Stats.DiagnosticsTotal, second.Stats.DiagnosticsTotal)

	require.Len(t, second.Files, 1)
	assert.True(t, second.Files[0].CacheHit)
	assert.Equal(t, "TEST-001", second.Files[0].Result.Diagnostics[0].RuleID)
}

func TestRunnerCacheInvalidatedByEdit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "product.wxs")
	writeSources(t, dir, "product.wxs")

	cfg := config.NewConfig()
	engine := lint.NewEngine(wixml.New(), guidRegistry(t))
	c := cache.New(cache.ConfigHash(cfg))
	pipeline := runner.NewPipeline(func(string) *lint.Engine { return engine }, cfg).WithCache(c)
	opts := runner.Options{Paths: []string{"."}, WorkingDir: dir}

	_, err := runner.New(pipeline).Run(context.Background(), opts)
	require.NoError(t, err)

	fixed := `<Wix>
  <Component Id="C1" Guid="*" />
</Wix>
`
	require.NoError(t, os.WriteFile(path, []byte(fixed), 0o644))

	result, err := runner.New(pipeline).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Zero(t, result.Stats.CacheHits)
	assert.Zero(t, result.Stats.DiagnosticsTotal)
}

func TestResultCollect(t *testing.T) {
	dir := t.TempDir()
	writeSources(t, dir, "a.wxs", "b.wxs")

	result, err := newRunner(t, config.NewConfig()).Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	})
	require.NoError(t, err)

	collected := result.Collect()
	require.Len(t, collected.Files, 2)
	assert.Len(t, collected.Diagnostics, 2)
	assert.Equal(t, filepath.Join(dir, "a.wxs"), collected.Files[0])
}

func TestResultDocuments(t *testing.T) {
	dir := t.TempDir()
	writeSources(t, dir, "a.wxs", "b.wxs")

	result, err := newRunner(t, config.NewConfig()).Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	})
	require.NoError(t, err)

	docs := result.Documents()
	require.Len(t, docs, 2)
	for _, fr := range docs {
		assert.NotNil(t, fr.Document)
	}
}

func TestResultHasIssues(t *testing.T) {
	var nilResult *runner.Result
	assert.False(t, nilResult.HasIssues())

	empty := &runner.Result{}
	assert.False(t, empty.HasIssues())

	some := &runner.Result{Stats: runner.Stats{DiagnosticsTotal: 3}}
	assert.True(t, some.HasIssues())
}
