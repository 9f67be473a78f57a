package runner

import (
	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/lint"
)

// FileOutcome records what happened to one discovered file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result contains the analysis result for this file.
	// Nil if the file errored or was skipped.
	Result *lint.FileResult

	// CacheHit reports that Result was served from the cache without parsing.
	// Cached results carry diagnostics but no parsed document.
	CacheHit bool

	// Skipped reports that no parser handles this file.
	Skipped bool

	// Error is set if the file could not be read or parsed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files successfully analyzed,
	// including cache hits.
	FilesProcessed int

	// FilesSkipped is the number of files no parser handles.
	FilesSkipped int

	// FilesErrored is the number of files that failed to read or parse.
	FilesErrored int

	// CacheHits is the number of files served from the cache.
	CacheHits int

	// FilesWithIssues is the number of files with at least one diagnostic.
	FilesWithIssues int

	// DiagnosticsTotal is the total number of diagnostics across all files.
	DiagnosticsTotal int

	// DiagnosticsFixable is the number of diagnostics that carry fixes.
	DiagnosticsFixable int

	// DiagnosticsBySeverity maps severity levels to counts.
	DiagnosticsBySeverity map[config.Severity]int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each discovered file,
	// ordered deterministically by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// newStats creates a new Stats with initialized maps.
func newStats() Stats {
	return Stats{
		DiagnosticsBySeverity: make(map[config.Severity]int),
	}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
		return
	case outcome.Skipped:
		r.Stats.FilesSkipped++
		return
	case outcome.Result == nil:
		return
	}

	r.Stats.FilesProcessed++
	if outcome.CacheHit {
		r.Stats.CacheHits++
	}

	count := len(outcome.Result.Diagnostics)
	r.Stats.DiagnosticsTotal += count
	r.Stats.DiagnosticsFixable += outcome.Result.FixableCount()
	if count > 0 {
		r.Stats.FilesWithIssues++
	}

	for _, diag := range outcome.Result.Diagnostics {
		r.Stats.DiagnosticsBySeverity[diag.Severity]++
	}
}

// FilterDiagnostics applies fn to each analyzed file's diagnostics and
// recomputes aggregate statistics. Used for baseline suppression, where
// previously recorded findings are dropped after analysis.
func (r *Result) FilterDiagnostics(fn func([]lint.Diagnostic) []lint.Diagnostic) {
	if r == nil || fn == nil {
		return
	}

	rebuilt := Result{Stats: newStats()}
	rebuilt.Stats.FilesDiscovered = r.Stats.FilesDiscovered

	for _, outcome := range r.Files {
		if outcome.Result != nil {
			outcome.Result.Diagnostics = fn(outcome.Result.Diagnostics)
		}
		rebuilt.accumulate(outcome)
	}

	*r = rebuilt
}

// MergeDiagnostics attaches additional diagnostics (e.g. from a cross-file
// pass) to their file outcomes by location and recomputes aggregate
// statistics. Diagnostics for files outside the run are dropped.
func (r *Result) MergeDiagnostics(diags []lint.Diagnostic) {
	if r == nil || len(diags) == 0 {
		return
	}

	byFile := make(map[string][]lint.Diagnostic)
	for _, diag := range diags {
		byFile[diag.Location.File] = append(byFile[diag.Location.File], diag)
	}

	rebuilt := Result{Stats: newStats()}
	rebuilt.Stats.FilesDiscovered = r.Stats.FilesDiscovered

	for _, outcome := range r.Files {
		if extra, ok := byFile[outcome.Path]; ok && outcome.Result != nil {
			outcome.Result.Diagnostics = append(outcome.Result.Diagnostics, extra...)
		}
		rebuilt.accumulate(outcome)
	}

	*r = rebuilt
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsTotal > 0
}

// Collect flattens per-file outcomes into a single AnalysisResult,
// preserving the deterministic file order.
func (r *Result) Collect() *lint.AnalysisResult {
	collected := lint.NewAnalysisResult()
	if r == nil {
		return collected
	}
	for _, outcome := range r.Files {
		if outcome.Result == nil {
			continue
		}
		collected.AddFile(outcome.Path)
		collected.Add(outcome.Result.Diagnostics...)
	}
	return collected
}

// Documents returns the parsed documents of all freshly analyzed files,
// in file order. Cache hits and errored files contribute nothing, so
// cross-file passes must run with the cache disabled.
func (r *Result) Documents() []*lint.FileResult {
	if r == nil {
		return nil
	}
	var results []*lint.FileResult
	for _, outcome := range r.Files {
		if outcome.Result != nil && outcome.Result.Document != nil {
			results = append(results, outcome.Result)
		}
	}
	return results
}
