package cli

import (
	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/runner"
)

// Exit codes for goxmlint.
const (
	// ExitSuccess indicates successful execution with no issues at or
	// above the fail threshold.
	ExitSuccess = 0

	// ExitIssuesFound indicates lint completed and found issues at or
	// above the fail threshold.
	ExitIssuesFound = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code from the run result and the
// configured fail threshold. Files that could not be read or parsed fail
// the run regardless of threshold.
func ExitCodeFromResult(result *runner.Result, threshold config.Severity) int {
	if result == nil {
		return ExitSuccess
	}

	if result.Stats.FilesErrored > 0 {
		return ExitIssuesFound
	}

	for severity, count := range result.Stats.DiagnosticsBySeverity {
		if count > 0 && severity.AtLeast(threshold) {
			return ExitIssuesFound
		}
	}

	return ExitSuccess
}
