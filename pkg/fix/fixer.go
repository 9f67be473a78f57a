package fix

import (
	"context"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/goxmlint/internal/logging"
	"github.com/yaklabco/goxmlint/pkg/fsutil"
	"github.com/yaklabco/goxmlint/pkg/lint"
)

// Mode selects the fixer's application policy.
type Mode string

const (
	// ModeSafeOnly applies only safe fixes. The default.
	ModeSafeOnly Mode = "safe-only"

	// ModeAll applies every fix, unsafe included.
	ModeAll Mode = "all"

	// ModeDiff renders unified diffs instead of writing files.
	ModeDiff Mode = "diff"

	// ModeShowOnly lists the fixes without touching any file.
	ModeShowOnly Mode = "show-only"
)

// Result aggregates a fix run across all files.
type Result struct {
	FilesModified int
	FixesApplied  int
	SafeApplied   int
	UnsafeApplied int

	// Failed counts fixes lost to file-level errors.
	Failed int

	// Skipped counts fixes withheld by the safety policy.
	Skipped int

	Errors []error

	// Diffs holds per-file unified diffs in diff mode.
	Diffs map[string]string
}

// PendingFix is one fix the current policy would apply, for display.
type PendingFix struct {
	File        string
	Line        int
	RuleID      string
	Description string
	Safe        bool
}

// Fixer applies collected fixes to files under a safety policy. Unsafe
// fixes are skipped unless explicitly opted in; dry-run leaves the
// filesystem untouched while still reporting what would change.
type Fixer struct {
	engine        *Engine
	mode          Mode
	dryRun        bool
	includeUnsafe bool
	backup        fsutil.BackupConfig
	logger        *log.Logger
}

// NewFixer creates a safe-only fixer. With dryRun set, files are never
// written.
func NewFixer(dryRun bool) *Fixer {
	return &Fixer{
		engine: NewEngine(),
		mode:   ModeSafeOnly,
		dryRun: dryRun,
		backup: fsutil.DefaultBackupConfig(),
		logger: logging.Default(),
	}
}

// WithMode sets the application mode.
func (f *Fixer) WithMode(mode Mode) *Fixer {
	f.mode = mode
	return f
}

// WithUnsafe opts into unsafe fixes. Opting in switches to ModeAll unless
// a display mode is active.
func (f *Fixer) WithUnsafe(include bool) *Fixer {
	f.includeUnsafe = include
	if include && f.mode == ModeSafeOnly {
		f.mode = ModeAll
	}
	return f
}

// WithBackups enables sidecar backups before each write.
func (f *Fixer) WithBackups(enabled bool) *Fixer {
	f.backup.Enabled = enabled
	return f
}

// WithLogger replaces the fixer's logger.
func (f *Fixer) WithLogger(logger *log.Logger) *Fixer {
	f.logger = logger
	return f
}

// Collect records fix-carrying diagnostics for a later ApplyAll.
func (f *Fixer) Collect(diagnostics []lint.Diagnostic) {
	f.engine.Collect(diagnostics)
}

// FixCount returns the number of collected fixes, policy aside.
func (f *Fixer) FixCount() int {
	return f.engine.FixCount()
}

func (f *Fixer) shouldApply(d lint.Diagnostic) bool {
	switch f.mode {
	case ModeAll:
		return true
	case ModeSafeOnly:
		return d.Fix.Safe
	default: // diff and show-only honor the unsafe opt-in
		return f.includeUnsafe || d.Fix.Safe
	}
}

// PendingFixes returns the fixes the current policy would apply, sorted by
// file then line.
func (f *Fixer) PendingFixes() []PendingFix {
	var pending []PendingFix
	for _, file := range f.engine.Files() {
		for _, d := range f.engine.fixes[file] {
			if !f.shouldApply(d) {
				continue
			}
			pending = append(pending, PendingFix{
				File:        file,
				Line:        d.Location.Range.StartLine,
				RuleID:      d.RuleID,
				Description: d.Fix.Description,
				Safe:        d.Fix.Safe,
			})
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].File != pending[j].File {
			return pending[i].File < pending[j].File
		}
		return pending[i].Line < pending[j].Line
	})
	return pending
}

// ApplyAll runs the policy over every collected file. File-level errors are
// recorded and do not stop the remaining files.
func (f *Fixer) ApplyAll(ctx context.Context) Result {
	result := Result{Diffs: make(map[string]string)}

	for _, file := range f.engine.Files() {
		all := f.engine.fixes[file]
		applicable := make([]lint.Diagnostic, 0, len(all))
		for _, d := range all {
			if f.shouldApply(d) {
				applicable = append(applicable, d)
			}
		}
		result.Skipped += len(all) - len(applicable)
		if len(applicable) == 0 {
			continue
		}

		if f.mode == ModeShowOnly {
			for _, d := range applicable {
				countApplied(&result, d)
			}
			continue
		}

		f.applyFile(ctx, file, applicable, &result)
	}

	return result
}

func (f *Fixer) applyFile(ctx context.Context, file string, fixes []lint.Diagnostic, result *Result) {
	content, info, err := fsutil.ReadFile(ctx, file)
	if err != nil {
		result.Failed += len(fixes)
		result.Errors = append(result.Errors, &FixError{Path: file, Err: err})
		return
	}

	sub := NewEngine()
	sub.Collect(fixes)
	applied := sub.Apply(file, string(content))
	if applied.FixesApplied == 0 {
		return
	}

	if f.mode == ModeDiff {
		if diff := GenerateDiff(file, content, []byte(applied.NewContent)); diff != nil {
			result.Diffs[file] = diff.FullString()
		}
	} else if !f.dryRun {
		if _, err := fsutil.CreateBackup(ctx, file, f.backup); err != nil {
			result.Failed += len(fixes)
			result.Errors = append(result.Errors, &FixError{Path: file, Err: err})
			return
		}
		if err := fsutil.WriteAtomic(ctx, file, []byte(applied.NewContent), info.Mode); err != nil {
			result.Failed += len(fixes)
			result.Errors = append(result.Errors, &FixError{Path: file, Err: err})
			return
		}
	}

	result.FilesModified++
	for _, d := range applied.Applied {
		countApplied(result, d)
	}
	f.logger.Debug("applied fixes",
		logging.FieldPath, file,
		logging.FieldFixesApplied, applied.FixesApplied)
}

func countApplied(result *Result, d lint.Diagnostic) {
	result.FixesApplied++
	if d.Fix.Safe {
		result.SafeApplied++
	} else {
		result.UnsafeApplied++
	}
}
