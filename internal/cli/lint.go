package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/goxmlint/internal/configloader"
	"github.com/yaklabco/goxmlint/internal/logging"
	"github.com/yaklabco/goxmlint/pkg/baseline"
	"github.com/yaklabco/goxmlint/pkg/cache"
	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/fix"
	"github.com/yaklabco/goxmlint/pkg/lint"
	_ "github.com/yaklabco/goxmlint/pkg/lint/rules" // Register built-in rules
	"github.com/yaklabco/goxmlint/pkg/markup"
	"github.com/yaklabco/goxmlint/pkg/parser/wixml"
	"github.com/yaklabco/goxmlint/pkg/plugin"
	"github.com/yaklabco/goxmlint/pkg/reporter"
	"github.com/yaklabco/goxmlint/pkg/runner"
	"github.com/yaklabco/goxmlint/pkg/xref"
)

// ErrLintIssuesFound is returned when lint issues are found.
var ErrLintIssuesFound = errors.New("lint issues found")

type lintFlags struct {
	format         string
	ignore         []string
	enable         []string
	disable        []string
	fixRules       []string
	pluginDirs     []string
	failOn         string
	baseline       string
	updateBaseline bool
	crossFile      bool
	noCache        bool
	unsafe         bool
	diff           bool
	showFixes      bool
	noContext      bool
	compact        bool
	perFile        bool
	ruleFormat     string
}

func newLintCommand(info BuildInfo) *cobra.Command {
	var cfg config.Config
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint XML and WiX files",
		Long:  lintLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, &cfg, flags, info)
		},
	}

	addLintFlags(cmd, &cfg, flags)

	return cmd
}

const lintLongDescription = `Lint XML and WiX installer sources for correctness and style issues.

By default, lints all .xml, .wxs, .wxi and .wxl files in the current
directory and subdirectories. Specify paths to lint specific files or
directories. Plugin manifests extend the rule set and the handled
extensions.

Examples:
  goxmlint lint                      # Lint current directory
  goxmlint lint installer/           # Lint installer directory
  goxmlint lint Product.wxs          # Lint single file
  goxmlint lint --fix                # Lint and auto-fix safe issues
  goxmlint lint --fix --unsafe       # Apply unsafe fixes too
  goxmlint lint --fix --diff         # Show fixes as unified diffs
  goxmlint lint --format json        # Output as JSON for CI
  goxmlint lint --cross-file         # Validate references across files
  goxmlint lint --fail-on high       # Exit non-zero only for high/blocker`

//nolint:gocyclo // The lint flow is one long, linear sequence of stages.
func runLint(cmd *cobra.Command, args []string, cfg *config.Config, flags *lintFlags, info BuildInfo) error {
	logger := logging.Default()

	// Map string flags to typed config values.
	cfg.Format = config.OutputFormat(flags.format)
	cfg.RuleFormat = config.RuleFormat(flags.ruleFormat)
	cfg.Ignore = flags.ignore
	cfg.EnableRules = flags.enable
	cfg.DisableRules = flags.disable
	cfg.FixRules = flags.fixRules
	cfg.PluginDirs = flags.pluginDirs
	cfg.FailOn = flags.failOn
	cfg.Baseline = flags.baseline
	cfg.UpdateBaseline = flags.updateBaseline
	cfg.CrossFile = flags.crossFile
	cfg.NoCache = flags.noCache
	cfg.UnsafeFixes = flags.unsafe
	cfg.FixMode = fixModeFromFlags(flags)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Get the explicit config path from the root command's persistent flag.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	// Get working directory for config discovery.
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cfg,
	})
	if err != nil {
		return errors.Join(errors.New("failed to load configuration"), err)
	}

	finalCfg := loadResult.Config

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	logger.Debug("configuration loaded",
		logging.FieldFix, finalCfg.Fix,
		logging.FieldDryRun, finalCfg.DryRun,
		logging.FieldJobs, finalCfg.Jobs,
	)

	// Load plugins and register their rules alongside the built-ins.
	registry := lint.DefaultRegistry
	pluginSet, loadErrs := plugin.NewLoader(finalCfg.PluginDirs...).WithLogger(logger).LoadAll()
	for _, loadErr := range loadErrs {
		logger.Warn("plugin skipped", logging.FieldError, loadErr)
	}
	pluginSet.RegisterRules(registry)

	// One engine serves every handled extension: plugins share the XML
	// base parser and contribute rules and embedded-language extractors.
	engine := lint.NewEngine(wixml.New(), registry).
		WithExtractors(pluginSet.Extractors()...)

	extensions := append(runner.DefaultExtensions(), pluginSet.Extensions()...)
	handled := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		handled[ext] = true
	}

	pipeline := runner.NewPipeline(func(path string) *lint.Engine {
		if handled[strings.ToLower(filepath.Ext(path))] {
			return engine
		}
		return nil
	}, finalCfg).WithLogger(logger)

	// The cache trades correctness for speed only within a single file, so
	// a cross-file run disables it: cache hits carry no parsed document.
	var resultCache *cache.Cache
	cachePath := finalCfg.CachePath
	if cachePath == "" {
		cachePath = cache.DefaultPath()
	}
	if !finalCfg.NoCache && !finalCfg.CrossFile {
		resultCache = cache.Load(cachePath, cache.ConfigHash(finalCfg))
		pipeline.WithCache(resultCache)
	}

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   extensions,
		ExcludeGlobs: finalCfg.Ignore,
		Jobs:         finalCfg.Jobs,
		Config:       finalCfg,
	}

	logger.Debug("starting lint run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(pipeline).Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("lint run failed"), err)
	}

	if resultCache != nil {
		if err := resultCache.Save(ctx, cachePath); err != nil {
			logger.Warn("cache save failed", logging.FieldError, err)
		}
	}

	// Second pass: cross-file reference validation over the parsed documents.
	if finalCfg.CrossFile {
		validator := xref.NewValidator()
		if err := validator.Collect(ctx, documentsOf(result)); err != nil {
			return fmt.Errorf("cross-file validation: %w", err)
		}
		result.MergeDiagnostics(validator.Validate())
	}

	if finalCfg.UpdateBaseline {
		return updateBaseline(ctx, result, finalCfg, info, logger)
	}

	if finalCfg.Baseline != "" {
		bl, err := baseline.Load(finalCfg.Baseline)
		if err != nil {
			return fmt.Errorf("load baseline: %w", err)
		}
		result.FilterDiagnostics(bl.Filter)
		logger.Debug("baseline applied",
			logging.FieldBaseline, finalCfg.Baseline,
			"suppressed_known", bl.Len(),
		)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	reporterOpts := reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		GroupByFile: true,
		Compact:     flags.compact,
		PerFile:     flags.perFile,
		RuleFormat:  finalCfg.RuleFormat,
		WorkingDir:  workDir,
	}

	rep, err := reporter.New(reporterOpts)
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	if finalCfg.Fix {
		if err := runFixes(ctx, cmd, result, finalCfg, reporterOpts); err != nil {
			return err
		}
	}

	if ExitCodeFromResult(result, finalCfg.FailThreshold()) != ExitSuccess {
		return ErrLintIssuesFound
	}

	return nil
}

// fixModeFromFlags derives the fix mode from display-mode flags.
func fixModeFromFlags(flags *lintFlags) config.FixMode {
	switch {
	case flags.diff:
		return config.FixModeDiff
	case flags.showFixes:
		return config.FixModeShowOnly
	case flags.unsafe:
		return config.FixModeAll
	default:
		return config.FixModeSafeOnly
	}
}

// fixerMode maps the config-level fix mode onto the fixer's policy type.
func fixerMode(mode config.FixMode) fix.Mode {
	switch mode {
	case config.FixModeAll:
		return fix.ModeAll
	case config.FixModeDiff:
		return fix.ModeDiff
	case config.FixModeShowOnly:
		return fix.ModeShowOnly
	default:
		return fix.ModeSafeOnly
	}
}

// runFixes applies collected fixes according to the configured policy and
// prints the outcome.
func runFixes(
	ctx context.Context,
	cmd *cobra.Command,
	result *runner.Result,
	cfg *config.Config,
	reporterOpts reporter.Options,
) error {
	logger := logging.Default()

	fixer := fix.NewFixer(cfg.DryRun).
		WithMode(fixerMode(cfg.FixMode)).
		WithUnsafe(cfg.UnsafeFixes).
		WithBackups(cfg.Backups.Enabled && !cfg.NoBackups).
		WithLogger(logger)

	fixer.Collect(fixableDiagnostics(result, cfg.FixRules))

	if fixer.FixCount() == 0 {
		return nil
	}

	if cfg.FixMode == config.FixModeShowOnly {
		return showPendingFixes(cmd, fixer.PendingFixes())
	}

	fixResult := fixer.ApplyAll(ctx)
	for _, err := range fixResult.Errors {
		logger.Error("fix failed", logging.FieldError, err)
	}

	if cfg.FixMode == config.FixModeDiff {
		renderer := reporter.NewDiffRenderer(reporterOpts)
		if _, err := renderer.Render(&fixResult); err != nil {
			return fmt.Errorf("render diffs: %w", err)
		}
		return nil
	}

	verb := "applied"
	if cfg.DryRun {
		verb = "would apply"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s %d fix(es) in %d file(s)",
		verb, fixResult.FixesApplied, fixResult.FilesModified)
	if fixResult.Skipped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), ", %d unsafe skipped (use --unsafe)", fixResult.Skipped)
	}
	fmt.Fprintln(cmd.OutOrStdout())

	logger.Debug("fix run complete",
		logging.FieldFilesModified, fixResult.FilesModified,
		logging.FieldFix, fixResult.FixesApplied,
		logging.FieldDryRun, cfg.DryRun,
	)

	return nil
}

// fixableDiagnostics collects the fix-carrying diagnostics of a run,
// optionally limited to a set of rule IDs.
func fixableDiagnostics(result *runner.Result, ruleIDs []string) []lint.Diagnostic {
	allowed := make(map[string]bool, len(ruleIDs))
	for _, id := range ruleIDs {
		allowed[id] = true
	}

	var fixable []lint.Diagnostic
	for _, outcome := range result.Files {
		if outcome.Result == nil {
			continue
		}
		for _, diag := range outcome.Result.Diagnostics {
			if diag.Fix == nil {
				continue
			}
			if len(allowed) > 0 && !allowed[diag.RuleID] {
				continue
			}
			fixable = append(fixable, diag)
		}
	}
	return fixable
}

// showPendingFixes lists what the current policy would change, one line
// per fix.
func showPendingFixes(cmd *cobra.Command, pending []fix.PendingFix) error {
	out := cmd.OutOrStdout()
	for _, p := range pending {
		safety := ""
		if !p.Safe {
			safety = "  [unsafe]"
		}
		if _, err := fmt.Fprintf(out, "%s:%d  %s  %s%s\n",
			p.File, p.Line, p.RuleID, p.Description, safety); err != nil {
			return fmt.Errorf("write pending fix: %w", err)
		}
	}
	_, err := fmt.Fprintf(out, "\n%d fix(es) available\n", len(pending))
	if err != nil {
		return fmt.Errorf("write pending fixes: %w", err)
	}
	return nil
}

// updateBaseline records every current diagnostic into the baseline file.
func updateBaseline(
	ctx context.Context,
	result *runner.Result,
	cfg *config.Config,
	info BuildInfo,
	logger *log.Logger,
) error {
	path := cfg.Baseline
	if path == "" {
		path = baseline.DefaultPath
	}

	bl := baseline.New(info.Version)
	collected := result.Collect()
	bl.Add(collected.Diagnostics)

	if err := bl.Save(ctx, path); err != nil {
		return fmt.Errorf("save baseline: %w", err)
	}

	logger.Info("baseline updated",
		logging.FieldBaseline, path,
		logging.FieldDiagnosticsTotal, bl.Len(),
	)
	return nil
}

// documentsOf extracts the parsed documents of a run for the cross-file pass.
func documentsOf(result *runner.Result) []*markup.Document {
	fileResults := result.Documents()
	docs := make([]*markup.Document, 0, len(fileResults))
	for _, fr := range fileResults {
		docs = append(docs, fr.Document)
	}
	return docs
}

func addLintFlags(cmd *cobra.Command, cfg *config.Config, flags *lintFlags) {
	cmd.Flags().BoolVar(&cfg.Fix, "fix", false, "automatically fix issues")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show fixes without applying them")
	cmd.Flags().BoolVar(&flags.unsafe, "unsafe", false, "apply fixes flagged unsafe as well")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "render fixes as unified diffs instead of writing")
	cmd.Flags().BoolVar(&flags.showFixes, "show-fixes", false, "list available fixes without applying them")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json, sarif, summary")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rule IDs to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rule IDs to disable")
	cmd.Flags().StringSliceVar(&flags.fixRules, "fix-rules", nil, "limit auto-fix to specific rule IDs")
	cmd.Flags().StringSliceVar(&flags.pluginDirs, "plugin-dir", nil, "directories to search for plugin manifests")
	cmd.Flags().StringVar(&flags.failOn, "fail-on", "",
		"minimum severity for a non-zero exit: info, low, medium, high, blocker")
	cmd.Flags().StringVar(&flags.baseline, "baseline", "", "baseline file of known findings to suppress")
	cmd.Flags().BoolVar(&flags.updateBaseline, "update-baseline", false,
		"record current findings into the baseline file and exit")
	cmd.Flags().BoolVar(&flags.crossFile, "cross-file", false,
		"validate references across all linted files (disables the cache)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the analysis result cache")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when fixing")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.perFile, "per-file", false, "output separate report for each file (table format)")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "id",
		"rule identifier format in output: name, id, or combined")
}
