// Package config defines core configuration types for goxmlint.
// These types are pure data structures with no dependencies on config loaders.
package config

// Severity represents the severity level of a diagnostic.
// Severities are totally ordered: info < low < medium < high < blocker.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityLow     Severity = "low"
	SeverityMedium  Severity = "medium"
	SeverityHigh    Severity = "high"
	SeverityBlocker Severity = "blocker"
)

// severityRanks maps severities to their position in the ordering.
//
//nolint:gochecknoglobals // Lookup table for severity ordering.
var severityRanks = map[Severity]int{
	SeverityInfo:    0,
	SeverityLow:     1,
	SeverityMedium:  2,
	SeverityHigh:    3,
	SeverityBlocker: 4,
}

// Rank returns the position of the severity in the ordering.
// Unknown severities rank below info.
func (s Severity) Rank() int {
	if r, ok := severityRanks[s]; ok {
		return r
	}
	return -1
}

// AtLeast reports whether s is at or above the threshold severity.
func (s Severity) AtLeast(threshold Severity) bool {
	return s.Rank() >= threshold.Rank()
}

// IsValid reports whether the severity is one of the known levels.
func (s Severity) IsValid() bool {
	_, ok := severityRanks[s]
	return ok
}

// ParseSeverity converts a string to a Severity.
// It accepts the legacy aliases "warning" (medium) and "error"/"critical"
// (blocker) found in older rule files.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(s) {
	case SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityBlocker:
		return Severity(s), true
	}
	switch s {
	case "warning":
		return SeverityMedium, true
	case "error", "critical":
		return SeverityBlocker, true
	}
	return "", false
}

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled  *bool          `mapstructure:"enabled" yaml:"enabled"`
	Severity *string        `mapstructure:"severity" yaml:"severity"`
	AutoFix  *bool          `mapstructure:"auto_fix" yaml:"auto_fix"`
	Options  map[string]any `mapstructure:"options" yaml:"options"`
}

// BackupsConfig controls backup behavior when fixing files.
type BackupsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode"` // "sidecar", "xdg", etc.
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatSummary OutputFormat = "summary"
)

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "component-missing-guid"
	RuleFormatID       RuleFormat = "id"       // "VAL-ATTR-001"
	RuleFormatCombined RuleFormat = "combined" // "VAL-ATTR-001/component-missing-guid"
)

// FixMode controls which fixes the fixer is allowed to apply.
type FixMode string

const (
	// FixModeSafeOnly applies only fixes marked safe.
	FixModeSafeOnly FixMode = "safe"
	// FixModeAll applies safe and unsafe fixes.
	FixModeAll FixMode = "all"
	// FixModeDiff collects fixes and renders diffs without writing.
	FixModeDiff FixMode = "diff"
	// FixModeShowOnly counts and describes fixes without applying them.
	FixModeShowOnly FixMode = "show"
)

// Config is the root configuration structure for goxmlint.
type Config struct {
	// SeverityDefault is the default severity for rules that don't specify one.
	SeverityDefault string `mapstructure:"severity_default" yaml:"severity_default"`

	// PluginDirs lists directories searched for plugin manifests.
	PluginDirs []string `mapstructure:"plugin_dirs" yaml:"plugin_dirs"`

	// Rules contains per-rule configuration keyed by rule ID.
	Rules map[string]RuleConfig `mapstructure:"rules" yaml:"rules"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// Backups configures backup behavior when fixing.
	Backups BackupsConfig `mapstructure:"backups" yaml:"backups"`

	// Baseline is the path to a baseline file of suppressed fingerprints.
	Baseline string `mapstructure:"baseline" yaml:"baseline"`

	// CachePath overrides the default analysis cache location.
	CachePath string `mapstructure:"cache_path" yaml:"cache_path"`

	// CrossFile enables two-pass cross-file reference validation.
	CrossFile bool `mapstructure:"cross_file" yaml:"cross_file"`

	// FailOn is the minimum severity that causes a non-zero exit.
	FailOn string `mapstructure:"fail_on" yaml:"fail_on"`

	// CLI-level options (not persisted to config files).

	// Fix enables auto-fixing of issues.
	Fix bool `mapstructure:"-" yaml:"-"`

	// FixMode selects the fixer policy.
	FixMode FixMode `mapstructure:"-" yaml:"-"`

	// DryRun shows what would be fixed without making changes.
	DryRun bool `mapstructure:"-" yaml:"-"`

	// UnsafeFixes allows fixes flagged unsafe to be applied.
	UnsafeFixes bool `mapstructure:"-" yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `mapstructure:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers (0 = auto).
	Jobs int `mapstructure:"-" yaml:"-"`

	// EnableRules contains rule IDs to explicitly enable.
	EnableRules []string `mapstructure:"-" yaml:"-"`

	// DisableRules contains rule IDs to explicitly disable.
	DisableRules []string `mapstructure:"-" yaml:"-"`

	// FixRules limits auto-fixing to specific rule IDs.
	FixRules []string `mapstructure:"-" yaml:"-"`

	// UpdateBaseline records current diagnostics into the baseline file.
	UpdateBaseline bool `mapstructure:"-" yaml:"-"`

	// NoCache disables the analysis cache for this run.
	NoCache bool `mapstructure:"-" yaml:"-"`

	// NoBackups disables backup creation when fixing.
	NoBackups bool `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		SeverityDefault: string(SeverityMedium),
		Rules:           make(map[string]RuleConfig),
		Ignore:          nil,
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		FailOn:     string(SeverityInfo),
		Format:     FormatText,
		RuleFormat: RuleFormatID,
		FixMode:    FixModeSafeOnly,
		Jobs:       0, // 0 means use GOMAXPROCS
	}
}

// FailThreshold returns the configured fail-on severity, defaulting to info.
func (c *Config) FailThreshold() Severity {
	if c == nil {
		return SeverityInfo
	}
	if sev, ok := ParseSeverity(c.FailOn); ok {
		return sev
	}
	return SeverityInfo
}
