// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldFix      = "fix"
	FieldDryRun   = "dry_run"
	FieldJobs     = "jobs"
	FieldBaseline = "baseline"
	FieldCache    = "cache"

	// Plugin fields.
	FieldPlugin     = "plugin"
	FieldManifest   = "manifest"
	FieldExtension  = "extension"
	FieldRuleCount  = "rule_count"
	FieldLoadErrors = "load_errors"

	// Statistics fields.
	FieldFilesAnalyzed    = "files_analyzed"
	FieldFilesWithIssues  = "files_with_issues"
	FieldFilesModified    = "files_modified"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldFixesApplied     = "fixes_applied"
	FieldCacheHits        = "cache_hits"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Rule fields.
	FieldRule        = "rule"
	FieldName        = "name"
	FieldSeverity    = "severity"
	FieldFixable     = "fixable"
	FieldDescription = "description"

	// Cross-file fields.
	FieldSymbol      = "symbol"
	FieldDefinitions = "definitions"
	FieldReferences  = "references"
)
