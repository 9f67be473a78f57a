// Package plugin loads language-plugin manifests and compiles their
// declarative rules into the forms the lint engine evaluates.
//
// A manifest describes one plugin: the file extensions it owns, the base
// parser it builds on, optional embedded-language extractors, and a set of
// rules whose conditions are written in a small string expression language
// compiled at load time. Manifests are YAML or JSON; additional rules may
// live in referenced rule files resolved relative to the manifest.
package plugin

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultVersion    = "1.0.0"
	defaultBaseParser = "xml"
)

// Manifest is the on-disk plugin definition.
type Manifest struct {
	Plugin Metadata `yaml:"plugin" json:"plugin"`

	// Rules are the inline rule definitions.
	Rules []RuleDefinition `yaml:"rules" json:"rules"`

	// RuleFiles reference external rule files, resolved relative to the
	// manifest's directory.
	RuleFiles []string `yaml:"rule_files" json:"rule_files"`
}

// Metadata identifies the plugin and what it handles.
type Metadata struct {
	ID          string `yaml:"id" json:"id"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description" json:"description"`

	// Extensions are the file extensions the plugin owns, with or
	// without the leading dot.
	Extensions []string `yaml:"extensions" json:"extensions"`

	// BaseParser names the parser the plugin builds on. Defaults to
	// "xml", the only parser this build provides.
	BaseParser string `yaml:"base_parser" json:"base_parser"`

	// Namespaces and RootElements are auto-detection hints.
	Namespaces   []string `yaml:"namespaces" json:"namespaces"`
	RootElements []string `yaml:"root_elements" json:"root_elements"`

	// EmbeddedLanguages configure snippet extraction for rules that
	// target embedded code rather than the host markup.
	EmbeddedLanguages []EmbeddedLanguage `yaml:"embedded_languages" json:"embedded_languages"`
}

// EmbeddedLanguage configures one embedded-language extractor.
type EmbeddedLanguage struct {
	// Extractor names the extractor, for logs and diagnostics.
	Extractor string `yaml:"extractor" json:"extractor"`

	// Language is the context name embedded rules filter on. The value
	// "auto" defers to content-based detection per region.
	Language string `yaml:"language" json:"language"`

	// Patterns are regexes applied to the document source in order. A
	// pattern's first capture group is the snippet; without groups the
	// whole match is.
	Patterns []string `yaml:"patterns" json:"patterns"`

	// SourcePath optionally restricts extraction to matching files.
	SourcePath string `yaml:"source_path" json:"source_path"`
}

// RuleDefinition is one declarative rule as written in a manifest or
// rule file.
type RuleDefinition struct {
	ID          string `yaml:"id" json:"id"`
	Condition   string `yaml:"condition" json:"condition"`
	Message     string `yaml:"message" json:"message"`
	Severity    string `yaml:"severity" json:"severity"`
	Description string `yaml:"description" json:"description"`
	Category    string `yaml:"category" json:"category"`

	Target *TargetDefinition `yaml:"target" json:"target"`

	Tags []string       `yaml:"tags" json:"tags"`
	Fix  *FixDefinition `yaml:"fix" json:"fix"`

	// Enabled defaults to true when omitted.
	Enabled *bool `yaml:"enabled" json:"enabled"`

	// Context restricts evaluation contexts: empty means the main
	// document, "*" means everywhere, otherwise named embedded contexts.
	Context []string `yaml:"context" json:"context"`

	EffortMinutes int    `yaml:"effort_minutes" json:"effort_minutes"`
	Help          string `yaml:"help" json:"help"`
	DocURL        string `yaml:"doc_url" json:"doc_url"`

	Deprecated      bool   `yaml:"deprecated" json:"deprecated"`
	DeprecatedBy    string `yaml:"deprecated_by" json:"deprecated_by"`
	DeprecatedSince string `yaml:"deprecated_since" json:"deprecated_since"`
}

// TargetDefinition narrows which nodes a rule applies to.
type TargetDefinition struct {
	// Kind is the node kind, normally "element".
	Kind string `yaml:"kind" json:"kind"`

	// Name is the element tag; empty or "*" means any element.
	Name string `yaml:"name" json:"name"`

	// Parent additionally requires the named parent element.
	Parent string `yaml:"parent" json:"parent"`
}

// FixDefinition is a manifest rule's fix template.
type FixDefinition struct {
	Description string `yaml:"description" json:"description"`

	// Action selects the edit: add_attribute, replace_attribute,
	// remove_attribute, remove_element, or replace_text (the default).
	Action string `yaml:"action" json:"action"`

	// Attribute names the attribute for attribute actions.
	Attribute string `yaml:"attribute" json:"attribute"`

	// Value is the replacement text or attribute value.
	Value string `yaml:"value" json:"value"`

	// Unsafe marks the fix as potentially behavior-changing.
	Unsafe bool `yaml:"unsafe" json:"unsafe"`
}

// ruleFile is the schema of an external rule file: a bare rule list.
type ruleFile struct {
	Rules []RuleDefinition `yaml:"rules" json:"rules"`
}

// parseManifest decodes a manifest from YAML or JSON, chosen by the file
// extension, and applies field defaults.
func parseManifest(path string, data []byte) (*Manifest, *LoadError) {
	var manifest Manifest
	if err := unmarshal(path, data, &manifest); err != nil {
		return nil, parseError(path, err)
	}

	if manifest.Plugin.ID == "" {
		return nil, invalidError(path, "manifest is missing plugin.id")
	}
	if manifest.Plugin.Version == "" {
		manifest.Plugin.Version = defaultVersion
	}
	if manifest.Plugin.BaseParser == "" {
		manifest.Plugin.BaseParser = defaultBaseParser
	}

	return &manifest, nil
}

// parseRuleFile decodes an external rule file (YAML or JSON).
func parseRuleFile(path string, data []byte) ([]RuleDefinition, *LoadError) {
	var file ruleFile
	if err := unmarshal(path, data, &file); err != nil {
		return nil, parseError(path, err)
	}
	return file.Rules, nil
}

func unmarshal(path string, data []byte, v any) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}
