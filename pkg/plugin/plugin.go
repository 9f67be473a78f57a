package plugin

import (
	"path/filepath"
	"strings"

	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/lint"
)

// Plugin is one loaded, compiled plugin: its identity, the extensions it
// owns, its rules ready for registration, and any embedded-language
// extractors.
type Plugin struct {
	ID          string
	Version     string
	Description string

	// Extensions are normalized to lowercase with a leading dot.
	Extensions []string

	BaseParser   string
	Namespaces   []string
	RootElements []string

	// Path is the manifest the plugin was loaded from.
	Path string

	Rules      []*lint.Rule
	Extractors []lint.Extractor
}

// CanHandle reports whether the plugin owns the file's extension.
func (p *Plugin) CanHandle(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range p.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// newPlugin compiles a manifest (inline rules plus any rule-file rules
// already resolved by the loader) into a Plugin. The first compile error
// fails the whole plugin; partial plugins would register an unpredictable
// subset of their rules.
func newPlugin(manifest *Manifest, manifestPath string, definitions []RuleDefinition) (*Plugin, *LoadError) {
	if manifest.Plugin.BaseParser != defaultBaseParser {
		return nil, unsupportedParserError(manifestPath, manifest.Plugin.BaseParser)
	}

	p := &Plugin{
		ID:           manifest.Plugin.ID,
		Version:      manifest.Plugin.Version,
		Description:  manifest.Plugin.Description,
		Extensions:   normalizeExtensions(manifest.Plugin.Extensions),
		BaseParser:   manifest.Plugin.BaseParser,
		Namespaces:   manifest.Plugin.Namespaces,
		RootElements: manifest.Plugin.RootElements,
		Path:         manifestPath,
	}

	for _, def := range definitions {
		rule, loadErr := buildRule(def, p.ID, manifestPath)
		if loadErr != nil {
			return nil, loadErr
		}
		p.Rules = append(p.Rules, rule)
	}

	for _, embedded := range manifest.Plugin.EmbeddedLanguages {
		extractor, loadErr := newRegionExtractor(embedded, manifestPath)
		if loadErr != nil {
			return nil, loadErr
		}
		p.Extractors = append(p.Extractors, extractor)
	}

	return p, nil
}

func normalizeExtensions(extensions []string) []string {
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	return normalized
}

// buildRule compiles one rule definition.
func buildRule(def RuleDefinition, pluginID, manifestPath string) (*lint.Rule, *LoadError) {
	if def.ID == "" {
		return nil, invalidError(manifestPath, "rule is missing an id")
	}

	condition := lint.Always()
	if def.Condition != "" {
		compiled, err := CompileCondition(def.Condition)
		if err != nil {
			return nil, invalidError(manifestPath, "rule %s: %v", def.ID, err)
		}
		condition = compiled
	}

	severity := config.SeverityMedium
	if def.Severity != "" {
		parsed, ok := config.ParseSeverity(def.Severity)
		if !ok {
			return nil, invalidError(manifestPath, "rule %s: unknown severity %q", def.ID, def.Severity)
		}
		severity = parsed
	}

	category := lint.CategoryBestPractice
	if def.Category != "" {
		parsed, ok := parseCategory(def.Category)
		if !ok {
			return nil, invalidError(manifestPath, "rule %s: unknown category %q", def.ID, def.Category)
		}
		category = parsed
	}

	rule := lint.NewRule(def.ID, strings.ToLower(def.ID)).
		WithDescription(def.Description).
		WithSeverity(severity).
		WithCategory(category).
		WithMessage(def.Message).
		WithHelp(def.Help).
		WithPlugin(pluginID)

	if rule.Message == "" {
		rule.Message = def.Description
	}

	if def.Target != nil {
		if def.Target.Kind != "" && def.Target.Kind != "element" {
			return nil, invalidError(manifestPath, "rule %s: unsupported target kind %q", def.ID, def.Target.Kind)
		}
		if def.Target.Name != "" && def.Target.Name != "*" {
			rule.WithTarget(def.Target.Name)
		}
		if def.Target.Parent != "" {
			condition = lint.All(condition, lint.Not(lint.ParentNotIn(def.Target.Parent)))
		}
	}
	rule.WithCondition(condition)

	if len(def.Tags) > 0 {
		rule.WithTags(def.Tags...)
	}
	if len(def.Context) > 0 {
		rule.WithContexts(def.Context...)
	}
	if def.EffortMinutes > 0 {
		rule.WithEffort(def.EffortMinutes)
	}
	if def.DocURL != "" {
		rule.DocURL = def.DocURL
	}
	if def.Enabled != nil {
		rule.Enabled = *def.Enabled
	}

	rule.Deprecated = def.Deprecated
	rule.DeprecatedBy = def.DeprecatedBy
	rule.DeprecatedSince = def.DeprecatedSince

	if def.Fix != nil {
		fix, loadErr := buildFix(def, manifestPath)
		if loadErr != nil {
			return nil, loadErr
		}
		rule.WithFix(fix)
	}

	return rule, nil
}

func buildFix(def RuleDefinition, manifestPath string) (lint.FixTemplate, *LoadError) {
	fix := lint.FixTemplate{
		Description: def.Fix.Description,
		Unsafe:      def.Fix.Unsafe,
	}

	action := def.Fix.Action
	if action == "" {
		action = "replace_text"
	}

	switch action {
	case "replace_text":
		fix.Kind = lint.FixReplaceText
		fix.Value = def.Fix.Value
	case "remove_element":
		fix.Kind = lint.FixRemoveElement
	case "add_attribute", "replace_attribute", "remove_attribute":
		if def.Fix.Attribute == "" {
			return lint.FixTemplate{}, invalidError(manifestPath,
				"rule %s: fix action %q requires an attribute", def.ID, action)
		}
		fix.Kind = lint.FixActionKind(action)
		fix.Name = def.Fix.Attribute
		fix.Value = def.Fix.Value
	default:
		return lint.FixTemplate{}, invalidError(manifestPath,
			"rule %s: unknown fix action %q", def.ID, action)
	}

	return fix, nil
}

func parseCategory(s string) (lint.Category, bool) {
	switch lint.Category(s) {
	case lint.CategoryBestPractice, lint.CategorySecurity, lint.CategoryPerformance,
		lint.CategoryMaintainability, lint.CategoryValidation, lint.CategoryDeadCode:
		return lint.Category(s), true
	}
	return "", false
}
