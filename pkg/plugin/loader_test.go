package plugin_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/lint"
	"github.com/yaklabco/goxmlint/pkg/plugin"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const extrasManifest = `plugin:
  id: wix-extras
  description: Additional WiX checks
  extensions: [wxs, .wxi]
  embedded_languages:
    - extractor: custom-action-scripts
      language: auto
      patterns:
        - '<Script>([^<]*)</Script>'
rules:
  - id: EXTRA-001
    condition: 'Guid == "PUT-GUID-HERE"'
    message: 'Placeholder GUID on {element}'
    severity: high
    category: validation
    target:
      kind: element
      name: Component
    tags: [wix]
    fix:
      description: Use an auto-generated GUID
      action: replace_attribute
      attribute: Guid
      value: '*'
  - id: EXTRA-002
    condition: 'text matches "rm\s+-rf"'
    message: Destructive shell command in custom action
    severity: warning
    context: ['*']
rule_files:
  - extra-rules.yaml
`

const extrasRuleFile = `rules:
  - id: EXTRA-003
    condition: missing Description
    message: Package should describe itself
    target:
      name: Package
`

const registryManifestJSON = `{
  "plugin": {
    "id": "registry-plugin",
    "version": "2.0.0",
    "extensions": [".reg"]
  },
  "rules": [
    {
      "id": "REG-001",
      "condition": "exists Root",
      "message": "Registry root set explicitly",
      "severity": "low"
    }
  ]
}
`

func TestLoaderLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "wix-extras.yaml", extrasManifest)
	writeFile(t, dir, "extra-rules.yaml", extrasRuleFile)
	writeFile(t, dir, "registry/plugin.json", registryManifestJSON)
	writeFile(t, dir, "notes.txt", "not a manifest")

	set, errs := plugin.NewLoader(dir).LoadAll()
	require.Empty(t, errs)
	require.Equal(t, 2, set.Len())

	extras, ok := set.Plugin("wix-extras")
	require.True(t, ok)
	assert.Equal(t, "1.0.0", extras.Version)
	assert.Equal(t, "xml", extras.BaseParser)
	assert.Equal(t, []string{".wxs", ".wxi"}, extras.Extensions)
	require.Len(t, extras.Rules, 3)
	require.Len(t, extras.Extractors, 1)

	registry, ok := set.Plugin("registry-plugin")
	require.True(t, ok)
	assert.Equal(t, "2.0.0", registry.Version)
	require.Len(t, registry.Rules, 1)
}

func TestLoaderCompilesRuleDefinitions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "wix-extras.yaml", extrasManifest)
	writeFile(t, dir, "extra-rules.yaml", extrasRuleFile)

	set, errs := plugin.NewLoader(dir).LoadAll()
	require.Empty(t, errs)

	extras, ok := set.Plugin("wix-extras")
	require.True(t, ok)

	byID := make(map[string]*lint.Rule)
	for _, r := range extras.Rules {
		byID[r.ID] = r
	}

	placeholder := byID["EXTRA-001"]
	require.NotNil(t, placeholder)
	assert.Equal(t, config.SeverityHigh, placeholder.Severity)
	assert.Equal(t, lint.CategoryValidation, placeholder.Category)
	assert.Equal(t, "Component", placeholder.Target)
	assert.Equal(t, "wix-extras", placeholder.Plugin)
	assert.True(t, placeholder.Enabled)
	require.NotNil(t, placeholder.Fix)
	assert.Equal(t, lint.FixReplaceAttribute, placeholder.Fix.Kind)
	assert.Equal(t, "Guid", placeholder.Fix.Name)
	assert.Equal(t, "*", placeholder.Fix.Value)

	script := byID["EXTRA-002"]
	require.NotNil(t, script)
	assert.Equal(t, config.SeverityMedium, script.Severity, "legacy warning maps to medium")
	assert.Equal(t, []string{"*"}, script.Contexts)
	assert.True(t, script.IsGlobal())

	// Rules from referenced files join the plugin's inline rules.
	external := byID["EXTRA-003"]
	require.NotNil(t, external)
	assert.Equal(t, "Package", external.Target)
	assert.Equal(t, config.SeverityMedium, external.Severity)
}

func TestLoaderSkipsRuleFileStems(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared-rules.yaml", extrasRuleFile)

	set, errs := plugin.NewLoader(dir).LoadAll()
	assert.Empty(t, errs)
	assert.Equal(t, 0, set.Len())
}

func TestLoaderMissingDirectory(t *testing.T) {
	set, errs := plugin.NewLoader(filepath.Join(t.TempDir(), "absent")).LoadAll()
	assert.Empty(t, errs)
	assert.Equal(t, 0, set.Len())
}

func TestLoaderCollectsErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "plugin: [unclosed")
	writeFile(t, dir, "noid.yaml", "plugin:\n  description: anonymous\n")
	writeFile(t, dir, "badparser.yaml", "plugin:\n  id: html-plugin\n  base_parser: html\n")
	writeFile(t, dir, "badsev.yaml", `plugin:
  id: sev-plugin
rules:
  - id: SEV-001
    condition: always
    message: whatever
    severity: catastrophic
`)
	writeFile(t, dir, "badregex.yaml", `plugin:
  id: regex-plugin
rules:
  - id: RE-001
    condition: 'Id matches "(["'
    message: whatever
`)
	writeFile(t, dir, "good.yaml", "plugin:\n  id: good-plugin\n  extensions: [.wxs]\n")

	set, errs := plugin.NewLoader(dir).LoadAll()

	require.Equal(t, 1, set.Len(), "the good plugin still loads")
	_, ok := set.Plugin("good-plugin")
	assert.True(t, ok)

	require.Len(t, errs, 5)
	kinds := make(map[plugin.LoadErrorKind]int)
	for _, e := range errs {
		kinds[e.Kind]++
		assert.NotEmpty(t, e.Path)
		assert.NotEmpty(t, e.Error())
	}
	assert.Equal(t, 1, kinds[plugin.LoadErrorParse])
	assert.Equal(t, 3, kinds[plugin.LoadErrorInvalid])
	assert.Equal(t, 1, kinds[plugin.LoadErrorUnsupportedParser])
}

func TestLoaderMissingRuleFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dangling.yaml", "plugin:\n  id: dangling\nrule_files: [nowhere.yaml]\n")

	set, errs := plugin.NewLoader(dir).LoadAll()
	assert.Equal(t, 0, set.Len())
	require.Len(t, errs, 1)
	assert.Equal(t, plugin.LoadErrorIO, errs[0].Kind)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "registry.json", registryManifestJSON)

	p, loadErr := plugin.NewLoader().LoadFile(path)
	require.Nil(t, loadErr)
	assert.Equal(t, "registry-plugin", p.ID)
	assert.Equal(t, path, p.Path)
	assert.True(t, p.CanHandle("export.reg"))
	assert.False(t, p.CanHandle("export.wxs"))
}

func TestSetDispatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "wix-extras.yaml", extrasManifest)
	writeFile(t, dir, "extra-rules.yaml", extrasRuleFile)
	writeFile(t, dir, "registry/plugin.json", registryManifestJSON)

	set, errs := plugin.NewLoader(dir).LoadAll()
	require.Empty(t, errs)

	p, ok := set.ForFile("installer.wxs")
	require.True(t, ok)
	assert.Equal(t, "wix-extras", p.ID)

	p, ok = set.ForFile("EXPORT.REG")
	require.True(t, ok)
	assert.Equal(t, "registry-plugin", p.ID)

	_, ok = set.ForFile("readme.md")
	assert.False(t, ok)

	assert.Equal(t, []string{".reg", ".wxi", ".wxs"}, set.Extensions())

	registry := lint.NewRegistry()
	set.RegisterRules(registry)
	assert.Equal(t, 4, registry.Len())

	assert.Len(t, set.Extractors(), 1)
}
