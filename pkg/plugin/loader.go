package plugin

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/goxmlint/internal/logging"
	"github.com/yaklabco/goxmlint/pkg/lint"
)

// manifestExtensions are the file types the loader considers.
var manifestExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// Loader discovers and loads plugin manifests from explicit search paths.
// There are no implicit defaults; callers decide where plugins live.
type Loader struct {
	paths  []string
	logger *log.Logger
}

// NewLoader creates a loader over the given search directories.
func NewLoader(paths ...string) *Loader {
	return &Loader{paths: paths, logger: logging.Default()}
}

// WithLogger replaces the loader's logger.
func (l *Loader) WithLogger(logger *log.Logger) *Loader {
	l.logger = logger
	return l
}

// LoadAll walks every search path and loads each manifest it finds. Files
// whose stem ends in "-rules" are skipped: those are rule files referenced
// from manifests, not standalone plugins. Subdirectories are searched for a
// plugin.{yaml,yml,json} manifest. Failures are collected per file and
// never stop the remaining plugins from loading.
func (l *Loader) LoadAll() (*Set, []*LoadError) {
	set := newSet()
	var errs []*LoadError

	for _, dir := range l.paths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			errs = append(errs, ioError(dir, err))
			continue
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				manifest, ok := subdirManifest(path)
				if !ok {
					continue
				}
				path = manifest
			} else if !isManifestCandidate(entry.Name()) {
				continue
			}

			p, loadErr := l.loadManifest(path)
			if loadErr != nil {
				l.logger.Warn("failed to load plugin",
					logging.FieldManifest, path,
					logging.FieldError, loadErr)
				errs = append(errs, loadErr)
				continue
			}
			set.add(p)
			l.logger.Debug("loaded plugin",
				logging.FieldPlugin, p.ID,
				logging.FieldManifest, path,
				logging.FieldRuleCount, len(p.Rules))
		}
	}

	return set, errs
}

// LoadFile loads a single manifest directly, bypassing discovery.
func (l *Loader) LoadFile(path string) (*Plugin, *LoadError) {
	return l.loadManifest(path)
}

func (l *Loader) loadManifest(path string) (*Plugin, *LoadError) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError(path, err)
	}

	manifest, loadErr := parseManifest(path, data)
	if loadErr != nil {
		return nil, loadErr
	}

	definitions := append([]RuleDefinition(nil), manifest.Rules...)
	baseDir := filepath.Dir(path)
	for _, ref := range manifest.RuleFiles {
		rulePath := ref
		if !filepath.IsAbs(rulePath) {
			rulePath = filepath.Join(baseDir, rulePath)
		}
		ruleData, err := os.ReadFile(rulePath)
		if err != nil {
			return nil, ioError(rulePath, err)
		}
		rules, loadErr := parseRuleFile(rulePath, ruleData)
		if loadErr != nil {
			return nil, loadErr
		}
		definitions = append(definitions, rules...)
	}

	return newPlugin(manifest, path, definitions)
}

// isManifestCandidate reports whether a directory entry looks like a
// standalone plugin manifest.
func isManifestCandidate(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if !manifestExtensions[ext] {
		return false
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return !strings.HasSuffix(stem, "-rules")
}

// subdirManifest returns the plugin manifest inside a directory, if any.
func subdirManifest(dir string) (string, bool) {
	for _, name := range []string{"plugin.yaml", "plugin.yml", "plugin.json"} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Set holds the loaded plugins and the extension dispatch map.
type Set struct {
	plugins     map[string]*Plugin
	order       []string
	byExtension map[string]string
}

func newSet() *Set {
	return &Set{
		plugins:     make(map[string]*Plugin),
		byExtension: make(map[string]string),
	}
}

func (s *Set) add(p *Plugin) {
	if _, exists := s.plugins[p.ID]; !exists {
		s.order = append(s.order, p.ID)
	}
	s.plugins[p.ID] = p
	for _, ext := range p.Extensions {
		s.byExtension[ext] = p.ID
	}
}

// Plugin returns the plugin with the given ID.
func (s *Set) Plugin(id string) (*Plugin, bool) {
	p, ok := s.plugins[id]
	return p, ok
}

// ForFile returns the plugin owning the file's extension.
func (s *Set) ForFile(path string) (*Plugin, bool) {
	id, ok := s.byExtension[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, false
	}
	return s.plugins[id], true
}

// Plugins returns the loaded plugins in load order.
func (s *Set) Plugins() []*Plugin {
	out := make([]*Plugin, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.plugins[id])
	}
	return out
}

// Extensions returns the handled extensions, sorted.
func (s *Set) Extensions() []string {
	out := make([]string, 0, len(s.byExtension))
	for ext := range s.byExtension {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// RegisterRules registers every plugin's rules into the registry.
func (s *Set) RegisterRules(registry *lint.Registry) {
	for _, p := range s.Plugins() {
		for _, rule := range p.Rules {
			registry.Register(rule)
		}
	}
}

// Extractors returns all embedded-language extractors across plugins.
func (s *Set) Extractors() []lint.Extractor {
	var out []lint.Extractor
	for _, p := range s.Plugins() {
		out = append(out, p.Extractors...)
	}
	return out
}

// Len returns the number of loaded plugins.
func (s *Set) Len() int {
	return len(s.plugins)
}
