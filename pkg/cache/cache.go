// Package cache stores per-file lint results keyed by content hash so
// unchanged files skip re-evaluation on the next run. The cache is scoped
// to one rule configuration: a config-hash or format-version mismatch
// discards everything.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/fsutil"
	"github.com/yaklabco/goxmlint/pkg/lint"
)

// FormatVersion invalidates every existing cache file when the stored
// shape changes.
const FormatVersion = 1

// Entry is the cached result for one file.
type Entry struct {
	ContentHash string            `msgpack:"content_hash"`
	Diagnostics []lint.Diagnostic `msgpack:"diagnostics"`
}

// Cache maps file paths to their last known results.
type Cache struct {
	Version    int              `msgpack:"version"`
	ConfigHash string           `msgpack:"config_hash"`
	Files      map[string]Entry `msgpack:"files"`
}

// New creates an empty cache bound to a configuration hash.
func New(configHash string) *Cache {
	return &Cache{
		Version:    FormatVersion,
		ConfigHash: configHash,
		Files:      make(map[string]Entry),
	}
}

// Load reads a cache file. Any problem — missing file, corrupt data,
// version or config-hash mismatch — yields a fresh empty cache; a stale
// cache is never an error, only a slower run.
func Load(path, configHash string) *Cache {
	data, err := os.ReadFile(path)
	if err != nil {
		return New(configHash)
	}

	var c Cache
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return New(configHash)
	}
	if c.Version != FormatVersion || c.ConfigHash != configHash {
		return New(configHash)
	}
	if c.Files == nil {
		c.Files = make(map[string]Entry)
	}
	return &c
}

// Save writes the cache atomically.
func (c *Cache) Save(ctx context.Context, path string) error {
	data, err := msgpack.Marshal(c)
	if err != nil {
		return fmt.Errorf("save cache: %w", err)
	}
	if err := fsutil.WriteAtomic(ctx, path, data, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("save cache %s: %w", path, err)
	}
	return nil
}

// Get returns the cached diagnostics for a file if its content is
// unchanged.
func (c *Cache) Get(path string, content []byte) ([]lint.Diagnostic, bool) {
	entry, ok := c.Files[path]
	if !ok || entry.ContentHash != ContentHash(content) {
		return nil, false
	}
	return entry.Diagnostics, true
}

// Put records a file's results under its current content hash.
func (c *Cache) Put(path string, content []byte, diagnostics []lint.Diagnostic) {
	c.Files[path] = Entry{
		ContentHash: ContentHash(content),
		Diagnostics: diagnostics,
	}
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	return len(c.Files)
}

// DefaultPath returns the standard cache file location under the user
// cache directory. Falls back to a hidden file in the working directory
// when no user cache directory is available.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".goxmlint.cache"
	}
	return filepath.Join(dir, "goxmlint", "cache.msgpack")
}

// ContentHash hashes file content for change detection.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// ConfigHash derives the cache scope from the active configuration via its
// canonical YAML form. Any rule or severity change produces a new scope.
func ConfigHash(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	data, err := cfg.ToYAML()
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
