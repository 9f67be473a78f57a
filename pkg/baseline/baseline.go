// Package baseline persists diagnostic fingerprints so pre-existing issues
// can be suppressed while new ones still fail the run. The file is a plain
// JSON document read and written whole.
package baseline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yaklabco/goxmlint/pkg/fsutil"
	"github.com/yaklabco/goxmlint/pkg/lint"
)

// FormatVersion identifies the baseline file layout.
const FormatVersion = "1"

// DefaultPath is the conventional baseline file name at the project root.
const DefaultPath = ".goxmlint.baseline.json"

// Baseline is an allow-list of diagnostic fingerprints plus provenance
// metadata for the run that produced it.
type Baseline struct {
	Version      string    `json:"version"`
	GeneratedAt  time.Time `json:"generated_at"`
	ToolVersion  string    `json:"tool_version,omitempty"`
	RunID        string    `json:"run_id"`
	Fingerprints []string  `json:"fingerprints"`

	set map[string]struct{}
}

// New creates an empty baseline stamped with a fresh run id.
func New(toolVersion string) *Baseline {
	return &Baseline{
		Version:     FormatVersion,
		GeneratedAt: time.Now().UTC(),
		ToolVersion: toolVersion,
		RunID:       uuid.NewString(),
		set:         make(map[string]struct{}),
	}
}

// Load reads a baseline file. A missing file is an error; callers decide
// whether that means "no baseline" or a misconfiguration.
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load baseline: %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("load baseline %s: %w", path, err)
	}
	if b.Version == "" {
		b.Version = FormatVersion
	}

	b.set = make(map[string]struct{}, len(b.Fingerprints))
	for _, fp := range b.Fingerprints {
		b.set[fp] = struct{}{}
	}
	return &b, nil
}

// Save writes the baseline atomically, fingerprints sorted for stable
// diffs.
func (b *Baseline) Save(ctx context.Context, path string) error {
	b.Fingerprints = b.sorted()
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("save baseline: %w", err)
	}
	data = append(data, '\n')

	if err := fsutil.WriteAtomic(ctx, path, data, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("save baseline %s: %w", path, err)
	}
	return nil
}

// Add inserts the fingerprints of every diagnostic. Duplicates collapse.
func (b *Baseline) Add(diagnostics []lint.Diagnostic) {
	if b.set == nil {
		b.set = make(map[string]struct{})
	}
	for _, d := range diagnostics {
		b.set[d.Fingerprint()] = struct{}{}
	}
	b.Fingerprints = b.sorted()
}

// Contains reports whether a fingerprint is baselined.
func (b *Baseline) Contains(fingerprint string) bool {
	_, ok := b.set[fingerprint]
	return ok
}

// Filter removes every diagnostic whose fingerprint is in the baseline.
func (b *Baseline) Filter(diagnostics []lint.Diagnostic) []lint.Diagnostic {
	if len(b.set) == 0 {
		return diagnostics
	}
	kept := make([]lint.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		if !b.Contains(d.Fingerprint()) {
			kept = append(kept, d)
		}
	}
	return kept
}

// Len returns the number of baselined fingerprints.
func (b *Baseline) Len() int {
	return len(b.set)
}

func (b *Baseline) sorted() []string {
	out := make([]string, 0, len(b.set))
	for fp := range b.set {
		out = append(out, fp)
	}
	sort.Strings(out)
	return out
}
