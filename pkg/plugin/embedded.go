package plugin

import (
	"path/filepath"
	"regexp"
	"sort"

	"github.com/yaklabco/goxmlint/pkg/langdetect"
	"github.com/yaklabco/goxmlint/pkg/lint"
	"github.com/yaklabco/goxmlint/pkg/markup"
)

// languageAuto defers the context name to content-based detection.
const languageAuto = "auto"

// RegionExtractor pulls embedded-language snippets out of a host document
// by applying the manifest's regex patterns to the raw source. Each match
// becomes a region evaluated under the configured language context, keeping
// its position in the host file so diagnostics point at real lines.
type RegionExtractor struct {
	name       string
	language   string
	patterns   []*regexp.Regexp
	sourcePath string
}

func newRegionExtractor(cfg EmbeddedLanguage, manifestPath string) (*RegionExtractor, *LoadError) {
	if len(cfg.Patterns) == 0 {
		return nil, invalidError(manifestPath, "embedded language %q has no patterns", cfg.Language)
	}

	x := &RegionExtractor{
		name:       cfg.Extractor,
		language:   cfg.Language,
		sourcePath: cfg.SourcePath,
	}
	for _, pattern := range cfg.Patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, invalidError(manifestPath, "embedded language %q: invalid pattern %q: %v",
				cfg.Language, pattern, err)
		}
		x.patterns = append(x.patterns, re)
	}
	return x, nil
}

// Name returns the extractor name from the manifest.
func (x *RegionExtractor) Name() string { return x.name }

// Extract implements lint.Extractor. Patterns run in manifest order; a
// pattern's first capture group is the snippet, or the whole match when the
// pattern has no groups. Matches starting at an already-claimed offset are
// skipped so overlapping patterns do not produce duplicate regions.
func (x *RegionExtractor) Extract(doc *markup.Document) []lint.ExtractedRegion {
	if x.sourcePath != "" {
		if ok, err := filepath.Match(x.sourcePath, filepath.Base(doc.Path)); err != nil || !ok {
			return nil
		}
	}

	index := newLineIndex(doc.Source)
	claimed := make(map[int]bool)
	var regions []lint.ExtractedRegion

	for _, re := range x.patterns {
		for _, match := range re.FindAllStringSubmatchIndex(doc.Source, -1) {
			start, end := match[0], match[1]
			if len(match) >= 4 && match[2] >= 0 {
				start, end = match[2], match[3]
			}
			if start == end || claimed[start] {
				continue
			}
			claimed[start] = true

			text := doc.Source[start:end]
			startLine, startCol := index.position(start)
			endLine, endCol := index.position(end)

			regions = append(regions, lint.ExtractedRegion{
				Context: x.contextFor(text),
				Text:    text,
				Range:   markup.NewSourceRange(startLine, startCol, endLine, endCol),
			})
		}
	}
	return regions
}

func (x *RegionExtractor) contextFor(text string) string {
	if x.language == "" || x.language == languageAuto {
		return langdetect.Detect([]byte(text))
	}
	return x.language
}

// lineIndex maps byte offsets in a source string to 1-based line/column
// positions.
type lineIndex struct {
	starts []int
}

func newLineIndex(source string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (li *lineIndex) position(offset int) (line, col int) {
	i := sort.SearchInts(li.starts, offset+1) - 1
	return i + 1, offset - li.starts[i] + 1
}
