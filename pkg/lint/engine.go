package lint

import (
	"context"
	"fmt"

	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/markup"
)

// Parser converts raw bytes into a Document. Language plugins supply the
// implementation; the engine requires nothing about how the grammar is
// tokenized.
type Parser interface {
	Parse(ctx context.Context, path string, content []byte) (*markup.Document, error)
}

// ExtractedRegion is one embedded-language snippet pulled out of a host
// document, evaluated under its own named context.
type ExtractedRegion struct {
	// Context is the embedded-language context name (e.g. "shell").
	Context string

	// Text is the extracted snippet.
	Text string

	// Range is the snippet's span in the host document.
	Range markup.SourceRange
}

// Extractor pulls embedded-language regions out of a parsed document.
type Extractor interface {
	Extract(doc *markup.Document) []ExtractedRegion
}

// FileResult contains the results of analyzing a single file.
type FileResult struct {
	// Document is the parsed file.
	Document *markup.Document

	// Diagnostics contains all issues found, main and embedded contexts.
	Diagnostics []Diagnostic

	// Stats counts evaluation work for the main document pass.
	Stats EvaluatorStats
}

// HasIssues returns true if any diagnostics were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// IssueCount returns the total number of diagnostics.
func (fr *FileResult) IssueCount() int {
	return len(fr.Diagnostics)
}

// FixableCount returns the number of diagnostics carrying fixes.
func (fr *FileResult) FixableCount() int {
	count := 0
	for _, d := range fr.Diagnostics {
		if d.HasFix() {
			count++
		}
	}
	return count
}

// Engine coordinates parsing and rule evaluation for analysis.
// The registry and condition evaluator are read-only during a run and one
// Engine is shared by reference across parallel workers.
type Engine struct {
	// Parser parses source files into Documents.
	Parser Parser

	// Registry holds all available rules.
	Registry *Registry

	// Extractors pull embedded-language regions out of parsed documents.
	Extractors []Extractor

	// conditions carries the shared compiled-regex cache.
	conditions *Evaluator
}

// NewEngine creates a new Engine with the given parser and registry.
func NewEngine(parser Parser, registry *Registry) *Engine {
	return &Engine{
		Parser:     parser,
		Registry:   registry,
		conditions: NewEvaluator(),
	}
}

// WithExtractors attaches embedded-language extractors.
func (e *Engine) WithExtractors(extractors ...Extractor) *Engine {
	e.Extractors = append(e.Extractors, extractors...)
	return e
}

// AnalyzeFile parses and evaluates a single file.
// A parse failure is returned as the error; it is one failure for the file
// and never aborts the batch (the caller records it per file).
func (e *Engine) AnalyzeFile(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
) (*FileResult, error) {
	doc, err := e.Parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	evaluator := newRuleEvaluatorWith(e.Registry, cfg, e.conditions)

	diags, stats, err := evaluator.EvaluateDocument(ctx, doc, "")
	if err != nil {
		return nil, err
	}

	result := &FileResult{
		Document:    doc,
		Diagnostics: diags,
		Stats:       stats,
	}

	// Evaluate embedded-language regions under their own contexts.
	for _, extractor := range e.Extractors {
		for _, region := range extractor.Extract(doc) {
			if err := ctx.Err(); err != nil {
				return result, fmt.Errorf("analysis cancelled: %w", err)
			}

			node := &markup.Node{
				Kind:  region.Context,
				Text:  region.Text,
				Range: region.Range,
			}
			result.Diagnostics = append(result.Diagnostics,
				evaluator.EvaluateNode(node, doc, region.Context)...)
		}
	}

	return result, nil
}
