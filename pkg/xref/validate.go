package xref

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/lint"
	"github.com/yaklabco/goxmlint/pkg/markup"
)

// Validator runs the two-pass cross-file check over a document set.
type Validator struct {
	index *Index
}

// NewValidator creates a validator with an empty index.
func NewValidator() *Validator {
	return &Validator{index: NewIndex()}
}

// Index exposes the symbol index, mainly for tests.
func (v *Validator) Index() *Index {
	return v.index
}

// Collect indexes definitions and references from all documents in parallel.
// It returns only after every document has been indexed, so a subsequent
// Validate sees the complete index.
func (v *Validator) Collect(ctx context.Context, docs []*markup.Document) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("collection cancelled: %w", err)
			}
			v.index.CollectDocument(doc)
			return nil
		})
	}
	return g.Wait()
}

// Validate checks every collected reference against the index and reports
// dangling references and duplicate definitions. Output order is
// deterministic regardless of collection order.
func (v *Validator) Validate() []lint.Diagnostic {
	var diagnostics []lint.Diagnostic

	for _, ref := range v.index.References() {
		if v.index.IsDefined(ref.Kind, ref.ID) {
			continue
		}
		element := ref.Kind.DefinitionElement()
		d := lint.NewDiagnostic(
			"xref-undefined-"+string(ref.Kind),
			ref.Location,
			fmt.Sprintf("%s references undefined %s '%s'", ref.Element, element, ref.ID),
		).
			WithRuleName("undefined-"+string(ref.Kind)).
			WithSeverity(config.SeverityBlocker).
			WithCategory(lint.CategoryValidation).
			WithHelp(fmt.Sprintf("Define a %s with Id=\"%s\" or correct the reference", element, ref.ID)).
			WithTags("wix", "cross-file")
		diagnostics = append(diagnostics, *d)
	}

	for _, defs := range v.index.Duplicates() {
		first := defs[0]
		element := first.Kind.DefinitionElement()
		for _, def := range defs[1:] {
			d := lint.NewDiagnostic(
				"xref-duplicate-"+string(def.Kind),
				def.Location,
				fmt.Sprintf("Duplicate %s '%s' (first defined at %s:%d)",
					element, def.ID, first.Location.File, first.Location.Range.StartLine),
			).
				WithRuleName("duplicate-"+string(def.Kind)).
				WithSeverity(config.SeverityBlocker).
				WithCategory(lint.CategoryValidation).
				WithRelated(first.Location, fmt.Sprintf("%s '%s' first defined here", element, def.ID)).
				WithTags("wix", "cross-file")
			diagnostics = append(diagnostics, *d)
		}
	}

	return diagnostics
}
