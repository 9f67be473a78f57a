package xref

import (
	"sort"
	"sync"

	"github.com/yaklabco/goxmlint/pkg/lint"
	"github.com/yaklabco/goxmlint/pkg/markup"
)

// symbolKey namespaces definitions by kind so Ids only collide within a kind.
type symbolKey struct {
	kind SymbolKind
	id   string
}

// Index accumulates definitions and references across documents.
// Safe for concurrent use during collection.
type Index struct {
	mu          sync.Mutex
	definitions map[symbolKey][]Definition
	references  []Reference
}

// NewIndex creates an empty symbol index.
func NewIndex() *Index {
	return &Index{
		definitions: make(map[symbolKey][]Definition),
	}
}

// AddDefinition records a symbol definition site.
func (ix *Index) AddDefinition(def Definition) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	key := symbolKey{kind: def.Kind, id: def.ID}
	ix.definitions[key] = append(ix.definitions[key], def)
}

// AddReference records a symbol reference site.
func (ix *Index) AddReference(ref Reference) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.references = append(ix.references, ref)
}

// IsDefined reports whether a symbol has at least one definition.
// Standard directories count as always defined.
func (ix *Index) IsDefined(kind SymbolKind, id string) bool {
	if kind == KindDirectory && IsStandardDirectory(id) {
		return true
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	_, ok := ix.definitions[symbolKey{kind: kind, id: id}]
	return ok
}

// Definitions returns the definition sites for a symbol,
// sorted by (file, line, column).
func (ix *Index) Definitions(kind SymbolKind, id string) []Definition {
	ix.mu.Lock()
	defs := append([]Definition(nil), ix.definitions[symbolKey{kind: kind, id: id}]...)
	ix.mu.Unlock()
	sortDefinitions(defs)
	return defs
}

// References returns all recorded references,
// sorted by (file, line, column).
func (ix *Index) References() []Reference {
	ix.mu.Lock()
	refs := append([]Reference(nil), ix.references...)
	ix.mu.Unlock()
	sort.SliceStable(refs, func(i, j int) bool {
		return locationLess(refs[i].Location, refs[j].Location)
	})
	return refs
}

// Duplicates returns every symbol with more than one definition site,
// in deterministic (kind, id) order with definitions sorted by location.
func (ix *Index) Duplicates() [][]Definition {
	ix.mu.Lock()
	keys := make([]symbolKey, 0, len(ix.definitions))
	for key, defs := range ix.definitions {
		if len(defs) > 1 {
			keys = append(keys, key)
		}
	}
	ix.mu.Unlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].kind != keys[j].kind {
			return keys[i].kind < keys[j].kind
		}
		return keys[i].id < keys[j].id
	})

	duplicates := make([][]Definition, 0, len(keys))
	for _, key := range keys {
		duplicates = append(duplicates, ix.Definitions(key.kind, key.id))
	}
	return duplicates
}

// CollectDocument walks one parsed document and records every symbol
// definition and reference it contains.
func (ix *Index) CollectDocument(doc *markup.Document) {
	for _, node := range doc.Descendants() {
		if !node.IsElement() {
			continue
		}
		loc := lint.Location{File: doc.Path, Range: node.Range}

		if kind, ok := kindByDefinition[node.Kind]; ok {
			if id, ok := node.Attribute("Id"); ok {
				ix.AddDefinition(Definition{ID: id, Kind: kind, Location: loc})
			}
		}

		if kind, ok := kindByReference[node.Kind]; ok {
			if id, ok := node.Attribute("Id"); ok {
				ix.AddReference(Reference{ID: id, Kind: kind, Element: node.Kind, Location: loc})
			}
			continue
		}

		for _, attrRef := range attributeReferences[node.Kind] {
			if id, ok := node.Attribute(attrRef.attribute); ok {
				ix.AddReference(Reference{ID: id, Kind: attrRef.kind, Element: node.Kind, Location: loc})
			}
		}
	}
}

func sortDefinitions(defs []Definition) {
	sort.SliceStable(defs, func(i, j int) bool {
		return locationLess(defs[i].Location, defs[j].Location)
	})
}

func locationLess(a, b lint.Location) bool {
	if a.File != b.File {
		return a.File < b.File
	}
	if a.Range.StartLine != b.Range.StartLine {
		return a.Range.StartLine < b.Range.StartLine
	}
	return a.Range.StartColumn < b.Range.StartColumn
}
