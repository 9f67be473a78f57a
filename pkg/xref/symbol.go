// Package xref validates symbol references across a set of parsed documents.
//
// Validation is two-pass: Collect gathers every definition and reference
// from all documents (pass 1, parallel), then Validate checks references
// against the completed index (pass 2). Validate must not run until
// Collect has fully joined.
package xref

import "github.com/yaklabco/goxmlint/pkg/lint"

// SymbolKind identifies the namespace a symbol lives in. A Component and a
// Feature with the same Id are unrelated symbols.
type SymbolKind string

const (
	KindComponent      SymbolKind = "component"
	KindComponentGroup SymbolKind = "component-group"
	KindDirectory      SymbolKind = "directory"
	KindFeature        SymbolKind = "feature"
	KindProperty       SymbolKind = "property"
	KindCustomAction   SymbolKind = "custom-action"
)

// DefinitionElement returns the element tag that defines this symbol kind.
func (k SymbolKind) DefinitionElement() string {
	switch k {
	case KindComponent:
		return "Component"
	case KindComponentGroup:
		return "ComponentGroup"
	case KindDirectory:
		return "Directory"
	case KindFeature:
		return "Feature"
	case KindProperty:
		return "Property"
	case KindCustomAction:
		return "CustomAction"
	}
	return ""
}

// ReferenceElement returns the element tag that references this symbol kind.
func (k SymbolKind) ReferenceElement() string {
	switch k {
	case KindComponent:
		return "ComponentRef"
	case KindComponentGroup:
		return "ComponentGroupRef"
	case KindDirectory:
		return "DirectoryRef"
	case KindFeature:
		return "FeatureRef"
	case KindProperty:
		return "PropertyRef"
	case KindCustomAction:
		return "CustomActionRef"
	}
	return ""
}

// kindByDefinition maps defining element tags to symbol kinds.
// StandardDirectory defines a directory symbol like Directory does.
var kindByDefinition = map[string]SymbolKind{
	"Component":         KindComponent,
	"ComponentGroup":    KindComponentGroup,
	"Directory":         KindDirectory,
	"StandardDirectory": KindDirectory,
	"Feature":           KindFeature,
	"Property":          KindProperty,
	"CustomAction":      KindCustomAction,
}

// kindByReference maps *Ref element tags to the kind they reference.
// All of them carry the target symbol in their Id attribute.
var kindByReference = map[string]SymbolKind{
	"ComponentRef":      KindComponent,
	"ComponentGroupRef": KindComponentGroup,
	"DirectoryRef":      KindDirectory,
	"FeatureRef":        KindFeature,
	"PropertyRef":       KindProperty,
	"CustomActionRef":   KindCustomAction,
}

// attributeReference records an element that references a symbol through a
// named attribute rather than a dedicated *Ref element.
type attributeReference struct {
	attribute string
	kind      SymbolKind
}

var attributeReferences = map[string][]attributeReference{
	"File":        {{attribute: "Component", kind: KindComponent}},
	"Shortcut":    {{attribute: "Directory", kind: KindDirectory}},
	"Custom":      {{attribute: "Action", kind: KindCustomAction}},
	"SetProperty": {{attribute: "Id", kind: KindProperty}},
}

// standardDirectories are the built-in Windows Installer directory Ids.
// References to them are always valid without a matching definition.
var standardDirectories = map[string]struct{}{
	"TARGETDIR":              {},
	"ProgramFilesFolder":     {},
	"ProgramFiles64Folder":   {},
	"ProgramFiles6432Folder": {},
	"CommonFilesFolder":      {},
	"CommonFiles64Folder":    {},
	"CommonFiles6432Folder":  {},
	"ProgramMenuFolder":      {},
	"StartMenuFolder":        {},
	"StartupFolder":          {},
	"DesktopFolder":          {},
	"AppDataFolder":          {},
	"LocalAppDataFolder":     {},
	"TempFolder":             {},
	"WindowsFolder":          {},
	"SystemFolder":           {},
	"System64Folder":         {},
	"System16Folder":         {},
	"FontsFolder":            {},
	"FavoritesFolder":        {},
	"SendToFolder":           {},
	"NetHoodFolder":          {},
	"PrintHoodFolder":        {},
	"TemplateFolder":         {},
	"AdminToolsFolder":       {},
	"PersonalFolder":         {},
	"MyPicturesFolder":       {},
	"CommonAppDataFolder":    {},
	"WindowsVolume":          {},
}

// IsStandardDirectory reports whether id names a built-in directory.
func IsStandardDirectory(id string) bool {
	_, ok := standardDirectories[id]
	return ok
}

// Definition is one symbol definition site.
type Definition struct {
	ID       string
	Kind     SymbolKind
	Location lint.Location
}

// Reference is one symbol reference site.
type Reference struct {
	ID   string
	Kind SymbolKind

	// Element is the tag the reference appears on (ComponentRef, File, ...).
	Element  string
	Location lint.Location
}
