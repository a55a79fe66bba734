// Package filedef builds the per-file presentation record ("FileDef") that
// document-outline and goto-definition style requests read from, out of one
// Index Snapshot. See spec §4.3.
package filedef

import (
	"sort"

	"github.com/navcd/navc/internal/ident"
	"github.com/navcd/navc/internal/snapshot"
)

// Def is the per-file presentation record.
type Def struct {
	Path            string
	CompileArgs     []string
	Language        string
	Includes        []snapshot.Include
	Outline         []ident.SymbolRef
	AllSymbols      []ident.SymbolRef
	InactiveRegions []ident.Range
	Dependencies    []string
}

// Update pairs a Def with the file content it was built from, mirroring
// ccls's WithFileContent<QueryFile::Def>.
type Update struct {
	Value       Def
	FileContent string
}

// Build converts snap into a Def plus the file content it captured. It never
// mutates snap.
func Build(snap *snapshot.Snapshot) Update {
	def := Def{
		Path:        snap.Path,
		CompileArgs: append([]string(nil), snap.Args...),
		Language:    snap.Language,
	}
	def.Includes = append(def.Includes, snap.Includes...)
	def.InactiveRegions = append(def.InactiveRegions, snap.SkippedByPreprocessor...)
	for _, dep := range snap.Dependencies {
		def.Dependencies = append(def.Dependencies, dep.Name)
	}

	addAllSymbols := func(u ident.Use, usr ident.Usr, kind ident.SymbolKind) {
		u.Usr, u.Kind = usr, kind
		def.AllSymbols = append(def.AllSymbols, ident.RefFromUse(u))
	}
	addOutline := func(u ident.Use, usr ident.Usr, kind ident.SymbolKind) {
		u.Usr, u.Kind = usr, kind
		def.Outline = append(def.Outline, ident.RefFromUse(u))
	}

	for _, t := range snap.Usr2Type {
		if t.Def != nil && t.Def.Spell != nil {
			addAllSymbols(*t.Def.Spell, t.Usr, ident.Type)
		}
		if t.Def != nil && t.Def.Extent != nil {
			addOutline(*t.Def.Extent, t.Usr, ident.Type)
		}
		for _, decl := range t.Declarations {
			addAllSymbols(decl, t.Usr, ident.Type)
			if !decl.Role.Has(ident.RoleReference) {
				addOutline(decl, t.Usr, ident.Type)
			}
		}
		for _, use := range t.Uses {
			addAllSymbols(use, t.Usr, ident.Type)
		}
	}

	for _, f := range snap.Usr2Func {
		if f.Def != nil && f.Def.Spell != nil {
			addAllSymbols(*f.Def.Spell, f.Usr, ident.Func)
		}
		if f.Def != nil && f.Def.Extent != nil {
			addOutline(*f.Def.Extent, f.Usr, ident.Func)
		}
		for _, decl := range f.Declarations {
			addAllSymbols(decl, f.Usr, ident.Func)
			addOutline(decl, f.Usr, ident.Func)
		}
		for _, use := range f.Uses {
			// Widen implicit-constructor-call ranges by one column on each
			// side so that trailing punctuation resolves to the call.
			if use.Role.Has(ident.RoleImplicit) {
				if use.Range.Start.Column > 0 {
					use.Range.Start.Column--
				}
				use.Range.End.Column++
			}
			addAllSymbols(use, f.Usr, ident.Func)
		}
	}

	for _, v := range snap.Usr2Var {
		if v.Def != nil && v.Def.Spell != nil {
			addAllSymbols(*v.Def.Spell, v.Usr, ident.Var)
		}
		if v.Def != nil && v.Def.Extent != nil {
			addOutline(*v.Def.Extent, v.Usr, ident.Var)
		}
		for _, decl := range v.Declarations {
			addAllSymbols(decl, v.Usr, ident.Var)
			addOutline(decl, v.Usr, ident.Var)
		}
		for _, use := range v.Uses {
			addAllSymbols(use, v.Usr, ident.Var)
		}
	}

	sort.SliceStable(def.Outline, func(i, j int) bool {
		return def.Outline[i].Range.Start.Less(def.Outline[j].Range.Start)
	})
	sort.SliceStable(def.AllSymbols, func(i, j int) bool {
		return def.AllSymbols[i].Range.Start.Less(def.AllSymbols[j].Range.Start)
	})

	return Update{Value: def, FileContent: snap.FileContents}
}
