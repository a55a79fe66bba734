// Package snapshot defines the shape of an Index Snapshot: the immutable
// per-file fact bundle produced by the external clang-based indexer. This
// package only describes the shape; it is consumed by internal/delta and
// internal/filedef, never produced, per spec §4.2.
package snapshot

import "github.com/navcd/navc/internal/ident"

// Include is one #include directive found while indexing a file.
type Include struct {
	Line         int32
	ResolvedPath string
}

// Dependency names one file this translation unit depends on (a header
// pulled in directly or transitively).
type Dependency struct {
	Name string
}

// DefCore is the data every kind-specific Def carries: the naming range
// ("spell"), the enclosing lexical range ("extent"), and the two names used
// for display.
type DefCore struct {
	Spell        *ident.Use
	Extent       *ident.Use
	DetailedName string
	ShortName    string
}

// Name returns the qualified (DetailedName) or short (ShortName) display
// name, falling back to DetailedName when ShortName is empty.
func (d DefCore) Name(qualified bool) string {
	if qualified {
		return d.DetailedName
	}
	if d.ShortName != "" {
		return d.ShortName
	}
	return d.DetailedName
}

// FuncDef is the definition data the indexer attaches to a function/method.
type FuncDef struct {
	DefCore
	Callees []ident.Use
}

// TypeDef is the definition data the indexer attaches to a type.
type TypeDef struct {
	DefCore
	Bases []ident.Usr
}

// VarDef is the definition data the indexer attaches to a variable/field.
type VarDef struct {
	DefCore
	VarType ident.Usr
}

// FuncEntity is one function's contribution from a single translation unit.
type FuncEntity struct {
	Usr          ident.Usr
	Def          *FuncDef
	Declarations []ident.Use
	Uses         []ident.Use
	Derived      []ident.Usr
}

// TypeEntity is one type's contribution from a single translation unit.
type TypeEntity struct {
	Usr          ident.Usr
	Def          *TypeDef
	Declarations []ident.Use
	Uses         []ident.Use
	Derived      []ident.Usr
	Instances    []ident.Usr
}

// VarEntity is one variable's contribution from a single translation unit.
type VarEntity struct {
	Usr          ident.Usr
	Def          *VarDef
	Declarations []ident.Use
	Uses         []ident.Use
}

// Snapshot is the full set of per-file facts produced by one indexer run
// over one translation unit.
type Snapshot struct {
	Path                 string
	Args                 []string
	Includes             []Include
	Dependencies         []Dependency
	SkippedByPreprocessor []ident.Range
	Language             string
	FileContents         string

	Usr2Type map[ident.Usr]*TypeEntity
	Usr2Func map[ident.Usr]*FuncEntity
	Usr2Var  map[ident.Usr]*VarEntity
}

// Empty returns a snapshot for path with no entities, used by the delta
// computer whenever there is no previous snapshot (spec §4.4: "If previous
// is absent, treat it as an empty snapshot of the same path").
func Empty(path string) *Snapshot {
	return &Snapshot{
		Path:     path,
		Usr2Type: map[ident.Usr]*TypeEntity{},
		Usr2Func: map[ident.Usr]*FuncEntity{},
		Usr2Var:  map[ident.Usr]*VarEntity{},
	}
}
