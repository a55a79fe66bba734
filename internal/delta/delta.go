// Package delta computes the difference between two successive snapshots of
// the same file, producing an IndexUpdate the Query DB can apply atomically.
// See spec §4.4.
package delta

import (
	"github.com/navcd/navc/internal/filedef"
	"github.com/navcd/navc/internal/ident"
	"github.com/navcd/navc/internal/snapshot"
)

// UseContribution is the (previous, new) pair of Use lists a single file
// contributed for one USR's declarations/uses list.
type UseContribution struct {
	Previous []ident.Use
	New      []ident.Use
}

// UsrContribution is the (previous, new) pair of Usr lists a single file
// contributed for one USR's derived/instances list.
type UsrContribution struct {
	Previous []ident.Usr
	New      []ident.Usr
}

// FuncDefUpdate pairs a USR with the new FuncDef the current snapshot
// contributed for it.
type FuncDefUpdate struct {
	Usr ident.Usr
	Def snapshot.FuncDef
}

// TypeDefUpdate pairs a USR with the new TypeDef the current snapshot
// contributed for it.
type TypeDefUpdate struct {
	Usr ident.Usr
	Def snapshot.TypeDef
}

// VarDefUpdate pairs a USR with the new VarDef the current snapshot
// contributed for it.
type VarDefUpdate struct {
	Usr ident.Usr
	Def snapshot.VarDef
}

// IndexUpdate is the self-contained difference between two snapshots of one
// file. FileID is unset (-1) until the Query DB stamps it in during apply.
type IndexUpdate struct {
	FileID int

	FilesRemoved   *string
	FilesDefUpdate *filedef.Update

	FuncsRemoved      []ident.Usr
	FuncsDefUpdate    []FuncDefUpdate
	FuncsDeclarations map[ident.Usr]*UseContribution
	FuncsUses         map[ident.Usr]*UseContribution
	FuncsDerived      map[ident.Usr]*UsrContribution

	TypesRemoved      []ident.Usr
	TypesDefUpdate    []TypeDefUpdate
	TypesDeclarations map[ident.Usr]*UseContribution
	TypesUses         map[ident.Usr]*UseContribution
	TypesDerived      map[ident.Usr]*UsrContribution
	TypesInstances    map[ident.Usr]*UsrContribution

	VarsRemoved      []ident.Usr
	VarsDefUpdate    []VarDefUpdate
	VarsDeclarations map[ident.Usr]*UseContribution
	VarsUses         map[ident.Usr]*UseContribution
}

func newIndexUpdate() *IndexUpdate {
	return &IndexUpdate{
		FileID:            -1,
		FuncsDeclarations: map[ident.Usr]*UseContribution{},
		FuncsUses:         map[ident.Usr]*UseContribution{},
		FuncsDerived:      map[ident.Usr]*UsrContribution{},
		TypesDeclarations: map[ident.Usr]*UseContribution{},
		TypesUses:         map[ident.Usr]*UseContribution{},
		TypesDerived:      map[ident.Usr]*UsrContribution{},
		TypesInstances:    map[ident.Usr]*UsrContribution{},
		VarsDeclarations:  map[ident.Usr]*UseContribution{},
		VarsUses:          map[ident.Usr]*UseContribution{},
	}
}

func useContribution(m map[ident.Usr]*UseContribution, usr ident.Usr) *UseContribution {
	c, ok := m[usr]
	if !ok {
		c = &UseContribution{}
		m[usr] = c
	}
	return c
}

func usrContribution(m map[ident.Usr]*UsrContribution, usr ident.Usr) *UsrContribution {
	c, ok := m[usr]
	if !ok {
		c = &UsrContribution{}
		m[usr] = c
	}
	return c
}

// Compute produces the IndexUpdate that takes the Query DB from previous's
// contribution of current.Path to current's contribution. previous may be
// nil, meaning "no prior snapshot for this file" (spec: treated as an empty
// snapshot of the same path).
func Compute(previous, current *snapshot.Snapshot) *IndexUpdate {
	if previous == nil {
		previous = snapshot.Empty(current.Path)
	}

	r := newIndexUpdate()

	built := filedef.Build(current)
	r.FilesDefUpdate = &built

	for usr, fn := range previous.Usr2Func {
		if usr.Reserved() {
			continue
		}
		if fn.Def != nil && fn.Def.Spell != nil {
			r.FuncsRemoved = append(r.FuncsRemoved, usr)
		}
		useContribution(r.FuncsDeclarations, usr).Previous = fn.Declarations
		useContribution(r.FuncsUses, usr).Previous = fn.Uses
		usrContribution(r.FuncsDerived, usr).Previous = fn.Derived
	}
	for usr, fn := range current.Usr2Func {
		if usr.Reserved() {
			continue
		}
		if fn.Def != nil && fn.Def.Spell != nil && fn.Def.DetailedName != "" {
			r.FuncsDefUpdate = append(r.FuncsDefUpdate, FuncDefUpdate{Usr: usr, Def: *fn.Def})
		}
		useContribution(r.FuncsDeclarations, usr).New = fn.Declarations
		useContribution(r.FuncsUses, usr).New = fn.Uses
		usrContribution(r.FuncsDerived, usr).New = fn.Derived
	}

	for usr, t := range previous.Usr2Type {
		if usr.Reserved() {
			continue
		}
		if t.Def != nil && t.Def.Spell != nil {
			r.TypesRemoved = append(r.TypesRemoved, usr)
		}
		useContribution(r.TypesDeclarations, usr).Previous = t.Declarations
		useContribution(r.TypesUses, usr).Previous = t.Uses
		usrContribution(r.TypesDerived, usr).Previous = t.Derived
		usrContribution(r.TypesInstances, usr).Previous = t.Instances
	}
	for usr, t := range current.Usr2Type {
		if usr.Reserved() {
			continue
		}
		if t.Def != nil && t.Def.Spell != nil && t.Def.DetailedName != "" {
			r.TypesDefUpdate = append(r.TypesDefUpdate, TypeDefUpdate{Usr: usr, Def: *t.Def})
		}
		useContribution(r.TypesDeclarations, usr).New = t.Declarations
		useContribution(r.TypesUses, usr).New = t.Uses
		usrContribution(r.TypesDerived, usr).New = t.Derived
		usrContribution(r.TypesInstances, usr).New = t.Instances
	}

	for usr, v := range previous.Usr2Var {
		if usr.Reserved() {
			continue
		}
		if v.Def != nil && v.Def.Spell != nil {
			r.VarsRemoved = append(r.VarsRemoved, usr)
		}
		useContribution(r.VarsDeclarations, usr).Previous = v.Declarations
		useContribution(r.VarsUses, usr).Previous = v.Uses
	}
	for usr, v := range current.Usr2Var {
		if usr.Reserved() {
			continue
		}
		if v.Def != nil && v.Def.Spell != nil && v.Def.DetailedName != "" {
			r.VarsDefUpdate = append(r.VarsDefUpdate, VarDefUpdate{Usr: usr, Def: *v.Def})
		}
		useContribution(r.VarsDeclarations, usr).New = v.Declarations
		useContribution(r.VarsUses, usr).New = v.Uses
	}

	return r
}

// ComputeRemoval produces the IndexUpdate that removes path entirely: no
// FilesDefUpdate, previous's contributions subtracted from every list, no
// new contribution added. This is delta.Compute(previous, empty) restricted
// to the file-removal shape spec §4.5 step 1 expects.
func ComputeRemoval(previous *snapshot.Snapshot) *IndexUpdate {
	u := Compute(previous, snapshot.Empty(previous.Path))
	u.FilesDefUpdate = nil
	path := previous.Path
	u.FilesRemoved = &path
	return u
}
