// Package querydb implements the live, mutable Query DB: dense vectors of
// File/Func/Type/Var records indexed by internal integer slots, and the
// bidirectional maps needed to resolve USRs and paths to those slots. See
// spec §4.5-§4.6.
//
// DB carries no internal synchronization; callers enforce the single
// writer / many readers discipline spec §5 assumes (see
// github.com/navcd/navc/internal/guarded for that wrapper).
package querydb

import (
	"github.com/navcd/navc/internal/filedef"
	"github.com/navcd/navc/internal/ident"
	"github.com/navcd/navc/internal/snapshot"
)

// FileRecord is one File slot. Def is nil once the file has been removed;
// the slot itself is never freed (spec I1).
type FileRecord struct {
	Def *filedef.Def
}

// FuncRecord is one Func entity slot.
type FuncRecord struct {
	Usr          ident.Usr
	Def          []snapshot.FuncDef
	Declarations []ident.Use
	Uses         []ident.Use
	Derived      []ident.Usr
}

// TypeRecord is one Type entity slot.
type TypeRecord struct {
	Usr          ident.Usr
	Def          []snapshot.TypeDef
	Declarations []ident.Use
	Uses         []ident.Use
	Derived      []ident.Usr
	Instances    []ident.Usr
}

// VarRecord is one Var entity slot.
type VarRecord struct {
	Usr          ident.Usr
	Def          []snapshot.VarDef
	Declarations []ident.Use
	Uses         []ident.Use
}

// DB is the live, in-memory query database.
type DB struct {
	files       []FileRecord
	name2FileID map[string]int

	funcs   []*FuncRecord
	types   []*TypeRecord
	vars    []*VarRecord
	funcUsr map[ident.Usr]int
	typeUsr map[ident.Usr]int
	varUsr  map[ident.Usr]int
}

// New returns an empty Query DB.
func New() *DB {
	return &DB{
		name2FileID: map[string]int{},
		funcUsr:     map[ident.Usr]int{},
		typeUsr:     map[ident.Usr]int{},
		varUsr:      map[ident.Usr]int{},
	}
}

// NumFiles returns the number of file slots ever allocated (including
// removed files, whose slots are retained per spec I1).
func (db *DB) NumFiles() int { return len(db.files) }

// File returns the file record for slot id. Precondition: 0 <= id <
// NumFiles().
func (db *DB) File(id int) *FileRecord {
	ident.Assertf(id >= 0 && id < len(db.files), "file slot %d out of range", id)
	return &db.files[id]
}

// FileSlot resolves path to its file slot, if one has been allocated.
func (db *DB) FileSlot(path string) (int, bool) {
	id, ok := db.name2FileID[ident.CanonicalizePath(path)]
	return id, ok
}
