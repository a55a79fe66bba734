package querydb

import (
	"github.com/navcd/navc/internal/ident"
	"github.com/navcd/navc/internal/snapshot"
)

// HasFunc, HasType, HasVar are O(1) existence checks (spec §4.6).
func (db *DB) HasFunc(usr ident.Usr) bool { _, ok := db.funcUsr[usr]; return ok }
func (db *DB) HasType(usr ident.Usr) bool { _, ok := db.typeUsr[usr]; return ok }
func (db *DB) HasVar(usr ident.Usr) bool  { _, ok := db.varUsr[usr]; return ok }

// Func, Type, Var return the entity by USR. Precondition: the USR exists
// (check with HasFunc/HasType/HasVar first). Violating it is a programmer
// error, not a data error, so this panics rather than returning ok/false.
func (db *DB) Func(usr ident.Usr) *FuncRecord {
	idx, ok := db.funcUsr[usr]
	ident.Assertf(ok, "Func called for unknown usr=%d", usr)
	return db.funcs[idx]
}

func (db *DB) Type(usr ident.Usr) *TypeRecord {
	idx, ok := db.typeUsr[usr]
	ident.Assertf(ok, "Type called for unknown usr=%d", usr)
	return db.types[idx]
}

func (db *DB) Var(usr ident.Usr) *VarRecord {
	idx, ok := db.varUsr[usr]
	ident.Assertf(ok, "Var called for unknown usr=%d", usr)
	return db.vars[idx]
}

// anyDef picks the last def with a spell, else the last def, else the zero
// value and false. This is the generic form of ccls's QueryEntity::AnyDef.
func anyDef[D any](defs []D, spell func(D) *ident.Use) (D, bool) {
	var zero D
	if len(defs) == 0 {
		return zero, false
	}
	for i := len(defs) - 1; i >= 0; i-- {
		if spell(defs[i]) != nil {
			return defs[i], true
		}
	}
	return defs[len(defs)-1], true
}

func funcSpell(d snapshot.FuncDef) *ident.Use { return d.Spell }
func typeSpell(d snapshot.TypeDef) *ident.Use { return d.Spell }
func varSpell(d snapshot.VarDef) *ident.Use   { return d.Spell }

// AnyDef returns r's preferred Def for display purposes (spec §4.6).
func (r *FuncRecord) AnyDef() (snapshot.FuncDef, bool) { return anyDef(r.Def, funcSpell) }
func (r *TypeRecord) AnyDef() (snapshot.TypeDef, bool) { return anyDef(r.Def, typeSpell) }
func (r *VarRecord) AnyDef() (snapshot.VarDef, bool)   { return anyDef(r.Def, varSpell) }

// SymbolName returns id's displayable name by consulting the entity's
// AnyDef, or the file's stored path for File symbols
// (spec §4.6). It returns "" if the symbol has no name to show, and panics
// if id.Usr names a File/Func/Type/Var slot that was never allocated
// (an unchecked-accessor invariant violation, per spec §7).
func (db *DB) SymbolName(id ident.SymbolId, qualified bool) string {
	switch id.Kind {
	case ident.File:
		f := db.File(int(id.Usr))
		if f.Def != nil {
			return f.Def.Path
		}
		return ""
	case ident.Func:
		if def, ok := db.Func(id.Usr).AnyDef(); ok {
			return def.Name(qualified)
		}
		return ""
	case ident.Type:
		if def, ok := db.Type(id.Usr).AnyDef(); ok {
			return def.Name(qualified)
		}
		return ""
	case ident.Var:
		if def, ok := db.Var(id.Usr).AnyDef(); ok {
			return def.Name(qualified)
		}
		return ""
	default:
		return ""
	}
}
