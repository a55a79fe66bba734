package querydb

import (
	"github.com/navcd/navc/internal/delta"
	"github.com/navcd/navc/internal/filedef"
	"github.com/navcd/navc/internal/ident"
	"github.com/navcd/navc/internal/snapshot"
)

// Apply merges update into the DB following the fixed order spec §4.5
// prescribes. It is total on well-formed input; the only failure mode is a
// panic on invariant violation (spec §7).
func (db *DB) Apply(update *delta.IndexUpdate) {
	// 1. File removal.
	removedID := -1
	if update.FilesRemoved != nil {
		if id, ok := db.FileSlot(*update.FilesRemoved); ok {
			db.files[id].Def = nil
			removedID = id
		}
	}

	// 2. File update.
	if update.FilesDefUpdate != nil {
		update.FileID = db.updateFile(update.FilesDefUpdate)
	} else {
		update.FileID = -1
	}
	// A pure removal keeps FileID at -1 but still subtracts the removed
	// file's defs and contributions, which carry that file's slot.
	fileID := update.FileID
	if fileID < 0 {
		fileID = removedID
	}

	// 3-4. Per-kind removal and def update, then 5. per-list merge, for
	// Func/Type/Var in turn (mirrors ccls's ApplyIndexUpdate order exactly).
	db.removeFuncUsrs(fileID, update.FuncsRemoved)
	db.updateFuncDefs(fileID, update.FuncsDefUpdate)
	mergeUseList(db.funcUsr, &db.funcs, newFuncRecord, update.FuncsDeclarations, fileID,
		func(r *FuncRecord) *[]ident.Use { return &r.Declarations })
	mergeUsrList(db.funcUsr, &db.funcs, newFuncRecord, update.FuncsDerived,
		func(r *FuncRecord) *[]ident.Usr { return &r.Derived })
	mergeUseList(db.funcUsr, &db.funcs, newFuncRecord, update.FuncsUses, fileID,
		func(r *FuncRecord) *[]ident.Use { return &r.Uses })

	db.removeTypeUsrs(fileID, update.TypesRemoved)
	db.updateTypeDefs(fileID, update.TypesDefUpdate)
	mergeUseList(db.typeUsr, &db.types, newTypeRecord, update.TypesDeclarations, fileID,
		func(r *TypeRecord) *[]ident.Use { return &r.Declarations })
	mergeUsrList(db.typeUsr, &db.types, newTypeRecord, update.TypesDerived,
		func(r *TypeRecord) *[]ident.Usr { return &r.Derived })
	mergeUsrList(db.typeUsr, &db.types, newTypeRecord, update.TypesInstances,
		func(r *TypeRecord) *[]ident.Usr { return &r.Instances })
	mergeUseList(db.typeUsr, &db.types, newTypeRecord, update.TypesUses, fileID,
		func(r *TypeRecord) *[]ident.Use { return &r.Uses })

	db.removeVarUsrs(fileID, update.VarsRemoved)
	db.updateVarDefs(fileID, update.VarsDefUpdate)
	mergeUseList(db.varUsr, &db.vars, newVarRecord, update.VarsDeclarations, fileID,
		func(r *VarRecord) *[]ident.Use { return &r.Declarations })
	mergeUseList(db.varUsr, &db.vars, newVarRecord, update.VarsUses, fileID,
		func(r *VarRecord) *[]ident.Use { return &r.Uses })
}

// updateFile resolves or creates u's file slot, writes the new Def, and
// returns the slot index (spec §4.5 step 2 / DB::Update(QueryFile::DefUpdate&&)).
func (db *DB) updateFile(u *filedef.Update) int {
	key := ident.CanonicalizePath(u.Value.Path)
	id, ok := db.name2FileID[key]
	if !ok {
		id = len(db.files)
		db.name2FileID[key] = id
		db.files = append(db.files, FileRecord{})
	}
	def := u.Value
	db.files[id].Def = &def
	return id
}

func newFuncRecord(usr ident.Usr) *FuncRecord { return &FuncRecord{Usr: usr} }
func newTypeRecord(usr ident.Usr) *TypeRecord { return &TypeRecord{Usr: usr} }
func newVarRecord(usr ident.Usr) *VarRecord   { return &VarRecord{Usr: usr} }

// removeFuncUsrs erases, for each usr in toRemove, the Def whose
// spell.file_id == fileID. Unknown USRs are silently skipped (spec §4.5
// step 3 / §9's preserved FIXME-continue tolerance).
func (db *DB) removeFuncUsrs(fileID int, toRemove []ident.Usr) {
	for _, usr := range toRemove {
		id, ok := db.funcUsr[usr]
		if !ok {
			continue
		}
		rec := db.funcs[id]
		rec.Def = removeDefForFile(rec.Def, fileID, func(d snapshot.FuncDef) *ident.Use { return d.Spell })
	}
}

func (db *DB) removeTypeUsrs(fileID int, toRemove []ident.Usr) {
	for _, usr := range toRemove {
		id, ok := db.typeUsr[usr]
		if !ok {
			continue
		}
		rec := db.types[id]
		rec.Def = removeDefForFile(rec.Def, fileID, func(d snapshot.TypeDef) *ident.Use { return d.Spell })
	}
}

func (db *DB) removeVarUsrs(fileID int, toRemove []ident.Usr) {
	for _, usr := range toRemove {
		id, ok := db.varUsr[usr]
		if !ok {
			continue
		}
		rec := db.vars[id]
		rec.Def = removeDefForFile(rec.Def, fileID, func(d snapshot.VarDef) *ident.Use { return d.Spell })
	}
}

// removeDefForFile drops the single Def (if any) whose spell.FileID ==
// fileID. Spec I2 guarantees there is at most one.
func removeDefForFile[D any](defs []D, fileID int, spell func(D) *ident.Use) []D {
	for i, d := range defs {
		if s := spell(d); s != nil && s.FileID == fileID {
			return append(defs[:i], defs[i+1:]...)
		}
	}
	return defs
}

func (db *DB) updateFuncDefs(fileID int, us []delta.FuncDefUpdate) {
	for _, u := range us {
		def := u.Def
		ident.Assertf(def.DetailedName != "", "func def for usr=%d has empty detailed name", u.Usr)
		stampUsePtr(def.Spell, fileID)
		stampUsePtr(def.Extent, fileID)
		for i := range def.Callees {
			def.Callees[i].FileID = fileID
		}
		rec := db.funcRecord(u.Usr)
		if !replaceDefInPlace(rec.Def, def, func(d snapshot.FuncDef) *ident.Use { return d.Spell }) {
			rec.Def = append(rec.Def, def)
		}
	}
}

func (db *DB) updateTypeDefs(fileID int, us []delta.TypeDefUpdate) {
	for _, u := range us {
		def := u.Def
		ident.Assertf(def.DetailedName != "", "type def for usr=%d has empty detailed name", u.Usr)
		stampUsePtr(def.Spell, fileID)
		stampUsePtr(def.Extent, fileID)
		rec := db.typeRecord(u.Usr)
		if !replaceDefInPlace(rec.Def, def, func(d snapshot.TypeDef) *ident.Use { return d.Spell }) {
			rec.Def = append(rec.Def, def)
		}
	}
}

func (db *DB) updateVarDefs(fileID int, us []delta.VarDefUpdate) {
	for _, u := range us {
		def := u.Def
		ident.Assertf(def.DetailedName != "", "var def for usr=%d has empty detailed name", u.Usr)
		stampUsePtr(def.Spell, fileID)
		stampUsePtr(def.Extent, fileID)
		rec := db.varRecord(u.Usr)
		if !replaceDefInPlace(rec.Def, def, func(d snapshot.VarDef) *ident.Use { return d.Spell }) {
			rec.Def = append(rec.Def, def)
		}
	}
}

// funcRecord/typeRecord/varRecord resolve or create the slot for usr,
// keeping the usr->slot map and the entity vector in lockstep (spec §4.5's
// "consistency check").
func (db *DB) funcRecord(usr ident.Usr) *FuncRecord {
	idx, ok := db.funcUsr[usr]
	if !ok {
		idx = len(db.funcs)
		db.funcUsr[usr] = idx
		db.funcs = append(db.funcs, newFuncRecord(usr))
	}
	ident.Assertf(idx < len(db.funcs), "func slot/vector length diverge for usr=%d", usr)
	db.funcs[idx].Usr = usr
	return db.funcs[idx]
}

func (db *DB) typeRecord(usr ident.Usr) *TypeRecord {
	idx, ok := db.typeUsr[usr]
	if !ok {
		idx = len(db.types)
		db.typeUsr[usr] = idx
		db.types = append(db.types, newTypeRecord(usr))
	}
	ident.Assertf(idx < len(db.types), "type slot/vector length diverge for usr=%d", usr)
	db.types[idx].Usr = usr
	return db.types[idx]
}

func (db *DB) varRecord(usr ident.Usr) *VarRecord {
	idx, ok := db.varUsr[usr]
	if !ok {
		idx = len(db.vars)
		db.varUsr[usr] = idx
		db.vars = append(db.vars, newVarRecord(usr))
	}
	ident.Assertf(idx < len(db.vars), "var slot/vector length diverge for usr=%d", usr)
	db.vars[idx].Usr = usr
	return db.vars[idx]
}

// replaceDefInPlace implements I2: if a Def with the same spell.FileID
// already exists, it is overwritten in place (preserving list order);
// otherwise the caller appends.
func replaceDefInPlace[D any](defs []D, newDef D, spell func(D) *ident.Use) bool {
	ns := spell(newDef)
	if ns == nil {
		return false
	}
	for i, d := range defs {
		if s := spell(d); s != nil && s.FileID == ns.FileID {
			defs[i] = newDef
			return true
		}
	}
	return false
}

func stampUsePtr(u *ident.Use, fileID int) {
	if u != nil {
		u.FileID = fileID
	}
}

func stampUses(uses []ident.Use, fileID int) {
	for i := range uses {
		uses[i].FileID = fileID
	}
}

// mergeUseList is the generic form of ccls's HANDLE_MERGEABLE macro for
// Use-valued per-entity lists (declarations, uses): subtract the previous
// contribution, then append the new one, stamping FileID on both first.
func mergeUseList[R any](usrMap map[ident.Usr]int, entities *[]*R, newRecord func(ident.Usr) *R,
	contributions map[ident.Usr]*delta.UseContribution, fileID int, list func(*R) *[]ident.Use) {
	for usr, c := range contributions {
		if usr.Reserved() {
			continue
		}
		idx, ok := usrMap[usr]
		if !ok {
			idx = len(*entities)
			usrMap[usr] = idx
			*entities = append(*entities, newRecord(usr))
		}
		ident.Assertf(idx < len(*entities), "slot/vector length diverge for usr=%d", usr)
		target := list((*entities)[idx])
		stampUses(c.Previous, fileID)
		*target = subtractUses(*target, c.Previous)
		stampUses(c.New, fileID)
		*target = append(*target, c.New...)
	}
}

// mergeUsrList is the generic form of HANDLE_MERGEABLE for Usr-valued
// per-entity lists (derived, instances). These carry no file_id of their
// own; ordering isn't observable and duplicates are allowed (spec §9).
func mergeUsrList[R any](usrMap map[ident.Usr]int, entities *[]*R, newRecord func(ident.Usr) *R,
	contributions map[ident.Usr]*delta.UsrContribution, list func(*R) *[]ident.Usr) {
	for usr, c := range contributions {
		if usr.Reserved() {
			continue
		}
		idx, ok := usrMap[usr]
		if !ok {
			idx = len(*entities)
			usrMap[usr] = idx
			*entities = append(*entities, newRecord(usr))
		}
		ident.Assertf(idx < len(*entities), "slot/vector length diverge for usr=%d", usr)
		target := list((*entities)[idx])
		*target = subtractUsrs(*target, c.Previous)
		*target = append(*target, c.New...)
	}
}

type useKey struct {
	r ident.Range
	f int
}

// subtractUses removes, at most once each, every element of toRemove from
// from, keyed by (range, file_id) per spec §4.1. Duplicates in `from` that
// are not named in toRemove survive untouched.
func subtractUses(from []ident.Use, toRemove []ident.Use) []ident.Use {
	if len(toRemove) == 0 {
		return from
	}
	counts := make(map[useKey]int, len(toRemove))
	for _, u := range toRemove {
		counts[useKey{u.Range, u.FileID}]++
	}
	out := from[:0]
	for _, u := range from {
		k := useKey{u.Range, u.FileID}
		if counts[k] > 0 {
			counts[k]--
			continue
		}
		out = append(out, u)
	}
	return out
}

// subtractUsrs is subtractUses's counterpart for plain Usr lists.
func subtractUsrs(from []ident.Usr, toRemove []ident.Usr) []ident.Usr {
	if len(toRemove) == 0 {
		return from
	}
	counts := make(map[ident.Usr]int, len(toRemove))
	for _, u := range toRemove {
		counts[u]++
	}
	out := from[:0]
	for _, u := range from {
		if counts[u] > 0 {
			counts[u]--
			continue
		}
		out = append(out, u)
	}
	return out
}
