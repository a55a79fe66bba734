package testutil

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/navcd/navc/internal/ident"
	"github.com/navcd/navc/internal/snapshot"
)

// FixtureRange is the YAML-friendly spelling of an ident.Range: a single
// (line, col) position when the end is omitted, or an explicit span.
type FixtureRange struct {
	Line    int32 `yaml:"line"`
	Col     int32 `yaml:"col"`
	EndLine int32 `yaml:"end_line"`
	EndCol  int32 `yaml:"end_col"`
}

func (f FixtureRange) toRange() ident.Range {
	endLine, endCol := f.EndLine, f.EndCol
	if endLine == 0 && endCol == 0 {
		endLine, endCol = f.Line, f.Col+1
	}
	return ident.Range{
		Start: ident.Position{Line: f.Line, Column: f.Col},
		End:   ident.Position{Line: endLine, Column: endCol},
	}
}

// FixtureUse is the YAML-friendly spelling of an ident.Use, minus USR/Kind
// (which the loader fills in from the enclosing entity).
type FixtureUse struct {
	FixtureRange `yaml:",inline"`
	Role         []string `yaml:"role,omitempty"`
}

func (f FixtureUse) toUse(usr ident.Usr, kind ident.SymbolKind) ident.Use {
	return ident.Use{
		Range: f.toRange(),
		Usr:   usr,
		Kind:  kind,
		Role:  parseRoles(f.Role),
	}
}

var roleByName = map[string]ident.Role{
	"Declaration": ident.RoleDeclaration,
	"Definition":  ident.RoleDefinition,
	"Reference":   ident.RoleReference,
	"Read":        ident.RoleRead,
	"Write":       ident.RoleWrite,
	"Call":        ident.RoleCall,
	"Dynamic":     ident.RoleDynamic,
	"Address":     ident.RoleAddress,
	"Implicit":    ident.RoleImplicit,
}

func parseRoles(names []string) ident.Role {
	var r ident.Role
	for _, n := range names {
		r |= roleByName[strings.TrimSpace(n)]
	}
	return r
}

// FixtureDef is the YAML-friendly spelling of a DefCore plus every
// kind-specific field, so one struct can back Type/Func/Var fixtures.
type FixtureDef struct {
	DetailedName string        `yaml:"detailed_name"`
	ShortName    string        `yaml:"short_name,omitempty"`
	Spell        *FixtureUse   `yaml:"spell,omitempty"`
	Extent       *FixtureUse   `yaml:"extent,omitempty"`
	Callees      []FixtureUse  `yaml:"callees,omitempty"`
	Bases        []uint64      `yaml:"bases,omitempty"`
	VarType      uint64        `yaml:"var_type,omitempty"`
}

// FixtureEntity is one usr2type/usr2func/usr2var entry.
type FixtureEntity struct {
	Usr          uint64       `yaml:"usr"`
	Def          *FixtureDef  `yaml:"def,omitempty"`
	Declarations []FixtureUse `yaml:"declarations,omitempty"`
	Uses         []FixtureUse `yaml:"uses,omitempty"`
	Derived      []uint64     `yaml:"derived,omitempty"`
	Instances    []uint64     `yaml:"instances,omitempty"`
}

func toUsrs(vs []uint64) []ident.Usr {
	if vs == nil {
		return nil
	}
	out := make([]ident.Usr, len(vs))
	for i, v := range vs {
		out[i] = ident.Usr(v)
	}
	return out
}

// FixtureSnapshot is the YAML document shape loaded by LoadSnapshot.
type FixtureSnapshot struct {
	Path         string          `yaml:"path"`
	Language     string          `yaml:"language,omitempty"`
	FileContents string          `yaml:"file_contents,omitempty"`
	Types        []FixtureEntity `yaml:"types,omitempty"`
	Funcs        []FixtureEntity `yaml:"funcs,omitempty"`
	Vars         []FixtureEntity `yaml:"vars,omitempty"`
}

func toUses(fs []FixtureUse, usr ident.Usr, kind ident.SymbolKind) []ident.Use {
	if fs == nil {
		return nil
	}
	out := make([]ident.Use, len(fs))
	for i, f := range fs {
		out[i] = f.toUse(usr, kind)
	}
	return out
}

// LoadSnapshot parses a YAML fixture into a snapshot.Snapshot, grounded in
// aidanlsb-raven's yaml.v3-based fixture parsing.
func LoadSnapshot(text string) (*snapshot.Snapshot, error) {
	var fx FixtureSnapshot
	if err := yaml.Unmarshal([]byte(text), &fx); err != nil {
		return nil, err
	}

	snap := snapshot.Empty(fx.Path)
	snap.Language = fx.Language
	snap.FileContents = fx.FileContents

	for _, e := range fx.Types {
		usr := ident.Usr(e.Usr)
		te := &snapshot.TypeEntity{
			Usr:          usr,
			Declarations: toUses(e.Declarations, usr, ident.Type),
			Uses:         toUses(e.Uses, usr, ident.Type),
			Derived:      toUsrs(e.Derived),
			Instances:    toUsrs(e.Instances),
		}
		if e.Def != nil {
			te.Def = &snapshot.TypeDef{
				DefCore: defCore(e.Def, usr, ident.Type),
				Bases:   toUsrs(e.Def.Bases),
			}
		}
		snap.Usr2Type[usr] = te
	}

	for _, e := range fx.Funcs {
		usr := ident.Usr(e.Usr)
		fe := &snapshot.FuncEntity{
			Usr:          usr,
			Declarations: toUses(e.Declarations, usr, ident.Func),
			Uses:         toUses(e.Uses, usr, ident.Func),
			Derived:      toUsrs(e.Derived),
		}
		if e.Def != nil {
			fe.Def = &snapshot.FuncDef{
				DefCore: defCore(e.Def, usr, ident.Func),
				Callees: toUses(e.Def.Callees, usr, ident.Func),
			}
		}
		snap.Usr2Func[usr] = fe
	}

	for _, e := range fx.Vars {
		usr := ident.Usr(e.Usr)
		ve := &snapshot.VarEntity{
			Usr:          usr,
			Declarations: toUses(e.Declarations, usr, ident.Var),
			Uses:         toUses(e.Uses, usr, ident.Var),
		}
		if e.Def != nil {
			ve.Def = &snapshot.VarDef{
				DefCore: defCore(e.Def, usr, ident.Var),
				VarType: ident.Usr(e.Def.VarType),
			}
		}
		snap.Usr2Var[usr] = ve
	}

	return snap, nil
}

func defCore(d *FixtureDef, usr ident.Usr, kind ident.SymbolKind) snapshot.DefCore {
	dc := snapshot.DefCore{DetailedName: d.DetailedName, ShortName: d.ShortName}
	if d.Spell != nil {
		u := d.Spell.toUse(usr, kind)
		dc.Spell = &u
	}
	if d.Extent != nil {
		u := d.Extent.toUse(usr, kind)
		dc.Extent = &u
	}
	return dc
}
