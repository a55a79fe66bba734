package filedef_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/navcd/navc/internal/filedef"
	"github.com/navcd/navc/internal/testutil"
)

func TestBuildFirstTimeIndex(t *testing.T) {
	snap, err := testutil.LoadSnapshot(`
path: /a.cc
types:
  - usr: 7
    def:
      detailed_name: "T"
      spell: {line: 3, col: 5, end_line: 3, end_col: 6}
funcs:
  - usr: 9
    def:
      detailed_name: "f"
      spell: {line: 1, col: 0, end_line: 1, end_col: 1}
    uses:
      - {line: 10, col: 0, role: [Reference]}
`)
	require.NoError(t, err)

	upd := filedef.Build(snap)

	require.Len(t, upd.Value.AllSymbols, 3)
	for i := 1; i < len(upd.Value.AllSymbols); i++ {
		require.False(t, upd.Value.AllSymbols[i].Range.Start.Less(upd.Value.AllSymbols[i-1].Range.Start))
	}
	// Neither def has an extent and there are no declarations, so nothing
	// reaches the outline; uses never do.
	require.LessOrEqual(t, len(upd.Value.Outline), len(upd.Value.AllSymbols))
}

func TestBuildImplicitUseWidening(t *testing.T) {
	snap, err := testutil.LoadSnapshot(`
path: /b.cc
funcs:
  - usr: 55
    uses:
      - {line: 4, col: 8, end_line: 4, end_col: 8, role: [Implicit]}
`)
	require.NoError(t, err)

	upd := filedef.Build(snap)

	require.Len(t, upd.Value.AllSymbols, 1)
	got := upd.Value.AllSymbols[0].Range
	require.EqualValues(t, 7, got.Start.Column)
	require.EqualValues(t, 9, got.End.Column)
}

func TestBuildImplicitUseWideningDoesNotUnderflowColumnZero(t *testing.T) {
	snap, err := testutil.LoadSnapshot(`
path: /c.cc
funcs:
  - usr: 55
    uses:
      - {line: 4, col: 0, end_line: 4, end_col: 0, role: [Implicit]}
`)
	require.NoError(t, err)

	upd := filedef.Build(snap)

	require.Len(t, upd.Value.AllSymbols, 1)
	got := upd.Value.AllSymbols[0].Range
	require.EqualValues(t, 0, got.Start.Column)
	require.EqualValues(t, 1, got.End.Column)
}

func TestBuildOutlineExcludesReferenceDecls(t *testing.T) {
	snap, err := testutil.LoadSnapshot(`
path: /d.cc
types:
  - usr: 3
    declarations:
      - {line: 2, col: 1, role: [Reference]}
`)
	require.NoError(t, err)

	upd := filedef.Build(snap)

	require.Len(t, upd.Value.AllSymbols, 1)
	require.Empty(t, upd.Value.Outline)
}

func TestBuildIsPureNoSnapshotMutation(t *testing.T) {
	snap, err := testutil.LoadSnapshot(`
path: /e.cc
funcs:
  - usr: 1
    uses:
      - {line: 1, col: 5, end_line: 1, end_col: 5, role: [Implicit]}
`)
	require.NoError(t, err)

	before := snap.Usr2Func[1].Uses[0].Range
	filedef.Build(snap)
	after := snap.Usr2Func[1].Uses[0].Range

	require.Equal(t, before, after, "Build must not mutate the input snapshot's uses in place")
}
