package serialize_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/navcd/navc/internal/ident"
	"github.com/navcd/navc/internal/serialize"
	"github.com/navcd/navc/internal/snapshot"
)

func buildSample() *snapshot.Snapshot {
	snap := snapshot.Empty("/a.cc")
	snap.Language = "c++"
	usr := ident.Usr(7)
	snap.Usr2Type[usr] = &snapshot.TypeEntity{
		Usr: usr,
		Def: &snapshot.TypeDef{
			DefCore: snapshot.DefCore{
				DetailedName: "T",
				Spell:        &ident.Use{Range: ident.Range{End: ident.Position{Column: 1}}},
			},
		},
	}
	return snap
}

func TestGobRoundTrip(t *testing.T) {
	snap := buildSample()
	b, err := serialize.Encode(snap, serialize.Gob)
	require.NoError(t, err)

	got, err := serialize.Decode(b, serialize.Gob)
	require.NoError(t, err)
	require.Equal(t, snap.Path, got.Path)
	require.Equal(t, "T", got.Usr2Type[7].Def.DetailedName)
}

func TestJSONRoundTrip(t *testing.T) {
	snap := buildSample()
	b, err := serialize.Encode(snap, serialize.JSON)
	require.NoError(t, err)

	got, err := serialize.Decode(b, serialize.JSON)
	require.NoError(t, err)
	require.Equal(t, snap.Path, got.Path)
	require.Equal(t, "T", got.Usr2Type[7].Def.DetailedName)
}

func TestDecodeUnknownFormatErrors(t *testing.T) {
	_, err := serialize.Decode([]byte("x"), serialize.Format(99))
	require.Error(t, err)
}
