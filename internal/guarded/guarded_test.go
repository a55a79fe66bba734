package guarded_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/navcd/navc/internal/delta"
	"github.com/navcd/navc/internal/guarded"
	"github.com/navcd/navc/internal/ident"
	"github.com/navcd/navc/internal/querydb"
	"github.com/navcd/navc/internal/testutil"
)

func TestApplyThenReadSeesTheUpdate(t *testing.T) {
	snap, err := testutil.LoadSnapshot(`
path: /g.cc
types:
  - usr: 1
    def: {detailed_name: "T", spell: {line: 1, col: 0, end_line: 1, end_col: 1}}
`)
	require.NoError(t, err)

	db := guarded.New()
	db.Apply(delta.Compute(nil, snap))

	var found bool
	db.Read(func(inner *querydb.DB) {
		found = inner.HasType(1)
	})
	require.True(t, found)
	require.Equal(t, "T", db.SymbolName(ident.SymbolId{Kind: ident.Type, Usr: 1}, true))
}

func TestConcurrentReadsDoNotRace(t *testing.T) {
	snap, err := testutil.LoadSnapshot(`
path: /g2.cc
funcs:
  - usr: 9
    def: {detailed_name: "f", spell: {line: 1, col: 0, end_line: 1, end_col: 1}}
`)
	require.NoError(t, err)

	db := guarded.New()
	db.Apply(delta.Compute(nil, snap))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			db.Read(func(inner *querydb.DB) {
				_ = inner.HasFunc(9)
			})
		}()
	}
	wg.Wait()
}
