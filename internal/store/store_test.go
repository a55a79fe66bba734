package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/navcd/navc/internal/snapshot"
	"github.com/navcd/navc/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutThenGetRoundTrips(t *testing.T) {
	s := openTestStore(t)
	snap := snapshot.Empty("/a.cc")
	snap.Language = "c++"

	now := time.Now()
	require.NoError(t, s.Put(snap, now))

	got, mtime, ok, err := s.Get("/a.cc")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "c++", got.Language)
	require.WithinDuration(t, now, mtime, time.Second)
}

func TestGetMissingReturnsNotOk(t *testing.T) {
	s := openTestStore(t)
	_, _, ok, err := s.Get("/missing.cc")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIncludersTracksDependents(t *testing.T) {
	s := openTestStore(t)

	header := snapshot.Empty("/a.h")
	require.NoError(t, s.Put(header, time.Now()))

	src := snapshot.Empty("/a.cc")
	src.Dependencies = []snapshot.Dependency{{Name: "/a.h"}}
	require.NoError(t, s.Put(src, time.Now()))

	includers, err := s.Includers("/a.h")
	require.NoError(t, err)
	require.Contains(t, includers, "/a.cc")
}

func TestRemoveDropsTheSnapshot(t *testing.T) {
	s := openTestStore(t)
	snap := snapshot.Empty("/r.cc")
	require.NoError(t, s.Put(snap, time.Now()))

	require.NoError(t, s.Remove("/r.cc"))

	_, _, ok, err := s.Get("/r.cc")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPathsListsEverythingStored(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put(snapshot.Empty("/one.cc"), time.Now()))
	require.NoError(t, s.Put(snapshot.Empty("/two.cc"), time.Now()))

	paths, err := s.Paths()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"/one.cc", "/two.cc"}, paths)
}
