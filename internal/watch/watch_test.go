package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsSourceAndIsHeaderClassifyExtensions(t *testing.T) {
	require.True(t, isSource("a.cc"))
	require.True(t, isSource("a.cpp"))
	require.True(t, isSource("a.c"))
	require.False(t, isSource(".hidden.c"))
	require.True(t, isHeader("a.h"))
	require.True(t, isHeader("a.hpp"))
	require.False(t, isHeader("a.cc"))
}

func TestWalkEmitsFoundForSourceAndHeaderFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cc"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.h"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte(""), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "b.cc"), []byte(""), 0o644))

	w, err := New([]string{dir})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Walk())

	seen := map[string]bool{}
	timeout := time.After(2 * time.Second)
	for len(seen) < 2 {
		select {
		case ev := <-w.Events():
			require.Equal(t, OpFound, ev.Op)
			seen[filepath.Base(ev.Path)] = true
		case <-timeout:
			t.Fatalf("timed out waiting for events, saw %v", seen)
		}
	}

	require.True(t, seen["a.cc"])
	require.True(t, seen["a.h"])
	require.False(t, seen["README.md"])
	require.False(t, seen["b.cc"], "hidden .git directory must not be walked")
}
