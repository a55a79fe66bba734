package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/navcd/navc/internal/config"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, []string{"."}, cfg.IndexDirs)
	require.Equal(t, "gob", cfg.IndexerFormat)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)
}

func TestLoadOverridesOnlySetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navc.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
store_dir = "/custom/store"
index_dirs = ["src", "include"]
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "/custom/store", cfg.StoreDir)
	require.Equal(t, []string{"src", "include"}, cfg.IndexDirs)
	require.Equal(t, "gob", cfg.IndexerFormat, "unset fields keep their default")
}

func TestLoadNormalizesNonPositiveIndexingThreads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navc.toml")
	require.NoError(t, os.WriteFile(path, []byte(`indexing_threads = 0`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Greater(t, cfg.IndexingThreads, 0)
}
