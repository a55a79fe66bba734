package main

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/navcd/navc/internal/config"
	"github.com/navcd/navc/internal/serialize"
	"github.com/navcd/navc/internal/snapshot"
)

// subprocessIndexer shells out to an external indexer executable per file,
// following google-navc's model of one process per translation unit
// (its go-clang-based Parser, out of scope here), and decodes its result
// with internal/serialize instead of assuming a shared address space.
type subprocessIndexer struct {
	cmd    string
	format serialize.Format
}

func newSubprocessIndexer(cfg *config.Config) *subprocessIndexer {
	format := serialize.Gob
	if cfg.IndexerFormat == "json" {
		format = serialize.JSON
	}
	return &subprocessIndexer{cmd: cfg.IndexerCmd, format: format}
}

// Index runs the configured indexer command against path and decodes its
// stdout as an Index Snapshot. If no indexer command is configured, it
// returns an empty snapshot for path so the daemon still exercises the
// delta/apply pipeline without a real clang backend attached.
func (idx *subprocessIndexer) Index(path string) (*snapshot.Snapshot, error) {
	if idx.cmd == "" {
		return snapshot.Empty(path), nil
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(idx.cmd, path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running indexer for %s: %w: %s", path, err, stderr.String())
	}

	snap, err := serialize.Decode(stdout.Bytes(), idx.format)
	if err != nil {
		return nil, fmt.Errorf("decoding indexer output for %s: %w", path, err)
	}
	return snap, nil
}
