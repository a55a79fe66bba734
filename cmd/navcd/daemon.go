package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/navcd/navc/internal/delta"
	"github.com/navcd/navc/internal/guarded"
	"github.com/navcd/navc/internal/logging"
	"github.com/navcd/navc/internal/rpcserver"
	"github.com/navcd/navc/internal/snapshot"
	"github.com/navcd/navc/internal/store"
	"github.com/navcd/navc/internal/watch"
)

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logging.Init(cfg.Verbose)

	st, err := store.Open(cfg.StoreDir)
	if err != nil {
		return err
	}
	defer st.Close()

	db := guarded.New()
	if err := replayStore(db, st); err != nil {
		return err
	}

	w, err := watch.New(cfg.IndexDirs)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	handler := rpcserver.NewHandler(db)
	srv, err := rpcserver.Listen(cfg.SocketPath, handler)
	if err != nil {
		return fmt.Errorf("starting rpc server: %w", err)
	}
	defer srv.Close()

	log.Printf("navcd: watching %v, socket %s, store %s", cfg.IndexDirs, cfg.SocketPath, cfg.StoreDir)

	idx := newSubprocessIndexer(cfg)

	if err := w.Walk(); err != nil {
		return fmt.Errorf("walking index dirs: %w", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case ev := <-w.Events():
			handleWatchEvent(db, st, idx, ev)
		case err := <-w.Errors():
			log.Println("watch error:", err)
		case <-sig:
			log.Println("navcd: shutting down")
			return nil
		}
	}
}

// replayStore loads every previously cached snapshot back into db, so a
// restarted daemon answers queries before reindexing. The initial Walk
// still reindexes every file it finds; replay does not skip any of them.
func replayStore(db *guarded.DB, st *store.Store) error {
	paths, err := st.Paths()
	if err != nil {
		return fmt.Errorf("listing store on startup: %w", err)
	}
	for _, path := range paths {
		snap, _, ok, err := st.Get(path)
		if err != nil {
			return fmt.Errorf("replaying %s: %w", path, err)
		}
		if !ok {
			continue
		}
		db.Apply(delta.Compute(nil, snap))
	}
	return nil
}

func handleWatchEvent(db *guarded.DB, st *store.Store, idx *subprocessIndexer, ev watch.Event) {
	switch ev.Op {
	case watch.OpFound, watch.OpChanged:
		reindex(db, st, idx, ev.Path)
	case watch.OpRemoved:
		removePath(db, st, ev.Path)
	}
}

func reindex(db *guarded.DB, st *store.Store, idx *subprocessIndexer, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}

	previous, _, _, err := st.Get(path)
	if err != nil {
		log.Println("store lookup failed for", path, err)
		previous = nil
	}

	current, err := idx.Index(path)
	if err != nil {
		log.Println("indexing failed for", path, err)
		return
	}

	db.Apply(delta.Compute(previous, current))
	if err := st.Put(current, info.ModTime()); err != nil {
		log.Println("store write failed for", path, err)
	}

	deps, err := st.Includers(path)
	if err != nil {
		log.Println("includer lookup failed for", path, err)
		return
	}
	for _, dep := range deps {
		reindex(db, st, idx, dep)
	}
}

func removePath(db *guarded.DB, st *store.Store, path string) {
	previous, _, ok, err := st.Get(path)
	if err != nil || !ok {
		return
	}
	db.Apply(delta.ComputeRemoval(previous))
	if err := st.Remove(path); err != nil {
		log.Println("store remove failed for", path, err)
	}
}

// snapshotIndexer turns a source path into an Index Snapshot. The
// clang-based reference implementation of this step is out of scope for
// this module (spec §1); subprocessIndexer is the seam it plugs into.
type snapshotIndexer interface {
	Index(path string) (*snapshot.Snapshot, error)
}

var _ snapshotIndexer = (*subprocessIndexer)(nil)
