// Package watch walks and watches a set of directories for C/C++ source
// changes, following google-navc's files.go traversal and fsnotify wiring.
// Unlike files.go, state lives on a *Watcher value instead of package-level
// globals, so more than one can run in a process (useful for tests).
package watch

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	fsnotify "gopkg.in/fsnotify.v1"
)

var (
	validSourceRe = regexp.MustCompile(`^[^.].*\.(c|cc|cpp|cxx)$`)
	validHeaderRe = regexp.MustCompile(`^[^.].*\.(h|hh|hpp|hxx)$`)
)

// Op classifies what happened to a path.
type Op int

const (
	// OpFound is emitted once per file discovered by an initial Walk.
	OpFound Op = iota
	// OpChanged is emitted for a create or write on a source or header file.
	OpChanged
	// OpRemoved is emitted for a remove or rename.
	OpRemoved
)

func (o Op) String() string {
	switch o {
	case OpFound:
		return "found"
	case OpChanged:
		return "changed"
	case OpRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is one file-level change the caller should act on.
type Event struct {
	Path     string
	Op       Op
	IsHeader bool
}

// Watcher walks a set of root directories once, then reports subsequent
// filesystem changes under them until Close is called.
type Watcher struct {
	roots  []string
	fsw    *fsnotify.Watcher
	events chan Event
	errs   chan error
	done   chan struct{}
}

// New starts watching roots. Callers should range over Events()/Errors()
// until Close, and call Walk once to get the initial file set.
func New(roots []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		roots:  roots,
		fsw:    fsw,
		events: make(chan Event, 64),
		errs:   make(chan error, 16),
		done:   make(chan struct{}),
	}
	go w.pump()
	return w, nil
}

// Events returns the channel Watch results are delivered on.
func (w *Watcher) Events() <-chan Event { return w.events }

// Errors returns the channel underlying fsnotify errors are delivered on.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops watching and releases the underlying inotify/kqueue handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

// Walk traverses every root once, adding a watch on each directory it
// visits and emitting OpFound for every source or header file it finds.
func (w *Watcher) Walk() error {
	for _, root := range w.roots {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return filepath.SkipDir
			}
			if isHidden(path) && path != root {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if info.IsDir() {
				return w.fsw.Add(path)
			}
			if isSource(path) || isHeader(path) {
				w.events <- Event{Path: path, Op: OpFound, IsHeader: isHeader(path)}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) pump() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.errs <- err
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	base := filepath.Base(ev.Name)
	if base != "" && base[0] == '.' {
		return
	}

	info, err := os.Stat(ev.Name)
	if err == nil && info.IsDir() {
		w.handleDirEvent(ev)
		return
	}

	path := filepath.Clean(ev.Name)
	switch {
	case isSource(path) || isHeader(path):
		switch {
		case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
			w.events <- Event{Path: path, Op: OpChanged, IsHeader: isHeader(path)}
		case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
			w.events <- Event{Path: path, Op: OpRemoved, IsHeader: isHeader(path)}
		}
	}
}

func (w *Watcher) handleDirEvent(ev fsnotify.Event) {
	switch {
	case ev.Op&fsnotify.Create != 0:
		filepath.Walk(ev.Name, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return filepath.SkipDir
			}
			if info.IsDir() {
				return w.fsw.Add(path)
			}
			if isSource(path) || isHeader(path) {
				w.events <- Event{Path: path, Op: OpChanged, IsHeader: isHeader(path)}
			}
			return nil
		})
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.fsw.Remove(ev.Name)
	}
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

func isSource(path string) bool { return validSourceRe.MatchString(filepath.Base(path)) }
func isHeader(path string) bool { return validHeaderRe.MatchString(filepath.Base(path)) }
