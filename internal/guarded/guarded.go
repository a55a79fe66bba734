// Package guarded wraps internal/querydb.DB with the single-writer,
// many-reader discipline spec §5 assumes but the core package deliberately
// does not enforce itself.
package guarded

import (
	"sync"

	"github.com/navcd/navc/internal/delta"
	"github.com/navcd/navc/internal/ident"
	"github.com/navcd/navc/internal/querydb"
)

// DB serializes writes and allows concurrent reads against an
// *querydb.DB. The zero value is not usable; construct with New.
type DB struct {
	mu   sync.RWMutex
	core *querydb.DB
}

// New returns an empty guarded Query DB.
func New() *DB {
	return &DB{core: querydb.New()}
}

// Apply takes the write lock and merges update into the underlying DB.
func (d *DB) Apply(update *delta.IndexUpdate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.core.Apply(update)
}

// Read runs fn with a read lock held, passing the underlying DB. fn must
// not retain the *querydb.DB pointer past its call or escape it to another
// goroutine: doing so bypasses the lock this type exists to provide.
func (d *DB) Read(fn func(db *querydb.DB)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn(d.core)
}

// SymbolName is a convenience read for the common single-value case; it
// takes the read lock for the duration of the lookup only.
func (d *DB) SymbolName(id ident.SymbolId, qualified bool) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.core.SymbolName(id, qualified)
}
