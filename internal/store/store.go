// Package store persists Index Snapshots keyed by canonicalized path in a
// badger key/value store, so a restarted daemon can replay them into the
// Query DB and compute each file's next delta against its last snapshot.
// It does not decide whether a file needs reparsing. It also tracks, per file, which other files
// include it (its "includers"), following google-navc's symbolsDB /
// Includers bucket design in symbols_db.go, generalized from headers-only
// to any Dependency the snapshot names.
package store

import (
	"bytes"
	"crypto/sha1"
	"encoding/gob"
	"time"

	"github.com/dgraph-io/badger"
	"github.com/pkg/errors"

	"github.com/navcd/navc/internal/snapshot"
)

// Store is a badger-backed cache of the most recently indexed Snapshot per
// file, plus the includer graph needed to find what to reparse when a
// header changes.
type Store struct {
	backing *badger.DB
}

// record is what's actually persisted per key: the snapshot itself, when
// it was captured, and the set of files that include it.
type record struct {
	Snapshot  snapshot.Snapshot
	Mtime     time.Time
	Includers map[[sha1.Size]byte]bool
}

// Open creates or reopens the badger store rooted at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.SyncWrites = false
	backing, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening store at %s", dir)
	}
	return &Store{backing: backing}, nil
}

// Close releases the underlying badger handles.
func (s *Store) Close() error {
	return s.backing.Close()
}

func keyFor(path string) [sha1.Size]byte {
	return sha1.Sum([]byte(path))
}

// Get returns the cached snapshot for path and its capture time, if any.
func (s *Store) Get(path string) (*snapshot.Snapshot, time.Time, bool, error) {
	key := keyFor(path)
	var rec *record

	err := s.retryView(func(txn *badger.Txn) error {
		item, err := txn.Get(key[:])
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(bin []byte) error {
			r, decodeErr := decodeRecord(bin)
			rec = r
			return decodeErr
		})
	})
	if err != nil {
		return nil, time.Time{}, false, errors.Wrapf(err, "reading %s from store", path)
	}
	if rec == nil {
		return nil, time.Time{}, false, nil
	}
	snap := rec.Snapshot
	return &snap, rec.Mtime, true, nil
}

// Put persists snap, capturing mtime as its freshness stamp and registering
// snap as an includer of every dependency it names.
func (s *Store) Put(snap *snapshot.Snapshot, mtime time.Time) error {
	key := keyFor(snap.Path)

	return s.retryUpdate(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, key)
		if err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		includers := map[[sha1.Size]byte]bool{}
		if rec != nil {
			includers = rec.Includers
		}

		newRec := &record{Snapshot: *snap, Mtime: mtime, Includers: includers}
		if err := setRecord(txn, key, newRec); err != nil {
			return err
		}

		for _, dep := range snap.Dependencies {
			depKey := keyFor(dep.Name)
			depRec, err := getRecord(txn, depKey)
			if err == badger.ErrKeyNotFound {
				depRec = &record{Includers: map[[sha1.Size]byte]bool{}}
			} else if err != nil {
				return err
			}
			depRec.Includers[key] = true
			if err := setRecord(txn, depKey, depRec); err != nil {
				return err
			}
		}

		return nil
	})
}

// Includers returns the paths of every file previously stored with path
// listed as a Dependency.
func (s *Store) Includers(path string) ([]string, error) {
	key := keyFor(path)
	var paths []string

	err := s.retryView(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		for includerKey := range rec.Includers {
			includerRec, err := getRecord(txn, includerKey)
			if err != nil {
				continue
			}
			paths = append(paths, includerRec.Snapshot.Path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "resolving includers of %s", path)
	}
	return paths, nil
}

// Remove deletes path's cached snapshot. Its key is not scrubbed from
// other records' Includers sets until those records are next rewritten,
// matching google-navc's tombstone-by-omission tolerance for stale
// includer entries (Includers simply skips them since they no longer resolve).
func (s *Store) Remove(path string) error {
	key := keyFor(path)
	return s.retryUpdate(func(txn *badger.Txn) error {
		return txn.Delete(key[:])
	})
}

// Paths returns every path currently cached.
func (s *Store) Paths() ([]string, error) {
	var paths []string
	err := s.retryView(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(bin []byte) error {
				rec, err := decodeRecord(bin)
				if err != nil {
					return err
				}
				paths = append(paths, rec.Snapshot.Path)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing store paths")
	}
	return paths, nil
}

func getRecord(txn *badger.Txn, key [sha1.Size]byte) (*record, error) {
	item, err := txn.Get(key[:])
	if err != nil {
		return nil, err
	}
	var rec *record
	err = item.Value(func(bin []byte) error {
		r, decodeErr := decodeRecord(bin)
		rec = r
		return decodeErr
	})
	return rec, err
}

func setRecord(txn *badger.Txn, key [sha1.Size]byte, rec *record) error {
	bin, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return txn.Set(key[:], bin)
}

func encodeRecord(rec *record) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return nil, errors.Wrap(err, "gob encode store record")
	}
	return buf.Bytes(), nil
}

func decodeRecord(bin []byte) (*record, error) {
	var rec record
	if err := gob.NewDecoder(bytes.NewReader(bin)).Decode(&rec); err != nil {
		return nil, errors.Wrap(err, "gob decode store record")
	}
	return &rec, nil
}

func (s *Store) retryView(fn func(txn *badger.Txn) error) error {
	var err error
	for {
		err = s.backing.View(fn)
		if err != badger.ErrConflict {
			return err
		}
	}
}

func (s *Store) retryUpdate(fn func(txn *badger.Txn) error) error {
	var err error
	for {
		err = s.backing.Update(fn)
		if err != badger.ErrConflict {
			return err
		}
	}
}
