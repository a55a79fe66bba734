// Package serialize converts an Index Snapshot to and from a byte stream
// for transport between an indexer process and the daemon. It is
// deliberately minimal: a real wire codec would need versioning and a
// stable schema; this is enough for the daemon to read what the reference
// indexer's original_source/ subprocess (or an equivalent local process)
// hands it over stdin/a pipe, following google-navc's own gob-encoded
// TUSymbolsDB transport.
package serialize

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"

	"github.com/navcd/navc/internal/snapshot"
)

// Format names one of the two supported encodings.
type Format int

const (
	// Gob is the default: compact, and round-trips Go zero values (nil
	// slices, nil pointers) exactly, which JSON does not.
	Gob Format = iota
	// JSON is provided for indexers implemented outside this module, or
	// for humans inspecting a captured snapshot.
	JSON
)

// Encode writes snap in the given format.
func Encode(snap *snapshot.Snapshot, format Format) ([]byte, error) {
	switch format {
	case Gob:
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
			return nil, fmt.Errorf("gob encode snapshot: %w", err)
		}
		return buf.Bytes(), nil
	case JSON:
		b, err := json.Marshal(snap)
		if err != nil {
			return nil, fmt.Errorf("json encode snapshot: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown serialize.Format %d", format)
	}
}

// Decode parses b into a Snapshot, using the given format.
func Decode(b []byte, format Format) (*snapshot.Snapshot, error) {
	var snap snapshot.Snapshot
	switch format {
	case Gob:
		if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&snap); err != nil {
			return nil, fmt.Errorf("gob decode snapshot: %w", err)
		}
	case JSON:
		if err := json.Unmarshal(b, &snap); err != nil {
			return nil, fmt.Errorf("json decode snapshot: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown serialize.Format %d", format)
	}
	return &snap, nil
}
