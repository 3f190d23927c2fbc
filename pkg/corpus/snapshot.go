package corpus

import (
	"fmt"
	"os"

	"github.com/avikoz/queryserve/pkg/index"
	"github.com/vmihailenco/msgpack/v5"
)

// Snapshots persist an already counted corpus so restarts skip re-scanning
// the raw log. The format is msgpack: a version byte followed by the entry
// list, weights kept most-popular-first as produced by Entries.

const snapshotVersion = 1

type snapshot struct {
	Version int             `msgpack:"v"`
	Entries []snapshotEntry `msgpack:"e"`
}

type snapshotEntry struct {
	Query  string  `msgpack:"q"`
	Weight float64 `msgpack:"w"`
}

// SaveSnapshot writes entries to path in snapshot format.
func SaveSnapshot(path string, entries []index.Entry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer file.Close()

	snap := snapshot{Version: snapshotVersion, Entries: make([]snapshotEntry, len(entries))}
	for i, e := range entries {
		snap.Entries[i] = snapshotEntry{Query: e.Query, Weight: e.Weight}
	}
	if err := msgpack.NewEncoder(file).Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads entries back from a snapshot file.
func LoadSnapshot(path string) ([]index.Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer file.Close()

	var snap snapshot
	if err := msgpack.NewDecoder(file).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	entries := make([]index.Entry, len(snap.Entries))
	for i, e := range snap.Entries {
		entries[i] = index.Entry{Query: e.Query, Weight: e.Weight}
	}
	return entries, nil
}
