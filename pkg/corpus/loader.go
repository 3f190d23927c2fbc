// Package corpus turns raw query logs into a populated prefix index.
//
// A corpus file holds one observed search query per line; a query's weight
// is how many times its canonical form appears in the log. Loading happens
// once at startup, before serving begins, and the resulting index is frozen.
//
// The core only reports invalid entries; the skip-or-abort decision is made
// here: bad entries are skipped with a warning so one corrupt line cannot
// take the service down.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/avikoz/queryserve/pkg/index"
	"github.com/avikoz/queryserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Count reads one raw query per line and tallies occurrences of each
// canonical form. Lines that canonicalize to nothing are ignored.
func Count(r io.Reader) (map[string]float64, error) {
	counts := make(map[string]float64)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		q := suggest.Canonicalize(scanner.Text())
		if q == "" {
			continue
		}
		counts[q]++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	return counts, nil
}

// Entries converts a count table into index entries ordered most popular
// first (ties by text), keeping at most maxQueries of them. 0 keeps all.
func Entries(counts map[string]float64, maxQueries int) []index.Entry {
	entries := make([]index.Entry, 0, len(counts))
	for q, w := range counts {
		entries = append(entries, index.Entry{Query: q, Weight: w})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Weight != entries[j].Weight {
			return entries[i].Weight > entries[j].Weight
		}
		return entries[i].Query < entries[j].Query
	})
	if maxQueries > 0 && len(entries) > maxQueries {
		entries = entries[:maxQueries]
	}
	return entries
}

// BuildIndex inserts entries into a fresh index, skipping any the core
// rejects. Counted entries are always valid; the skip path matters for
// snapshots that were produced elsewhere or edited by hand.
func BuildIndex(entries []index.Entry) *index.Index {
	ix := index.New()
	skipped := 0
	for _, e := range entries {
		if err := ix.Insert(e.Query, e.Weight); err != nil {
			log.Warnf("Skipping corpus entry %q: %v", e.Query, err)
			skipped++
		}
	}
	if skipped > 0 {
		log.Warnf("Skipped %d invalid corpus entries", skipped)
	}
	log.Debugf("Indexed %d distinct queries", ix.Size())
	return ix
}

// LoadFile counts a raw query log from disk and returns its entries.
func LoadFile(path string, maxQueries int) ([]index.Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus file: %w", err)
	}
	defer file.Close()

	counts, err := Count(file)
	if err != nil {
		return nil, err
	}
	log.Debugf("Counted %d distinct queries from %s", len(counts), path)
	return Entries(counts, maxQueries), nil
}

// Load reads entries from path, picking the format by extension: ".snap"
// files are msgpack snapshots, anything else is a raw query log.
func Load(path string, maxQueries int) ([]index.Entry, error) {
	if filepath.Ext(path) == ".snap" {
		entries, err := LoadSnapshot(path)
		if err != nil {
			return nil, err
		}
		if maxQueries > 0 && len(entries) > maxQueries {
			entries = entries[:maxQueries]
		}
		return entries, nil
	}
	return LoadFile(path, maxQueries)
}
