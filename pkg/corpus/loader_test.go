package corpus

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/avikoz/queryserve/pkg/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountCanonicalizesBeforeTallying(t *testing.T) {
	log := strings.Join([]string{
		"appLe 123",
		"apple  123;",
		"bana;na",
		"banana",
		"bananA",
		"   ",
		";;;",
	}, "\n")

	counts, err := Count(strings.NewReader(log))
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{
		"apple 123": 2,
		"banana":    3,
	}, counts)
}

func TestEntriesOrderAndCap(t *testing.T) {
	counts := map[string]float64{"b": 3, "a": 3, "c": 9, "d": 1}

	all := Entries(counts, 0)
	require.Len(t, all, 4)
	assert.Equal(t, []index.Entry{{Query: "c", Weight: 9}, {Query: "a", Weight: 3}, {Query: "b", Weight: 3}, {Query: "d", Weight: 1}}, all)

	capped := Entries(counts, 2)
	assert.Equal(t, []index.Entry{{Query: "c", Weight: 9}, {Query: "a", Weight: 3}}, capped)
}

func TestBuildIndexSkipsInvalidEntries(t *testing.T) {
	ix := BuildIndex([]index.Entry{
		{Query: "red shoes", Weight: 10},
		{Query: "", Weight: 4},
		{Query: "blue shoes", Weight: -2},
		{Query: "red socks", Weight: 5},
	})

	assert.Equal(t, 2, ix.Size())
	w, ok := ix.Lookup("red shoes")
	require.True(t, ok)
	assert.Equal(t, 10.0, w)
}

func TestSnapshotRoundTrip(t *testing.T) {
	entries := []index.Entry{
		{Query: "red shoes", Weight: 10},
		{Query: "red socks", Weight: 5},
	}
	path := filepath.Join(t.TempDir(), "queries.snap")

	require.NoError(t, SaveSnapshot(path, entries))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, entries, loaded)

	// Load dispatches on the .snap extension.
	viaLoad, err := Load(path, 1)
	require.NoError(t, err)
	assert.Equal(t, entries[:1], viaLoad)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"), 0)
	assert.Error(t, err)
}
