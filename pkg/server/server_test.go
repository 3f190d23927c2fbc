package server

import (
	"bytes"
	"testing"

	"github.com/avikoz/queryserve/pkg/config"
	"github.com/avikoz/queryserve/pkg/corpus"
	"github.com/avikoz/queryserve/pkg/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func runSession(t *testing.T, requests ...SuggestRequest) *msgpack.Decoder {
	t.Helper()

	ix := corpus.BuildIndex([]index.Entry{
		{Query: "red shoes", Weight: 10},
		{Query: "red socks", Weight: 5},
		{Query: "blue shoes", Weight: 8},
	})

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range requests {
		require.NoError(t, enc.Encode(req))
	}

	var out bytes.Buffer
	srv := NewServerWithIO(ix, config.DefaultConfig(), &in, &out)
	require.NoError(t, srv.Start())

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	assert.Equal(t, "ready", ready.Status)
	assert.Equal(t, 3, ready.Queries)
	return dec
}

func TestServerSuggest(t *testing.T) {
	dec := runSession(t, SuggestRequest{ID: "r1", Query: "Red ", K: 2})

	var resp SuggestResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "r1", resp.ID)
	assert.Equal(t, "red", resp.Query)
	assert.Equal(t, []string{"red shoes", "red socks"}, resp.Suggestions)
	assert.Equal(t, 2, resp.Count)
}

func TestServerDefaultsMissingK(t *testing.T) {
	dec := runSession(t, SuggestRequest{ID: "r1", Query: "red"})

	var resp SuggestResponse
	require.NoError(t, dec.Decode(&resp))
	// default_k is 10; only two stored queries match.
	assert.Equal(t, 2, resp.Count)
}

func TestServerEmptyQuery(t *testing.T) {
	dec := runSession(t, SuggestRequest{ID: "r1", Query: "   ", K: 5})

	var resp SuggestResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Suggestions)
}

func TestServerRejectsOversizedQuery(t *testing.T) {
	long := make([]byte, 0, 200)
	for i := 0; i < 200; i++ {
		long = append(long, 'a')
	}
	dec := runSession(t, SuggestRequest{ID: "r1", Query: string(long), K: 5})

	var resp ErrorResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, 400, resp.Code)
	assert.Equal(t, "r1", resp.ID)
}

func TestServerPingAndStats(t *testing.T) {
	dec := runSession(t,
		SuggestRequest{ID: "p1", Cmd: "ping"},
		SuggestRequest{ID: "s1", Cmd: "stats"},
		SuggestRequest{ID: "x1", Cmd: "bogus"},
	)

	var ping StatusResponse
	require.NoError(t, dec.Decode(&ping))
	assert.Equal(t, "ok", ping.Status)

	var stats StatusResponse
	require.NoError(t, dec.Decode(&stats))
	assert.Equal(t, 3, stats.Queries)

	var unknown ErrorResponse
	require.NoError(t, dec.Decode(&unknown))
	assert.Equal(t, 400, unknown.Code)
}
