/*
Package server implements msgpack IPC for query suggestion services.

The server provides a minimal request/response interface over stdin/stdout
using msgpack encoding. Clients send one structured message per request and
receive exactly one response; messages are processed synchronously and
responses carry timing info.

# IPC

A suggestion request carries an ID, the partial query and an optional k:

	{"id": "req_001", "q": "red sho", "k": 5}

The server answers with the canonical query it served and the ranked
suggestions:

	{"id": "req_001", "query": "red sho", "s": ["red shoes", "red socks"], "c": 2, "t": 87}

The cmd field selects other operations: "ping" answers with a status
message, "stats" reports the number of indexed queries. Malformed requests
produce an error response with a code instead of tearing down the session.

The index is built before the server starts and never changes while it
runs, so requests read it without any locking.
*/
package server

// SuggestRequest is an incoming request. An empty cmd means "suggest".
type SuggestRequest struct {
	ID    string `msgpack:"id"`
	Cmd   string `msgpack:"cmd,omitempty"` // "suggest", "ping", "stats"
	Query string `msgpack:"q,omitempty"`
	K     int    `msgpack:"k,omitempty"`
}

// SuggestResponse answers a suggest request. TimeTaken is microseconds.
type SuggestResponse struct {
	ID          string   `msgpack:"id"`
	Query       string   `msgpack:"query"`
	Suggestions []string `msgpack:"s"`
	Count       int      `msgpack:"c"`
	TimeTaken   int64    `msgpack:"t"`
}

// StatusResponse answers ping and stats requests, and announces readiness
// when the server starts.
type StatusResponse struct {
	ID      string `msgpack:"id,omitempty"`
	Status  string `msgpack:"status"`
	Queries int    `msgpack:"queries,omitempty"`
}

// ErrorResponse reports a rejected request.
type ErrorResponse struct {
	ID    string `msgpack:"id,omitempty"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"code"`
}
