package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/avikoz/queryserve/internal/logger"
	"github.com/avikoz/queryserve/pkg/config"
	"github.com/avikoz/queryserve/pkg/index"
	"github.com/avikoz/queryserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC loop for query suggestions. It owns no mutable
// state beyond the codec; the index it serves from is frozen.
type Server struct {
	index *index.Index
	cfg   *config.Config
	dec   *msgpack.Decoder
	enc   *msgpack.Encoder
	log   *log.Logger
}

// NewServer creates a suggestion server speaking msgpack over stdin/stdout.
func NewServer(ix *index.Index, cfg *config.Config) *Server {
	return NewServerWithIO(ix, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO is NewServer with explicit endpoints, for tests and
// embedding.
func NewServerWithIO(ix *index.Index, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	return &Server{
		index: ix,
		cfg:   cfg,
		dec:   msgpack.NewDecoder(bufio.NewReader(r)),
		enc:   msgpack.NewEncoder(w),
		log:   logger.New("ipc"),
	}
}

// Start announces readiness and processes requests until the input stream
// ends. A decode failure is fatal for the session: the binary stream cannot
// be resynchronized reliably, so the error is returned to the caller.
func (s *Server) Start() error {
	s.log.Debug("Starting suggestion server.")
	s.send(StatusResponse{Status: "ready", Queries: s.index.Size()})

	for {
		var req SuggestRequest
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req SuggestRequest) {
	switch req.Cmd {
	case "", "suggest":
		s.handleSuggest(req)
	case "ping":
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	case "stats":
		s.send(StatusResponse{ID: req.ID, Status: "ok", Queries: s.index.Size()})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown command: %s", req.Cmd), 400)
	}
}

// handleSuggest validates the request, runs the suggestion pipeline and
// sends the ranked result. A request without k gets the configured default;
// k above the configured ceiling is clamped rather than rejected.
func (s *Server) handleSuggest(req SuggestRequest) {
	if len(req.Query) > s.cfg.Server.MaxQueryLen {
		s.sendError(req.ID, fmt.Sprintf("Query exceeds maximum length of %d characters", s.cfg.Server.MaxQueryLen), 400)
		return
	}

	k := req.K
	if k < 1 {
		k = s.cfg.Server.DefaultK
	}
	if k > s.cfg.Server.MaxK {
		k = s.cfg.Server.MaxK
	}

	canonical := suggest.Canonicalize(req.Query)

	start := time.Now()
	suggestions, err := suggest.SuggestWithPolicy(s.index, req.Query, k, s.cfg.Policy())
	elapsed := time.Since(start)

	if err != nil {
		var inv *index.InvalidInputError
		if errors.As(err, &inv) {
			s.sendError(req.ID, err.Error(), 400)
		} else {
			s.sendError(req.ID, "Internal server error", 500)
		}
		return
	}

	s.send(SuggestResponse{
		ID:          req.ID,
		Query:       canonical,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
