// Package cli handles command line input and suggestions for testing and debugging
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/avikoz/queryserve/pkg/config"
	"github.com/avikoz/queryserve/pkg/index"
	"github.com/avikoz/queryserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler reads partial queries from stdin and prints ranked
// suggestions. Mainly used to try index and policy changes before they land
// in server mode.
type InputHandler struct {
	index       *index.Index
	cfg         *config.Config
	k           int
	showWeights bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(ix *index.Index, cfg *config.Config, k int) *InputHandler {
	if k < 1 {
		k = cfg.CLI.DefaultK
	}
	return &InputHandler{
		index:       ix,
		cfg:         cfg,
		k:           k,
		showWeights: cfg.CLI.ShowWeights,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin.
func (h *InputHandler) Start() error {
	log.Print("queryserve CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a partial query and press Enter to see the suggestions (Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput runs the suggestion pipeline for a single input and prints
// the ranked results with their resolved weights and timing.
func (h *InputHandler) handleInput(input string) {
	if len(input) > h.cfg.Server.MaxQueryLen {
		log.Errorf("Query too long: %s", input)
		return
	}

	canonical := suggest.Canonicalize(input)
	if canonical == "" {
		log.Warnf("Nothing left of %q after normalization", input)
		return
	}

	start := time.Now()
	suggestions, err := suggest.SuggestWithPolicy(h.index, input, h.k, h.cfg.Policy())
	elapsed := time.Since(start)

	if err != nil {
		log.Errorf("Suggest failed: %v", err)
		return
	}
	log.Debugf("Took [ %v ] for query '%s'", elapsed, canonical)

	if len(suggestions) == 0 {
		log.Warnf("No suggestions found for query: '%s'", canonical)
		return
	}

	log.Printf("Found %d suggestions for query '%s':", len(suggestions), canonical)
	for i, s := range suggestions {
		clQuery := fmt.Sprintf("\033[38;5;75m%s\033[0m", s)
		if h.showWeights {
			w, _ := h.index.Lookup(s)
			log.Printf("%2d. %-40s (weight: %8.1f)", i+1, clQuery, w)
		} else {
			log.Printf("%2d. %s", i+1, clQuery)
		}
	}
}
