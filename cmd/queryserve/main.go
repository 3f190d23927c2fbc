/*
Package main implements the query suggestion server and CLI application.

Queryserve provides fast typeahead suggestions for product search: given a
partial, possibly malformed query it returns the most popular full queries
that plausibly continue the input. The index is a weighted prefix tree built
once at startup from a query log; four generation strategies (direct prefix,
trimmed prefix, tail words, per-word prefix) feed a merge and top-k stage.

# Usage

Start the server with a raw query log:

	queryserve -corpus data/queries.txt

Load a counted snapshot instead and enable debug logging:

	queryserve -corpus data/queries.snap -d

Run in CLI mode for interactive testing:

	queryserve -corpus data/queries.txt -c -k 5

A raw corpus file holds one observed query per line; a query's weight is
how many times its canonical form appears. Counting a large log can be
skipped on later runs by writing a snapshot once:

	queryserve -corpus data/queries.txt -save-snap data/queries.snap

# Configuration

Runtime configuration is managed through a TOML file that supports server
parameters, the suggestion policy and CLI defaults:

	[server]
	default_k = 10
	max_k = 64
	max_query_len = 120

	[suggest]
	strategy_limit = 32
	trim_damping = 0.85
	per_word_damping = 0.5
	tail_window = 1

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

Server mode communicates via msgpack over stdin/stdout. Requests are
processed synchronously with microsecond timing in responses:

	{"id": "req1", "q": "red sho", "k": 5}
	{"id": "req1", "query": "red sho", "s": ["red shoes"], "c": 1, "t": 87}

See the server package docs for the full message set.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/avikoz/queryserve/internal/cli"
	"github.com/avikoz/queryserve/internal/utils"
	"github.com/avikoz/queryserve/pkg/config"
	"github.com/avikoz/queryserve/pkg/corpus"
	"github.com/avikoz/queryserve/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "queryserve"
	gh      = "https://github.com/avikoz/queryserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires the corpus loader, config and serving mode together; the
// packages do the actual work.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	corpusPath := flag.String("corpus", "data/queries.txt", "Query log (.txt) or counted snapshot (.snap) to index")
	saveSnap := flag.String("save-snap", "", "Write a counted snapshot to this path after loading")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	k := flag.Int("k", 0, "Number of suggestions to return in CLI mode (0 uses the config default)")
	maxQueries := flag.Int("max-queries", 0, "Maximum distinct queries to index (0 for all)")
	configPath := flag.String("config", "", "Custom config file path")

	flag.Parse()

	if *showVersion {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: false,
			Prefix:          "",
		})

		styles := log.DefaultStyles()
		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		logger.SetStyles(styles)

		logger.Print("")
		logger.Print("[ queryserve ] Serves really fast query completions!")
		logger.Print("", "version", Version)
		logger.Print("")
		logger.Print("use -h or --help to see available options")
		logger.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, activeConfigPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", activeConfigPath)

	limit := *maxQueries
	if limit == 0 {
		limit = appConfig.Corpus.MaxQueries
	}

	resolvedCorpus := utils.ResolveDataPath(*corpusPath)
	log.Debugf("Loading corpus from: %s (max queries %d)", resolvedCorpus, limit)

	entries, err := corpus.Load(resolvedCorpus, limit)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}

	if *saveSnap != "" {
		if err := corpus.SaveSnapshot(*saveSnap, entries); err != nil {
			log.Fatalf("Failed to write snapshot: %v", err)
		}
		log.Debugf("Wrote snapshot with %d entries to %s", len(entries), *saveSnap)
	}

	ix := corpus.BuildIndex(entries)

	// CLI is mainly used for testing and debugging; new policy changes
	// should be tried here before server mode.
	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(ix, appConfig, *k)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	showStartupInfo(resolvedCorpus, ix.Size())

	srv := server.NewServer(ix, appConfig)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(corpusPath string, queries int) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("corpus: ( %s )", corpusPath)
	log.Infof("indexed queries: %d", queries)
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
