package suggest

import (
	"strings"

	"github.com/avikoz/queryserve/pkg/index"
)

// Strategy identifies which generator produced a candidate. The set is
// closed: the merge contract depends on knowing every source to apply its
// damping, so new strategies are a code change, not registration.
type Strategy uint8

const (
	// DirectPrefix completes the canonical query as-is. Primary signal,
	// weights pass through unchanged.
	DirectPrefix Strategy = iota
	// TrimmedPrefix completes the query with its last character removed,
	// tolerating one extra trailing keystroke. Speculative, so damped.
	TrimmedPrefix
	// TailWords completes only the trailing word(s) of a multi-word query,
	// treating the leading words as confirmed context.
	TailWords
	// PerWordPrefix completes every word of the query independently,
	// surfacing popular continuations of any single word. Damped relative
	// to full-query candidates.
	PerWordPrefix
)

func (s Strategy) String() string {
	switch s {
	case DirectPrefix:
		return "direct"
	case TrimmedPrefix:
		return "trimmed"
	case TailWords:
		return "tail"
	case PerWordPrefix:
		return "perword"
	}
	return "unknown"
}

// Candidate is one suggestion proposed by a single strategy, before merging.
type Candidate struct {
	Text   string
	Weight float64
	Source Strategy
}

// Policy holds the tunable constants of the pipeline. The damping factors
// and the tail window are deliberate configuration, not hardcoded guesses;
// defaults are documented on DefaultPolicy.
type Policy struct {
	// StrategyLimit caps how many completions each strategy pulls from the
	// index per lookup.
	StrategyLimit int
	// TrimDamping multiplies TrimmedPrefix weights; must stay below 1 so a
	// guessed over-type never outranks an equally popular direct match.
	TrimDamping float64
	// PerWordDamping multiplies PerWordPrefix weights, ranking single-word
	// continuations below full-query candidates of equal popularity.
	PerWordDamping float64
	// TailWindow is how many trailing words TailWords re-completes.
	TailWindow int
}

// DefaultPolicy returns the stock tuning: fan-out 32, trim damping 0.85,
// per-word damping 0.5, tail window 1.
func DefaultPolicy() Policy {
	return Policy{
		StrategyLimit:  32,
		TrimDamping:    0.85,
		PerWordDamping: 0.5,
		TailWindow:     1,
	}
}

// normalized clamps nonsensical policy values back to the defaults so a
// hand-edited config cannot disable ranking guarantees.
func (p Policy) normalized() Policy {
	d := DefaultPolicy()
	if p.StrategyLimit <= 0 {
		p.StrategyLimit = d.StrategyLimit
	}
	if p.TrimDamping <= 0 || p.TrimDamping >= 1 {
		p.TrimDamping = d.TrimDamping
	}
	if p.PerWordDamping <= 0 || p.PerWordDamping > 1 {
		p.PerWordDamping = d.PerWordDamping
	}
	if p.TailWindow < 1 {
		p.TailWindow = d.TailWindow
	}
	return p
}

// generate runs all four strategies against the shared index for one
// canonical query. Strategies are stateless; per-request output is owned by
// the caller.
func generate(ix *index.Index, query string, pol Policy) []Candidate {
	var out []Candidate
	out = append(out, directPrefix(ix, query, pol)...)
	out = append(out, trimmedPrefix(ix, query, pol)...)
	out = append(out, tailWords(ix, query, pol)...)
	out = append(out, perWordPrefix(ix, query, pol)...)
	return out
}

func directPrefix(ix *index.Index, query string, pol Policy) []Candidate {
	if query == "" {
		return nil
	}
	return asCandidates(ix.CompletionsUnder(query, pol.StrategyLimit), DirectPrefix, 1)
}

func trimmedPrefix(ix *index.Index, query string, pol Policy) []Candidate {
	runes := []rune(query)
	if len(runes) < 2 {
		return nil
	}
	trimmed := string(runes[:len(runes)-1])
	return asCandidates(ix.CompletionsUnder(trimmed, pol.StrategyLimit), TrimmedPrefix, pol.TrimDamping)
}

func tailWords(ix *index.Index, query string, pol Policy) []Candidate {
	words := strings.Fields(query)
	if len(words) < 2 {
		return nil
	}
	window := pol.TailWindow
	if window > len(words)-1 {
		window = len(words) - 1
	}
	head := strings.Join(words[:len(words)-window], " ")
	tail := strings.Join(words[len(words)-window:], " ")

	comps := ix.CompletionsUnder(tail, pol.StrategyLimit)
	out := make([]Candidate, 0, len(comps))
	for _, c := range comps {
		// Re-prefix with the confirmed leading words so candidates stay
		// full-query strings.
		out = append(out, Candidate{
			Text:   head + " " + c.Text,
			Weight: c.Weight,
			Source: TailWords,
		})
	}
	return out
}

func perWordPrefix(ix *index.Index, query string, pol Policy) []Candidate {
	var out []Candidate
	for _, word := range strings.Fields(query) {
		out = append(out, asCandidates(ix.CompletionsUnder(word, pol.StrategyLimit), PerWordPrefix, pol.PerWordDamping)...)
	}
	return out
}

func asCandidates(comps []index.Completion, src Strategy, damping float64) []Candidate {
	out := make([]Candidate, 0, len(comps))
	for _, c := range comps {
		out = append(out, Candidate{Text: c.Text, Weight: c.Weight * damping, Source: src})
	}
	return out
}
