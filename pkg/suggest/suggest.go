// Package suggest is the serving core: it runs the four candidate
// generation strategies against a frozen prefix index, merges their output
// and selects the top-k suggestions under a total order.
//
// The package is pure given the index state: no logging, no retries, no
// internal concurrency. Callers own timeouts and cancellation at the
// request-handling boundary.
package suggest

import (
	"sort"

	"github.com/avikoz/queryserve/pkg/index"
)

// merge deduplicates candidates by surface text, resolving each group's
// weight by max: a suggestion some strategy finds highly popular must not be
// suppressed by a lower-weight duplicate from another one. Deterministic for
// identical candidate multisets.
func merge(candidates []Candidate) map[string]float64 {
	set := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		if w, ok := set[c.Text]; !ok || c.Weight > w {
			set[c.Text] = c.Weight
		}
	}
	return set
}

// selectTopK orders the merged set by weight descending, ties broken by
// ascending text, and returns at most k suggestion texts. Fewer than k
// entries is normal output, not an error.
func selectTopK(set map[string]float64, k int) ([]string, error) {
	if k <= 0 {
		return nil, &index.InvalidInputError{Op: "suggest", Reason: "non-positive k"}
	}

	ranked := make([]Candidate, 0, len(set))
	for text, weight := range set {
		ranked = append(ranked, Candidate{Text: text, Weight: weight})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Weight != ranked[j].Weight {
			return ranked[i].Weight > ranked[j].Weight
		}
		return ranked[i].Text < ranked[j].Text
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Text
	}
	return out, nil
}

// Suggest returns the top-k completions of query from the index with the
// default policy. See SuggestWithPolicy.
func Suggest(ix *index.Index, query string, k int) ([]string, error) {
	return SuggestWithPolicy(ix, query, k, DefaultPolicy())
}

// SuggestWithPolicy is the single serving entry point. The raw query is
// canonicalized once, all four strategies run against the shared read-only
// index, their candidates are merged and the top k selected. A query with no
// completions yields an empty slice, never an error; the only failure is an
// InvalidInputError for k <= 0.
func SuggestWithPolicy(ix *index.Index, query string, k int, pol Policy) ([]string, error) {
	if k <= 0 {
		return nil, &index.InvalidInputError{Op: "suggest", Reason: "non-positive k"}
	}
	canonical := Canonicalize(query)
	if canonical == "" {
		return []string{}, nil
	}
	candidates := generate(ix, canonical, pol.normalized())
	return selectTopK(merge(candidates), k)
}
