// Package index implements the in-memory prefix index over observed search
// queries. Queries are stored character by character in a trie; terminal nodes
// carry the query's popularity weight and every node caches the highest
// terminal weight reachable in its subtree, which lets lookups descend
// best-weight-first and stop early instead of scanning whole subtrees.
//
// The index follows a build-then-read lifecycle: populate it single-threaded
// via Insert or Build, then share it read-only. A frozen index is safe for
// unsynchronized concurrent reads.
package index

import (
	"container/heap"
)

// Entry is one (query, weight) observation fed to Build.
type Entry struct {
	Query  string
	Weight float64
}

// Completion is a stored query found under a prefix, with its weight.
type Completion struct {
	Text   string
	Weight float64
}

// node is one character position along some inserted query.
// children keys are the next rune; terminal marks a complete query ending
// here; weight is meaningful only when terminal is set; maxWeight is the
// highest terminal weight anywhere in this node's subtree, itself included.
type node struct {
	children  map[rune]*node
	terminal  bool
	weight    float64
	maxWeight float64
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// Index is a weighted character trie over known queries.
type Index struct {
	root *node
	size int
}

// New returns an empty index.
func New() *Index {
	return &Index{root: newNode()}
}

// Build constructs an index from entries. It fails on the first entry with an
// empty query or a negative weight; entries committed before the failing one
// remain intact in the returned state, so callers that prefer to skip bad
// entries should validate or filter before calling.
func Build(entries []Entry) (*Index, error) {
	ix := New()
	for _, e := range entries {
		if err := ix.Insert(e.Query, e.Weight); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// Size returns the number of distinct queries stored.
func (ix *Index) Size() int {
	return ix.size
}

// Insert adds query with the given popularity weight. Re-inserting a known
// query keeps the higher of the stored and the new weight, so popularity is
// monotonically non-decreasing under repeated observation. Only a build phase
// may call Insert; it is not safe to run concurrently with reads.
func (ix *Index) Insert(query string, weight float64) error {
	if query == "" {
		return &InvalidInputError{Op: "insert", Reason: "empty query"}
	}
	if weight < 0 {
		return &InvalidInputError{Op: "insert", Reason: "negative weight"}
	}

	// Walk and extend, remembering the path so the subtree maxima can be
	// refreshed once the effective weight is known.
	path := make([]*node, 0, len(query)+1)
	n := ix.root
	path = append(path, n)
	for _, r := range query {
		child, ok := n.children[r]
		if !ok {
			child = newNode()
			n.children[r] = child
		}
		n = child
		path = append(path, n)
	}

	if n.terminal {
		if weight > n.weight {
			n.weight = weight
		}
	} else {
		n.terminal = true
		n.weight = weight
		ix.size++
	}

	// The effective weight never decreases, so updating the cached maxima
	// along the insertion path keeps every node consistent.
	for _, p := range path {
		if n.weight > p.maxWeight {
			p.maxWeight = n.weight
		}
	}
	return nil
}

// Lookup reports the stored weight of an exact query.
func (ix *Index) Lookup(query string) (float64, bool) {
	n := ix.walk(query)
	if n == nil || !n.terminal {
		return 0, false
	}
	return n.weight, true
}

// walk follows prefix character by character, returning nil when the path
// does not exist.
func (ix *Index) walk(prefix string) *node {
	n := ix.root
	for _, r := range prefix {
		child, ok := n.children[r]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

// CompletionsUnder returns up to limit stored queries beginning with prefix,
// ordered by weight descending then text ascending. The prefix itself is
// included when it is a stored query. An unknown prefix yields an empty
// result, not an error.
//
// The descent is best-first over the cached subtree maxima: a max-heap of
// pending subtrees and ready results is popped in rank order, so once limit
// results have surfaced no remaining subtree can beat them and the walk
// stops without visiting the rest.
func (ix *Index) CompletionsUnder(prefix string, limit int) []Completion {
	if limit <= 0 {
		return nil
	}
	start := ix.walk(prefix)
	if start == nil {
		return nil
	}

	pq := &rankQueue{}
	heap.Push(pq, rankItem{text: prefix, n: start, priority: start.maxWeight})

	results := make([]Completion, 0, limit)
	for pq.Len() > 0 && len(results) < limit {
		it := heap.Pop(pq).(rankItem)
		if it.n == nil {
			results = append(results, Completion{Text: it.text, Weight: it.priority})
			continue
		}
		if it.n.terminal {
			heap.Push(pq, rankItem{text: it.text, priority: it.n.weight})
		}
		for r, child := range it.n.children {
			heap.Push(pq, rankItem{text: it.text + string(r), n: child, priority: child.maxWeight})
		}
	}
	return results
}

// rankItem is a pending heap entry: with n set it stands for a whole subtree
// ranked by its cached maximum; with n nil it is a ready result ranked by its
// terminal weight. Because a subtree's priority is an upper bound on every
// result inside it, results pop in exact final order.
type rankItem struct {
	text     string
	n        *node
	priority float64
}

type rankQueue []rankItem

func (q rankQueue) Len() int { return len(q) }

func (q rankQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority > q[j].priority
	}
	return q[i].text < q[j].text
}

func (q rankQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *rankQueue) Push(x any) { *q = append(*q, x.(rankItem)) }

func (q *rankQueue) Pop() any {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}
