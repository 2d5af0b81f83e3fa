package suggest

import (
	"container/heap"
	"slices"
)

// outranks reports whether a belongs before b in a result list: heavier first,
// then lexicographically smaller words so that every variant agrees on ties.
func outranks(a, b Term) bool {
	if a.weight != b.weight {
		return a.weight > b.weight
	}
	return a.word < b.word
}

// topK keeps the k best terms seen so far. The root of the heap is the
// weakest kept term, so a new candidate only has to beat the root.
type topK struct {
	k     int
	terms []Term
}

func newTopK(k int) *topK {
	return &topK{k: k, terms: make([]Term, 0, min(k, 64))}
}

func (t *topK) Len() int           { return len(t.terms) }
func (t *topK) Less(i, j int) bool { return outranks(t.terms[j], t.terms[i]) }
func (t *topK) Swap(i, j int)      { t.terms[i], t.terms[j] = t.terms[j], t.terms[i] }
func (t *topK) Push(x any)         { t.terms = append(t.terms, x.(Term)) }

func (t *topK) Pop() any {
	last := t.terms[len(t.terms)-1]
	t.terms = t.terms[:len(t.terms)-1]
	return last
}

// Offer considers a candidate term.
func (t *topK) Offer(term Term) {
	if t.k == 0 {
		return
	}
	if len(t.terms) < t.k {
		heap.Push(t, term)
		return
	}
	if outranks(term, t.terms[0]) {
		t.terms[0] = term
		heap.Fix(t, 0)
	}
}

// Words drains the kept terms in descending rank.
func (t *topK) Words() []string {
	slices.SortFunc(t.terms, func(a, b Term) int {
		if outranks(a, b) {
			return -1
		}
		if outranks(b, a) {
			return 1
		}
		return 0
	})
	words := make([]string, len(t.terms))
	for i, term := range t.terms {
		words[i] = term.word
	}
	return words
}
