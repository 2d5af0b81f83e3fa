package suggest

import (
	"slices"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// RangeIndex keeps terms sorted by word. A prefix selects a contiguous run
// of the slice which is found with two boundary binary searches.
type RangeIndex struct {
	terms   []Term
	weights map[string]float64
}

// NewRangeIndex validates the input and builds a RangeIndex.
func NewRangeIndex(terms []string, weights []float64) (*RangeIndex, error) {
	lookup, err := validateInput(terms, weights)
	if err != nil {
		return nil, err
	}
	idx := &RangeIndex{
		terms:   make([]Term, len(terms)),
		weights: lookup,
	}
	for i, word := range terms {
		idx.terms[i] = Term{word: word, weight: weights[i]}
	}
	slices.SortFunc(idx.terms, Term.Compare)
	log.Debugf("Range index built with %d sorted terms", len(idx.terms))
	return idx, nil
}

// FirstIndexOf returns the leftmost index i with cmp(key, a[i]) == 0, or -1.
// a must be sorted consistently with cmp. It calls cmp at most 1+⌈log₂ n⌉ times.
func FirstIndexOf(a []Term, key Term, cmp func(a, b Term) int) int {
	lo, hi := 0, len(a)-1
	index := -1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		c := cmp(key, a[mid])
		if c == 0 {
			index = mid
		}
		if c <= 0 {
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return index
}

// LastIndexOf returns the rightmost index i with cmp(key, a[i]) == 0, or -1.
func LastIndexOf(a []Term, key Term, cmp func(a, b Term) int) int {
	lo, hi := 0, len(a)-1
	index := -1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		c := cmp(key, a[mid])
		if c == 0 {
			index = mid
		}
		if c < 0 {
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return index
}

// span returns the inclusive bounds of the terms starting with prefix.
func (idx *RangeIndex) span(prefix string) (first, last int, ok bool) {
	key := Term{word: prefix}
	order := PrefixOrder(utf8.RuneCountInString(prefix))
	first = FirstIndexOf(idx.terms, key, order)
	if first < 0 {
		return 0, 0, false
	}
	last = LastIndexOf(idx.terms, key, order)
	return first, last, true
}

func (idx *RangeIndex) TopMatches(prefix string, k int) ([]string, error) {
	if err := checkLimit(k); err != nil {
		return nil, err
	}
	best := newTopK(k)
	if k == 0 {
		return best.Words(), nil
	}
	first, last, ok := idx.span(prefix)
	if !ok {
		return best.Words(), nil
	}
	for _, t := range idx.terms[first : last+1] {
		best.Offer(t)
	}
	return best.Words(), nil
}

func (idx *RangeIndex) TopMatch(prefix string) string {
	first, last, ok := idx.span(prefix)
	if !ok {
		return ""
	}
	top := idx.terms[first]
	for _, t := range idx.terms[first+1 : last+1] {
		if outranks(t, top) {
			top = t
		}
	}
	return top.word
}

// WeightOf is an exact, case-sensitive lookup.
func (idx *RangeIndex) WeightOf(term string) float64 {
	return idx.weights[term]
}

// Len returns the number of indexed terms.
func (idx *RangeIndex) Len() int { return len(idx.terms) }
