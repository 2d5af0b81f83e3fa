package suggest

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// PatriciaIndex stores terms in a patricia trie. Queries visit the whole
// matching subtree and rank it, so it sits between LinearIndex and Trie.
type PatriciaIndex struct {
	trie *patricia.Trie
	size int
}

// NewPatriciaIndex validates the input and builds a PatriciaIndex.
func NewPatriciaIndex(terms []string, weights []float64) (*PatriciaIndex, error) {
	if _, err := validateInput(terms, weights); err != nil {
		return nil, err
	}
	idx := &PatriciaIndex{trie: patricia.NewTrie()}
	for i, word := range terms {
		if !idx.trie.Insert(patricia.Prefix(word), weights[i]) {
			return nil, fmt.Errorf("%w: duplicate term %q", ErrInvalidArgument, word)
		}
		idx.size++
	}
	log.Debugf("Patricia index built with %d terms", idx.size)
	return idx, nil
}

// visit calls fn for every term starting with prefix.
func (idx *PatriciaIndex) visit(prefix string, fn func(Term)) {
	visitor := func(p patricia.Prefix, item patricia.Item) error {
		weight, ok := item.(float64)
		if !ok {
			log.Errorf("Unknown item type: %T for word %s", item, p)
			return nil
		}
		fn(Term{word: string(p), weight: weight})
		return nil
	}

	var err error
	if prefix == "" {
		err = idx.trie.Visit(visitor)
	} else {
		err = idx.trie.VisitSubtree(patricia.Prefix(prefix), visitor)
	}
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
	}
}

func (idx *PatriciaIndex) TopMatches(prefix string, k int) ([]string, error) {
	if err := checkLimit(k); err != nil {
		return nil, err
	}
	best := newTopK(k)
	if k == 0 {
		return best.Words(), nil
	}
	idx.visit(prefix, best.Offer)
	return best.Words(), nil
}

func (idx *PatriciaIndex) TopMatch(prefix string) string {
	var (
		found bool
		top   Term
	)
	idx.visit(prefix, func(t Term) {
		if !found || outranks(t, top) {
			top, found = t, true
		}
	})
	return top.word
}

// WeightOf is an exact, case-sensitive lookup.
func (idx *PatriciaIndex) WeightOf(term string) float64 {
	if weight, ok := idx.trie.Get(patricia.Prefix(term)).(float64); ok {
		return weight
	}
	return 0
}

// Len returns the number of indexed terms.
func (idx *PatriciaIndex) Len() int { return idx.size }
