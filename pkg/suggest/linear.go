package suggest

import (
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/cases"
)

// LinearIndex answers every query by scanning all terms.
type LinearIndex struct {
	terms  []Term
	folded []string
}

// NewLinearIndex validates the input and builds a LinearIndex.
func NewLinearIndex(terms []string, weights []float64) (*LinearIndex, error) {
	if _, err := validateInput(terms, weights); err != nil {
		return nil, err
	}
	caser := cases.Fold()
	idx := &LinearIndex{
		terms:  make([]Term, len(terms)),
		folded: make([]string, len(terms)),
	}
	for i, word := range terms {
		idx.terms[i] = Term{word: word, weight: weights[i]}
		idx.folded[i] = caser.String(word)
	}
	log.Debugf("Linear index built with %d terms", len(idx.terms))
	return idx, nil
}

func (idx *LinearIndex) TopMatches(prefix string, k int) ([]string, error) {
	if err := checkLimit(k); err != nil {
		return nil, err
	}
	best := newTopK(k)
	if k == 0 {
		return best.Words(), nil
	}
	for _, t := range idx.terms {
		if strings.HasPrefix(t.word, prefix) {
			best.Offer(t)
		}
	}
	return best.Words(), nil
}

func (idx *LinearIndex) TopMatch(prefix string) string {
	var (
		found bool
		top   Term
	)
	for _, t := range idx.terms {
		if !strings.HasPrefix(t.word, prefix) {
			continue
		}
		if !found || outranks(t, top) {
			top, found = t, true
		}
	}
	return top.word
}

// WeightOf matches term case-insensitively, using Unicode case folding.
// An exact spelling wins; otherwise the first folded match in input order.
func (idx *LinearIndex) WeightOf(term string) float64 {
	for _, t := range idx.terms {
		if t.word == term {
			return t.weight
		}
	}
	// Casers keep state, so each call folds with its own.
	want := cases.Fold().String(term)
	for i, folded := range idx.folded {
		if folded == want {
			return idx.terms[i].weight
		}
	}
	return 0
}

// Len returns the number of indexed terms.
func (idx *LinearIndex) Len() int { return len(idx.terms) }
