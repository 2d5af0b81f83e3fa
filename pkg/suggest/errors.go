package suggest

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrSuggest is the root of every error returned by this package.
var ErrSuggest = errors.New("suggest")

// ErrNullReference is returned when a required input is missing (nil terms or weights).
var ErrNullReference = fmt.Errorf("%w: null reference", ErrSuggest)

// ErrInvalidArgument is returned when a structural precondition is violated:
// negative weight, k < 0, mismatched lengths, duplicate terms or a term
// that is not valid UTF-8.
var ErrInvalidArgument = fmt.Errorf("%w: invalid argument", ErrSuggest)

// validateInput runs the construction checks shared by every variant.
// The returned map is the word -> weight lookup of the validated input.
func validateInput(terms []string, weights []float64) (map[string]float64, error) {
	if terms == nil || weights == nil {
		return nil, fmt.Errorf("%w: terms and weights must not be nil", ErrNullReference)
	}
	if len(terms) != len(weights) {
		return nil, fmt.Errorf("%w: %d terms but %d weights", ErrInvalidArgument, len(terms), len(weights))
	}
	seen := make(map[string]float64, len(terms))
	for i, word := range terms {
		if err := checkWord(word); err != nil {
			return nil, err
		}
		if err := checkWeight(weights[i]); err != nil {
			return nil, fmt.Errorf("%w (term %q)", err, word)
		}
		if _, dup := seen[word]; dup {
			return nil, fmt.Errorf("%w: duplicate term %q", ErrInvalidArgument, word)
		}
		seen[word] = weights[i]
	}
	return seen, nil
}

// checkWord rejects invalid UTF-8. Trie edges are runes, so two words
// differing only in invalid bytes would share a node.
func checkWord(word string) error {
	if !utf8.ValidString(word) {
		return fmt.Errorf("%w: term %q is not valid UTF-8", ErrInvalidArgument, word)
	}
	return nil
}

func checkWeight(weight float64) error {
	// NaN fails every comparison, so test for "not >= 0" rather than "< 0".
	if !(weight >= 0) {
		return fmt.Errorf("%w: negative weight %v", ErrInvalidArgument, weight)
	}
	return nil
}

func checkLimit(k int) error {
	if k < 0 {
		return fmt.Errorf("%w: illegal value of k: %d", ErrInvalidArgument, k)
	}
	return nil
}
