// Package dictionary reads and writes weighted word lists in the formats
// wordrank accepts: plain text, dictzip-compressed text and a compact
// little-endian binary layout.
package dictionary

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDictionary is the root error for the dictionary package.
	ErrDictionary = errors.New("dictionary")
	// ErrMalformed is returned when a file does not follow its format.
	ErrMalformed = fmt.Errorf("%w: malformed", ErrDictionary)
	// ErrUnknownFormat is returned when no format matches a path.
	ErrUnknownFormat = fmt.Errorf("%w: unknown format", ErrDictionary)
)

// Dictionary holds parallel word and weight slices ready to be handed to
// suggest.New.
type Dictionary struct {
	Terms   []string
	Weights []float64
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.Terms)
}

// Add appends an entry.
func (d *Dictionary) Add(word string, weight float64) {
	d.Terms = append(d.Terms, word)
	d.Weights = append(d.Weights, weight)
}

// Validate reports the first problem that would make index construction
// fail: mismatched lengths, a negative or NaN weight, or a repeated word.
func (d *Dictionary) Validate() error {
	if len(d.Terms) != len(d.Weights) {
		return fmt.Errorf("%w: %d terms but %d weights", ErrDictionary, len(d.Terms), len(d.Weights))
	}
	seen := make(map[string]int, len(d.Terms))
	for i, w := range d.Terms {
		if weight := d.Weights[i]; weight < 0 || math.IsNaN(weight) {
			return fmt.Errorf("%w: entry %d (%q) has invalid weight %v", ErrDictionary, i, w, weight)
		}
		if j, ok := seen[w]; ok {
			return fmt.Errorf("%w: entry %d repeats %q from entry %d", ErrDictionary, i, w, j)
		}
		seen[w] = i
	}
	return nil
}

// mergeDuplicates collapses repeated words, keeping the heaviest weight and
// the position of the first occurrence.
func (d *Dictionary) mergeDuplicates() int {
	index := make(map[string]int, len(d.Terms))
	terms := d.Terms[:0]
	weights := d.Weights[:0]
	merged := 0
	for i, w := range d.Terms {
		weight := d.Weights[i]
		if j, ok := index[w]; ok {
			weights[j] = max(weights[j], weight)
			merged++
			continue
		}
		index[w] = len(terms)
		terms = append(terms, w)
		weights = append(weights, weight)
	}
	d.Terms = terms
	d.Weights = weights
	return merged
}
