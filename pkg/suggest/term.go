package suggest

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Term is an immutable dictionary entry.
type Term struct {
	word   string
	weight float64
}

// NewTerm returns a Term, rejecting negative (or NaN) weights.
func NewTerm(word string, weight float64) (Term, error) {
	if err := checkWeight(weight); err != nil {
		return Term{}, err
	}
	return Term{word: word, weight: weight}, nil
}

func (t Term) Word() string { return t.word }

func (t Term) Weight() float64 { return t.weight }

// Compare is the default lexicographic order on words.
func (t Term) Compare(o Term) int {
	return strings.Compare(t.word, o.word)
}

func (t Term) String() string {
	return fmt.Sprintf("%14.1f\t%s", t.weight, t.word)
}

// WeightOrder orders terms by ascending weight. Equal weights compare as 0.
func WeightOrder(a, b Term) int {
	switch {
	case a.weight < b.weight:
		return -1
	case a.weight > b.weight:
		return 1
	}
	return 0
}

// ReverseWeightOrder orders terms by descending weight.
func ReverseWeightOrder(a, b Term) int {
	return WeightOrder(b, a)
}

// PrefixOrder returns a comparator that looks at the first r runes only.
// Words shorter than r are compared on their shared prefix and, when that
// ties, the shorter word sorts first. Only the first r runes of each operand
// are ever decoded.
func PrefixOrder(r int) func(a, b Term) int {
	return func(a, b Term) int {
		return comparePrefix(a.word, b.word, r)
	}
}

func comparePrefix(v, w string, r int) int {
	for n := 0; n < r; n++ {
		if v == "" || w == "" {
			switch {
			case v == "" && w == "":
				return 0
			case v == "":
				return -1
			}
			return 1
		}
		_, sv := utf8.DecodeRuneInString(v)
		_, sw := utf8.DecodeRuneInString(w)
		// Byte order of the encoded rune keeps this consistent with strings.Compare.
		if c := strings.Compare(v[:sv], w[:sw]); c != 0 {
			return c
		}
		v, w = v[sv:], w[sw:]
	}
	return 0
}
