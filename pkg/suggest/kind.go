package suggest

import (
	"fmt"
	"strings"
)

// Kind selects an index variant.
type Kind int

const (
	KindLinear Kind = iota
	KindRange
	KindTrie
	KindPatricia
)

var kindNames = map[Kind]string{
	KindLinear:   "linear",
	KindRange:    "binary",
	KindTrie:     "trie",
	KindPatricia: "patricia",
}

// Kinds lists every variant in benchmark order.
func Kinds() []Kind {
	return []Kind{KindLinear, KindRange, KindTrie, KindPatricia}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a config name ("linear", "binary", "trie", "patricia") to a Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	// Names used by other tools for the same strategies.
	switch name {
	case "brute":
		return KindLinear, nil
	case "range", "binarysearch":
		return KindRange, nil
	}
	return 0, fmt.Errorf("%w: unknown index variant %q", ErrInvalidArgument, name)
}

// New builds the variant selected by kind. Construction is atomic: on error
// no index is returned.
func New(kind Kind, terms []string, weights []float64) (Autocompletor, error) {
	switch kind {
	case KindLinear:
		return unwrap(NewLinearIndex(terms, weights))
	case KindRange:
		return unwrap(NewRangeIndex(terms, weights))
	case KindTrie:
		return unwrap(NewTrie(terms, weights))
	case KindPatricia:
		return unwrap(NewPatriciaIndex(terms, weights))
	}
	return nil, fmt.Errorf("%w: unknown index variant %v", ErrInvalidArgument, kind)
}

// unwrap keeps a typed nil pointer from leaking out as a non-nil interface.
func unwrap[T Autocompletor](ac T, err error) (Autocompletor, error) {
	if err != nil {
		return nil, err
	}
	return ac, nil
}
