package suggest

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// checkInvariant verifies the cached subtree maximum of every node.
func checkInvariant(t *testing.T, tr *Trie) {
	t.Helper()
	for id := range tr.nodes {
		n := tr.nodes[id]
		want := math.Inf(-1)
		if n.terminal {
			want = n.weight
		}
		for _, c := range n.children {
			want = max(want, tr.nodes[c].maxWeight)
		}
		if n.maxWeight != want {
			t.Fatalf("node %d (%q): maxWeight = %v; want %v", id, string(n.char), n.maxWeight, want)
		}
	}
}

func TestTrieInsert(t *testing.T) {
	t.Parallel()

	tr := &Trie{}
	inserts := []struct {
		word   string
		weight float64
	}{
		{"ape", 6}, {"app", 4}, {"apple", 9}, {"a", 1}, {"", 0.5}, {"bee", 5},
	}
	for _, in := range inserts {
		if err := tr.Insert(in.word, in.weight); err != nil {
			t.Fatalf("Insert(%q): %v", in.word, err)
		}
		checkInvariant(t, tr)
	}

	if got := tr.Len(); got != len(inserts) {
		t.Errorf("Len() = %d; want %d", got, len(inserts))
	}
	// root + a,p,e,p,l,e + b,e,e
	if got := tr.Size(); got != 10 {
		t.Errorf("Size() = %d; want 10", got)
	}
	if err := tr.Insert("bad", -2); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Insert(negative) error = %v; want ErrInvalidArgument", err)
	}
}

func TestTrieReinsert(t *testing.T) {
	t.Parallel()

	tr, err := NewTrie(scenarioTerms, scenarioWeights)
	if err != nil {
		t.Fatalf("NewTrie: %v", err)
	}
	size := tr.Size()

	// Lowering the heaviest word must lower the cached maxima on its path.
	if err := tr.Insert("car", 0.5); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	checkInvariant(t, tr)
	if got := tr.TopMatch(""); got != "ape" {
		t.Errorf("TopMatch(\"\") after lowering car = %q; want ape", got)
	}
	if got := tr.TopMatch("c"); got != "cat" {
		t.Errorf("TopMatch(\"c\") after lowering car = %q; want cat", got)
	}

	// Raising it again.
	if err := tr.Insert("car", 10); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	checkInvariant(t, tr)
	if got := tr.TopMatch("ca"); got != "car" {
		t.Errorf("TopMatch(\"ca\") = %q; want car", got)
	}

	if tr.Size() != size {
		t.Errorf("reinsertion created nodes: Size() = %d; want %d", tr.Size(), size)
	}
	if tr.Len() != len(scenarioTerms) {
		t.Errorf("reinsertion changed word count: Len() = %d; want %d", tr.Len(), len(scenarioTerms))
	}
	if got := tr.WeightOf("car"); got != 10 {
		t.Errorf("WeightOf(car) = %v; want 10", got)
	}
}

// A terminal node with a heavier descendant must not be emitted before it.
func TestTrieTopMatchesTerminalWithHeavierChild(t *testing.T) {
	t.Parallel()

	tr, err := NewTrie([]string{"a", "ab", "abc", "abd", "b"}, []float64{1, 5, 3, 4, 2})
	if err != nil {
		t.Fatalf("NewTrie: %v", err)
	}

	got, err := tr.TopMatches("a", 10)
	if err != nil {
		t.Fatalf("TopMatches: %v", err)
	}
	if diff := cmp.Diff([]string{"ab", "abd", "abc", "a"}, got); diff != "" {
		t.Errorf("TopMatches(\"a\", 10) (-want, +got):\n%s", diff)
	}
	if got := tr.TopMatch("a"); got != "ab" {
		t.Errorf("TopMatch(\"a\") = %q; want ab", got)
	}
	if got := tr.TopMatch("ab"); got != "ab" {
		t.Errorf("TopMatch(\"ab\") = %q; want ab", got)
	}
}

func TestTrieTies(t *testing.T) {
	t.Parallel()

	tr, err := NewTrie([]string{"bb", "ba", "b", "abc", "c"}, []float64{3, 3, 3, 3, 1})
	if err != nil {
		t.Fatalf("NewTrie: %v", err)
	}

	got, err := tr.TopMatches("", 5)
	if err != nil {
		t.Fatalf("TopMatches: %v", err)
	}
	if diff := cmp.Diff([]string{"abc", "b", "ba", "bb", "c"}, got); diff != "" {
		t.Errorf("TopMatches(\"\", 5) (-want, +got):\n%s", diff)
	}
	if got := tr.TopMatch("b"); got != "b" {
		t.Errorf("TopMatch(\"b\") = %q; want b", got)
	}
	if got := tr.TopMatch(""); got != "abc" {
		t.Errorf("TopMatch(\"\") = %q; want abc", got)
	}
}

func TestTrieZeroValue(t *testing.T) {
	t.Parallel()

	var tr Trie
	if got := tr.TopMatch(""); got != "" {
		t.Errorf("TopMatch on empty trie = %q; want \"\"", got)
	}
	got, err := tr.TopMatches("", 3)
	if err != nil {
		t.Fatalf("TopMatches: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("TopMatches on empty trie = %v; want []", got)
	}
	if w := tr.WeightOf(""); w != 0 {
		t.Errorf("WeightOf on empty trie = %v; want 0", w)
	}
}

func TestTrieUnicode(t *testing.T) {
	t.Parallel()

	tr, err := NewTrie([]string{"über", "überall", "uber", "日本", "日本語"}, []float64{2, 4, 3, 1, 5})
	if err != nil {
		t.Fatalf("NewTrie: %v", err)
	}
	if got := tr.TopMatch("ü"); got != "überall" {
		t.Errorf("TopMatch(ü) = %q; want überall", got)
	}
	got, err := tr.TopMatches("日", 2)
	if err != nil {
		t.Fatalf("TopMatches: %v", err)
	}
	if diff := cmp.Diff([]string{"日本語", "日本"}, got); diff != "" {
		t.Errorf("TopMatches(日, 2) (-want, +got):\n%s", diff)
	}
	if got := tr.WeightOf("uber"); got != 3 {
		t.Errorf("WeightOf(uber) = %v; want 3", got)
	}
}

func TestTrieInvalidUTF8(t *testing.T) {
	t.Parallel()

	tr, err := NewTrie([]string{"a\uFFFD", "ab"}, []float64{3, 1})
	if err != nil {
		t.Fatalf("NewTrie: %v", err)
	}
	if err := tr.Insert("a\xff", 5); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Insert(invalid utf-8) error = %v; want ErrInvalidArgument", err)
	}
	// An invalid key must not alias the replacement character.
	if w := tr.WeightOf("a\xff"); w != 0 {
		t.Errorf("WeightOf(invalid utf-8) = %v; want 0", w)
	}
	if got := tr.TopMatch("a\xfe"); got != "" {
		t.Errorf("TopMatch(invalid utf-8) = %q; want \"\"", got)
	}
	if got, _ := tr.TopMatches("a\xfe", 2); len(got) != 0 {
		t.Errorf("TopMatches(invalid utf-8) = %q; want []", got)
	}
	if w := tr.WeightOf("a\uFFFD"); w != 3 {
		t.Errorf("WeightOf(a\\uFFFD) = %v; want 3", w)
	}
}

// A heavy word hidden among many light siblings is found by walking its
// path, without visiting the light subtrees.
func TestTrieSearchIsBounded(t *testing.T) {
	t.Parallel()

	heavy := "a" + strings.Repeat("z", 9)
	terms := []string{heavy}
	weights := []float64{100}
	for i := range 1000 {
		terms = append(terms, fmt.Sprintf("a%03d", i))
		weights = append(weights, 1)
	}
	tr, err := NewTrie(terms, weights)
	if err != nil {
		t.Fatalf("NewTrie: %v", err)
	}
	depth := len(heavy)

	word, visited := tr.topMatch("a")
	if word != heavy {
		t.Fatalf("topMatch(a) = %q; want %q", word, heavy)
	}
	if visited > depth {
		t.Errorf("topMatch(a) visited %d nodes; want at most %d", visited, depth)
	}

	words, popped, err := tr.topMatches("a", 1)
	if err != nil {
		t.Fatalf("topMatches: %v", err)
	}
	if diff := cmp.Diff([]string{heavy}, words); diff != "" {
		t.Errorf("topMatches(a, 1) (-want, +got):\n%s", diff)
	}
	// one pop per node on the path plus the word entry
	if popped > depth+1 {
		t.Errorf("topMatches(a, 1) popped %d entries of a %d-node trie; want at most %d", popped, tr.Size(), depth+1)
	}

	words, popped, err = tr.topMatches("a", 3)
	if err != nil {
		t.Fatalf("topMatches: %v", err)
	}
	if diff := cmp.Diff([]string{heavy, "a000", "a001"}, words); diff != "" {
		t.Errorf("topMatches(a, 3) (-want, +got):\n%s", diff)
	}
	if popped > 2*depth+10 {
		t.Errorf("topMatches(a, 3) popped %d entries; want a bounded search", popped)
	}
}
