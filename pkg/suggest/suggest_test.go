package suggest

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	scenarioTerms   = []string{"ape", "app", "ban", "bat", "bee", "car", "cat"}
	scenarioWeights = []float64{6, 4, 2, 3, 5, 7, 1}
)

func buildAll(t *testing.T, terms []string, weights []float64) map[Kind]Autocompletor {
	t.Helper()
	all := make(map[Kind]Autocompletor)
	for _, kind := range Kinds() {
		ac, err := New(kind, terms, weights)
		if err != nil {
			t.Fatalf("New(%v): %v", kind, err)
		}
		all[kind] = ac
	}
	return all
}

func TestScenario(t *testing.T) {
	t.Parallel()

	for kind, ac := range buildAll(t, scenarioTerms, scenarioWeights) {
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()

			topMatch := []struct {
				prefix, want string
			}{
				{"", "car"}, {"a", "ape"}, {"ap", "ape"}, {"b", "bee"}, {"ba", "bat"},
				{"c", "car"}, {"ca", "car"}, {"cat", "cat"}, {"d", ""}, {" ", ""},
			}
			for _, tt := range topMatch {
				if got := ac.TopMatch(tt.prefix); got != tt.want {
					t.Errorf("TopMatch(%q) = %q; want %q", tt.prefix, got, tt.want)
				}
			}

			topMatches := []struct {
				prefix string
				k      int
				want   []string
			}{
				{"", 8, []string{"car", "ape", "bee", "app", "bat", "ban", "cat"}},
				{"", 1, []string{"car"}},
				{"", 2, []string{"car", "ape"}},
				{"", 3, []string{"car", "ape", "bee"}},
				{"a", 1, []string{"ape"}},
				{"ap", 1, []string{"ape"}},
				{"b", 2, []string{"bee", "bat"}},
				{"ba", 2, []string{"bat", "ban"}},
				{"d", 100, []string{}},
				{"car", 0, []string{}},
			}
			for _, tt := range topMatches {
				got, err := ac.TopMatches(tt.prefix, tt.k)
				if err != nil {
					t.Fatalf("TopMatches(%q, %d): %v", tt.prefix, tt.k, err)
				}
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Errorf("TopMatches(%q, %d) (-want, +got):\n%s", tt.prefix, tt.k, diff)
				}
			}

			if got := ac.WeightOf("cat"); got != 1 {
				t.Errorf("WeightOf(cat) = %v; want 1", got)
			}
			if got := ac.WeightOf("dog"); got != 0 {
				t.Errorf("WeightOf(dog) = %v; want 0", got)
			}
			if got := ac.WeightOf("ca"); got != 0 {
				t.Errorf("WeightOf(ca) = %v; want 0", got)
			}
		})
	}
}

func TestConstructionErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		terms   []string
		weights []float64
		want    error
	}{
		{"nil terms", nil, []float64{}, ErrNullReference},
		{"nil weights", []string{}, nil, ErrNullReference},
		{"length mismatch", []string{"a", "b"}, []float64{1}, ErrInvalidArgument},
		{"negative weight", []string{"a", "b"}, []float64{1, -1}, ErrInvalidArgument},
		{"duplicate term", []string{"a", "b", "a"}, []float64{1, 2, 3}, ErrInvalidArgument},
		{"invalid utf-8", []string{"a\xff", "a\xfe"}, []float64{1, 2}, ErrInvalidArgument},
	}

	for _, tt := range tests {
		for _, kind := range Kinds() {
			t.Run(fmt.Sprintf("%s/%v", tt.name, kind), func(t *testing.T) {
				t.Parallel()
				ac, err := New(kind, tt.terms, tt.weights)
				if !errors.Is(err, tt.want) {
					t.Errorf("New error = %v; want %v", err, tt.want)
				}
				if !errors.Is(err, ErrSuggest) {
					t.Errorf("New error = %v; want it to wrap ErrSuggest", err)
				}
				if ac != nil {
					t.Errorf("New returned a usable index alongside an error")
				}
			})
		}
	}
}

func TestNegativeLimit(t *testing.T) {
	t.Parallel()

	for kind, ac := range buildAll(t, scenarioTerms, scenarioWeights) {
		if _, err := ac.TopMatches("a", -1); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%v: TopMatches(k=-1) error = %v; want ErrInvalidArgument", kind, err)
		}
	}
}

func TestEmptyDictionary(t *testing.T) {
	t.Parallel()

	for kind, ac := range buildAll(t, []string{}, []float64{}) {
		got, err := ac.TopMatches("", 5)
		if err != nil {
			t.Fatalf("%v: TopMatches: %v", kind, err)
		}
		if len(got) != 0 {
			t.Errorf("%v: TopMatches on empty dictionary = %v; want []", kind, got)
		}
		if got := ac.TopMatch(""); got != "" {
			t.Errorf("%v: TopMatch on empty dictionary = %q; want \"\"", kind, got)
		}
	}
}

func TestLinearWeightOfIgnoresCase(t *testing.T) {
	t.Parallel()

	idx, err := NewLinearIndex([]string{"Straße", "cat"}, []float64{3, 1})
	if err != nil {
		t.Fatalf("NewLinearIndex: %v", err)
	}
	tests := map[string]float64{"CAT": 1, "Cat": 1, "STRAßE": 3, "straße": 3, "dog": 0}
	for term, want := range tests {
		if got := idx.WeightOf(term); got != want {
			t.Errorf("WeightOf(%q) = %v; want %v", term, got, want)
		}
	}
}

func TestLinearWeightOfPrefersExactSpelling(t *testing.T) {
	t.Parallel()

	idx, err := NewLinearIndex([]string{"Apple", "apple", "pear"}, []float64{1, 5, 2})
	if err != nil {
		t.Fatalf("NewLinearIndex: %v", err)
	}
	tests := map[string]float64{"Apple": 1, "apple": 5, "APPLE": 1, "aPPle": 1, "PEAR": 2}
	for term, want := range tests {
		if got := idx.WeightOf(term); got != want {
			t.Errorf("WeightOf(%q) = %v; want %v", term, got, want)
		}
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := map[string]Kind{
		"linear": KindLinear, "brute": KindLinear, "binary": KindRange,
		" Trie ": KindTrie, "patricia": KindPatricia,
	}
	for name, want := range tests {
		got, err := ParseKind(name)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseKind("quantum"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ParseKind(quantum) error = %v; want ErrInvalidArgument", err)
	}
	if _, err := New(Kind(42), nil, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("New(Kind(42)) error = %v; want ErrInvalidArgument", err)
	}
}

// randomDictionary builds unique words over a small alphabet so prefixes
// share long runs. distinct controls whether weights may tie.
func randomDictionary(rng *rand.Rand, n int, distinct bool) ([]string, []float64) {
	seen := make(map[string]bool)
	var terms []string
	for len(terms) < n {
		length := 1 + rng.IntN(5)
		b := make([]byte, length)
		for i := range b {
			b[i] = "abcd"[rng.IntN(4)]
		}
		if seen[string(b)] {
			continue
		}
		seen[string(b)] = true
		terms = append(terms, string(b))
	}
	weights := make([]float64, n)
	perm := rng.Perm(n)
	for i := range weights {
		if distinct {
			weights[i] = float64(perm[i]) + 0.5
		} else {
			weights[i] = float64(rng.IntN(4))
		}
	}
	return terms, weights
}

func allPrefixes(terms []string) []string {
	set := map[string]bool{"": true, "zzz": true}
	for _, w := range terms {
		for i := 1; i <= len(w); i++ {
			set[w[:i]] = true
		}
	}
	prefixes := make([]string, 0, len(set))
	for p := range set {
		prefixes = append(prefixes, p)
	}
	return prefixes
}

func TestOracleEquivalence(t *testing.T) {
	t.Parallel()

	for _, distinct := range []bool{true, false} {
		t.Run(fmt.Sprintf("distinct=%v", distinct), func(t *testing.T) {
			t.Parallel()

			stream := uint64(1)
			if !distinct {
				stream = 2
			}
			rng := rand.New(rand.NewPCG(1234, stream))
			terms, weights := randomDictionary(rng, 300, distinct)
			all := buildAll(t, terms, weights)
			oracle := all[KindLinear]

			for _, prefix := range allPrefixes(terms) {
				for _, k := range []int{0, 1, 2, 5, 17, 400} {
					want, err := oracle.TopMatches(prefix, k)
					if err != nil {
						t.Fatalf("oracle TopMatches(%q, %d): %v", prefix, k, err)
					}
					for _, kind := range Kinds()[1:] {
						got, err := all[kind].TopMatches(prefix, k)
						if err != nil {
							t.Fatalf("%v: TopMatches(%q, %d): %v", kind, prefix, k, err)
						}
						if diff := cmp.Diff(want, got); diff != "" {
							t.Fatalf("%v: TopMatches(%q, %d) (-oracle, +got):\n%s", kind, prefix, k, diff)
						}
					}
				}
				want := oracle.TopMatch(prefix)
				for _, kind := range Kinds()[1:] {
					if got := all[kind].TopMatch(prefix); got != want {
						t.Fatalf("%v: TopMatch(%q) = %q; oracle %q", kind, prefix, got, want)
					}
				}
			}
		})
	}
}

func TestProperties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(42, 7))
	terms, weights := randomDictionary(rng, 200, true)

	for kind, ac := range buildAll(t, terms, weights) {
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()

			for _, prefix := range allPrefixes(terms) {
				matches, err := ac.TopMatches(prefix, len(terms)+1)
				if err != nil {
					t.Fatalf("TopMatches: %v", err)
				}

				// Non-increasing weights.
				for i := 1; i < len(matches); i++ {
					if ac.WeightOf(matches[i]) > ac.WeightOf(matches[i-1]) {
						t.Fatalf("TopMatches(%q) not ordered at %d: %v", prefix, i, matches)
					}
				}

				// Monotonicity in k.
				for k := 0; k < len(matches); k++ {
					shorter, _ := ac.TopMatches(prefix, k)
					if diff := cmp.Diff(matches[:k], shorter); diff != "" {
						t.Fatalf("TopMatches(%q, %d) is not a prefix of k+1 results:\n%s", prefix, k, diff)
					}
				}

				// Top-1 agreement.
				want := ""
				if len(matches) > 0 {
					want = matches[0]
				}
				if got := ac.TopMatch(prefix); got != want {
					t.Fatalf("TopMatch(%q) = %q; want %q", prefix, got, want)
				}
			}

			// Weight round-trip.
			for i, w := range terms {
				if got := ac.WeightOf(w); got != weights[i] {
					t.Fatalf("WeightOf(%q) = %v; want %v", w, got, weights[i])
				}
			}
			if got := ac.WeightOf("never-inserted"); got != 0 {
				t.Errorf("WeightOf(never-inserted) = %v; want 0", got)
			}
		})
	}
}
