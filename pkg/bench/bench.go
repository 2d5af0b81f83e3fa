// Package bench times every autocompletor variant on the same dictionary
// and the same queries.
//
// The queries are the empty prefix, a random word longer than two
// characters, its one- and two-character prefixes and a word that is
// absent from the dictionary. Each query is run through TopMatch and
// through TopMatches for every configured k.
package bench

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordrank/pkg/dictionary"
	"github.com/bastiangx/wordrank/pkg/suggest"
	"github.com/charmbracelet/log"
)

// MissingQuery is a prefix assumed to match nothing.
const MissingQuery = "notarealword"

var (
	// ErrBench is the root error for the bench package.
	ErrBench = errors.New("bench")
	// ErrNoSample is returned when no word is long enough to derive queries.
	ErrNoSample = fmt.Errorf("%w: no word longer than two characters", ErrBench)
)

// Options controls a benchmark run. Zero fields take the defaults used by
// the bench command.
type Options struct {
	Kinds     []suggest.Kind
	Rand      *rand.Rand
	Trials    int
	TimeLimit time.Duration
	Ks        []int
}

func (o Options) withDefaults() Options {
	if len(o.Kinds) == 0 {
		o.Kinds = suggest.Kinds()
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(1234, 0))
	}
	if o.Trials <= 0 {
		o.Trials = 1000
	}
	if o.TimeLimit <= 0 {
		o.TimeLimit = 5 * time.Second
	}
	if len(o.Ks) == 0 {
		o.Ks = []int{1, 4, 7}
	}
	return o
}

// Timing is the mean cost of one call. Top marks a TopMatch measurement;
// K is unused then.
type Timing struct {
	Query   string
	Top     bool
	K       int
	Calls   int
	PerCall time.Duration
}

// Label names the measured call, e.g. topMatches("ab", 4).
func (t Timing) Label() string {
	if t.Top {
		return fmt.Sprintf("topMatch(%q)", t.Query)
	}
	return fmt.Sprintf("topMatches(%q, %d)", t.Query, t.K)
}

// Result holds the measurements of one variant.
type Result struct {
	Kind    suggest.Kind
	Build   time.Duration
	Nodes   int
	Timings []Timing
}

// Report is the outcome of Run.
type Report struct {
	Entries int
	Sample  string
	Queries []string
	Results []Result
}

// Run builds each variant from d and times the sample queries against it.
// Cancelling ctx stops the run between calls.
func Run(ctx context.Context, d *dictionary.Dictionary, opts Options) (*Report, error) {
	opts = opts.withDefaults()

	sample, err := pickSample(d.Terms, opts.Rand)
	if err != nil {
		return nil, err
	}
	report := &Report{
		Entries: d.Len(),
		Sample:  sample,
		Queries: Queries(sample),
	}
	log.Debugf("Benchmarking %d entries with sample word %q", d.Len(), sample)

	for _, kind := range opts.Kinds {
		result, err := runKind(ctx, kind, d, report.Queries, opts)
		if err != nil {
			return nil, err
		}
		report.Results = append(report.Results, result)
	}
	return report, nil
}

// Queries derives the benchmark prefixes from a sample word.
func Queries(sample string) []string {
	_, size1 := utf8.DecodeRuneInString(sample)
	_, size2 := utf8.DecodeRuneInString(sample[size1:])
	return []string{"", sample, sample[:size1], sample[:size1+size2], MissingQuery}
}

func pickSample(terms []string, rng *rand.Rand) (string, error) {
	var candidates []string
	for _, t := range terms {
		if utf8.RuneCountInString(t) > 2 {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return "", ErrNoSample
	}
	return candidates[rng.IntN(len(candidates))], nil
}

func runKind(ctx context.Context, kind suggest.Kind, d *dictionary.Dictionary, queries []string, opts Options) (Result, error) {
	start := time.Now()
	ac, err := suggest.New(kind, d.Terms, d.Weights)
	if err != nil {
		return Result{}, fmt.Errorf("%w: building %s: %w", ErrBench, kind, err)
	}
	result := Result{Kind: kind, Build: time.Since(start)}
	if trie, ok := ac.(*suggest.Trie); ok {
		result.Nodes = trie.Size()
	}
	log.Debugf("Built %s in %v", kind, result.Build)

	for _, q := range queries {
		t, err := measure(ctx, q, 0, opts, func() error {
			ac.TopMatch(q)
			return nil
		})
		if err != nil {
			return Result{}, err
		}
		t.Top = true
		result.Timings = append(result.Timings, t)
	}
	for _, q := range queries {
		for _, k := range opts.Ks {
			t, err := measure(ctx, q, k, opts, func() error {
				_, err := ac.TopMatches(q, k)
				return err
			})
			if err != nil {
				return Result{}, err
			}
			result.Timings = append(result.Timings, t)
		}
	}
	return result, nil
}

// measure runs fn up to opts.Trials times, stopping early once
// opts.TimeLimit has passed.
func measure(ctx context.Context, query string, k int, opts Options, fn func() error) (Timing, error) {
	start := time.Now()
	calls := 0
	for calls < opts.Trials {
		if err := ctx.Err(); err != nil {
			return Timing{}, err
		}
		if err := fn(); err != nil {
			return Timing{}, fmt.Errorf("%w: query %q: %w", ErrBench, query, err)
		}
		calls++
		if time.Since(start) > opts.TimeLimit {
			break
		}
	}
	return Timing{
		Query:   query,
		K:       k,
		Calls:   calls,
		PerCall: time.Since(start) / time.Duration(calls),
	}, nil
}
