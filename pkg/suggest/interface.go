/*
Package suggest answers prefix autocomplete queries over a fixed dictionary of
weighted terms.

Every variant implements [Autocompletor]:

	ac, err := suggest.New(suggest.KindTrie, terms, weights)
	words, err := ac.TopMatches("b", 2) // ["bee", "bat"]
	best := ac.TopMatch("b")            // "bee"
	w := ac.WeightOf("cat")             // 1

[LinearIndex] scans every term and is used as the correctness oracle.
[RangeIndex] binary searches a sorted slice for the run of terms sharing the
prefix and ranks only that run. [Trie] caches the heaviest weight of each
subtree, so TopMatch walks a single path and TopMatches expands nodes
best-first instead of visiting the whole matching subtree. [PatriciaIndex]
stores terms in a patricia trie and ranks the visited subtree.

Indexes are immutable once built and safe for concurrent queries. Equal
weights are ordered by word, so all variants return identical results.
*/
package suggest

// Autocompletor is implemented by every index variant.
type Autocompletor interface {
	// TopMatches returns at most k words starting with prefix, heaviest first.
	TopMatches(prefix string, k int) ([]string, error)

	// TopMatch returns the heaviest word starting with prefix, or "" if none.
	TopMatch(prefix string) string

	// WeightOf returns the weight of term, or 0 if it is not in the dictionary.
	WeightOf(term string) float64
}
