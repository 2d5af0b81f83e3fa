package suggest

import (
	"container/heap"
	"math"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

const rootID int32 = 0

// trieNode is one rune position. Nodes live in the Trie arena and refer to
// their children by index.
type trieNode struct {
	char     rune
	children map[rune]int32
	terminal bool
	word     string
	weight   float64
	// maxWeight is the heaviest terminal weight at or below this node.
	maxWeight float64
}

// Trie is a weighted trie. Every node caches the maximum weight of its
// subtree, which lets TopMatch follow a single path and TopMatches expand
// nodes best-first.
//
// The zero value is an empty trie. Insert must not be called concurrently
// with queries.
type Trie struct {
	nodes []trieNode
	words int
}

// NewTrie validates the input and inserts every term.
func NewTrie(terms []string, weights []float64) (*Trie, error) {
	if _, err := validateInput(terms, weights); err != nil {
		return nil, err
	}
	t := &Trie{}
	t.init()
	for i, word := range terms {
		if err := t.Insert(word, weights[i]); err != nil {
			return nil, err
		}
	}
	log.Debugf("Trie built with %d terms and %d nodes", t.words, len(t.nodes))
	return t, nil
}

func (t *Trie) init() {
	if len(t.nodes) == 0 {
		t.nodes = append(t.nodes, trieNode{maxWeight: math.Inf(-1)})
	}
}

func (t *Trie) newNode(char rune) int32 {
	t.nodes = append(t.nodes, trieNode{char: char, maxWeight: math.Inf(-1)})
	return int32(len(t.nodes) - 1)
}

// Insert adds word with the given weight, or updates the weight of an
// existing word. Every node on the path has its subtree maximum raised on
// the way down; lowering an existing weight recomputes the path bottom-up.
func (t *Trie) Insert(word string, weight float64) error {
	if err := checkWord(word); err != nil {
		return err
	}
	if err := checkWeight(weight); err != nil {
		return err
	}
	t.init()

	lowered := false
	if id, ok := t.find(word); ok && t.nodes[id].terminal {
		lowered = weight < t.nodes[id].weight
	}

	path := make([]int32, 0, len(word)+1)
	cur := rootID
	for _, r := range word {
		path = append(path, cur)
		if !lowered && t.nodes[cur].maxWeight < weight {
			t.nodes[cur].maxWeight = weight
		}
		child, ok := t.nodes[cur].children[r]
		if !ok {
			child = t.newNode(r)
			if t.nodes[cur].children == nil {
				t.nodes[cur].children = make(map[rune]int32)
			}
			t.nodes[cur].children[r] = child
		}
		cur = child
	}

	n := &t.nodes[cur]
	if !n.terminal {
		t.words++
	}
	n.terminal = true
	n.word = word
	n.weight = weight

	if !lowered {
		if n.maxWeight < weight {
			n.maxWeight = weight
		}
		return nil
	}
	t.refresh(cur)
	for i := len(path) - 1; i >= 0; i-- {
		t.refresh(path[i])
	}
	return nil
}

// refresh recomputes maxWeight of a node from its own weight and children.
func (t *Trie) refresh(id int32) {
	n := &t.nodes[id]
	m := math.Inf(-1)
	if n.terminal {
		m = n.weight
	}
	for _, c := range n.children {
		m = max(m, t.nodes[c].maxWeight)
	}
	n.maxWeight = m
}

// find descends one node per rune of key. Keys that are not valid UTF-8
// match nothing.
func (t *Trie) find(key string) (int32, bool) {
	if len(t.nodes) == 0 || !utf8.ValidString(key) {
		return 0, false
	}
	cur := rootID
	for _, r := range key {
		child, ok := t.nodes[cur].children[r]
		if !ok {
			return 0, false
		}
		cur = child
	}
	return cur, true
}

// TopMatch walks from the prefix node towards the child holding the subtree
// maximum until it reaches the word carrying that weight.
func (t *Trie) TopMatch(prefix string) string {
	word, _ := t.topMatch(prefix)
	return word
}

// topMatch also reports how many nodes below the prefix node it visited.
func (t *Trie) topMatch(prefix string) (string, int) {
	id, ok := t.find(prefix)
	if !ok {
		return "", 0
	}
	target := t.nodes[id].maxWeight
	if math.IsInf(target, -1) {
		return "", 0
	}
	for visited := 1; ; visited++ {
		n := &t.nodes[id]
		if n.terminal && n.weight == target {
			return n.word, visited
		}
		// Of several children carrying the maximum, the smallest rune leads
		// to the lexicographically smallest word.
		next, found := int32(0), false
		var nextChar rune
		for r, c := range n.children {
			if t.nodes[c].maxWeight == target && (!found || r < nextChar) {
				next, nextChar, found = c, r, true
			}
		}
		if !found {
			// Unreachable while the subtree invariant holds.
			log.Errorf("No child carries subtree maximum %v", target)
			return "", visited
		}
		id = next
	}
}

// frontier is a queue entry of the best-first search. A node entry is keyed
// by its subtree maximum; a word entry by the weight of the word itself.
type frontier struct {
	id    int32
	key   float64
	label string
	word  bool
}

type frontierQueue []frontier

func (q frontierQueue) Len() int { return len(q) }

func (q frontierQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.key != b.key {
		return a.key > b.key
	}
	// A node's label is a prefix of every word below it, so ordering by
	// label keeps ties in word order.
	if a.label != b.label {
		return a.label < b.label
	}
	return a.word && !b.word
}

func (q frontierQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *frontierQueue) Push(x any)   { *q = append(*q, x.(frontier)) }

func (q *frontierQueue) Pop() any {
	old := *q
	last := old[len(old)-1]
	*q = old[:len(old)-1]
	return last
}

// TopMatches expands nodes in descending order of subtree maximum. A word is
// emitted only when its own weight is the highest key left in the queue, and
// no entry can lead to a word heavier than its key, so words come out in
// non-increasing weight order and the search stops after k of them.
func (t *Trie) TopMatches(prefix string, k int) ([]string, error) {
	results, _, err := t.topMatches(prefix, k)
	return results, err
}

// topMatches also reports how many queue entries it popped.
func (t *Trie) topMatches(prefix string, k int) ([]string, int, error) {
	if err := checkLimit(k); err != nil {
		return nil, 0, err
	}
	results := []string{}
	if k == 0 || t.words == 0 {
		return results, 0, nil
	}
	id, ok := t.find(prefix)
	if !ok {
		return results, 0, nil
	}

	popped := 0
	q := frontierQueue{{id: id, key: t.nodes[id].maxWeight, label: prefix}}
	for q.Len() > 0 && len(results) < k {
		e := heap.Pop(&q).(frontier)
		popped++
		n := &t.nodes[e.id]
		if e.word {
			results = append(results, n.word)
			continue
		}
		if n.terminal {
			heap.Push(&q, frontier{id: e.id, key: n.weight, label: n.word, word: true})
		}
		for r, c := range n.children {
			heap.Push(&q, frontier{id: c, key: t.nodes[c].maxWeight, label: e.label + string(r)})
		}
	}
	if len(results) > k {
		results = results[:k]
	}
	return results, popped, nil
}

// WeightOf is an exact, case-sensitive lookup.
func (t *Trie) WeightOf(term string) float64 {
	id, ok := t.find(term)
	if !ok || !t.nodes[id].terminal {
		return 0
	}
	return t.nodes[id].weight
}

// Len returns the number of words stored.
func (t *Trie) Len() int { return t.words }

// Size returns the number of nodes, including the root.
func (t *Trie) Size() int { return len(t.nodes) }
