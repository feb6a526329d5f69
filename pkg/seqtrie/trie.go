/*
Package seqtrie implements a trie keyed by sequences of symbols.

Nodes live in a single arena slice and refer to their children by index, so
the structure needs no parent pointers. Every stored value is mirrored in a
multiset.Multiset, which is what Values enumerates; the mirror is updated in
the same step as the node that owns the value.
*/
package seqtrie

import (
	"iter"

	"github.com/CTAG07/chaingen/pkg/multiset"
)

const rootIndex = 0

type node[S comparable, V comparable] struct {
	children map[S]int
	value    V
	handle   multiset.Handle[V]
	present  bool
}

// Trie maps sequences of S to values of V. The empty sequence is a valid key
// and addresses the root. A Trie is not safe for concurrent use.
type Trie[S comparable, V comparable] struct {
	nodes  []node[S, V]
	free   []int
	size   int
	values *multiset.Multiset[V]
}

// New returns an empty Trie.
func New[S comparable, V comparable]() *Trie[S, V] {
	return &Trie[S, V]{
		nodes:  make([]node[S, V], 1),
		values: multiset.New[V](),
	}
}

// Put stores value under seq, creating intermediate nodes as needed. Storing
// a value equal to the one already present leaves the trie unchanged.
func (t *Trie[S, V]) Put(seq []S, value V) {
	n := rootIndex
	for _, sym := range seq {
		child, ok := t.nodes[n].children[sym]
		if !ok {
			child = t.alloc()
			if t.nodes[n].children == nil {
				t.nodes[n].children = make(map[S]int)
			}
			t.nodes[n].children[sym] = child
		}
		n = child
	}

	nd := &t.nodes[n]
	if !nd.present {
		t.size++
		nd.present = true
		nd.value = value
		nd.handle = t.values.Add(value)
		return
	}
	if nd.value != value {
		handle := t.values.Add(value)
		t.values.RemoveExactly(nd.handle)
		nd.value = value
		nd.handle = handle
	}
}

// Get returns the value stored under seq.
func (t *Trie[S, V]) Get(seq []S) (V, bool) {
	n, ok := t.find(seq)
	if !ok || !t.nodes[n].present {
		var zero V
		return zero, false
	}
	return t.nodes[n].value, true
}

// ContainsKey reports whether a value is stored under seq.
func (t *Trie[S, V]) ContainsKey(seq []S) bool {
	n, ok := t.find(seq)
	return ok && t.nodes[n].present
}

// Remove deletes the value stored under seq and reports whether there was
// one. Branches left without values are pruned; keys sharing a prefix with
// seq, and prefixes of seq that hold their own values, are kept.
func (t *Trie[S, V]) Remove(seq []S) bool {
	n, ok := t.find(seq)
	if !ok || !t.nodes[n].present {
		return false
	}

	t.size--
	t.values.RemoveExactly(t.nodes[n].handle)
	var zero V
	t.nodes[n].value = zero
	t.nodes[n].handle = multiset.Handle[V]{}
	t.nodes[n].present = false

	if len(t.nodes[n].children) > 0 || len(seq) == 0 {
		return true
	}

	// Second walk: the root always survives, and so does any node on the
	// path that holds a value or branches off somewhere else.
	keep, cut := rootIndex, 0
	cur := rootIndex
	for i, sym := range seq {
		nd := &t.nodes[cur]
		if nd.present || len(nd.children) > 1 || cur == rootIndex {
			keep, cut = cur, i
		}
		cur = nd.children[sym]
	}

	detached := t.nodes[keep].children[seq[cut]]
	delete(t.nodes[keep].children, seq[cut])
	for _, sym := range seq[cut+1:] {
		next := t.nodes[detached].children[sym]
		t.release(detached)
		detached = next
	}
	t.release(detached)
	return true
}

// Len returns the number of keys holding a value.
func (t *Trie[S, V]) Len() int {
	return t.size
}

// IsEmpty reports whether no key holds a value.
func (t *Trie[S, V]) IsEmpty() bool {
	return t.size == 0
}

// NodeCount returns the number of live nodes, including the root.
func (t *Trie[S, V]) NodeCount() int {
	return len(t.nodes) - len(t.free)
}

// Clear removes every key and value.
func (t *Trie[S, V]) Clear() {
	t.nodes = make([]node[S, V], 1)
	t.free = t.free[:0]
	t.size = 0
	t.values.Clear()
}

// Values yields every stored value exactly once, grouped by equality.
// The trie must not be modified while the sequence is being consumed.
func (t *Trie[S, V]) Values() iter.Seq[V] {
	return t.values.All()
}

// All yields every key together with its value, depth first. Sibling order is
// unspecified. Each key is a fresh slice owned by the caller.
func (t *Trie[S, V]) All() iter.Seq2[[]S, V] {
	return func(yield func([]S, V) bool) {
		t.walk(rootIndex, nil, yield)
	}
}

func (t *Trie[S, V]) walk(n int, prefix []S, yield func([]S, V) bool) bool {
	nd := &t.nodes[n]
	if nd.present {
		key := make([]S, len(prefix))
		copy(key, prefix)
		if !yield(key, nd.value) {
			return false
		}
	}
	for sym, child := range nd.children {
		if !t.walk(child, append(prefix, sym), yield) {
			return false
		}
	}
	return true
}

func (t *Trie[S, V]) find(seq []S) (int, bool) {
	n := rootIndex
	for _, sym := range seq {
		child, ok := t.nodes[n].children[sym]
		if !ok {
			return 0, false
		}
		n = child
	}
	return n, true
}

func (t *Trie[S, V]) alloc() int {
	if k := len(t.free); k > 0 {
		n := t.free[k-1]
		t.free = t.free[:k-1]
		return n
	}
	t.nodes = append(t.nodes, node[S, V]{})
	return len(t.nodes) - 1
}

func (t *Trie[S, V]) release(n int) {
	t.nodes[n] = node[S, V]{}
	t.free = append(t.free, n)
}
