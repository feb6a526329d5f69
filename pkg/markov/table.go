package markov

import (
	"cmp"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"strings"
)

// Follower is a symbol observed after some context, with the number of
// times it was seen there.
type Follower[S cmp.Ordered] struct {
	Symbol S
	Freq   int
}

// Table records how often each symbol followed one context.
//
// A Table is either recording or compiled. Add always returns it to
// recording; Compile builds a dense array in which every symbol appears as
// many times as it was counted, so Sample is a single uniform index.
type Table[S cmp.Ordered] struct {
	total    int
	counts   map[S]int
	compiled bool
	dense    []S
}

// NewTable returns an empty, recording Table.
func NewTable[S cmp.Ordered]() *Table[S] {
	return &Table[S]{counts: make(map[S]int)}
}

// Add counts one more occurrence of sym and reports whether sym had not been
// seen before.
func (t *Table[S]) Add(sym S) bool {
	return t.addN(sym, 1)
}

// addN counts n more occurrences of sym and reports whether sym had not been
// seen before.
func (t *Table[S]) addN(sym S, n int) bool {
	t.compiled = false
	t.dense = nil
	t.total += n
	t.counts[sym] += n
	return t.counts[sym] == n
}

// Compile prepares the table for sampling. Symbols are laid out in ascending
// order so that a given random draw always maps to the same symbol.
func (t *Table[S]) Compile() {
	dense := make([]S, 0, t.total)
	for _, sym := range slices.Sorted(maps.Keys(t.counts)) {
		for range t.counts[sym] {
			dense = append(dense, sym)
		}
	}
	t.dense = dense
	t.compiled = true
}

// Sample draws a follower with probability proportional to its count. A nil
// r uses the math/rand/v2 top-level source.
func (t *Table[S]) Sample(r *rand.Rand) (S, error) {
	if !t.compiled {
		var zero S
		return zero, ErrNotReady
	}
	var u float64
	if r != nil {
		u = r.Float64()
	} else {
		u = rand.Float64()
	}
	return t.dense[int(u*float64(len(t.dense)))], nil
}

// Compiled reports whether the table can be sampled.
func (t *Table[S]) Compiled() bool {
	return t.compiled
}

// Total returns the number of recorded occurrences.
func (t *Table[S]) Total() int {
	return t.total
}

// Distinct returns the number of distinct followers.
func (t *Table[S]) Distinct() int {
	return len(t.counts)
}

// Count returns how many times sym was recorded.
func (t *Table[S]) Count(sym S) int {
	return t.counts[sym]
}

// Followers returns every follower in ascending symbol order.
func (t *Table[S]) Followers() []Follower[S] {
	out := make([]Follower[S], 0, len(t.counts))
	for _, sym := range slices.Sorted(maps.Keys(t.counts)) {
		out = append(out, Follower[S]{Symbol: sym, Freq: t.counts[sym]})
	}
	return out
}

// String lists the total followed by one "count symbol" line per follower.
func (t *Table[S]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d", t.total)
	for _, f := range t.Followers() {
		fmt.Fprintf(&sb, "\n  %d %v", f.Freq, f.Symbol)
	}
	return sb.String()
}
