/*
Package multiset provides a hash-bucketed container that keeps every value it
is given, including values that compare equal to ones already stored.

Each stored instance is identified by a Handle returned from Add. Lookups work
by value equality, but removal works by handle, so one specific instance can
be taken out without touching the equal values stored next to it.

Values must keep a stable equality while they are resident. Changing anything
that affects == on a stored value (for example through a pointer inside a
struct key) silently corrupts its bucket placement.
*/
package multiset

import (
	"iter"
	"slices"
)

// Handle identifies one stored instance. The zero Handle is never issued and
// is ignored by RemoveExactly.
type Handle[T comparable] struct {
	id    uint64
	value T
}

// Value returns the value the handle was issued for.
func (h Handle[T]) Value() T {
	return h.value
}

// Valid reports whether h was issued by a Multiset.
func (h Handle[T]) Valid() bool {
	return h.id != 0
}

type entry[T comparable] struct {
	id    uint64
	value T
}

// Multiset stores values grouped into buckets by equality. Add and Contains
// are O(1) on average. RemoveExactly scans only the matching bucket, so it
// degrades to O(n) when many stored values are equal to each other.
// A Multiset is not safe for concurrent use.
type Multiset[T comparable] struct {
	buckets map[T][]entry[T]
	size    int
	nextID  uint64
}

// New returns an empty Multiset.
func New[T comparable]() *Multiset[T] {
	return &Multiset[T]{buckets: make(map[T][]entry[T])}
}

// Add stores item and returns the handle of the new instance.
func (m *Multiset[T]) Add(item T) Handle[T] {
	m.nextID++
	m.buckets[item] = append(m.buckets[item], entry[T]{id: m.nextID, value: item})
	m.size++
	return Handle[T]{id: m.nextID, value: item}
}

// Contains reports whether any stored instance is equal to item.
func (m *Multiset[T]) Contains(item T) bool {
	return len(m.buckets[item]) > 0
}

// Count returns the number of stored instances equal to item.
func (m *Multiset[T]) Count(item T) int {
	return len(m.buckets[item])
}

// RemoveExactly removes the instance identified by h and reports whether it
// was present. Equal instances stored under other handles are left alone.
func (m *Multiset[T]) RemoveExactly(h Handle[T]) bool {
	if !h.Valid() {
		return false
	}
	bucket, ok := m.buckets[h.value]
	if !ok {
		return false
	}
	i := slices.IndexFunc(bucket, func(e entry[T]) bool { return e.id == h.id })
	if i < 0 {
		return false
	}
	bucket = slices.Delete(bucket, i, i+1)
	if len(bucket) == 0 {
		delete(m.buckets, h.value)
	} else {
		m.buckets[h.value] = bucket
	}
	m.size--
	return true
}

// Len returns the number of stored instances.
func (m *Multiset[T]) Len() int {
	return m.size
}

// Buckets returns the number of distinct equality classes currently stored.
func (m *Multiset[T]) Buckets() int {
	return len(m.buckets)
}

// Clear removes every instance. Handles issued before Clear become stale and
// are ignored by RemoveExactly.
func (m *Multiset[T]) Clear() {
	clear(m.buckets)
	m.size = 0
}

// All yields every stored instance exactly once. Equal instances are yielded
// back to back in insertion order; buckets come in no particular order.
// The multiset must not be modified while the sequence is being consumed.
func (m *Multiset[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, bucket := range m.buckets {
			for _, e := range bucket {
				if !yield(e.value) {
					return
				}
			}
		}
	}
}
