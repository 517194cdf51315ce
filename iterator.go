package vart

import (
	"github.com/tktrask/vart/internal/engine"
	"github.com/tktrask/vart/keys"
)

// Iterator is an immutable snapshot of one (key, value) pair, captured
// at Begin/NextAfter time — spec.md §6's "semantically an immutable
// snapshot of the value at probe time". It does not track a live
// cursor into the trie; advancing means calling Trie.NextAfter(Key)
// again, which Next does for convenience.
type Iterator[V any] struct {
	Key   keys.Bytes
	Value V
}

// Next returns the iterator for the key immediately after it.Key in t,
// equivalent to t.NextAfter(it.Key).
func (it Iterator[V]) Next(t *Trie[V]) (Iterator[V], bool) {
	return t.NextAfter(it.Key)
}

// Begin returns the iterator at the smallest key in t, or (zero,
// false) if t is empty — spec.md §6's begin().
func (t *Trie[V]) Begin() (Iterator[V], bool) {
	g := t.state.AcquireReader()
	defer g.Release()

	var found Iterator[V]
	ok := false
	engine.Walk(t.state.Snapshot(), func(k []byte, v V) bool {
		found = Iterator[V]{Key: keys.FromBytes(k), Value: v}
		ok = true
		return false // first visited entry in ascending order; stop
	})
	return found, ok
}

// NextAfter returns the iterator at the smallest key strictly greater
// than key, or (zero, false) if none exists — spec.md §6's
// next_after(key_bytes). It drives the core through the same ascending
// Walk seam Begin uses, the "firstLeaf"/"nextAfter" traversal spec.md
// §1 treats as an external collaborator.
func (t *Trie[V]) NextAfter(key keys.Bytes) (Iterator[V], bool) {
	g := t.state.AcquireReader()
	defer g.Release()

	var found Iterator[V]
	ok := false
	engine.Walk(t.state.Snapshot(), func(k []byte, v V) bool {
		if keys.Bytes(k).Less(key) || keys.Bytes(k).Equal(key) {
			return true // keep scanning ascending order
		}
		found = Iterator[V]{Key: keys.FromBytes(k), Value: v}
		ok = true
		return false
	})
	return found, ok
}
