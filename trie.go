// Package vart implements a versioned adaptive radix trie: an
// ordered, byte-keyed associative container with lock-free readers
// against a single serialized writer.
package vart

import (
	"github.com/tktrask/vart/internal/engine"
	"github.com/tktrask/vart/internal/node"
	"github.com/tktrask/vart/keys"
)

// Trie is an ordered map from keys.Bytes to V, safe for any number of
// concurrent readers racing exactly one concurrent writer (spec.md
// §4.5). The zero value is not usable; construct one with New.
type Trie[V any] struct {
	opts  Options
	state *engine.RootState[V]
}

// New returns an empty Trie configured by opts.
func New[V any](opts ...Option) *Trie[V] {
	var o Options
	for _, apply := range opts {
		apply(&o)
	}
	return &Trie[V]{opts: o, state: engine.NewRootState[V]()}
}

// Contains reports whether key is present.
func (t *Trie[V]) Contains(key keys.Bytes) bool {
	_, ok := t.Find(key)
	return ok
}

// Find returns the value bound to key, and whether key was present.
func (t *Trie[V]) Find(key keys.Bytes) (V, bool) {
	t.opts.checkKeyLen(key)
	g := t.state.AcquireReader()
	defer g.Release()
	return engine.Get(t.state.Snapshot(), key)
}

// Insert binds key to value. It reports (true, nil) when key was
// absent and is now bound to value, or (false, ErrKeyExists) when key
// was already present — Insert never overwrites an existing value;
// callers that want upsert semantics should Erase first.
func (t *Trie[V]) Insert(key keys.Bytes, value V) (bool, error) {
	t.opts.checkKeyLen(key)
	existed := false
	engine.Speculate(t.state, func(observed *node.Ref[V]) (*node.Ref[V], bool) {
		_, existed = engine.Get(observed, key)
		if existed {
			return observed, false
		}
		newRoot, _ := engine.Insert(observed, key, value)
		return newRoot, false
	})
	if existed {
		return false, ErrKeyExists
	}
	return true, nil
}

// Emplace binds key to the value build returns, but only calls build
// when key is absent — avoiding constructing a V that would be
// discarded on ErrKeyExists (original_source/tktrie_insert.h's
// emplace-with-constructor path).
func (t *Trie[V]) Emplace(key keys.Bytes, build func() V) (bool, error) {
	t.opts.checkKeyLen(key)
	existed := false
	engine.Speculate(t.state, func(observed *node.Ref[V]) (*node.Ref[V], bool) {
		_, existed = engine.Get(observed, key)
		if existed {
			return observed, false
		}
		newRoot, _ := engine.Insert(observed, key, build())
		return newRoot, false
	})
	if existed {
		return false, ErrKeyExists
	}
	return true, nil
}

// Erase removes key. It reports (true, nil) when key was present and
// is now removed, or (false, ErrNotFound) when key was absent.
func (t *Trie[V]) Erase(key keys.Bytes) (bool, error) {
	t.opts.checkKeyLen(key)
	removed := engine.Speculate(t.state, func(observed *node.Ref[V]) (*node.Ref[V], bool) {
		return engine.Erase(observed, key)
	})
	if !removed {
		return false, ErrNotFound
	}
	return true, nil
}

// Clear empties the Trie and reclaims every node, regardless of any
// reader guards outstanding — callers must ensure no reader is
// traversing t concurrently with Clear (spec.md §6's reclaim_retired
// contract).
func (t *Trie[V]) Clear() {
	t.state.Clear()
	t.state.Reg.ReclaimAll()
}

// Size returns the number of keys currently in t. O(n): it walks the
// whole tree, matching the teacher's array_based.go counting
// semantics (no separate maintained counter).
func (t *Trie[V]) Size() int {
	g := t.state.AcquireReader()
	defer g.Release()
	n := 0
	engine.Walk(t.state.Snapshot(), func(_ []byte, _ V) bool { n++; return true })
	return n
}

// Empty reports whether t holds no keys.
func (t *Trie[V]) Empty() bool {
	g := t.state.AcquireReader()
	defer g.Release()
	return t.state.Snapshot() == nil
}

// DebugSnapshot returns the current root node for diagnostic tooling
// (internal/debugfmt's Dump/Validate). Not part of the core's correctness contract; it exists
// because a real module needs a way to hand its internal shape to a
// pretty-printer without internal/node becoming part of the public
// API surface.
func (t *Trie[V]) DebugSnapshot() *node.Ref[V] {
	return t.state.Snapshot()
}

// ReclaimRetired forces an immediate epoch-reclamation pass over nodes
// retired by prior writes (spec.md §5's explicit reclaim_retired
// operation, for callers who want to bound memory eagerly rather than
// waiting for the registry's retireThreshold to trigger it).
func (t *Trie[V]) ReclaimRetired() {
	t.state.Reg.Reclaim()
}
