package engine

import (
	"sync"
	"sync/atomic"

	"github.com/tktrask/vart/internal/epoch"
	"github.com/tktrask/vart/internal/node"
)

// RootState holds one trie's mutable root together with the writer
// mutex and reclamation registry the speculative protocol needs. The
// root package's Trie embeds exactly one of these; everything in this
// file is what spec.md §4.5 calls the "speculative lock-free-reader,
// single-writer" protocol, layered on top of the pure tree rebuilds in
// insert.go/erase.go.
type RootState[V any] struct {
	root atomic.Pointer[node.Ref[V]]
	mu   sync.Mutex
	Reg  *epoch.Registry
}

// NewRootState returns an empty RootState (nil root: an empty trie).
func NewRootState[V any]() *RootState[V] {
	return &RootState[V]{Reg: epoch.NewRegistry()}
}

// AcquireReader returns a guard bounding reclamation while the caller
// traverses the trie (spec.md §4.5 / §5's reader rule). Release it
// when the traversal is done.
func (s *RootState[V]) AcquireReader() *epoch.Guard { return s.Reg.Acquire() }

// Snapshot returns the current root. The pointer load itself is
// atomic; callers that will dereference into the tree should still
// hold a reader guard for the duration so a concurrent writer's
// Retire cannot reclaim nodes out from under them.
func (s *RootState[V]) Snapshot() *node.Ref[V] { return s.root.Load() }

// retryLimit bounds the probe/build/validate loop before Speculate
// falls back to rebuilding once more with the writer mutex already
// held, which by itself rules out any racing writer.
const retryLimit = 8

// mutateFn builds a replacement root from an observed one, returning
// the new root and a caller-defined result (existed-bool for Insert,
// removed-bool for Erase).
type mutateFn[V any] func(observed *node.Ref[V]) (newRoot *node.Ref[V], result bool)

// Speculate runs one mutation through the five-step protocol spec.md
// §4.5 describes:
//
//  1. Probe: snapshot the root under a reader guard, without the mutex.
//  2. Pre-allocate + poison: call build(observed) outside the lock; its
//     new root is marked poisoned so no reader could mistake it for
//     live even if it were (impossible here before the commit, since
//     nothing points at it yet — see DESIGN.md on why this
//     implementation's safety rests on immutability-until-publish
//     rather than the poison bit doing useful work on its own).
//  3. Lock + validate: take mu and confirm the root has not moved since
//     step 1. A mismatch means another writer committed meanwhile, so
//     this attempt's work is discarded and retried from step 1.
//  4. Commit: unpoison the new root and publish it with one atomic
//     pointer store.
//  5. Retire: hand the old root to the epoch registry, which frees it
//     once every reader guard active at commit time has moved past it.
func Speculate[V any](s *RootState[V], build mutateFn[V]) bool {
	for attempt := 0; attempt < retryLimit; attempt++ {
		g := s.Reg.Acquire()
		observed := s.root.Load()
		newRoot, result := build(observed)
		g.Release()

		if newRoot != nil && newRoot != observed {
			node.Poisoned(newRoot)
		}

		s.mu.Lock()
		if s.root.Load() != observed {
			s.mu.Unlock()
			continue
		}
		commit(s, observed, newRoot)
		s.mu.Unlock()
		return result
	}

	// Contention exhausted the retry budget: rebuild once more holding
	// the mutex throughout, trivially race-free against other writers.
	s.mu.Lock()
	observed := s.root.Load()
	newRoot, result := build(observed)
	commit(s, observed, newRoot)
	s.mu.Unlock()
	return result
}

// Clear empties s under the writer mutex and retires the whole former
// tree for eager reclamation via FreeSubtree rather than the single-
// node Free a normal mutation's commit uses — Clear's old root shares
// nothing with what replaces it (nil), unlike insert/erase's
// copy-on-write path rebuilds, which only replace the spine and may
// still share unchanged subtrees with the live tree (spec.md §4.2:
// FreeSubtree is for clear/destroy once reclamation has quiesced).
func (s *RootState[V]) Clear() {
	s.mu.Lock()
	old := s.root.Swap(nil)
	s.mu.Unlock()
	if old != nil {
		s.Reg.Retire(func() { node.FreeSubtree(old) })
	}
}

// commit publishes newRoot and retires observed. Must be called with
// s.mu held.
//
// When build reported no structural change (newRoot is the very same
// pointer as observed — e.g. erase-of-absent-key, or insert-of-already-
// present-key under upsert-free semantics), there is nothing to publish
// or retire: storing observed over itself and retiring it would free
// the live tree out from under any concurrent reader.
func commit[V any](s *RootState[V], observed, newRoot *node.Ref[V]) {
	if newRoot == observed {
		return
	}
	if newRoot != nil {
		newRoot.Header().Unpoison()
		newRoot.Header().BumpVersion()
	}
	s.root.Store(newRoot)
	if observed != nil {
		old := observed
		s.Reg.Retire(func() { node.Free(old) })
	}
}
