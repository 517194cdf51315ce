// Package epoch implements the trie's epoch-based reclamation (EBR):
// a global epoch counter, lazily-registered per-reader slots, and a
// retired-node list that frees a node once every active reader has
// moved past the epoch it was retired in. Spec.md §5.
//
// There is no EBR analogue in the teacher (TomTonic/multimap guards
// its whole structure with one sync.RWMutex, array_based.go); this
// package is grounded instead on the RCU/lock-free idioms in
// other_examples' SeleniaProject-Orizon concurrent.go (atomic
// pointers, CAS retry loops, a generation-counted RCU list) and on
// the copy-on-write node discipline described in sirgallo-mari's
// Node.go/Version.go (every mutation publishes a new node rather than
// editing the live one in place), adapted from that repo's durable
// mmap setting to a purely in-memory one.
package epoch

import (
	"sync"
	"sync/atomic"

	"github.com/dolthub/maphash"
)

// Reclaimable is anything the retired list can hold; the engine
// passes a node.Ref wrapped in a closure so this package need not
// import the node package (keeping the dependency direction
// node → engine → epoch, not the reverse).
type Reclaimable func()

// Registry owns the global epoch and the set of registered reader
// slots. One Registry belongs to exactly one Trie (spec.md §9's
// "Global state" note: "An alternative per-container EBR is
// acceptable but must ensure reader slots survive container
// teardown" — we choose the per-container form, which sidesteps that
// caveat entirely since the Registry and every slot it owns are
// collected together with the Trie).
//
// Reader slots are striped across numShards independent
// mutex-guarded maps, keyed by hashing each reader's registration
// token with dolthub/maphash — a single busy Trie under heavy
// concurrent read traffic would otherwise serialize every Acquire/
// Release through one lock, exactly the contention a striped table
// avoids.
type Registry struct {
	global atomic.Uint64

	shards  [numShards]shard
	nextTok atomic.Uint64
	hasher  maphash.Hasher[uint64]

	retiredMu sync.Mutex
	retired   []retiredItem
}

// numShards is the reader-slot table's stripe count. A power of two so
// shardFor's modulo reduces to a mask; 16 is large enough to keep
// Acquire/Release off a single lock under concurrent readers without
// making minActiveEpoch (which must visit every shard) expensive.
const numShards = 16

type shard struct {
	mu    sync.Mutex
	slots map[uint64]*slot
}

type slot struct {
	active atomic.Bool
	epoch  atomic.Uint64
}

type retiredItem struct {
	epoch uint64
	free  Reclaimable
}

// NewRegistry returns a fresh, empty Registry starting at epoch 0.
func NewRegistry() *Registry {
	r := &Registry{hasher: maphash.NewHasher[uint64]()}
	for i := range r.shards {
		r.shards[i].slots = make(map[uint64]*slot)
	}
	return r
}

// shardFor picks the stripe a reader token's slot lives in.
func (r *Registry) shardFor(tok uint64) *shard {
	return &r.shards[r.hasher.Hash(tok)%numShards]
}

// Guard represents one reader's hold on the current epoch. Acquire it
// before traversing the trie and Release it (typically via defer)
// when the traversal is done; while held, no node retired at or after
// the guard's observed epoch will be reclaimed.
type Guard struct {
	reg *Registry
	tok uint64
}

// token mints a per-goroutine-call registration handle. Readers are
// expected to call Acquire once per lookup (cheap: a striped map
// lookup keyed by a monotonically-issued token, the stripe picked by
// hashing the token with reg.hasher) rather than pay for a
// goroutine-local slot that must also be torn down on goroutine exit.
func (r *Registry) token() uint64 {
	return r.nextTok.Add(1)
}

// Acquire snapshots the current global epoch into a newly registered
// slot and returns a Guard over it. The reader rule (spec.md §4.5):
// while any Guard is live for an epoch, the registry will not let
// reclamation free a node retired at or after that epoch.
func (r *Registry) Acquire() *Guard {
	tok := r.token()

	s := &slot{}
	s.active.Store(true)
	s.epoch.Store(r.global.Load())

	sh := r.shardFor(tok)
	sh.mu.Lock()
	sh.slots[tok] = s
	sh.mu.Unlock()

	return &Guard{reg: r, tok: tok}
}

// Release clears the guard's slot, making its epoch invisible to the
// min-active-epoch computation reclamation relies on.
func (g *Guard) Release() {
	if g == nil || g.reg == nil {
		return
	}
	sh := g.reg.shardFor(g.tok)
	sh.mu.Lock()
	delete(sh.slots, g.tok)
	sh.mu.Unlock()
	g.reg = nil
}

// Epoch returns the epoch this guard observed at Acquire time.
func (g *Guard) Epoch() uint64 {
	return g.reg.slotEpoch(g.tok)
}

func (r *Registry) slotEpoch(tok uint64) uint64 {
	sh := r.shardFor(tok)
	sh.mu.Lock()
	s := sh.slots[tok]
	sh.mu.Unlock()
	if s == nil {
		return 0
	}
	return s.epoch.Load()
}

// minActiveEpoch returns the lowest epoch any live guard has
// observed, or the current global epoch if there are no live guards.
// Every shard is visited in turn; each holds its own lock only for the
// span of its own scan, so this never blocks all of Acquire/Release at
// once the way a single registry-wide lock would.
func (r *Registry) minActiveEpoch() uint64 {
	min := r.global.Load()
	for i := range r.shards {
		sh := &r.shards[i]
		sh.mu.Lock()
		for _, s := range sh.slots {
			if !s.active.Load() {
				continue
			}
			if e := s.epoch.Load(); e < min {
				min = e
			}
		}
		sh.mu.Unlock()
	}
	return min
}

// retireThreshold is the number of pending retirements that triggers
// an eager reclamation attempt from Retire, instead of waiting for the
// next explicit ReclaimRetired call.
const retireThreshold = 64

// Retire places free on the retired list tagged with the current
// global epoch, advances the global epoch, and opportunistically
// reclaims if the retired list has grown past retireThreshold.
// Spec.md §4.5 step 5 / §5.
func (r *Registry) Retire(free Reclaimable) {
	e := r.global.Add(1) - 1

	r.retiredMu.Lock()
	r.retired = append(r.retired, retiredItem{epoch: e, free: free})
	n := len(r.retired)
	r.retiredMu.Unlock()

	if n >= retireThreshold {
		r.Reclaim()
	}
}

// Reclaim frees every retired item whose retire-epoch is strictly
// less than the minimum active reader epoch, returning the number of
// items freed. Safe to call at any time; readers holding a guard
// merely bound what can be freed, they are never blocked by this call
// (spec.md §5's ordering guarantee).
func (r *Registry) Reclaim() int {
	min := r.minActiveEpoch()

	r.retiredMu.Lock()
	defer r.retiredMu.Unlock()

	kept := r.retired[:0]
	freed := 0
	for _, item := range r.retired {
		if item.epoch < min {
			item.free()
			freed++
		} else {
			kept = append(kept, item)
		}
	}
	r.retired = kept
	return freed
}

// ReclaimAll forces every retired item to free regardless of active
// readers. Only safe when no reader guards are held — container
// destruction/Clear (spec.md §6's reclaim_retired contract, and §8's
// "Reclamation" property).
func (r *Registry) ReclaimAll() int {
	r.retiredMu.Lock()
	defer r.retiredMu.Unlock()
	freed := len(r.retired)
	for _, item := range r.retired {
		item.free()
	}
	r.retired = nil
	return freed
}

// Pending reports how many retired items are currently awaiting
// reclamation, for tests and diagnostics.
func (r *Registry) Pending() int {
	r.retiredMu.Lock()
	defer r.retiredMu.Unlock()
	return len(r.retired)
}
