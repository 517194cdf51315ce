// Package node implements the trie's node representation: a small
// flag-tagged header shared by every node kind, the two branch-point
// index structures (a 7-byte sorted list and a 256-bit popcount
// bitmap), and the concrete node kinds the engine builds and tears
// down.
//
// Field layout is grounded on the teacher's meta-byte encoding
// (art/node_types.go, art/common_node_functions.go: a node-kind nibble
// plus an inline-prefix-length nibble packed into one byte, decoded by
// shifting and masking), generalized from one byte to one atomically
// accessed word so a reader can take a single relaxed-acquire load of
// a node's flags, poison bit, and version together.
package node

import "sync/atomic"

// Flags identify a node's shape: which branch representation (if any)
// it uses, whether it carries a skip (path-compression) prefix, and
// whether its children are embedded values (LEAF) rather than child
// pointers. Exactly one of List/Pop/Full is set on any live branching
// or leaf-with-children node; the terminal-leaf sentinel sets both
// List and Pop together as the one documented exception (spec.md §3
// item 5, §4.1's invariant list).
type Flags uint8

const (
	FlagLeaf Flags = 1 << iota
	FlagSkip
	FlagList
	FlagPop
	FlagFull
)

func (f Flags) String() string {
	s := ""
	if f&FlagLeaf != 0 {
		s += "LEAF|"
	}
	if f&FlagSkip != 0 {
		s += "SKIP|"
	}
	if f&FlagList != 0 {
		s += "LIST|"
	}
	if f&FlagPop != 0 {
		s += "POP|"
	}
	if f&FlagFull != 0 {
		s += "FULL|"
	}
	if s == "" {
		return "NONE"
	}
	return s[:len(s)-1]
}

// Kind tags which concrete Go struct a Ref points at. Unlike the
// C++ original (and the teacher's meta byte), this tag travels with
// the pointer in Ref rather than being re-derived from the header on
// every dereference — Go's GC-managed structs already carry distinct
// runtime types, so the header's Flags remain the spec-mandated
// source of truth for invariant checks and debug dumps, while Kind is
// the cheap dispatch key the engine actually branches on.
type Kind uint8

const (
	KindNone Kind = iota
	KindTermLeaf
	KindLeafList
	KindLeafPop
	KindLeafFull
	KindBranchList
	KindBranchPop
	KindBranchFull
)

func (k Kind) String() string {
	switch k {
	case KindTermLeaf:
		return "TermLeaf"
	case KindLeafList:
		return "LeafList"
	case KindLeafPop:
		return "LeafPop"
	case KindLeafFull:
		return "LeafFull"
	case KindBranchList:
		return "BranchList"
	case KindBranchPop:
		return "BranchPop"
	case KindBranchFull:
		return "BranchFull"
	default:
		return "None"
	}
}

// Flags a Kind always carries, used when constructing a fresh header
// and when asserting invariants in debug builds.
func (k Kind) BaseFlags() Flags {
	switch k {
	case KindTermLeaf:
		return FlagLeaf | FlagList | FlagPop
	case KindLeafList:
		return FlagLeaf | FlagList
	case KindLeafPop:
		return FlagLeaf | FlagPop
	case KindLeafFull:
		return FlagLeaf | FlagFull
	case KindBranchList:
		return FlagList
	case KindBranchPop:
		return FlagPop
	case KindBranchFull:
		return FlagFull
	default:
		return 0
	}
}

const (
	flagsBits    = 5
	flagsMask    = uint64(1)<<flagsBits - 1
	poisonShift  = flagsBits
	poisonBit    = uint64(1) << poisonShift
	versionShift = poisonShift + 1
	versionBits  = 24
	versionMask  = uint64(1)<<versionBits - 1
)

// Header is the first field of every node struct. It packs flags,
// a transient poison bit, and a 24-bit monotonic version into one
// word so readers can observe all three with a single atomic load —
// the linearization point described in spec.md §4.5/§5.
type Header struct {
	word atomic.Uint64
}

func pack(flags Flags, poisoned bool, version uint32) uint64 {
	w := uint64(flags) & flagsMask
	if poisoned {
		w |= poisonBit
	}
	w |= (uint64(version) & versionMask) << versionShift
	return w
}

// Init sets a freshly allocated node's flags and version 0, poisoned
// as requested. The constructors in builder.go always pass false; a
// speculative pre-allocation (protocol step 2) is marked poisoned
// afterwards by Poisoned.
func (h *Header) Init(flags Flags, poisoned bool) {
	h.word.Store(pack(flags, poisoned, 0))
}

// Load returns the flags, poison state, and version as of one atomic
// read.
func (h *Header) Load() (flags Flags, poisoned bool, version uint32) {
	w := h.word.Load()
	return Flags(w & flagsMask), w&poisonBit != 0, uint32((w >> versionShift) & versionMask)
}

// Flags reports the node's flag bits.
func (h *Header) Flags() Flags { f, _, _ := h.Load(); return f }

// Version reports the node's current version.
func (h *Header) Version() uint32 { _, _, v := h.Load(); return v }

// Poisoned reports whether the node is still pre-publication: readers
// must never follow a poisoned node as a live result.
func (h *Header) Poisoned() bool { _, p, _ := h.Load(); return p }

// BumpVersion advances the version by one, preserving flags and
// poison state. Called by the writer, under the container mutex, on
// the new root it publishes at commit; no live node is mutated in
// place.
func (h *Header) BumpVersion() {
	for {
		old := h.word.Load()
		flags := Flags(old & flagsMask)
		poisoned := old&poisonBit != 0
		version := uint32((old >> versionShift) & versionMask)
		next := pack(flags, poisoned, version+1)
		if h.word.CompareAndSwap(old, next) {
			return
		}
	}
}

// Unpoison clears the poison bit, publishing the node as live. Step 4
// of the speculative protocol (commit) calls this before splicing the
// node's pointer into its parent slot.
func (h *Header) Unpoison() {
	for {
		old := h.word.Load()
		if old&poisonBit == 0 {
			return
		}
		next := old &^ poisonBit
		if h.word.CompareAndSwap(old, next) {
			return
		}
	}
}
