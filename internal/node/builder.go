package node

import "unsafe"

// Promotion/downgrade thresholds (spec.md §4.3, §9's first Open
// Question: "Implementations must pick a single promotion threshold
// set and document it"). LIST holds at most 7 entries; above that the
// node promotes to POP; POP promotes to FULL once it would hold at
// least FullPromoteThreshold children. Downgrade uses the inverse
// thresholds with hysteresis so a count oscillating near a boundary
// does not thrash between representations.
const (
	ListCapacity       = maxListChildren
	FullPromoteThreshold = 128
	FullDowngradeAt      = 96
	PopDowngradeAt       = ListCapacity
)

// --- constructors: one typed allocation path per node kind, grounded
// on the teacher's build_list/build_skip_list/... family
// (art_node_builder responsibilities listed in spec.md §4.2). ---

// NewBranchList allocates a fresh, live (unpoisoned) BranchList node
// with the given skip prefix (nil/empty for none).
func NewBranchList[V any](skip []byte) *Ref[V] {
	n := &BranchList[V]{}
	n.Header.Init(KindBranchList.BaseFlags()|skipFlagFor(skip), false)
	n.skip = cloneSkip(skip)
	return wrap[V](KindBranchList, unsafe.Pointer(n))
}

// NewBranchPop allocates a fresh BranchPop node with the given skip
// prefix and reserved child capacity.
func NewBranchPop[V any](skip []byte, capacityHint int) *Ref[V] {
	n := &BranchPop[V]{}
	n.Header.Init(KindBranchPop.BaseFlags()|skipFlagFor(skip), false)
	n.skip = cloneSkip(skip)
	n.child = make([]*Ref[V], 0, capacityHint)
	return wrap[V](KindBranchPop, unsafe.Pointer(n))
}

// NewBranchFull allocates a fresh BranchFull node with the given skip
// prefix.
func NewBranchFull[V any](skip []byte) *Ref[V] {
	n := &BranchFull[V]{}
	n.Header.Init(KindBranchFull.BaseFlags()|skipFlagFor(skip), false)
	n.skip = cloneSkip(skip)
	return wrap[V](KindBranchFull, unsafe.Pointer(n))
}

// NewLeafList allocates a fresh LeafList node with the given skip prefix.
func NewLeafList[V any](skip []byte) *Ref[V] {
	n := &LeafList[V]{}
	n.Header.Init(KindLeafList.BaseFlags()|skipFlagFor(skip), false)
	n.skip = cloneSkip(skip)
	return wrap[V](KindLeafList, unsafe.Pointer(n))
}

// NewLeafPop allocates a fresh LeafPop node with the given skip prefix.
func NewLeafPop[V any](skip []byte, capacityHint int) *Ref[V] {
	n := &LeafPop[V]{}
	n.Header.Init(KindLeafPop.BaseFlags()|skipFlagFor(skip), false)
	n.skip = cloneSkip(skip)
	n.vals = make([]V, 0, capacityHint)
	return wrap[V](KindLeafPop, unsafe.Pointer(n))
}

// NewLeafFull allocates a fresh LeafFull node with the given skip prefix.
func NewLeafFull[V any](skip []byte) *Ref[V] {
	n := &LeafFull[V]{}
	n.Header.Init(KindLeafFull.BaseFlags()|skipFlagFor(skip), false)
	n.skip = cloneSkip(skip)
	return wrap[V](KindLeafFull, unsafe.Pointer(n))
}

// NewTermLeaf allocates the single-value terminal-leaf sentinel.
func NewTermLeaf[V any](val V) *Ref[V] {
	n := &TermLeaf[V]{val: val}
	n.Header.Init(KindTermLeaf.BaseFlags(), false)
	return wrap[V](KindTermLeaf, unsafe.Pointer(n))
}

func skipFlagFor(skip []byte) Flags {
	if len(skip) > 0 {
		return FlagSkip
	}
	return 0
}

func cloneSkip(skip []byte) []byte {
	if len(skip) == 0 {
		return nil
	}
	out := make([]byte, len(skip))
	copy(out, skip)
	return out
}

// --- poisoned pre-allocation: build a node already marked poisoned,
// for the speculative protocol's step 2. ---

// Poisoned wraps a constructor result and re-marks it poisoned (the
// constructors above already default to live/unpoisoned for the
// common non-speculative callers — tests, single-threaded use, and
// the downgrade/collapse paths that run entirely under the writer
// mutex). The speculative engine (engine.Speculate) calls this on the
// new root it built, before validating and committing it; the other
// nodes of the rebuilt path stay unpoisoned and are unreachable until
// that root is published.
func Poisoned[V any](r *Ref[V]) *Ref[V] {
	flags, _, version := r.Header().Load()
	r.Header().word.Store(pack(flags, true, version))
	return r
}

// --- typed casts, panicking on a Kind mismatch the way the teacher's
// asNodeXXX helpers do (art_node.go, art/common_node_functions.go). ---

// AsBranchList casts r to *BranchList[V]; panics if r.Kind differs.
func AsBranchList[V any](r *Ref[V]) *BranchList[V] {
	mustKind(r, KindBranchList)
	return (*BranchList[V])(r.Ptr)
}

// AsBranchPop casts r to *BranchPop[V]; panics if r.Kind differs.
func AsBranchPop[V any](r *Ref[V]) *BranchPop[V] {
	mustKind(r, KindBranchPop)
	return (*BranchPop[V])(r.Ptr)
}

// AsBranchFull casts r to *BranchFull[V]; panics if r.Kind differs.
func AsBranchFull[V any](r *Ref[V]) *BranchFull[V] {
	mustKind(r, KindBranchFull)
	return (*BranchFull[V])(r.Ptr)
}

// AsLeafList casts r to *LeafList[V]; panics if r.Kind differs.
func AsLeafList[V any](r *Ref[V]) *LeafList[V] {
	mustKind(r, KindLeafList)
	return (*LeafList[V])(r.Ptr)
}

// AsLeafPop casts r to *LeafPop[V]; panics if r.Kind differs.
func AsLeafPop[V any](r *Ref[V]) *LeafPop[V] {
	mustKind(r, KindLeafPop)
	return (*LeafPop[V])(r.Ptr)
}

// AsLeafFull casts r to *LeafFull[V]; panics if r.Kind differs.
func AsLeafFull[V any](r *Ref[V]) *LeafFull[V] {
	mustKind(r, KindLeafFull)
	return (*LeafFull[V])(r.Ptr)
}

// AsTermLeaf casts r to *TermLeaf[V]; panics if r.Kind differs.
func AsTermLeaf[V any](r *Ref[V]) *TermLeaf[V] {
	mustKind(r, KindTermLeaf)
	return (*TermLeaf[V])(r.Ptr)
}

func mustKind[V any](r *Ref[V], want Kind) {
	if r == nil || r.Kind != want {
		got := KindNone
		if r != nil {
			got = r.Kind
		}
		panic("node: cast expected kind " + want.String() + " but node is of kind " + got.String())
	}
}

// --- deep copy: used when a node must be rebuilt with a changed skip
// (radix-split/merge) while its existing children are reused as-is
// (only the parent link changes, so children keep their own
// identity and version — spec.md §4.3's split/prefix cases). ---

// CloneBranchShell copies a branch node's header flags/skip/EOS but
// not its children, returning a new node of the same Kind ready to
// have its own child set attached. Grounded on the teacher's
// "deep copy" builder responsibility (spec.md §4.2), narrowed to a
// shell copy since full recursive deep copy is never required by the
// engine (children are always re-linked, not duplicated).
func CloneBranchShell[V any](r *Ref[V], newSkip []byte) *Ref[V] {
	switch r.Kind {
	case KindBranchList:
		src := AsBranchList(r)
		out := NewBranchList[V](newSkip)
		dst := AsBranchList(out)
		dst.eos, dst.skipEOS = src.eos, src.skipEOS
		return out
	case KindBranchPop:
		src := AsBranchPop(r)
		out := NewBranchPop[V](newSkip, len(src.child))
		dst := AsBranchPop(out)
		dst.eos, dst.skipEOS = src.eos, src.skipEOS
		return out
	case KindBranchFull:
		src := AsBranchFull(r)
		out := NewBranchFull[V](newSkip)
		dst := AsBranchFull(out)
		dst.eos, dst.skipEOS = src.eos, src.skipEOS
		return out
	default:
		panic("node: CloneBranchShell called on non-branch kind " + r.Kind.String())
	}
}

// Free releases a node's own storage. It never follows child/value
// pointers (spec.md §4.2: "children are not followed"): an
// in-flight reader may still hold a reference to a node this one used
// to own, so recursing here could race a reader's traversal. In Go,
// memory is reclaimed by the garbage collector once truly
// unreachable; Free's job is narrower — drop large slices eagerly so
// a retired node does not pin backing arrays until the next GC cycle,
// mirroring the teacher's "frees the slot array" step without a
// manual allocator.
func Free[V any](r *Ref[V]) {
	if r == nil {
		return
	}
	switch r.Kind {
	case KindBranchPop:
		AsBranchPop(r).child = nil
	case KindLeafPop:
		AsLeafPop(r).vals = nil
	}
}

// FreeSubtree walks and frees every node in the subtree rooted at r.
// Only safe once reclamation has quiesced (no reader guards held):
// spec.md §4.2, "used only during clear/destroy after reclamation has
// quiesced".
func FreeSubtree[V any](r *Ref[V]) {
	if r == nil {
		return
	}
	switch r.Kind {
	case KindBranchList:
		n := AsBranchList(r)
		for i := 0; i < n.idx.Len(); i++ {
			FreeSubtree(n.child[i])
		}
	case KindBranchPop:
		n := AsBranchPop(r)
		for _, c := range n.child {
			FreeSubtree(c)
		}
	case KindBranchFull:
		n := AsBranchFull(r)
		for _, c := range n.child {
			FreeSubtree(c)
		}
	}
	Free(r)
}
