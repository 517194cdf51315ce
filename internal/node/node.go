package node

import "unsafe"

// Ref is a tagged pointer to one node: Kind says which concrete
// struct below Ptr actually points at. Every concrete struct embeds
// Header as its first field, so Ref.Header can read flags/poison/
// version without knowing Kind, while Kind lets the engine dispatch
// to the right concrete type for everything else — the Go analogue
// of the teacher's "check nodeType, then asNodeXXX" pattern
// (art_node.go, art/common_node_functions.go), collapsed into the
// pointer itself instead of re-deriving the tag from a packed byte on
// every access.
type Ref[V any] struct {
	Kind Kind
	Ptr  unsafe.Pointer
}

// Header returns the node's shared header, valid regardless of Kind.
func (r *Ref[V]) Header() *Header {
	if r == nil {
		return nil
	}
	return (*Header)(r.Ptr)
}

// IsLeaf reports whether this node stores values directly (LEAF).
func (r *Ref[V]) IsLeaf() bool {
	switch r.Kind {
	case KindTermLeaf, KindLeafList, KindLeafPop, KindLeafFull:
		return true
	default:
		return false
	}
}

func wrap[V any](kind Kind, p unsafe.Pointer) *Ref[V] { return &Ref[V]{Kind: kind, Ptr: p} }

// --- shared skip/EOS-bearing base for branch (non-leaf) nodes ---

// branchBase is embedded by every non-leaf node kind. It carries the
// optional skip (path-compression) prefix, the pre-skip EOS value
// (present regardless of skip), and the skip-EOS value (meaningful
// only when skip is non-empty) — spec.md §3's "two EOS positions".
type branchBase[V any] struct {
	Header
	skip    []byte
	eos     *V
	skipEOS *V
}

func (b *branchBase[V]) Skip() []byte   { return b.skip }
func (b *branchBase[V]) EOS() *V        { return b.eos }
func (b *branchBase[V]) SkipEOS() *V    { return b.skipEOS }
func (b *branchBase[V]) SetEOS(v *V)    { b.eos = v }
func (b *branchBase[V]) SetSkipEOS(v *V) { b.skipEOS = v }

// BranchList is a non-leaf node with up to 7 children, addressed via
// SmallList. Grounded on art_node5.go generalized with skip/EOS per
// spec.md §4.1.
type BranchList[V any] struct {
	branchBase[V]
	idx   SmallList
	child [maxListChildren]*Ref[V]
}

// BranchPop is a non-leaf node with a 256-bit presence bitmap and a
// dense child array, holding up to FullPromoteThreshold-1 children.
// Grounded on art_node51.go/art/node_types.go's Node512.
type BranchPop[V any] struct {
	branchBase[V]
	bitmap Bitmap256
	child  []*Ref[V]
}

// BranchFull is a non-leaf node with a direct 256-slot child array.
// Grounded on art_node256.go/art/node_types.go's FullNode.
type BranchFull[V any] struct {
	branchBase[V]
	child [256]*Ref[V]
}

// --- leaf kinds: children are values, not pointers ---

// leafBase is embedded by every leaf kind that still carries a skip.
// A leaf's "arrival" EOS (the key ends exactly at this leaf, before
// any byte-keyed child value) has no field here: it is held by the
// terminal-leaf sentinel when there are no byte-keyed values, and
// otherwise the engine converts the leaf into a branch kind whose
// pre-skip EOS holds it — see spec.md §3 item 5 and §4.1 ("Leaf nodes
// have no pre-skip EOS slot unless they are terminal").
type leafBase[V any] struct {
	Header
	skip    []byte
	skipEOS *V
}

func (b *leafBase[V]) Skip() []byte     { return b.skip }
func (b *leafBase[V]) SkipEOS() *V      { return b.skipEOS }
func (b *leafBase[V]) SetSkipEOS(v *V)  { b.skipEOS = v }

// LeafList holds up to 7 byte-keyed values directly. Grounded on
// art_nodeLeaf.go generalized to multiple values via SmallList.
type LeafList[V any] struct {
	leafBase[V]
	idx  SmallList
	vals [maxListChildren]V
}

// LeafPop holds byte-keyed values in a dense array addressed by a
// 256-bit presence bitmap.
type LeafPop[V any] struct {
	leafBase[V]
	bitmap Bitmap256
	vals   []V
}

// LeafFull holds up to 256 byte-keyed values directly indexed, with a
// parallel presence bitmap distinguishing "value is the zero value"
// from "no value stored here" (spec.md §4.1).
type LeafFull[V any] struct {
	leafBase[V]
	present Bitmap256
	vals    [256]V
}

// TermLeaf is the terminal-leaf sentinel: LEAF|LIST|POP, no children,
// exactly one EOS value. Used when a key ends at a leaf with no
// byte-keyed siblings (spec.md §3 item 5).
type TermLeaf[V any] struct {
	Header
	val V
}
