package node

// This file implements the branch-point operations (get/insert/
// remove child, promote LIST→POP→FULL, downgrade FULL→POP→LIST) that
// the insert/erase engine drives. Grounded on the teacher's
// art/get_child.go traversal (sorted-list linear scan for Node64/128/
// 256, bitmap-gated binary search for Node512/1024, direct bitmap-
// gated index for FullNode) generalized to use SmallList/Bitmap256's
// SWAR and popcount helpers instead of a plain loop.

// ChildCount returns the number of children currently attached.
func (n *BranchList[V]) ChildCount() int { return n.idx.Len() }
func (n *BranchPop[V]) ChildCount() int  { return len(n.child) }
func (n *BranchFull[V]) ChildCount() int {
	c := 0
	for _, ch := range n.child {
		if ch != nil {
			c++
		}
	}
	return c
}

// GetChild returns the child for byte b, if any.
func (n *BranchList[V]) GetChild(b byte) (*Ref[V], bool) {
	i := n.idx.Find(b)
	if i < 0 {
		return nil, false
	}
	return n.child[i], true
}

func (n *BranchPop[V]) GetChild(b byte) (*Ref[V], bool) {
	if !n.bitmap.Get(b) {
		return nil, false
	}
	return n.child[n.bitmap.DenseIndex(b)], true
}

func (n *BranchFull[V]) GetChild(b byte) (*Ref[V], bool) {
	c := n.child[b]
	return c, c != nil
}

// HasCapacity reports whether one more child fits without promotion.
func (n *BranchList[V]) HasCapacity() bool { return !n.idx.Full() }
func (n *BranchPop[V]) HasCapacity() bool  { return len(n.child) < FullPromoteThreshold-1 }
func (n *BranchFull[V]) HasCapacity() bool { return true }

// InsertChild attaches child under byte b, replacing the existing
// child if b is already present. For a new b the caller must already
// have verified HasCapacity (or be willing to promote first).
func (n *BranchList[V]) InsertChild(b byte, child *Ref[V]) {
	pos, found := n.idx.InsertPos(b)
	if found {
		n.child[pos] = child
		return
	}
	for i := n.idx.Len(); i > pos; i-- {
		n.child[i] = n.child[i-1]
	}
	n.idx.InsertKeyAt(pos, b)
	n.child[pos] = child
}

func (n *BranchPop[V]) InsertChild(b byte, child *Ref[V]) {
	if n.bitmap.Get(b) {
		n.child[n.bitmap.DenseIndex(b)] = child
		return
	}
	idx := n.bitmap.InsertAt(b)
	n.child = append(n.child, nil)
	copy(n.child[idx+1:], n.child[idx:len(n.child)-1])
	n.child[idx] = child
}

func (n *BranchFull[V]) InsertChild(b byte, child *Ref[V]) {
	n.child[b] = child
}

// RemoveChild detaches the child for byte b, if present.
func (n *BranchList[V]) RemoveChild(b byte) {
	i := n.idx.Find(b)
	if i < 0 {
		return
	}
	for j := i; j < n.idx.Len()-1; j++ {
		n.child[j] = n.child[j+1]
	}
	n.child[n.idx.Len()-1] = nil
	n.idx.RemoveKeyAt(i)
}

func (n *BranchPop[V]) RemoveChild(b byte) {
	if !n.bitmap.Get(b) {
		return
	}
	idx := n.bitmap.RemoveAt(b)
	copy(n.child[idx:], n.child[idx+1:])
	n.child = n.child[:len(n.child)-1]
}

func (n *BranchFull[V]) RemoveChild(b byte) {
	n.child[b] = nil
}

// Entries returns the (byte, child) pairs in ascending byte order,
// used by the iterator and by promotion/downgrade to rebuild a node
// in a different representation.
func (n *BranchList[V]) Entries() ([]byte, []*Ref[V]) {
	keys := n.idx.Keys()
	children := make([]*Ref[V], len(keys))
	copy(children, n.child[:len(keys)])
	return keys, children
}

func (n *BranchPop[V]) Entries() ([]byte, []*Ref[V]) {
	keys := make([]byte, 0, len(n.child))
	for b := 0; b < 256; b++ {
		if n.bitmap.Get(byte(b)) {
			keys = append(keys, byte(b))
		}
	}
	children := make([]*Ref[V], len(n.child))
	copy(children, n.child)
	return keys, children
}

func (n *BranchFull[V]) Entries() ([]byte, []*Ref[V]) {
	var keys []byte
	var children []*Ref[V]
	for b := 0; b < 256; b++ {
		if n.child[b] != nil {
			keys = append(keys, byte(b))
			children = append(children, n.child[b])
		}
	}
	return keys, children
}

// PromoteBranch converts a LIST node at capacity into a POP node, or a
// POP node whose next child would bring it to FullPromoteThreshold
// into a FULL node,
// carrying over skip/EOS/children. Returns r unchanged if no
// promotion applies to its Kind.
func PromoteBranch[V any](r *Ref[V]) *Ref[V] {
	switch r.Kind {
	case KindBranchList:
		src := AsBranchList(r)
		out := NewBranchPop[V](src.skip, maxListChildren+1)
		dst := AsBranchPop(out)
		dst.eos, dst.skipEOS = src.eos, src.skipEOS
		keys, children := src.Entries()
		for i, k := range keys {
			dst.InsertChild(k, children[i])
		}
		return out
	case KindBranchPop:
		src := AsBranchPop(r)
		out := NewBranchFull[V](src.skip)
		dst := AsBranchFull(out)
		dst.eos, dst.skipEOS = src.eos, src.skipEOS
		keys, children := src.Entries()
		for i, k := range keys {
			dst.InsertChild(k, children[i])
		}
		return out
	default:
		return r
	}
}

// DowngradeBranch converts a FULL node at or below FullDowngradeAt
// children into a POP node, or a POP node at or below PopDowngradeAt
// children into a LIST node. Returns r unchanged if no downgrade
// applies. Hysteresis between promote/downgrade thresholds (spec.md
// §4.3, §9) prevents a child count oscillating near a boundary from
// thrashing representations.
func DowngradeBranch[V any](r *Ref[V]) *Ref[V] {
	switch r.Kind {
	case KindBranchFull:
		src := AsBranchFull(r)
		if src.ChildCount() > FullDowngradeAt {
			return r
		}
		keys, children := src.Entries()
		out := NewBranchPop[V](src.skip, len(keys))
		dst := AsBranchPop(out)
		dst.eos, dst.skipEOS = src.eos, src.skipEOS
		for i, k := range keys {
			dst.InsertChild(k, children[i])
		}
		return out
	case KindBranchPop:
		src := AsBranchPop(r)
		if len(src.child) > PopDowngradeAt {
			return r
		}
		out := NewBranchList[V](src.skip)
		dst := AsBranchList(out)
		dst.eos, dst.skipEOS = src.eos, src.skipEOS
		keys, children := src.Entries()
		for i, k := range keys {
			dst.InsertChild(k, children[i])
		}
		return out
	default:
		return r
	}
}
