package node

// Leaf-kind analogue of branch_ops.go: children here are embedded
// values (spec.md §3 item 4, §4.1's "children area stores packed
// values rather than pointers"). LeafFull additionally carries its
// own presence bitmap so a stored zero value is distinguishable from
// an empty slot — the contract spec.md §4.5's Open Questions section
// calls out: "the value slot is written before the bit is set
// (release)". InsertValue below keeps that order (value first,
// presence bit second) with plain stores; see its comment.

func (n *LeafList[V]) ChildCount() int { return n.idx.Len() }
func (n *LeafPop[V]) ChildCount() int  { return len(n.vals) }
func (n *LeafFull[V]) ChildCount() int { return n.present.PopCount() }

func (n *LeafList[V]) HasCapacity() bool { return !n.idx.Full() }
func (n *LeafPop[V]) HasCapacity() bool  { return len(n.vals) < FullPromoteThreshold-1 }
func (n *LeafFull[V]) HasCapacity() bool { return true }

func (n *LeafList[V]) GetValue(b byte) (*V, bool) {
	i := n.idx.Find(b)
	if i < 0 {
		return nil, false
	}
	return &n.vals[i], true
}

func (n *LeafPop[V]) GetValue(b byte) (*V, bool) {
	if !n.bitmap.Get(b) {
		return nil, false
	}
	return &n.vals[n.bitmap.DenseIndex(b)], true
}

func (n *LeafFull[V]) GetValue(b byte) (*V, bool) {
	if !n.present.Get(b) {
		return nil, false
	}
	return &n.vals[b], true
}

func (n *LeafList[V]) InsertValue(b byte, v V) {
	pos, found := n.idx.InsertPos(b)
	if found {
		n.vals[pos] = v
		return
	}
	for i := n.idx.Len(); i > pos; i-- {
		n.vals[i] = n.vals[i-1]
	}
	n.idx.InsertKeyAt(pos, b)
	n.vals[pos] = v
}

func (n *LeafPop[V]) InsertValue(b byte, v V) {
	if n.bitmap.Get(b) {
		n.vals[n.bitmap.DenseIndex(b)] = v
		return
	}
	idx := n.bitmap.InsertAt(b)
	var zero V
	n.vals = append(n.vals, zero)
	copy(n.vals[idx+1:], n.vals[idx:len(n.vals)-1])
	n.vals[idx] = v
}

// InsertValue writes the value slot, then sets the presence bit. Both
// are plain (non-atomic) stores with no release ordering; the engine
// only calls this on nodes it has just built and not yet published, so
// no reader observes the node while it is being filled.
func (n *LeafFull[V]) InsertValue(b byte, v V) {
	n.vals[b] = v
	n.present.Set(b)
}

func (n *LeafList[V]) RemoveValue(b byte) {
	i := n.idx.Find(b)
	if i < 0 {
		return
	}
	var zero V
	for j := i; j < n.idx.Len()-1; j++ {
		n.vals[j] = n.vals[j+1]
	}
	n.vals[n.idx.Len()-1] = zero
	n.idx.RemoveKeyAt(i)
}

func (n *LeafPop[V]) RemoveValue(b byte) {
	if !n.bitmap.Get(b) {
		return
	}
	idx := n.bitmap.RemoveAt(b)
	copy(n.vals[idx:], n.vals[idx+1:])
	var zero V
	n.vals[len(n.vals)-1] = zero
	n.vals = n.vals[:len(n.vals)-1]
}

func (n *LeafFull[V]) RemoveValue(b byte) {
	n.present.Clear(b)
	var zero V
	n.vals[b] = zero
}

func (n *LeafList[V]) Entries() ([]byte, []V) {
	keys := n.idx.Keys()
	vals := make([]V, len(keys))
	copy(vals, n.vals[:len(keys)])
	return keys, vals
}

func (n *LeafPop[V]) Entries() ([]byte, []V) {
	keys := make([]byte, 0, len(n.vals))
	for b := 0; b < 256; b++ {
		if n.bitmap.Get(byte(b)) {
			keys = append(keys, byte(b))
		}
	}
	vals := make([]V, len(keys))
	copy(vals, n.vals)
	return keys, vals
}

func (n *LeafFull[V]) Entries() ([]byte, []V) {
	var keys []byte
	var vals []V
	for b := 0; b < 256; b++ {
		if n.present.Get(byte(b)) {
			keys = append(keys, byte(b))
			vals = append(vals, n.vals[b])
		}
	}
	return keys, vals
}

// PromoteLeaf is the leaf analogue of PromoteBranch: LIST→POP at
// capacity, POP→FULL at FullPromoteThreshold.
func PromoteLeaf[V any](r *Ref[V]) *Ref[V] {
	switch r.Kind {
	case KindLeafList:
		src := AsLeafList(r)
		out := NewLeafPop[V](src.skip, maxListChildren+1)
		dst := AsLeafPop(out)
		dst.skipEOS = src.skipEOS
		keys, vals := src.Entries()
		for i, k := range keys {
			dst.InsertValue(k, vals[i])
		}
		return out
	case KindLeafPop:
		src := AsLeafPop(r)
		out := NewLeafFull[V](src.skip)
		dst := AsLeafFull(out)
		dst.skipEOS = src.skipEOS
		keys, vals := src.Entries()
		for i, k := range keys {
			dst.InsertValue(k, vals[i])
		}
		return out
	default:
		return r
	}
}

// DowngradeLeaf is the leaf analogue of DowngradeBranch.
func DowngradeLeaf[V any](r *Ref[V]) *Ref[V] {
	switch r.Kind {
	case KindLeafFull:
		src := AsLeafFull(r)
		if src.ChildCount() > FullDowngradeAt {
			return r
		}
		keys, vals := src.Entries()
		out := NewLeafPop[V](src.skip, len(keys))
		dst := AsLeafPop(out)
		dst.skipEOS = src.skipEOS
		for i, k := range keys {
			dst.InsertValue(k, vals[i])
		}
		return out
	case KindLeafPop:
		src := AsLeafPop(r)
		if len(src.vals) > PopDowngradeAt {
			return r
		}
		out := NewLeafList[V](src.skip)
		dst := AsLeafList(out)
		dst.skipEOS = src.skipEOS
		keys, vals := src.Entries()
		for i, k := range keys {
			dst.InsertValue(k, vals[i])
		}
		return out
	default:
		return r
	}
}
