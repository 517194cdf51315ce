package node

// This file centralizes the Kind-dispatch the insert/erase engine
// needs, so callers outside this package rarely have to type-switch
// on Kind themselves — they call these and get the right behavior for
// whichever of the four branch/leaf representations r happens to be.

// Skip returns a node's path-compression prefix (nil/empty if none).
func Skip[V any](r *Ref[V]) []byte {
	switch r.Kind {
	case KindBranchList:
		return AsBranchList(r).skip
	case KindBranchPop:
		return AsBranchPop(r).skip
	case KindBranchFull:
		return AsBranchFull(r).skip
	case KindLeafList:
		return AsLeafList(r).skip
	case KindLeafPop:
		return AsLeafPop(r).skip
	case KindLeafFull:
		return AsLeafFull(r).skip
	default:
		return nil
	}
}

// SkipEOS returns the value attached at the point this node's skip is
// fully consumed, or nil if absent. Meaningful for any skip-bearing
// kind, leaf or branch.
func SkipEOS[V any](r *Ref[V]) *V {
	switch r.Kind {
	case KindBranchList:
		return AsBranchList(r).skipEOS
	case KindBranchPop:
		return AsBranchPop(r).skipEOS
	case KindBranchFull:
		return AsBranchFull(r).skipEOS
	case KindLeafList:
		return AsLeafList(r).skipEOS
	case KindLeafPop:
		return AsLeafPop(r).skipEOS
	case KindLeafFull:
		return AsLeafFull(r).skipEOS
	default:
		return nil
	}
}

// PreEOS returns the pre-skip EOS value of a branch node (the key
// ends exactly on arrival at this node, before its skip). Only branch
// kinds carry this; leaf kinds return nil (their "arrival EOS" is
// represented by the TermLeaf sentinel instead, spec.md §4.1).
func PreEOS[V any](r *Ref[V]) *V {
	switch r.Kind {
	case KindBranchList:
		return AsBranchList(r).eos
	case KindBranchPop:
		return AsBranchPop(r).eos
	case KindBranchFull:
		return AsBranchFull(r).eos
	default:
		return nil
	}
}

// ChildCount reports how many children/values a node holds. TermLeaf
// reports 0 (it has no children by definition).
func ChildCount[V any](r *Ref[V]) int {
	switch r.Kind {
	case KindBranchList:
		return AsBranchList(r).ChildCount()
	case KindBranchPop:
		return AsBranchPop(r).ChildCount()
	case KindBranchFull:
		return AsBranchFull(r).ChildCount()
	case KindLeafList:
		return AsLeafList(r).ChildCount()
	case KindLeafPop:
		return AsLeafPop(r).ChildCount()
	case KindLeafFull:
		return AsLeafFull(r).ChildCount()
	default:
		return 0
	}
}

// HasCapacity reports whether one more entry fits without promotion.
func HasCapacity[V any](r *Ref[V]) bool {
	switch r.Kind {
	case KindBranchList:
		return AsBranchList(r).HasCapacity()
	case KindBranchPop:
		return AsBranchPop(r).HasCapacity()
	case KindBranchFull:
		return AsBranchFull(r).HasCapacity()
	case KindLeafList:
		return AsLeafList(r).HasCapacity()
	case KindLeafPop:
		return AsLeafPop(r).HasCapacity()
	case KindLeafFull:
		return AsLeafFull(r).HasCapacity()
	default:
		return true
	}
}

// GetChild looks up the subtree for byte b under a branch node.
func GetChild[V any](r *Ref[V], b byte) (*Ref[V], bool) {
	switch r.Kind {
	case KindBranchList:
		return AsBranchList(r).GetChild(b)
	case KindBranchPop:
		return AsBranchPop(r).GetChild(b)
	case KindBranchFull:
		return AsBranchFull(r).GetChild(b)
	default:
		return nil, false
	}
}

// GetValue looks up the embedded value for byte b under a leaf node.
func GetValue[V any](r *Ref[V], b byte) (*V, bool) {
	switch r.Kind {
	case KindLeafList:
		return AsLeafList(r).GetValue(b)
	case KindLeafPop:
		return AsLeafPop(r).GetValue(b)
	case KindLeafFull:
		return AsLeafFull(r).GetValue(b)
	default:
		return nil, false
	}
}

// InsertChild attaches child under byte b on a branch node.
func InsertChild[V any](r *Ref[V], b byte, child *Ref[V]) {
	switch r.Kind {
	case KindBranchList:
		AsBranchList(r).InsertChild(b, child)
	case KindBranchPop:
		AsBranchPop(r).InsertChild(b, child)
	case KindBranchFull:
		AsBranchFull(r).InsertChild(b, child)
	default:
		panic("node: InsertChild on non-branch kind " + r.Kind.String())
	}
}

// InsertValue attaches value v under byte b on a leaf node.
func InsertValue[V any](r *Ref[V], b byte, v V) {
	switch r.Kind {
	case KindLeafList:
		AsLeafList(r).InsertValue(b, v)
	case KindLeafPop:
		AsLeafPop(r).InsertValue(b, v)
	case KindLeafFull:
		AsLeafFull(r).InsertValue(b, v)
	default:
		panic("node: InsertValue on non-leaf kind " + r.Kind.String())
	}
}

// RemoveChild detaches the child for byte b from a branch node.
func RemoveChild[V any](r *Ref[V], b byte) {
	switch r.Kind {
	case KindBranchList:
		AsBranchList(r).RemoveChild(b)
	case KindBranchPop:
		AsBranchPop(r).RemoveChild(b)
	case KindBranchFull:
		AsBranchFull(r).RemoveChild(b)
	}
}

// RemoveValue detaches the value for byte b from a leaf node.
func RemoveValue[V any](r *Ref[V], b byte) {
	switch r.Kind {
	case KindLeafList:
		AsLeafList(r).RemoveValue(b)
	case KindLeafPop:
		AsLeafPop(r).RemoveValue(b)
	case KindLeafFull:
		AsLeafFull(r).RemoveValue(b)
	}
}

// EntriesChild returns a branch node's (byte, child) pairs in
// ascending order.
func EntriesChild[V any](r *Ref[V]) ([]byte, []*Ref[V]) {
	switch r.Kind {
	case KindBranchList:
		return AsBranchList(r).Entries()
	case KindBranchPop:
		return AsBranchPop(r).Entries()
	case KindBranchFull:
		return AsBranchFull(r).Entries()
	default:
		return nil, nil
	}
}

// EntriesValue returns a leaf node's (byte, value) pairs in ascending
// order.
func EntriesValue[V any](r *Ref[V]) ([]byte, []V) {
	switch r.Kind {
	case KindLeafList:
		return AsLeafList(r).Entries()
	case KindLeafPop:
		return AsLeafPop(r).Entries()
	case KindLeafFull:
		return AsLeafFull(r).Entries()
	default:
		return nil, nil
	}
}

// Promote dispatches to PromoteBranch or PromoteLeaf based on r's
// shape, a no-op if r's Kind has no promotion target.
func Promote[V any](r *Ref[V]) *Ref[V] {
	if r.IsLeaf() {
		return PromoteLeaf(r)
	}
	return PromoteBranch(r)
}

// Downgrade dispatches to DowngradeBranch or DowngradeLeaf.
func Downgrade[V any](r *Ref[V]) *Ref[V] {
	if r.IsLeaf() {
		return DowngradeLeaf(r)
	}
	return DowngradeBranch(r)
}

// SetSkipEOS sets (or clears, if v is nil) the skip-EOS value on any
// skip-bearing branch or leaf kind. No-op on TermLeaf.
func SetSkipEOS[V any](r *Ref[V], v *V) {
	switch r.Kind {
	case KindBranchList:
		AsBranchList(r).SetSkipEOS(v)
	case KindBranchPop:
		AsBranchPop(r).SetSkipEOS(v)
	case KindBranchFull:
		AsBranchFull(r).SetSkipEOS(v)
	case KindLeafList:
		AsLeafList(r).SetSkipEOS(v)
	case KindLeafPop:
		AsLeafPop(r).SetSkipEOS(v)
	case KindLeafFull:
		AsLeafFull(r).SetSkipEOS(v)
	}
}

// SetPreEOS sets (or clears, if v is nil) the pre-skip EOS value on a
// branch kind. No-op on leaf kinds and TermLeaf, which have no such slot.
func SetPreEOS[V any](r *Ref[V], v *V) {
	switch r.Kind {
	case KindBranchList:
		AsBranchList(r).SetEOS(v)
	case KindBranchPop:
		AsBranchPop(r).SetEOS(v)
	case KindBranchFull:
		AsBranchFull(r).SetEOS(v)
	}
}

// TermLeafValue returns the value held by a TermLeaf node.
func TermLeafValue[V any](r *Ref[V]) V {
	return AsTermLeaf(r).val
}

// WithNewSkip rebuilds r (a branch or leaf node) carrying the same
// EOS/children/values but a different skip prefix. Used when a skip
// is shortened by a split or lengthened by a single-child collapse
// (spec.md §4.4's merge rule).
func WithNewSkip[V any](r *Ref[V], newSkip []byte) *Ref[V] {
	switch r.Kind {
	case KindBranchList, KindBranchPop, KindBranchFull:
		out := CloneBranchShell(r, newSkip)
		keys, children := EntriesChild(r)
		for i, k := range keys {
			InsertChild(out, k, children[i])
		}
		return out
	case KindLeafList:
		src := AsLeafList(r)
		out := NewLeafList[V](newSkip)
		AsLeafList(out).skipEOS = src.skipEOS
		keys, vals := src.Entries()
		for i, k := range keys {
			AsLeafList(out).InsertValue(k, vals[i])
		}
		return out
	case KindLeafPop:
		src := AsLeafPop(r)
		out := NewLeafPop[V](newSkip, len(src.vals))
		AsLeafPop(out).skipEOS = src.skipEOS
		keys, vals := src.Entries()
		for i, k := range keys {
			AsLeafPop(out).InsertValue(k, vals[i])
		}
		return out
	case KindLeafFull:
		src := AsLeafFull(r)
		out := NewLeafFull[V](newSkip)
		AsLeafFull(out).skipEOS = src.skipEOS
		keys, vals := src.Entries()
		for i, k := range keys {
			AsLeafFull(out).InsertValue(k, vals[i])
		}
		return out
	default:
		panic("node: WithNewSkip on kind " + r.Kind.String())
	}
}
