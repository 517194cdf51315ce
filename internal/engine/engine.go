// Package engine implements the insert and erase state machines that
// drive mutations over the node representations in internal/node, plus
// the read-only traversal (Get, Walk) any goroutine can run without
// holding a lock. Every mutation here builds brand-new node objects and
// returns a replacement root; nothing already reachable from a live
// root is ever written to in place, so a reader holding an old root
// pointer keeps a perfectly valid, unchanging view of the trie for as
// long as it holds it (spec.md §4.5's reader rule, grounded on
// sirgallo-mari's Node.go copy-on-write discipline as discussed in
// internal/epoch's package doc).
//
// The teacher (TomTonic/multimap) has no radix engine to generalize —
// its array_based.go is a flat linear-scan map. The traversal/split
// shape here is grounded on art/get_child.go and art_node.go's
// depth-by-depth descent, adapted from a fixed 4-bit/8-bit nibble
// split to spec.md's skip-string path compression.
package engine

import "github.com/tktrask/vart/internal/node"

// commonPrefixLen returns how many leading bytes a and b share.
func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// newLeafFor builds the minimal standalone subtree holding exactly one
// (key, val) pair: a TermLeaf if key is exhausted, otherwise a LeafList
// whose skip absorbs every byte but the last, which keys the value.
func newLeafFor[V any](key []byte, val V) *node.Ref[V] {
	if len(key) == 0 {
		return node.NewTermLeaf[V](val)
	}
	skip := key[:len(key)-1]
	last := key[len(key)-1]
	leaf := node.NewLeafList[V](skip)
	node.InsertValue(leaf, last, val)
	return leaf
}

// insertChildGrow promotes r first if it has no spare capacity for a
// brand-new byte, then attaches child under b.
func insertChildGrow[V any](r *node.Ref[V], b byte, child *node.Ref[V]) *node.Ref[V] {
	if _, exists := node.GetChild(r, b); !exists && !node.HasCapacity(r) {
		r = node.Promote(r)
	}
	node.InsertChild(r, b, child)
	return r
}

// insertValueGrow is insertChildGrow's leaf-kind analogue.
func insertValueGrow[V any](r *node.Ref[V], b byte, v V) *node.Ref[V] {
	if _, exists := node.GetValue(r, b); !exists && !node.HasCapacity(r) {
		r = node.Promote(r)
	}
	node.InsertValue(r, b, v)
	return r
}

// leafToBranch converts a leaf-kind node into an equivalent BranchList:
// same skip and skip-EOS, every byte-keyed value rewritten as a
// TermLeaf child. Needed when a leaf's byte slot must start pointing at
// a deeper subtree instead of terminating immediately — something a
// leaf's value-only slots cannot represent (spec.md §3 item 4).
func leafToBranch[V any](r *node.Ref[V]) *node.Ref[V] {
	out := node.NewBranchList[V](node.Skip(r))
	node.SetSkipEOS(out, node.SkipEOS(r))
	keys, vals := node.EntriesValue(r)
	for i, k := range keys {
		out = insertChildGrow(out, k, node.NewTermLeaf[V](vals[i]))
	}
	return out
}

// splitSkip handles the case where the remaining key and cur's own skip
// diverge after n bytes (n < len(skip)): a new intermediate BranchList
// takes cur's old position with the shared prefix as its skip (and
// cur's pre-skip EOS), cur loses the consumed+diverging prefix bytes,
// and the new key's own tail is attached as a sibling (spec.md §4.3,
// "Split skip at interior"). cur keeps its kind unless its skip
// becomes empty while it carries a skip-EOS: that value then marks
// arrival at cur, so a leaf kind is converted to a branch to hold it
// as a pre-skip EOS.
func splitSkip[V any](cur *node.Ref[V], key []byte, val V, skip []byte, n int) (*node.Ref[V], bool) {
	intermediate := node.NewBranchList[V](cloneBytes(skip[:n]))
	reshaped := node.WithNewSkip(cur, cloneBytes(skip[n+1:]))
	// cur's pre-skip EOS marks arrival at cur's position, which
	// intermediate now occupies.
	node.SetPreEOS(intermediate, node.PreEOS(cur))
	node.SetPreEOS(reshaped, nil)
	if se := node.SkipEOS(reshaped); se != nil && n+1 == len(skip) {
		// reshaped's skip is now empty, so its skip-EOS marks arrival at
		// reshaped, which only a branch's pre-skip EOS slot can hold.
		if reshaped.IsLeaf() {
			reshaped = leafToBranch(reshaped)
		}
		node.SetSkipEOS(reshaped, nil)
		node.SetPreEOS(reshaped, se)
	}
	intermediate = insertChildGrow(intermediate, skip[n], reshaped)

	if n == len(key) {
		v := val
		node.SetSkipEOS(intermediate, &v)
		return intermediate, false
	}
	rest := key[n+1:]
	intermediate = insertChildGrow(intermediate, key[n], newLeafFor(rest, val))
	return intermediate, false
}

// Get performs a read-only lookup. Safe to call concurrently with
// writers: it never mutates a node, and every node it might dereference
// is either immutable-since-construction or was valid when this call's
// root snapshot was taken (spec.md §4.5's reader rule).
func Get[V any](root *node.Ref[V], key []byte) (V, bool) {
	cur := root
	remaining := key
	for {
		if cur == nil {
			var zero V
			return zero, false
		}
		if cur.Kind == node.KindTermLeaf {
			if len(remaining) == 0 {
				return node.TermLeafValue(cur), true
			}
			var zero V
			return zero, false
		}
		if len(remaining) == 0 {
			if v := node.PreEOS(cur); v != nil {
				return *v, true
			}
			var zero V
			return zero, false
		}

		skip := node.Skip(cur)
		if len(skip) > 0 {
			if len(remaining) < len(skip) || commonPrefixLen(remaining, skip) != len(skip) {
				var zero V
				return zero, false
			}
			remaining = remaining[len(skip):]
			if len(remaining) == 0 {
				if v := node.SkipEOS(cur); v != nil {
					return *v, true
				}
				var zero V
				return zero, false
			}
		}

		b, rest := remaining[0], remaining[1:]
		if cur.IsLeaf() {
			if len(rest) != 0 {
				var zero V
				return zero, false
			}
			v, ok := node.GetValue(cur, b)
			if !ok {
				var zero V
				return zero, false
			}
			return *v, true
		}
		child, ok := node.GetChild(cur, b)
		if !ok {
			var zero V
			return zero, false
		}
		cur = child
		remaining = rest
	}
}

// Walk visits every (key, value) pair reachable from root in ascending
// byte order, stopping early if visit returns false. Used by the root
// package's iterator (spec.md's firstLeaf/nextAfter seams) and by
// Trie.Size.
func Walk[V any](root *node.Ref[V], visit func(key []byte, val V) bool) {
	walk(root, nil, visit)
}

func walk[V any](cur *node.Ref[V], prefix []byte, visit func([]byte, V) bool) bool {
	if cur == nil {
		return true
	}
	if cur.Kind == node.KindTermLeaf {
		return visit(cloneBytes(prefix), node.TermLeafValue(cur))
	}

	if !cur.IsLeaf() {
		if v := node.PreEOS(cur); v != nil {
			if !visit(cloneBytes(prefix), *v) {
				return false
			}
		}
	}

	full := append(cloneBytes(prefix), node.Skip(cur)...)

	if v := node.SkipEOS(cur); v != nil {
		if !visit(cloneBytes(full), *v) {
			return false
		}
	}

	if cur.IsLeaf() {
		keys, vals := node.EntriesValue(cur)
		for i, b := range keys {
			if !visit(append(cloneBytes(full), b), vals[i]) {
				return false
			}
		}
		return true
	}

	keys, children := node.EntriesChild(cur)
	for i, b := range keys {
		if !walk(children[i], append(cloneBytes(full), b), visit) {
			return false
		}
	}
	return true
}
