package engine

import "github.com/tktrask/vart/internal/node"

// Insert returns a new root with key bound to val, and whether key was
// already present (so the caller can distinguish insert from update,
// spec.md §4.3). The original root and every node reachable from it
// are left untouched; only the returned root reflects the change.
func Insert[V any](root *node.Ref[V], key []byte, val V) (*node.Ref[V], bool) {
	return insertAt(root, key, val)
}

func insertAt[V any](cur *node.Ref[V], key []byte, val V) (*node.Ref[V], bool) {
	if cur == nil {
		return newLeafFor(key, val), false
	}
	switch {
	case cur.Kind == node.KindTermLeaf:
		return insertIntoTermLeaf(cur, key, val)
	case cur.IsLeaf():
		return insertIntoLeafKind(cur, key, val)
	default:
		return insertIntoBranchKind(cur, key, val)
	}
}

// insertIntoTermLeaf handles spec.md §4.3's "key is a proper prefix of
// node's skip" / "node's skip is a proper prefix of key" table entries
// degenerated to a zero-length skip: a TermLeaf holds exactly one value
// with no further structure, so any key longer than "" forces it to
// convert into a branch carrying the old value as its pre-skip EOS.
func insertIntoTermLeaf[V any](cur *node.Ref[V], key []byte, val V) (*node.Ref[V], bool) {
	if len(key) == 0 {
		return node.NewTermLeaf[V](val), true
	}
	oldVal := node.TermLeafValue(cur)
	branch := node.NewBranchList[V](nil)
	node.SetPreEOS(branch, &oldVal)
	branch = insertChildGrow(branch, key[0], newLeafFor(key[1:], val))
	return branch, false
}

// insertIntoLeafKind places (key, val) relative to a leaf-kind node
// (LeafList/Pop/Full), converting it to a branch if the key ends on
// arrival at this leaf or needs to continue past a byte this leaf
// currently treats as terminal.
func insertIntoLeafKind[V any](cur *node.Ref[V], key []byte, val V) (*node.Ref[V], bool) {
	if len(key) == 0 {
		// A leaf kind has no slot for a key ending on arrival at it; the
		// value goes in the converted branch's pre-skip EOS.
		return insertIntoBranchKind(leafToBranch(cur), key, val)
	}
	skip := node.Skip(cur)
	n := commonPrefixLen(key, skip)
	if n < len(skip) {
		return splitSkip(cur, key, val, skip, n)
	}

	rest := key[len(skip):]
	if len(rest) == 0 {
		existed := node.SkipEOS(cur) != nil
		out := node.WithNewSkip(cur, skip)
		v := val
		node.SetSkipEOS(out, &v)
		return out, existed
	}

	b, tail := rest[0], rest[1:]
	if len(tail) == 0 {
		_, existed := node.GetValue(cur, b)
		out := node.WithNewSkip(cur, skip)
		out = insertValueGrow(out, b, val)
		return out, existed
	}

	// tail continues past b: b must lead to a subtree, which a leaf's
	// value-only slots cannot represent, so convert the whole node.
	out := leafToBranch(cur)
	return insertIntoBranchKind(out, key, val)
}

// insertIntoBranchKind places (key, val) relative to a branch-kind node
// (BranchList/Pop/Full), covering every row of spec.md §4.3's table:
// key ends on arrival (pre-skip EOS), key ends after the skip
// (skip-EOS), the skip only partially matches (split), and the skip
// fully matches with bytes remaining (missing child / recurse into an
// existing child).
func insertIntoBranchKind[V any](cur *node.Ref[V], key []byte, val V) (*node.Ref[V], bool) {
	if len(key) == 0 {
		existed := node.PreEOS(cur) != nil
		out := node.WithNewSkip(cur, node.Skip(cur))
		v := val
		node.SetPreEOS(out, &v)
		return out, existed
	}

	skip := node.Skip(cur)
	n := commonPrefixLen(key, skip)
	if n < len(skip) {
		return splitSkip(cur, key, val, skip, n)
	}

	rest := key[len(skip):]
	if len(rest) == 0 {
		existed := node.SkipEOS(cur) != nil
		out := node.WithNewSkip(cur, skip)
		v := val
		node.SetSkipEOS(out, &v)
		return out, existed
	}

	b, tail := rest[0], rest[1:]
	child, has := node.GetChild(cur, b)

	var newChild *node.Ref[V]
	var existed bool
	if !has {
		newChild = newLeafFor(tail, val)
	} else {
		newChild, existed = insertAt(child, tail, val)
	}

	out := node.WithNewSkip(cur, skip)
	out = insertChildGrow(out, b, newChild)
	return out, existed
}
