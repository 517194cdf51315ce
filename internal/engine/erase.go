package engine

import "github.com/tktrask/vart/internal/node"

// Erase returns a new root with key removed (nil if the whole trie
// became empty), and whether key was present. As with Insert, nothing
// reachable from the original root is mutated (spec.md §4.4).
func Erase[V any](root *node.Ref[V], key []byte) (*node.Ref[V], bool) {
	return eraseAt(root, key)
}

func eraseAt[V any](cur *node.Ref[V], key []byte) (*node.Ref[V], bool) {
	if cur == nil {
		return nil, false
	}
	if cur.Kind == node.KindTermLeaf {
		if len(key) == 0 {
			return nil, true
		}
		return cur, false
	}

	skip := node.Skip(cur)
	if cur.IsLeaf() {
		return eraseFromLeafKind(cur, key, skip)
	}
	return eraseFromBranchKind(cur, key, skip)
}

// eraseFromBranchKind mirrors insertIntoBranchKind's traversal, clearing
// whichever EOS slot or child the key resolves to and then collapsing
// upward (spec.md §4.4's "removal, collapse, merge").
func eraseFromBranchKind[V any](cur *node.Ref[V], key []byte, skip []byte) (*node.Ref[V], bool) {
	if len(key) == 0 {
		if node.PreEOS(cur) == nil {
			return cur, false
		}
		out := node.WithNewSkip(cur, skip)
		node.SetPreEOS(out, nil)
		return collapseBranch(out), true
	}

	n := commonPrefixLen(key, skip)
	if n < len(skip) {
		return cur, false
	}

	rest := key[len(skip):]
	if len(rest) == 0 {
		if node.SkipEOS(cur) == nil {
			return cur, false
		}
		out := node.WithNewSkip(cur, skip)
		node.SetSkipEOS(out, nil)
		return collapseBranch(out), true
	}

	b, tail := rest[0], rest[1:]
	child, has := node.GetChild(cur, b)
	if !has {
		return cur, false
	}
	newChild, removed := eraseAt(child, tail)
	if !removed {
		return cur, false
	}

	out := node.WithNewSkip(cur, skip)
	if newChild == nil {
		node.RemoveChild(out, b)
	} else {
		node.InsertChild(out, b, newChild)
	}
	out = node.Downgrade(out)
	return collapseBranch(out), true
}

func eraseFromLeafKind[V any](cur *node.Ref[V], key []byte, skip []byte) (*node.Ref[V], bool) {
	n := commonPrefixLen(key, skip)
	if n < len(skip) {
		return cur, false
	}

	rest := key[len(skip):]
	if len(rest) == 0 {
		if node.SkipEOS(cur) == nil {
			return cur, false
		}
		out := node.WithNewSkip(cur, skip)
		node.SetSkipEOS(out, nil)
		return collapseLeaf(out), true
	}

	b, tail := rest[0], rest[1:]
	if len(tail) != 0 {
		return cur, false
	}
	if _, has := node.GetValue(cur, b); !has {
		return cur, false
	}

	out := node.WithNewSkip(cur, skip)
	node.RemoveValue(out, b)
	out = node.Downgrade(out)
	return collapseLeaf(out), true
}

// collapseBranch applies spec.md §4.4's merge rule: a branch left with
// no EOS of its own either disappears entirely (no children) or is
// absorbed into its sole remaining child's skip (one child); a branch
// left with no children and only a pre-skip EOS demotes to a TermLeaf.
// Any other branch (more than one child, a skip-EOS, or a pre-skip EOS
// alongside children) is already minimal and is returned unchanged.
func collapseBranch[V any](r *node.Ref[V]) *node.Ref[V] {
	for {
		if r.IsLeaf() {
			// r was merged into a leaf-kind child, which has no child
			// pointers left to absorb.
			return r
		}
		count := node.ChildCount(r)
		pre := node.PreEOS(r)
		se := node.SkipEOS(r)

		switch {
		case count == 0 && pre != nil && se == nil:
			// The skip here has no remaining consumer (nothing ever
			// matched past the arrival point) — drop it along with the
			// node, keeping only the value it guarded.
			return node.NewTermLeaf[V](*pre)

		case count == 0 && pre == nil && se == nil:
			return nil

		case count == 1 && pre == nil && se == nil:
			keys, children := node.EntriesChild(r)
			b, child := keys[0], children[0]
			childSkip := node.Skip(child)
			childPre := node.PreEOS(child)

			if child.Kind != node.KindTermLeaf && childPre != nil && len(childSkip) > 0 {
				// childPre marks "key ends on arrival at child", a
				// position strictly before child's own skip is fully
				// consumed. Once merged, that position sits in the
				// middle of the merged skip string, which a BranchList
				// has no slot for (only "arrival at r" and "r's skip
				// fully consumed"). Spec.md §4.4: collapse across a
				// node carrying an EOS value is disallowed, since the
				// EOS would otherwise be lost or relocated to the
				// wrong position — leave r uncollapsed.
				return r
			}

			merged := append(append(cloneBytes(node.Skip(r)), b), childSkip...)
			switch {
			case child.Kind == node.KindTermLeaf:
				v := node.TermLeafValue(child)
				out := node.NewBranchList[V](merged)
				node.SetSkipEOS(out, &v)
				r = out
			case childPre != nil:
				// childSkip is empty here (checked above), so "arrival
				// at child" and "merged skip fully consumed" are the
				// same position: relocate the value to skip-EOS rather
				// than letting WithNewSkip's shell copy carry it over
				// as preEOS, which would claim the wrong position.
				out := node.WithNewSkip(child, merged)
				node.SetPreEOS(out, nil)
				node.SetSkipEOS(out, childPre)
				r = out
			default:
				r = node.WithNewSkip(child, merged)
			}
			continue

		default:
			return r
		}
	}
}

// collapseLeaf is collapseBranch's leaf-kind analogue: leaf nodes carry
// no pre-skip EOS, so the only dead-weight case is zero values and no
// skip-EOS, which disappears entirely.
func collapseLeaf[V any](r *node.Ref[V]) *node.Ref[V] {
	if node.ChildCount(r) == 0 && node.SkipEOS(r) == nil {
		return nil
	}
	return r
}
