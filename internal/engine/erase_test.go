package engine

import (
	"testing"

	"github.com/tktrask/vart/internal/node"
)

func TestEraseNotFoundReportsFalse(t *testing.T) {
	var root *node.Ref[int]
	root, _ = Insert(root, []byte("a"), 1)
	_, removed := Erase(root, []byte("zzz"))
	if removed {
		t.Fatalf("expected erase of an absent key to report false")
	}
}

// TestEmptyAfterErasingEverythingIsNullRoot is spec.md §8's universal
// property: a sequence that removes every key must reduce the tree to
// a null root, not a lingering empty shell.
func TestEmptyAfterErasingEverythingIsNullRoot(t *testing.T) {
	var root *node.Ref[string]
	keys := []string{"apple", "application", "apply", "app", "banana"}
	for _, k := range keys {
		root, _ = Insert(root, []byte(k), k)
	}
	for _, k := range keys {
		var removed bool
		root, removed = Erase(root, []byte(k))
		if !removed {
			t.Fatalf("expected erase(%q) to report removed", k)
		}
	}
	if root != nil {
		t.Fatalf("expected a null root once every key is erased, got %v", root.Kind)
	}
}

// TestCollapseLawMergesSurvivingChildSkip is spec.md §8's "Collapse
// law": after erasing all but one key beneath an interior node, that
// interior is replaced by a node whose skip is the concatenation of
// the former prefix, the former edge byte, and the surviving child's
// skip.
func TestCollapseLawMergesSurvivingChildSkip(t *testing.T) {
	var root *node.Ref[int]
	root, _ = Insert(root, []byte("keyAAAA"), 1)
	root, _ = Insert(root, []byte("keyBBBB"), 2)

	root, removed := Erase(root, []byte("keyAAAA"))
	if !removed {
		t.Fatalf("expected erase to report removed")
	}

	mustFind(t, root, "keyBBBB", 2)
	mustMiss(t, root, "keyAAAA")

	// The surviving single-key subtree should have collapsed into one
	// node holding the whole remaining path, not an interior branch
	// with a single child hanging off it.
	switch root.Kind {
	case node.KindLeafList, node.KindLeafPop, node.KindLeafFull, node.KindTermLeaf:
	default:
		if node.ChildCount(root) != 1 {
			break
		}
		t.Fatalf("expected erase to collapse the one-child interior, got kind %v with %d children", root.Kind, node.ChildCount(root))
	}
}

func TestEraseSkipEOSAndPreEOS(t *testing.T) {
	var root *node.Ref[int]
	root, _ = Insert(root, []byte(""), 9)
	root, _ = Insert(root, []byte("a"), 1)
	root, _ = Insert(root, []byte("ab"), 2)

	root, removed := Erase(root, []byte(""))
	if !removed {
		t.Fatalf("expected erase(\"\") to report removed")
	}
	mustMiss(t, root, "")
	mustFind(t, root, "a", 1)
	mustFind(t, root, "ab", 2)

	root, removed = Erase(root, []byte("a"))
	if !removed {
		t.Fatalf("expected erase(\"a\") to report removed")
	}
	mustMiss(t, root, "a")
	mustFind(t, root, "ab", 2)
}

func TestEraseLeafValueDowngrades(t *testing.T) {
	var root *node.Ref[int]
	for i := 0; i < 100; i++ {
		root, _ = Insert(root, []byte("key"+itoa(i)), i)
	}
	for i := 0; i < 90; i++ {
		var removed bool
		root, removed = Erase(root, []byte("key"+itoa(i)))
		if !removed {
			t.Fatalf("expected erase(key%d) to report removed", i)
		}
	}
	for i := 0; i < 90; i++ {
		mustMiss(t, root, "key"+itoa(i))
	}
	for i := 90; i < 100; i++ {
		mustFind(t, root, "key"+itoa(i), i)
	}
}
