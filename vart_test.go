package vart

import (
	"errors"
	"testing"

	"github.com/tktrask/vart/keys"
)

// TestSeedOneOverlappingPrefixes is spec.md §8 seed 1 at the public
// Trie surface.
func TestSeedOneOverlappingPrefixes(t *testing.T) {
	tr := New[int]()
	entries := []struct {
		k string
		v int
	}{
		{"apple", 1}, {"application", 2}, {"apply", 3}, {"app", 4}, {"banana", 5},
	}
	for _, e := range entries {
		inserted, err := tr.Insert(keys.FromString(e.k), e.v)
		if !inserted || err != nil {
			t.Fatalf("insert(%q) = %v, %v, want true, nil", e.k, inserted, err)
		}
	}
	if tr.Size() != 5 {
		t.Fatalf("expected size 5, got %d", tr.Size())
	}
	if v, ok := tr.Find(keys.FromString("app")); !ok || v != 4 {
		t.Fatalf("expected app -> 4, got %v, %v", v, ok)
	}

	removed, err := tr.Erase(keys.FromString("apple"))
	if !removed || err != nil {
		t.Fatalf("erase(apple) = %v, %v, want true, nil", removed, err)
	}
	if tr.Contains(keys.FromString("apple")) {
		t.Fatalf("expected apple to be gone")
	}
	if !tr.Contains(keys.FromString("app")) {
		t.Fatalf("expected app to remain")
	}
	if tr.Size() != 4 {
		t.Fatalf("expected size 4 after erase, got %d", tr.Size())
	}
}

// TestSeedTwoIntegerOrdering is spec.md §8 seed 2.
func TestSeedTwoIntegerOrdering(t *testing.T) {
	tr := New[int64]()
	vals := []int64{100, -50, 0, 1000000, -1000000, 1<<63 - 1, -1 << 63}
	for _, v := range vals {
		if _, err := tr.Insert(keys.FromInt64(v), v); err != nil {
			t.Fatalf("insert(%d): %v", v, err)
		}
	}
	if tr.Size() != 7 {
		t.Fatalf("expected size 7, got %d", tr.Size())
	}

	want := []int64{-1 << 63, -1000000, -50, 0, 100, 1000000, 1<<63 - 1}
	it, ok := tr.Begin()
	if !ok {
		t.Fatalf("expected a non-empty trie")
	}
	for i, w := range want {
		if it.Value != w {
			t.Fatalf("position %d: expected %d, got %d", i, w, it.Value)
		}
		if i < len(want)-1 {
			it, ok = it.Next(tr)
			if !ok {
				t.Fatalf("expected a successor after %d", w)
			}
		}
	}
	if _, ok := it.Next(tr); ok {
		t.Fatalf("expected no successor after the last key")
	}
}

// TestSeedSixEmptyKeyThenChild is spec.md §8 seed 6.
func TestSeedSixEmptyKeyThenChild(t *testing.T) {
	tr := New[int]()
	if _, err := tr.Insert(keys.FromBytes(nil), 7); err != nil {
		t.Fatalf("insert(\"\"): %v", err)
	}
	if _, err := tr.Insert(keys.FromString("a"), 1); err != nil {
		t.Fatalf("insert(a): %v", err)
	}
	if v, ok := tr.Find(keys.FromBytes(nil)); !ok || v != 7 {
		t.Fatalf("expected \"\" -> 7, got %v, %v", v, ok)
	}
	if v, ok := tr.Find(keys.FromString("a")); !ok || v != 1 {
		t.Fatalf("expected a -> 1, got %v, %v", v, ok)
	}
}

func TestInsertReportsKeyExistsWithoutOverwriting(t *testing.T) {
	tr := New[string]()
	if _, err := tr.Insert(keys.FromString("k"), "first"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	inserted, err := tr.Insert(keys.FromString("k"), "second")
	if inserted || !errors.Is(err, ErrKeyExists) {
		t.Fatalf("expected (false, ErrKeyExists), got (%v, %v)", inserted, err)
	}
	if v, _ := tr.Find(keys.FromString("k")); v != "first" {
		t.Fatalf("expected value to remain \"first\", got %q", v)
	}
}

func TestEraseReportsNotFound(t *testing.T) {
	tr := New[int]()
	removed, err := tr.Erase(keys.FromString("absent"))
	if removed || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected (false, ErrNotFound), got (%v, %v)", removed, err)
	}
}

func TestEmplaceOnlyBuildsOnAbsentKey(t *testing.T) {
	tr := New[int]()
	calls := 0
	build := func() int { calls++; return calls }

	inserted, err := tr.Emplace(keys.FromString("k"), build)
	if !inserted || err != nil {
		t.Fatalf("first emplace: %v, %v", inserted, err)
	}
	if calls != 1 {
		t.Fatalf("expected build called once, got %d", calls)
	}

	inserted, err = tr.Emplace(keys.FromString("k"), build)
	if inserted || !errors.Is(err, ErrKeyExists) {
		t.Fatalf("second emplace: %v, %v", inserted, err)
	}
	if calls != 1 {
		t.Fatalf("expected build not called again on existing key, got %d calls", calls)
	}
}

func TestClearEmptiesTheTrie(t *testing.T) {
	tr := New[int]()
	for i := 0; i < 50; i++ {
		tr.Insert(keys.FromInt(i), i)
	}
	tr.Clear()
	if !tr.Empty() {
		t.Fatalf("expected an empty trie after Clear")
	}
	if tr.Size() != 0 {
		t.Fatalf("expected size 0 after Clear, got %d", tr.Size())
	}
	if _, err := tr.Insert(keys.FromInt(1), 1); err != nil {
		t.Fatalf("expected the trie to be usable after Clear: %v", err)
	}
}

func TestFixedLenRejectsMismatchedKeys(t *testing.T) {
	tr := New[int](WithFixedLen(8))
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic inserting a key of the wrong length")
		}
	}()
	tr.Insert(keys.FromString("short"), 1)
}
