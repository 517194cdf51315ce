package node

import "testing"

func TestSmallListInsertFindSorted(t *testing.T) {
	var l SmallList
	order := []byte{50, 10, 200, 5, 100, 1, 7}
	for _, b := range order {
		pos, found := l.InsertPos(b)
		if found {
			t.Fatalf("unexpected duplicate for %d", b)
		}
		l.InsertKeyAt(pos, b)
	}
	if l.Len() != 7 {
		t.Fatalf("expected 7 entries, got %d", l.Len())
	}
	if !l.Full() {
		t.Fatalf("expected list to report full at capacity")
	}
	want := []byte{1, 5, 7, 10, 50, 100, 200}
	got := l.Keys()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected sorted keys %v, got %v", want, got)
		}
	}
	for _, b := range order {
		if l.Find(b) < 0 {
			t.Fatalf("expected to find %d", b)
		}
	}
	if l.Find(99) >= 0 {
		t.Fatalf("expected not to find absent byte 99")
	}
}

func TestSmallListRemove(t *testing.T) {
	var l SmallList
	for _, b := range []byte{1, 2, 3} {
		pos, _ := l.InsertPos(b)
		l.InsertKeyAt(pos, b)
	}
	i := l.Find(2)
	l.RemoveKeyAt(i)
	if l.Len() != 2 {
		t.Fatalf("expected 2 entries after remove, got %d", l.Len())
	}
	if l.Find(2) >= 0 {
		t.Fatalf("expected 2 to be gone")
	}
	if l.Find(1) < 0 || l.Find(3) < 0 {
		t.Fatalf("expected 1 and 3 to remain")
	}
}

func TestHasZeroByteSWAR(t *testing.T) {
	if hasZeroByte(0x0102030405060708) != 0 {
		t.Fatalf("expected no zero byte detected")
	}
	if hasZeroByte(0x0102030400060708) == 0 {
		t.Fatalf("expected a zero byte detected")
	}
}
