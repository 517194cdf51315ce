package node

import "testing"

func TestBitmap256SetGetClear(t *testing.T) {
	var b Bitmap256
	if b.Get(200) {
		t.Fatalf("expected bit 200 unset initially")
	}
	b.Set(200)
	if !b.Get(200) {
		t.Fatalf("expected bit 200 set after Set")
	}
	b.Clear(200)
	if b.Get(200) {
		t.Fatalf("expected bit 200 unset after Clear")
	}
}

func TestBitmap256DenseIndex(t *testing.T) {
	var b Bitmap256
	for _, c := range []byte{5, 10, 200, 255, 0} {
		b.Set(c)
	}
	// sorted: 0, 5, 10, 200, 255
	tests := []struct {
		b    byte
		want int
	}{
		{0, 0},
		{5, 1},
		{10, 2},
		{200, 3},
		{255, 4},
	}
	for _, tt := range tests {
		if got := b.DenseIndex(tt.b); got != tt.want {
			t.Errorf("DenseIndex(%d) = %d, want %d", tt.b, got, tt.want)
		}
	}
}

func TestBitmap256PopCount(t *testing.T) {
	var b Bitmap256
	if b.PopCount() != 0 {
		t.Fatalf("expected 0 bits set initially")
	}
	for i := 0; i < 130; i++ {
		b.Set(byte(i))
	}
	if b.PopCount() != 130 {
		t.Fatalf("expected 130 bits set, got %d", b.PopCount())
	}
}

func TestBitmap256InsertRemoveAt(t *testing.T) {
	var b Bitmap256
	idx := b.InsertAt(100)
	if idx != 0 {
		t.Fatalf("first insert should be at dense index 0, got %d", idx)
	}
	idx = b.InsertAt(50)
	if idx != 0 {
		t.Fatalf("inserting a smaller byte should land at dense index 0, got %d", idx)
	}
	idx = b.RemoveAt(50)
	if idx != 0 {
		t.Fatalf("removing the smallest byte should report dense index 0, got %d", idx)
	}
	if b.Get(50) {
		t.Fatalf("expected bit 50 cleared after RemoveAt")
	}
}
