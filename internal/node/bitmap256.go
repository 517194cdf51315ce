package node

import "math/bits"

// Bitmap256 is a 256-bit presence map, one bit per possible byte
// value, stored as four 64-bit words. Grounded on the teacher's
// bitfield.go (bitfield256 [4]uint64) and art/presence_bitmap.go
// (PresenceBitmap), generalized with a DenseIndex method that turns a
// byte into a popcount-derived dense array position — the POP branch
// representation's "popcount-indexed bitmap" from spec.md §4.1.
type Bitmap256 [4]uint64

// Get reports whether bit c is set.
func (p *Bitmap256) Get(c byte) bool {
	return (p[c>>6] & (uint64(1) << (c & 0x3F))) != 0
}

// Set marks bit c.
func (p *Bitmap256) Set(c byte) {
	p[c>>6] |= uint64(1) << (c & 0x3F)
}

// Clear clears bit c.
func (p *Bitmap256) Clear(c byte) {
	p[c>>6] &^= uint64(1) << (c & 0x3F)
}

// PopCount returns the total number of set bits.
func (p *Bitmap256) PopCount() int {
	n := 0
	for i := range p {
		n += bits.OnesCount64(p[i])
	}
	return n
}

// DenseIndex converts a present byte c into its position in the dense
// child/value array: the number of set bits strictly below c. Spec.md
// §4.1: "word-wise popcount (sum of lower-word popcounts plus the
// popcount of the masked target word)". Callers must first confirm
// Get(c) is true; DenseIndex of an absent byte still returns the
// insertion position for that byte (used by Insert/Remove below).
func (p *Bitmap256) DenseIndex(c byte) int {
	word := c >> 6
	off := c & 0x3F
	idx := 0
	for w := byte(0); w < word; w++ {
		idx += bits.OnesCount64(p[w])
	}
	mask := (uint64(1) << off) - 1
	idx += bits.OnesCount64(p[word] & mask)
	return idx
}

// InsertAt sets bit c and returns the dense index it now occupies.
// The caller is responsible for shifting the backing array to open a
// slot at that index before writing into it.
func (p *Bitmap256) InsertAt(c byte) int {
	idx := p.DenseIndex(c)
	p.Set(c)
	return idx
}

// RemoveAt returns the dense index bit c currently occupies and
// clears it. The caller shifts the backing array to close the gap.
func (p *Bitmap256) RemoveAt(c byte) int {
	idx := p.DenseIndex(c)
	p.Clear(c)
	return idx
}
