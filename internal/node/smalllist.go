package node

import "math/bits"

// maxListChildren is the capacity of the LIST branch representation:
// a sorted array of up to 7 bytes that together with its length byte
// packs into one 8-byte word, small enough to stay in a single
// register for a SWAR search. Grounded on the teacher's art_node5.go
// ("designed to be exactly 64 bytes... one node5 exactly fits into
// one cache line") and spec.md §4.1's SWAR note.
const maxListChildren = 7

// SmallList is the LIST branch-point index: up to 7 distinct byte
// keys, kept sorted. Find searches via SWAR (parallel byte compare)
// instead of a loop over individual bytes; InsertPos finds the sorted
// insertion position with a short linear scan.
type SmallList struct {
	keys [maxListChildren]byte
	n    uint8
}

// Len returns the number of entries currently stored.
func (l *SmallList) Len() int { return int(l.n) }

// Full reports whether the list has reached maxListChildren entries.
func (l *SmallList) Full() bool { return int(l.n) >= maxListChildren }

// pack treats the first n keys (zero-padded) as one little-endian
// 64-bit word, the representation the SWAR helpers operate on.
func (l *SmallList) pack() uint64 {
	var w uint64
	for i := 0; i < maxListChildren; i++ {
		w |= uint64(l.keys[i]) << (8 * uint(i))
	}
	return w
}

// hasZeroByte is the classic SWAR "does any byte in v equal zero"
// test: (v - 0x01..01) & ^v & 0x80..80 is nonzero iff some byte of v
// underflowed from 0x00, which only happens where v had a zero byte.
func hasZeroByte(v uint64) uint64 {
	const lo = 0x0101010101010101
	const hi = 0x8080808080808080
	return (v - lo) & ^v & hi
}

// Find returns the index of target in the sorted key list, or -1 if
// absent. Implemented with one SWAR pass: XOR every packed byte
// against a broadcast target byte, then test for a zero byte — a
// match position — instead of a per-byte loop.
func (l *SmallList) Find(target byte) int {
	broadcast := uint64(target) * 0x0101010101010101
	v := l.pack() ^ broadcast
	hit := hasZeroByte(v)
	if hit == 0 {
		return -1
	}
	idx := bits.TrailingZeros64(hit) / 8
	if idx >= int(l.n) {
		return -1
	}
	return idx
}

// InsertPos returns the sorted insertion position for target: the
// count of stored keys strictly less than target. If target is
// already present, InsertPos returns its existing index and found is
// true.
func (l *SmallList) InsertPos(target byte) (pos int, found bool) {
	for i := 0; i < int(l.n); i++ {
		if l.keys[i] == target {
			return i, true
		}
		if l.keys[i] > target {
			return i, false
		}
	}
	return int(l.n), false
}

// InsertKeyAt shifts keys right to open a gap at pos and writes
// target there, growing the list by one. The caller must shift its
// parallel children/values array by the same amount.
func (l *SmallList) InsertKeyAt(pos int, target byte) {
	for i := int(l.n); i > pos; i-- {
		l.keys[i] = l.keys[i-1]
	}
	l.keys[pos] = target
	l.n++
}

// RemoveKeyAt shifts keys left to close the gap at pos, shrinking the
// list by one. The caller must shift its parallel array identically.
func (l *SmallList) RemoveKeyAt(pos int) {
	for i := pos; i < int(l.n)-1; i++ {
		l.keys[i] = l.keys[i+1]
	}
	l.n--
	l.keys[l.n] = 0
}

// KeyAt returns the byte key stored at index i.
func (l *SmallList) KeyAt(i int) byte { return l.keys[i] }

// Keys returns the stored keys in sorted order (a fresh copy).
func (l *SmallList) Keys() []byte {
	out := make([]byte, l.n)
	copy(out, l.keys[:l.n])
	return out
}
