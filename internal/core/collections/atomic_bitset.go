package collections

import (
	"fmt"
	"math/bits"
	"sync/atomic"
)

const (
	wordShift = 6
	wordBits  = 1 << wordShift
	bitMask   = wordBits - 1
)

// HugeAtomicBitSet is a page-backed set of one bit per node id.
//
// Per-bit operations (Set, ClearBit, Get, GetAndSet, Flip) are safe to call
// concurrently from multiple workers during a compute phase; they use CAS
// loops on the backing words. Bulk operations (SetRange, Cardinality, AllSet,
// ForEachSetBit, IsEmpty, Clear) are NOT safe under concurrent mutation and
// must run only at a superstep barrier.
type HugeAtomicBitSet struct {
	size  int64
	pages [][]uint64
}

// NewHugeAtomicBitSet creates a bitset holding size bits, all clear.
func NewHugeAtomicBitSet(size int64) *HugeAtomicBitSet {
	if size < 0 {
		panic(fmt.Sprintf("collections: negative bitset size %d", size))
	}
	words := (size + bitMask) >> wordShift
	n := numPages(words)
	pages := make([][]uint64, n)
	for i := range pages {
		length := pageSize
		if i == n-1 {
			length = lastPageLength(words)
		}
		pages[i] = make([]uint64, length)
	}
	return &HugeAtomicBitSet{size: size, pages: pages}
}

func (b *HugeAtomicBitSet) word(i int64) *uint64 {
	w := i >> wordShift
	return &b.pages[w>>pageShift][w&pageMask]
}

// Set sets bit i.
func (b *HugeAtomicBitSet) Set(i int64) {
	w := b.word(i)
	mask := uint64(1) << (i & bitMask)
	for {
		old := atomic.LoadUint64(w)
		if old&mask != 0 {
			return
		}
		if atomic.CompareAndSwapUint64(w, old, old|mask) {
			return
		}
	}
}

// ClearBit clears bit i.
func (b *HugeAtomicBitSet) ClearBit(i int64) {
	w := b.word(i)
	mask := uint64(1) << (i & bitMask)
	for {
		old := atomic.LoadUint64(w)
		if old&mask == 0 {
			return
		}
		if atomic.CompareAndSwapUint64(w, old, old&^mask) {
			return
		}
	}
}

// Get reports whether bit i is set.
func (b *HugeAtomicBitSet) Get(i int64) bool {
	return atomic.LoadUint64(b.word(i))&(uint64(1)<<(i&bitMask)) != 0
}

// GetAndSet sets bit i and reports its previous value.
func (b *HugeAtomicBitSet) GetAndSet(i int64) bool {
	w := b.word(i)
	mask := uint64(1) << (i & bitMask)
	for {
		old := atomic.LoadUint64(w)
		if old&mask != 0 {
			return true
		}
		if atomic.CompareAndSwapUint64(w, old, old|mask) {
			return false
		}
	}
}

// Flip inverts bit i.
func (b *HugeAtomicBitSet) Flip(i int64) {
	w := b.word(i)
	mask := uint64(1) << (i & bitMask)
	for {
		old := atomic.LoadUint64(w)
		if atomic.CompareAndSwapUint64(w, old, old^mask) {
			return
		}
	}
}

// SetRange sets all bits in [start, end). Barrier-only.
func (b *HugeAtomicBitSet) SetRange(start, end int64) {
	if start >= end {
		return
	}
	startWord := start >> wordShift
	endWord := (end - 1) >> wordShift
	startMask := ^uint64(0) << (start & bitMask)
	endMask := ^uint64(0) >> (wordBits - 1 - ((end - 1) & bitMask))

	if startWord == endWord {
		*b.wordAt(startWord) |= startMask & endMask
		return
	}
	*b.wordAt(startWord) |= startMask
	for w := startWord + 1; w < endWord; w++ {
		*b.wordAt(w) = ^uint64(0)
	}
	*b.wordAt(endWord) |= endMask
}

func (b *HugeAtomicBitSet) wordAt(w int64) *uint64 {
	return &b.pages[w>>pageShift][w&pageMask]
}

// Cardinality counts the set bits. Barrier-only.
func (b *HugeAtomicBitSet) Cardinality() int64 {
	var count int64
	for _, page := range b.pages {
		for _, w := range page {
			count += int64(bits.OnesCount64(w))
		}
	}
	return count
}

// AllSet reports whether every bit is set. Barrier-only.
func (b *HugeAtomicBitSet) AllSet() bool {
	return b.Cardinality() == b.size
}

// IsEmpty reports whether no bit is set. Barrier-only.
func (b *HugeAtomicBitSet) IsEmpty() bool {
	for _, page := range b.pages {
		for _, w := range page {
			if w != 0 {
				return false
			}
		}
	}
	return true
}

// ForEachSetBit calls fn for every set bit in ascending order. Barrier-only.
func (b *HugeAtomicBitSet) ForEachSetBit(fn func(i int64)) {
	base := int64(0)
	for _, page := range b.pages {
		for wi, w := range page {
			for w != 0 {
				bit := bits.TrailingZeros64(w)
				fn(base + int64(wi)<<wordShift + int64(bit))
				w &= w - 1
			}
		}
		base += int64(len(page)) << wordShift
	}
}

// Clear clears every bit. Barrier-only.
func (b *HugeAtomicBitSet) Clear() {
	for _, page := range b.pages {
		for i := range page {
			page[i] = 0
		}
	}
}

// Size returns the number of bits the set holds.
func (b *HugeAtomicBitSet) Size() int64 { return b.size }

// MemoryEstimationBitSet returns the byte footprint of a bitset of the given
// bit count. Pure function used for capacity planning.
func MemoryEstimationBitSet(size int64) int64 {
	words := (size + bitMask) >> wordShift
	return words * 8
}
