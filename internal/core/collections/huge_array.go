// Package collections provides node-indexed storage primitives for the
// graphbeam core: page-backed "huge" arrays that scale past a single
// contiguous allocation, and an atomic bitset for concurrent per-node flags.
package collections

import "fmt"

// Paging parameters shared by all huge arrays. A page holds 1<<pageShift
// elements, so element addressing is a shift and a mask, never a division.
const (
	pageShift = 14
	pageSize  = 1 << pageShift
	pageMask  = pageSize - 1
)

func numPages(size int64) int {
	return int((size + pageMask) >> pageShift)
}

func lastPageLength(size int64) int {
	if size == 0 {
		return 0
	}
	if tail := int(size & pageMask); tail != 0 {
		return tail
	}
	return pageSize
}

// HugeLongArray is a fixed-capacity int64 array backed by pages.
// PRINCIPLES:
// - O(1) indexed access without one contiguous allocation
// - No internal locking: a slot is owned by whoever owns the node id
type HugeLongArray struct {
	size  int64
	pages [][]int64
}

// NewHugeLongArray allocates a zero-initialized array of the given size.
func NewHugeLongArray(size int64) *HugeLongArray {
	if size < 0 {
		panic(fmt.Sprintf("collections: negative array size %d", size))
	}
	n := numPages(size)
	pages := make([][]int64, n)
	for i := range pages {
		length := pageSize
		if i == n-1 {
			length = lastPageLength(size)
		}
		pages[i] = make([]int64, length)
	}
	return &HugeLongArray{size: size, pages: pages}
}

// Get returns the value at index i.
func (a *HugeLongArray) Get(i int64) int64 {
	return a.pages[i>>pageShift][i&pageMask]
}

// Set stores v at index i.
func (a *HugeLongArray) Set(i int64, v int64) {
	a.pages[i>>pageShift][i&pageMask] = v
}

// AddTo adds delta to the value at index i and returns the new value.
func (a *HugeLongArray) AddTo(i int64, delta int64) int64 {
	p := a.pages[i>>pageShift]
	p[i&pageMask] += delta
	return p[i&pageMask]
}

// Fill sets every element to v.
func (a *HugeLongArray) Fill(v int64) {
	for _, page := range a.pages {
		for i := range page {
			page[i] = v
		}
	}
}

// SetAll computes every element from its index.
func (a *HugeLongArray) SetAll(fn func(i int64) int64) {
	base := int64(0)
	for _, page := range a.pages {
		for i := range page {
			page[i] = fn(base + int64(i))
		}
		base += int64(len(page))
	}
}

// Size returns the fixed capacity of the array.
func (a *HugeLongArray) Size() int64 { return a.size }

// ToSlice copies the array into one contiguous slice. Intended for small
// arrays in tests and result export, not the hot path.
func (a *HugeLongArray) ToSlice() []int64 {
	out := make([]int64, 0, a.size)
	for _, page := range a.pages {
		out = append(out, page...)
	}
	return out
}

// HugeDoubleArray is the float64 counterpart of HugeLongArray.
type HugeDoubleArray struct {
	size  int64
	pages [][]float64
}

// NewHugeDoubleArray allocates a zero-initialized array of the given size.
func NewHugeDoubleArray(size int64) *HugeDoubleArray {
	if size < 0 {
		panic(fmt.Sprintf("collections: negative array size %d", size))
	}
	n := numPages(size)
	pages := make([][]float64, n)
	for i := range pages {
		length := pageSize
		if i == n-1 {
			length = lastPageLength(size)
		}
		pages[i] = make([]float64, length)
	}
	return &HugeDoubleArray{size: size, pages: pages}
}

// Get returns the value at index i.
func (a *HugeDoubleArray) Get(i int64) float64 {
	return a.pages[i>>pageShift][i&pageMask]
}

// Set stores v at index i.
func (a *HugeDoubleArray) Set(i int64, v float64) {
	a.pages[i>>pageShift][i&pageMask] = v
}

// AddTo adds delta to the value at index i and returns the new value.
func (a *HugeDoubleArray) AddTo(i int64, delta float64) float64 {
	p := a.pages[i>>pageShift]
	p[i&pageMask] += delta
	return p[i&pageMask]
}

// Fill sets every element to v.
func (a *HugeDoubleArray) Fill(v float64) {
	for _, page := range a.pages {
		for i := range page {
			page[i] = v
		}
	}
}

// SetAll computes every element from its index.
func (a *HugeDoubleArray) SetAll(fn func(i int64) float64) {
	base := int64(0)
	for _, page := range a.pages {
		for i := range page {
			page[i] = fn(base + int64(i))
		}
		base += int64(len(page))
	}
}

// Size returns the fixed capacity of the array.
func (a *HugeDoubleArray) Size() int64 { return a.size }

// ToSlice copies the array into one contiguous slice.
func (a *HugeDoubleArray) ToSlice() []float64 {
	out := make([]float64, 0, a.size)
	for _, page := range a.pages {
		out = append(out, page...)
	}
	return out
}

// HugeObjectArray is a paged array of arbitrary element type, used for
// array-valued node fields ([]int64, []float64) and per-node queues.
type HugeObjectArray[T any] struct {
	size  int64
	pages [][]T
}

// NewHugeObjectArray allocates a zero-valued array of the given size.
func NewHugeObjectArray[T any](size int64) *HugeObjectArray[T] {
	if size < 0 {
		panic(fmt.Sprintf("collections: negative array size %d", size))
	}
	n := numPages(size)
	pages := make([][]T, n)
	for i := range pages {
		length := pageSize
		if i == n-1 {
			length = lastPageLength(size)
		}
		pages[i] = make([]T, length)
	}
	return &HugeObjectArray[T]{size: size, pages: pages}
}

// Get returns the value at index i.
func (a *HugeObjectArray[T]) Get(i int64) T {
	return a.pages[i>>pageShift][i&pageMask]
}

// Ref returns a pointer to the slot at index i for in-place mutation.
func (a *HugeObjectArray[T]) Ref(i int64) *T {
	return &a.pages[i>>pageShift][i&pageMask]
}

// Set stores v at index i.
func (a *HugeObjectArray[T]) Set(i int64, v T) {
	a.pages[i>>pageShift][i&pageMask] = v
}

// Size returns the fixed capacity of the array.
func (a *HugeObjectArray[T]) Size() int64 { return a.size }

// MemoryEstimationLongArray returns the byte footprint of a HugeLongArray of
// the given size, excluding constant struct overhead. Pure function used for
// capacity planning.
func MemoryEstimationLongArray(size int64) int64 {
	return size * 8
}

// MemoryEstimationDoubleArray returns the byte footprint of a HugeDoubleArray
// of the given size.
func MemoryEstimationDoubleArray(size int64) int64 {
	return size * 8
}
