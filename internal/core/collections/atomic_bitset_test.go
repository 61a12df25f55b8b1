package collections

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHugeAtomicBitSet_SetGetClear(t *testing.T) {
	bs := NewHugeAtomicBitSet(200)

	bs.Set(5)
	assert.True(t, bs.Get(5))
	assert.False(t, bs.Get(6))

	bs.ClearBit(5)
	assert.False(t, bs.Get(5))
}

func TestHugeAtomicBitSet_GetAndSet(t *testing.T) {
	bs := NewHugeAtomicBitSet(64)
	assert.False(t, bs.GetAndSet(10))
	assert.True(t, bs.GetAndSet(10))
	assert.True(t, bs.Get(10))
}

func TestHugeAtomicBitSet_Flip(t *testing.T) {
	bs := NewHugeAtomicBitSet(64)
	bs.Flip(3)
	assert.True(t, bs.Get(3))
	bs.Flip(3)
	assert.False(t, bs.Get(3))
}

func TestHugeAtomicBitSet_SetRangeCardinality(t *testing.T) {
	bs := NewHugeAtomicBitSet(1000)
	bs.SetRange(100, 421)
	assert.Equal(t, int64(321), bs.Cardinality())
	assert.False(t, bs.Get(99))
	assert.True(t, bs.Get(100))
	assert.True(t, bs.Get(420))
	assert.False(t, bs.Get(421))
}

func TestHugeAtomicBitSet_SetRangeWithinOneWord(t *testing.T) {
	bs := NewHugeAtomicBitSet(64)
	bs.SetRange(3, 9)
	assert.Equal(t, int64(6), bs.Cardinality())
	assert.False(t, bs.Get(2))
	assert.True(t, bs.Get(8))
	assert.False(t, bs.Get(9))
}

func TestHugeAtomicBitSet_AllSet(t *testing.T) {
	size := int64(130)
	bs := NewHugeAtomicBitSet(size)
	assert.False(t, bs.AllSet())

	bs.SetRange(0, size)
	assert.True(t, bs.AllSet())
	assert.Equal(t, size, bs.Cardinality())

	bs.ClearBit(129)
	assert.False(t, bs.AllSet())
}

func TestHugeAtomicBitSet_IsEmptyAndClear(t *testing.T) {
	bs := NewHugeAtomicBitSet(512)
	assert.True(t, bs.IsEmpty())

	bs.Set(511)
	assert.False(t, bs.IsEmpty())

	bs.Clear()
	assert.True(t, bs.IsEmpty())
}

func TestHugeAtomicBitSet_ForEachSetBit(t *testing.T) {
	bs := NewHugeAtomicBitSet(300)
	want := []int64{0, 63, 64, 65, 128, 299}
	for _, i := range want {
		bs.Set(i)
	}

	var got []int64
	bs.ForEachSetBit(func(i int64) { got = append(got, i) })
	assert.Equal(t, want, got)
}

func TestHugeAtomicBitSet_ConcurrentSet(t *testing.T) {
	size := int64(10_000)
	bs := NewHugeAtomicBitSet(size)

	workers := 8
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := int64(w); i < size; i += int64(workers) {
				require.False(t, bs.GetAndSet(i))
			}
		}(w)
	}
	wg.Wait()

	assert.True(t, bs.AllSet())
	assert.Equal(t, size, bs.Cardinality())
}

func TestHugeAtomicBitSet_ConcurrentFlipSameBit(t *testing.T) {
	bs := NewHugeAtomicBitSet(64)
	const flips = 1000 // even number per goroutine, even goroutine count

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < flips; i++ {
				bs.Flip(7)
			}
		}()
	}
	wg.Wait()
	assert.False(t, bs.Get(7))
}

func TestMemoryEstimationBitSet(t *testing.T) {
	assert.Equal(t, int64(8), MemoryEstimationBitSet(1))
	assert.Equal(t, int64(8), MemoryEstimationBitSet(64))
	assert.Equal(t, int64(16), MemoryEstimationBitSet(65))
}
