package partition

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertExactCover checks the partitions are pairwise disjoint, contiguous,
// and their union is exactly [0, nodeCount).
func assertExactCover(t *testing.T, nodeCount int64, parts []Partition) {
	t.Helper()
	next := int64(0)
	for _, p := range parts {
		require.Equal(t, next, p.StartNode)
		require.Greater(t, p.NodeCount, int64(0))
		next = p.EndNode()
	}
	require.Equal(t, nodeCount, next)
}

func TestRangePartition_ExactCover(t *testing.T) {
	cases := []struct {
		nodeCount   int64
		concurrency int
	}{
		{0, 4},
		{1, 1},
		{1, 8},
		{7, 3},
		{10, 4},
		{100, 7},
		{1000, 1},
		{1000, 16},
		{1 << 20, 12},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("n=%d_c=%d", tc.nodeCount, tc.concurrency), func(t *testing.T) {
			parts := RangePartition(tc.nodeCount, tc.concurrency)
			assert.LessOrEqual(t, len(parts), tc.concurrency)
			assertExactCover(t, tc.nodeCount, parts)
		})
	}
}

func TestRangePartition_NearEqualSizes(t *testing.T) {
	parts := RangePartition(100, 4)
	require.Len(t, parts, 4)
	for _, p := range parts {
		assert.Equal(t, int64(25), p.NodeCount)
	}
}

func TestRangePartition_LastAbsorbsRemainder(t *testing.T) {
	parts := RangePartition(10, 3)
	require.Len(t, parts, 3)
	assert.Equal(t, Partition{StartNode: 0, NodeCount: 4}, parts[0])
	assert.Equal(t, Partition{StartNode: 4, NodeCount: 4}, parts[1])
	assert.Equal(t, Partition{StartNode: 8, NodeCount: 2}, parts[2])
}

func TestRangePartition_MoreWorkersThanNodes(t *testing.T) {
	parts := RangePartition(3, 8)
	assert.Len(t, parts, 3)
	assertExactCover(t, 3, parts)
}

func TestRangePartitionWithBatchSize(t *testing.T) {
	parts := RangePartitionWithBatchSize(100, 64, 8)
	require.Len(t, parts, 2)
	assert.Equal(t, int64(64), parts[0].NodeCount)
	assert.Equal(t, int64(36), parts[1].NodeCount)
	assertExactCover(t, 100, parts)

	// Batch size below the even split is raised to it so the cap holds.
	parts = RangePartitionWithBatchSize(100, 1, 4)
	assert.LessOrEqual(t, len(parts), 4)
	assertExactCover(t, 100, parts)
}

func TestPartition_ConsumeAscending(t *testing.T) {
	p := Partition{StartNode: 5, NodeCount: 4}
	var seen []int64
	p.Consume(func(id int64) { seen = append(seen, id) })
	assert.Equal(t, []int64{5, 6, 7, 8}, seen)
}
