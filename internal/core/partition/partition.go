// Package partition divides the dense node id space into disjoint contiguous
// ranges, one per worker, for a superstep's parallel phase.
package partition

// Partition describes a contiguous range of mapped node ids assigned to one
// worker. It is a read-only, cheaply copyable descriptor.
type Partition struct {
	StartNode int64
	NodeCount int64
}

// Consume calls fn for every node id in [StartNode, StartNode+NodeCount) in
// ascending order. Single-threaded within one partition.
func (p Partition) Consume(fn func(nodeID int64)) {
	end := p.StartNode + p.NodeCount
	for id := p.StartNode; id < end; id++ {
		fn(id)
	}
}

// EndNode returns the exclusive upper bound of the range.
func (p Partition) EndNode() int64 {
	return p.StartNode + p.NodeCount
}

// RangePartition splits [0, nodeCount) into at most concurrency contiguous
// ranges as close to equal size as possible. The union of the returned
// partitions exactly covers the id space with no overlap; the final partition
// absorbs the remainder of the division.
func RangePartition(nodeCount int64, concurrency int) []Partition {
	if concurrency < 1 {
		concurrency = 1
	}
	batchSize := ceilDiv(nodeCount, int64(concurrency))
	return RangePartitionWithBatchSize(nodeCount, batchSize, concurrency)
}

// RangePartitionWithBatchSize splits [0, nodeCount) into ranges of at least
// batchSize nodes each, capped at concurrency partitions. Used by callers
// that want to avoid over-splitting small graphs.
func RangePartitionWithBatchSize(nodeCount, batchSize int64, concurrency int) []Partition {
	if concurrency < 1 {
		concurrency = 1
	}
	if batchSize < 1 {
		batchSize = 1
	}
	if min := ceilDiv(nodeCount, int64(concurrency)); batchSize < min {
		batchSize = min
	}

	partitions := make([]Partition, 0, concurrency)
	for start := int64(0); start < nodeCount; start += batchSize {
		count := batchSize
		if start+count > nodeCount {
			count = nodeCount - start
		}
		// The cap can only bind on the final slot; give it the tail.
		if len(partitions) == concurrency-1 {
			count = nodeCount - start
		}
		partitions = append(partitions, Partition{StartNode: start, NodeCount: count})
		if start+count >= nodeCount {
			break
		}
	}
	return partitions
}

func ceilDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
