package concurrency

// WorkerLocalAggregator keeps one accumulation cell per worker so hot
// counters never contend during the parallel phase. Cells are padded to
// separate cache lines. Merge must only run at a barrier.
type WorkerLocalAggregator[T any] struct {
	cells    []paddedCell[T]
	identity T
	combine  func(a, b T) T
}

type paddedCell[T any] struct {
	value T
	_     [64]byte
}

// NewWorkerLocalAggregator creates an aggregator with one cell per worker,
// each initialized to identity.
func NewWorkerLocalAggregator[T any](workers int, identity T, combine func(a, b T) T) *WorkerLocalAggregator[T] {
	if workers < 1 {
		workers = 1
	}
	cells := make([]paddedCell[T], workers)
	for i := range cells {
		cells[i].value = identity
	}
	return &WorkerLocalAggregator[T]{cells: cells, identity: identity, combine: combine}
}

// Accumulate folds v into the executing worker's cell. Only the worker that
// owns the cell may call this, so no synchronization is needed.
func (a *WorkerLocalAggregator[T]) Accumulate(worker int, v T) {
	a.cells[worker].value = a.combine(a.cells[worker].value, v)
}

// Merge folds all cells into one value. Barrier-only.
func (a *WorkerLocalAggregator[T]) Merge() T {
	out := a.identity
	for i := range a.cells {
		out = a.combine(out, a.cells[i].value)
	}
	return out
}

// Reset returns every cell to identity. Barrier-only.
func (a *WorkerLocalAggregator[T]) Reset() {
	for i := range a.cells {
		a.cells[i].value = a.identity
	}
}
