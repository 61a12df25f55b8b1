package concurrency

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/graphbeam/graphbeam/internal/core/partition"
)
import imetrics "github.com/graphbeam/graphbeam/internal/infrastructure/metrics"

// Executor is a fixed-size work-stealing worker pool driving the compute
// phase of every superstep.
// PRINCIPLES:
// - Dynamic work distribution across per-worker queues with stealing
// - Cooperative termination polled at per-node dispatch granularity
// - The scope join is the superstep barrier

type task func(worker int)

type Executor struct {
	queues     []chan task
	numWorkers int
	counter    int64
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewExecutor creates and starts a pool of numWorkers workers. A
// queueCapacity <= 0 defaults to 100.
func NewExecutor(numWorkers, queueCapacity int) *Executor {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
		if numWorkers < 1 {
			numWorkers = 1
		}
	}
	if queueCapacity <= 0 {
		queueCapacity = 100
	}

	queues := make([]chan task, numWorkers)
	for i := range queues {
		queues[i] = make(chan task, queueCapacity)
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Executor{
		queues:     queues,
		numWorkers: numWorkers,
		ctx:        ctx,
		cancel:     cancel,
	}
	imetrics.SetExecutorWorkers(numWorkers)
	for i := 0; i < numWorkers; i++ {
		e.wg.Add(1)
		go e.worker(i)
	}
	return e
}

// Concurrency returns the pool size.
func (e *Executor) Concurrency() int { return e.numWorkers }

func (e *Executor) submit(t task) {
	// Round-robin assignment to worker queues
	worker := atomic.AddInt64(&e.counter, 1) % int64(e.numWorkers)
	e.queues[worker] <- t
	imetrics.AddExecutorQueued(1)
}

func (e *Executor) worker(id int) {
	defer e.wg.Done()

	for {
		select {
		case <-e.ctx.Done():
			return
		case t := <-e.queues[id]:
			t(id)
		default:
			if !e.stealWork(id) {
				select {
				case <-e.ctx.Done():
					return
				default:
					runtime.Gosched()
				}
			}
		}
	}
}

func (e *Executor) stealWork(workerID int) bool {
	for i := 0; i < e.numWorkers; i++ {
		if i == workerID {
			continue
		}
		select {
		case t := <-e.queues[i]:
			t(workerID)
			return true
		default:
		}
	}
	return false
}

// Stop shuts the pool down. Pending queued work is dropped.
func (e *Executor) Stop() {
	e.cancel()
	e.wg.Wait()
}

// Scope collects work spawned for one superstep. All spawned work completes
// (or aborts on termination) before Executor.Scope returns; that join is the
// BSP barrier.
type Scope struct {
	exec *Executor
	term *TerminationFlag
	wg   sync.WaitGroup

	mu  sync.Mutex
	err error
}

// Spawn schedules fn on the pool. The worker index passed to fn identifies
// the executing worker for worker-local accumulation. The first error
// returned by any spawned fn is surfaced by the enclosing Scope call.
func (s *Scope) Spawn(fn func(worker int) error) {
	s.wg.Add(1)
	s.exec.submit(func(worker int) {
		defer s.wg.Done()
		if !s.term.Running() {
			s.record(ErrTerminated)
			return
		}
		if err := fn(worker); err != nil {
			s.record(err)
		}
	})
}

// SpawnMany schedules n tasks of fn, passing each its task index.
func (s *Scope) SpawnMany(n int, fn func(worker, index int) error) {
	for i := 0; i < n; i++ {
		i := i
		s.Spawn(func(worker int) error { return fn(worker, i) })
	}
}

func (s *Scope) record(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
}

// Scope runs fn, waits for everything it spawned, and returns the first error
// recorded, with ErrTerminated taking precedence when the flag fired.
func (e *Executor) Scope(term *TerminationFlag, fn func(*Scope)) error {
	if e.ctx.Err() != nil {
		return ErrExecutorStopped
	}
	s := &Scope{exec: e, term: term}
	fn(s)
	s.wg.Wait()

	if !term.Running() {
		return ErrTerminated
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ParallelFor partitions [start, end) across the pool and applies fn to every
// id. It returns ErrTerminated if the flag fires before completion; which ids
// were dispatched past that point is undefined.
func (e *Executor) ParallelFor(start, end int64, term *TerminationFlag, fn func(id int64)) error {
	return e.ParallelForWorker(start, end, term, func(_ int, id int64) { fn(id) })
}

// ParallelForWorker is ParallelFor with the executing worker index exposed,
// for callers that accumulate into worker-local cells.
func (e *Executor) ParallelForWorker(start, end int64, term *TerminationFlag, fn func(worker int, id int64)) error {
	if end <= start {
		return nil
	}
	parts := partition.RangePartition(end-start, e.numWorkers)
	return e.Scope(term, func(s *Scope) {
		for _, p := range parts {
			p := p
			s.Spawn(func(worker int) error {
				for id := p.StartNode; id < p.EndNode(); id++ {
					if !term.Running() {
						return ErrTerminated
					}
					fn(worker, start+id)
				}
				return nil
			})
		}
	})
}

// ParallelReduce maps every id in [start, end) through mapFn and folds the
// per-partition results with reduceFn, starting from identity. reduceFn must
// be associative; it runs single-threaded at the barrier.
func ParallelReduce[T any](e *Executor, start, end int64, term *TerminationFlag, identity T, mapFn func(id int64) T, reduceFn func(a, b T) T) (T, error) {
	if end <= start {
		return identity, nil
	}
	parts := partition.RangePartition(end-start, e.numWorkers)
	partials := make([]T, len(parts))
	for i := range partials {
		partials[i] = identity
	}

	err := e.Scope(term, func(s *Scope) {
		for pi, p := range parts {
			pi, p := pi, p
			s.Spawn(func(worker int) error {
				acc := identity
				for id := p.StartNode; id < p.EndNode(); id++ {
					if !term.Running() {
						return ErrTerminated
					}
					acc = reduceFn(acc, mapFn(start+id))
				}
				partials[pi] = acc
				return nil
			})
		}
	})
	if err != nil {
		return identity, err
	}

	out := identity
	for _, p := range partials {
		out = reduceFn(out, p)
	}
	return out, nil
}

// ParallelMap applies fn to every id in [start, end) and returns the results
// in id order.
func ParallelMap[R any](e *Executor, start, end int64, term *TerminationFlag, fn func(id int64) R) ([]R, error) {
	if end <= start {
		return nil, nil
	}
	results := make([]R, end-start)
	err := e.ParallelFor(start, end, term, func(id int64) {
		results[id-start] = fn(id)
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ExecutorStats reports pool-level metrics.
type ExecutorStats struct {
	NumWorkers   int
	QueueLengths []int
	TotalQueued  int
}

// Stats returns a snapshot of pool metrics.
func (e *Executor) Stats() ExecutorStats {
	lengths := make([]int, len(e.queues))
	total := 0
	for i, q := range e.queues {
		l := len(q)
		lengths[i] = l
		total += l
	}
	return ExecutorStats{
		NumWorkers:   e.numWorkers,
		QueueLengths: lengths,
		TotalQueued:  total,
	}
}
