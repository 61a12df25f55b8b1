package pregel

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/graphbeam/graphbeam/internal/core/collections"
)
import imetrics "github.com/graphbeam/graphbeam/internal/infrastructure/metrics"

// MessageReducer folds all messages addressed to one node into a single
// value, so per-node storage stays constant regardless of in-degree.
type MessageReducer interface {
	Identity() float64
	Reduce(current, message float64) float64
}

// SumReducer adds messages together.
type SumReducer struct{}

func (SumReducer) Identity() float64                 { return 0 }
func (SumReducer) Reduce(current, m float64) float64 { return current + m }

// MinReducer keeps the smallest message.
type MinReducer struct{}

func (MinReducer) Identity() float64                 { return math.Inf(1) }
func (MinReducer) Reduce(current, m float64) float64 { return math.Min(current, m) }

// MaxReducer keeps the largest message.
type MaxReducer struct{}

func (MaxReducer) Identity() float64                 { return math.Inf(-1) }
func (MaxReducer) Reduce(current, m float64) float64 { return math.Max(current, m) }

// CountReducer counts messages, discarding their values.
type CountReducer struct{}

func (CountReducer) Identity() float64                 { return 0 }
func (CountReducer) Reduce(current, _ float64) float64 { return current + 1 }

// ReducingMessenger keeps one reduced cell per node instead of a queue.
// With TrackSender enabled it also records the sender whose message last
// changed the reduction result (the argmin/argmax for Min/Max reducers).
type ReducingMessenger struct {
	nodeCount   int64
	reducer     MessageReducer
	trackSender bool

	current *collections.HugeDoubleArray
	next    *collections.HugeDoubleArray

	hasCurrent *collections.HugeAtomicBitSet
	hasNext    *collections.HugeAtomicBitSet

	currentSenders *collections.HugeLongArray
	nextSenders    *collections.HugeLongArray

	locks stripedLocks
	sent  atomic.Int64
}

// NewReducingMessenger creates a reducing messenger for nodeCount nodes.
func NewReducingMessenger(nodeCount int64, reducer MessageReducer, trackSender bool) *ReducingMessenger {
	m := &ReducingMessenger{
		nodeCount:   nodeCount,
		reducer:     reducer,
		trackSender: trackSender,
		current:     collections.NewHugeDoubleArray(nodeCount),
		next:        collections.NewHugeDoubleArray(nodeCount),
		hasCurrent:  collections.NewHugeAtomicBitSet(nodeCount),
		hasNext:     collections.NewHugeAtomicBitSet(nodeCount),
	}
	if trackSender {
		m.currentSenders = collections.NewHugeLongArray(nodeCount)
		m.nextSenders = collections.NewHugeLongArray(nodeCount)
	}
	return m
}

// InitIteration swaps the reduced cells. Barrier-only.
func (m *ReducingMessenger) InitIteration(superstep int) {
	if superstep == 0 {
		return
	}
	m.current, m.next = m.next, m.current
	m.hasCurrent, m.hasNext = m.hasNext, m.hasCurrent
	if m.trackSender {
		m.currentSenders, m.nextSenders = m.nextSenders, m.currentSenders
	}
	m.hasNext.Clear()
	m.sent.Store(0)
}

// SendTo folds value into target's next-superstep cell. Thread-safe.
func (m *ReducingMessenger) SendTo(source, target int64, value float64) error {
	if target < 0 || target >= m.nodeCount {
		return fmt.Errorf("%w: message target %d", ErrNodeIDOutOfRange, target)
	}
	lock := m.locks.lock(target)
	lock.Lock()
	if m.hasNext.Get(target) {
		current := m.next.Get(target)
		reduced := m.reducer.Reduce(current, value)
		m.next.Set(target, reduced)
		if m.trackSender && reduced != current {
			m.nextSenders.Set(target, source)
		}
	} else {
		m.next.Set(target, m.reducer.Reduce(m.reducer.Identity(), value))
		if m.trackSender {
			m.nextSenders.Set(target, source)
		}
		m.hasNext.Set(target)
	}
	lock.Unlock()
	m.sent.Add(1)
	imetrics.MessagesSent("reducing", 1)
	return nil
}

// Messages yields at most one reduced value for target, consuming it.
func (m *ReducingMessenger) Messages(target int64) MessageIterator {
	if !m.hasCurrent.Get(target) {
		return emptyIterator{}
	}
	m.hasCurrent.ClearBit(target)
	sender := int64(-1)
	if m.trackSender {
		sender = m.currentSenders.Get(target)
	}
	imetrics.MessagesDrained("reducing", 1)
	return &reducedIterator{value: m.current.Get(target), sender: sender}
}

// HasMessages reports whether target has an unconsumed reduced value.
func (m *ReducingMessenger) HasMessages(target int64) bool {
	return m.hasCurrent.Get(target)
}

// PendingMessageCount returns the count of sends since the last swap.
func (m *ReducingMessenger) PendingMessageCount() int64 {
	return m.sent.Load()
}

type reducedIterator struct {
	value  float64
	sender int64
	done   bool
}

func (it *reducedIterator) Next() (float64, bool) {
	if it.done {
		return 0, false
	}
	it.done = true
	return it.value, true
}

func (it *reducedIterator) Sender() int64 {
	if !it.done {
		return -1
	}
	return it.sender
}
