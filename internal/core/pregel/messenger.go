package pregel

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/graphbeam/graphbeam/internal/core/collections"
)
import imetrics "github.com/graphbeam/graphbeam/internal/infrastructure/metrics"

// Messenger carries float64 messages between nodes across superstep
// boundaries.
// PRINCIPLES:
// - SendTo is thread-safe and may be called by any worker for any target
// - InitIteration is a barrier-only operation, never interleaved with sends
// - The synchronous variant delays message visibility by exactly one superstep
type Messenger interface {
	// InitIteration prepares delivery for the given superstep. For the
	// synchronous messenger this is the buffer swap.
	InitIteration(superstep int)
	// SendTo appends a message for target. source is recorded only by
	// sender-tracking messengers.
	SendTo(source, target int64, value float64) error
	// Messages returns a single-pass iterator over target's deliverable
	// messages. Messages are consumed by iteration; a second call before
	// the next InitIteration yields nothing.
	Messages(target int64) MessageIterator
	// HasMessages reports whether target has undelivered messages in the
	// current iteration.
	HasMessages(target int64) bool
	// PendingMessageCount returns the number of messages sent since the
	// last InitIteration, i.e. the backlog for the next superstep.
	// Barrier-only.
	PendingMessageCount() int64
}

// MessageIterator drains one message at a time. Sender reports the source of
// the message most recently returned by Next, or -1 when the messenger does
// not track senders.
type MessageIterator interface {
	Next() (float64, bool)
	Sender() int64
}

const numStripes = 1024

type stripedLocks [numStripes]sync.Mutex

func (s *stripedLocks) lock(node int64) *sync.Mutex {
	return &s[node&(numStripes-1)]
}

// emptyIterator is shared by all nodes without messages.
type emptyIterator struct{}

func (emptyIterator) Next() (float64, bool) { return 0, false }
func (emptyIterator) Sender() int64         { return -1 }

type queueIterator struct {
	values  []float64
	senders []int64
	idx     int
}

func (it *queueIterator) Next() (float64, bool) {
	if it.idx >= len(it.values) {
		return 0, false
	}
	v := it.values[it.idx]
	it.idx++
	return v, true
}

func (it *queueIterator) Sender() int64 {
	if it.senders == nil || it.idx == 0 {
		return -1
	}
	return it.senders[it.idx-1]
}

// SyncQueueMessenger implements the BSP contract with two buffers per node:
// "current" is readable this superstep, "next" collects sends for the
// following one. A message enqueued during superstep S is invisible until the
// swap that begins superstep S+1.
type SyncQueueMessenger struct {
	nodeCount   int64
	trackSender bool

	current *collections.HugeObjectArray[[]float64]
	next    *collections.HugeObjectArray[[]float64]

	currentSenders *collections.HugeObjectArray[[]int64]
	nextSenders    *collections.HugeObjectArray[[]int64]

	locks stripedLocks
	sent  atomic.Int64
}

// NewSyncQueueMessenger creates a synchronous messenger for nodeCount nodes.
func NewSyncQueueMessenger(nodeCount int64, trackSender bool) *SyncQueueMessenger {
	m := &SyncQueueMessenger{
		nodeCount:   nodeCount,
		trackSender: trackSender,
		current:     collections.NewHugeObjectArray[[]float64](nodeCount),
		next:        collections.NewHugeObjectArray[[]float64](nodeCount),
	}
	if trackSender {
		m.currentSenders = collections.NewHugeObjectArray[[]int64](nodeCount)
		m.nextSenders = collections.NewHugeObjectArray[[]int64](nodeCount)
	}
	return m
}

// InitIteration swaps the buffers: sends from the previous superstep become
// deliverable, and the emptied previous delivery buffers become the new
// collection side. Barrier-only.
func (m *SyncQueueMessenger) InitIteration(superstep int) {
	if superstep == 0 {
		return
	}
	m.current, m.next = m.next, m.current
	if m.trackSender {
		m.currentSenders, m.nextSenders = m.nextSenders, m.currentSenders
	}
	// Truncate the new collection side, keeping queue capacity.
	for id := int64(0); id < m.nodeCount; id++ {
		if q := m.next.Ref(id); *q != nil {
			*q = (*q)[:0]
		}
		if m.trackSender {
			if q := m.nextSenders.Ref(id); *q != nil {
				*q = (*q)[:0]
			}
		}
	}
	m.sent.Store(0)
}

// SendTo appends value to target's next-superstep buffer. Thread-safe.
func (m *SyncQueueMessenger) SendTo(source, target int64, value float64) error {
	if target < 0 || target >= m.nodeCount {
		return fmt.Errorf("%w: message target %d", ErrNodeIDOutOfRange, target)
	}
	lock := m.locks.lock(target)
	lock.Lock()
	q := m.next.Ref(target)
	*q = append(*q, value)
	if m.trackSender {
		sq := m.nextSenders.Ref(target)
		*sq = append(*sq, source)
	}
	lock.Unlock()
	m.sent.Add(1)
	imetrics.MessagesSent("sync", 1)
	return nil
}

// Messages takes ownership of target's current buffer. The returned iterator
// is a single full consumption pass; querying again before the next swap
// yields nothing.
func (m *SyncQueueMessenger) Messages(target int64) MessageIterator {
	q := m.current.Ref(target)
	if len(*q) == 0 {
		return emptyIterator{}
	}
	values := *q
	*q = (*q)[len(*q):]
	var senders []int64
	if m.trackSender {
		sq := m.currentSenders.Ref(target)
		senders = *sq
		*sq = (*sq)[len(*sq):]
	}
	imetrics.MessagesDrained("sync", int64(len(values)))
	return &queueIterator{values: values, senders: senders}
}

// HasMessages reports whether target has deliverable messages this superstep.
func (m *SyncQueueMessenger) HasMessages(target int64) bool {
	return len(m.current.Get(target)) > 0
}

// PendingMessageCount returns the count of messages sent since the last swap.
func (m *SyncQueueMessenger) PendingMessageCount() int64 {
	return m.sent.Load()
}

// AsyncQueueMessenger delivers messages immediately: a send during superstep
// S is visible to the target in the same superstep if the target has not yet
// been computed. Selected by the IsAsynchronous option; the one-superstep
// delay contract does not hold here.
type AsyncQueueMessenger struct {
	nodeCount int64
	queues    *collections.HugeObjectArray[[]float64]
	locks     stripedLocks
	pending   atomic.Int64
}

// NewAsyncQueueMessenger creates an asynchronous messenger for nodeCount nodes.
func NewAsyncQueueMessenger(nodeCount int64) *AsyncQueueMessenger {
	return &AsyncQueueMessenger{
		nodeCount: nodeCount,
		queues:    collections.NewHugeObjectArray[[]float64](nodeCount),
	}
}

// InitIteration is a no-op: there is no buffer swap in asynchronous mode.
func (m *AsyncQueueMessenger) InitIteration(superstep int) {}

// SendTo appends value to target's queue, immediately visible.
func (m *AsyncQueueMessenger) SendTo(source, target int64, value float64) error {
	if target < 0 || target >= m.nodeCount {
		return fmt.Errorf("%w: message target %d", ErrNodeIDOutOfRange, target)
	}
	lock := m.locks.lock(target)
	lock.Lock()
	q := m.queues.Ref(target)
	*q = append(*q, value)
	lock.Unlock()
	m.pending.Add(1)
	imetrics.MessagesSent("async", 1)
	return nil
}

// Messages drains target's queue.
func (m *AsyncQueueMessenger) Messages(target int64) MessageIterator {
	lock := m.locks.lock(target)
	lock.Lock()
	q := m.queues.Ref(target)
	if len(*q) == 0 {
		lock.Unlock()
		return emptyIterator{}
	}
	values := make([]float64, len(*q))
	copy(values, *q)
	*q = (*q)[:0]
	lock.Unlock()
	m.pending.Add(-int64(len(values)))
	imetrics.MessagesDrained("async", int64(len(values)))
	return &queueIterator{values: values}
}

// HasMessages reports whether target has undrained messages.
func (m *AsyncQueueMessenger) HasMessages(target int64) bool {
	lock := m.locks.lock(target)
	lock.Lock()
	defer lock.Unlock()
	return len(m.queues.Get(target)) > 0
}

// PendingMessageCount returns the undrained message count.
func (m *AsyncQueueMessenger) PendingMessageCount() int64 {
	return m.pending.Load()
}
