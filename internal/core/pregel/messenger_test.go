package pregel

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(it MessageIterator) []float64 {
	var out []float64
	for {
		v, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func TestSyncMessenger_OneSuperstepDelay(t *testing.T) {
	m := NewSyncQueueMessenger(5, false)
	m.InitIteration(0)

	// Sent during superstep 0...
	require.NoError(t, m.SendTo(0, 3, 1.5))

	// ...absent from superstep 0's delivery side.
	assert.False(t, m.HasMessages(3))
	assert.Empty(t, drain(m.Messages(3)))
	assert.Equal(t, int64(1), m.PendingMessageCount())

	// Present exactly once after the swap into superstep 1.
	m.InitIteration(1)
	assert.True(t, m.HasMessages(3))
	assert.Equal(t, []float64{1.5}, drain(m.Messages(3)))

	// A second drain of the same superstep yields nothing.
	assert.Empty(t, drain(m.Messages(3)))
	assert.False(t, m.HasMessages(3))

	// And nothing carries into superstep 2.
	m.InitIteration(2)
	assert.Empty(t, drain(m.Messages(3)))
}

func TestSyncMessenger_MultipleMessagesInOrder(t *testing.T) {
	m := NewSyncQueueMessenger(4, false)
	m.InitIteration(0)
	require.NoError(t, m.SendTo(0, 2, 1))
	require.NoError(t, m.SendTo(1, 2, 2))
	require.NoError(t, m.SendTo(3, 2, 3))

	m.InitIteration(1)
	assert.Equal(t, []float64{1, 2, 3}, drain(m.Messages(2)))
}

func TestSyncMessenger_TargetOutOfRange(t *testing.T) {
	m := NewSyncQueueMessenger(3, false)
	assert.ErrorIs(t, m.SendTo(0, 3, 1.0), ErrNodeIDOutOfRange)
	assert.ErrorIs(t, m.SendTo(0, -1, 1.0), ErrNodeIDOutOfRange)
}

func TestSyncMessenger_SenderTracking(t *testing.T) {
	m := NewSyncQueueMessenger(4, true)
	m.InitIteration(0)
	require.NoError(t, m.SendTo(1, 0, 10))
	require.NoError(t, m.SendTo(2, 0, 20))

	m.InitIteration(1)
	it := m.Messages(0)

	v, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, 10.0, v)
	assert.Equal(t, int64(1), it.Sender())

	v, ok = it.Next()
	require.True(t, ok)
	assert.Equal(t, 20.0, v)
	assert.Equal(t, int64(2), it.Sender())
}

func TestSyncMessenger_NoSenderWhenUntracked(t *testing.T) {
	m := NewSyncQueueMessenger(2, false)
	m.InitIteration(0)
	require.NoError(t, m.SendTo(0, 1, 1))
	m.InitIteration(1)

	it := m.Messages(1)
	_, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, int64(-1), it.Sender())
}

func TestSyncMessenger_ConcurrentSends(t *testing.T) {
	const nodes = 100
	const sendersPerNode = 8
	m := NewSyncQueueMessenger(nodes, false)
	m.InitIteration(0)

	var wg sync.WaitGroup
	for w := 0; w < sendersPerNode; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := int64(0); target < nodes; target++ {
				_ = m.SendTo(0, target, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(nodes*sendersPerNode), m.PendingMessageCount())
	m.InitIteration(1)
	for target := int64(0); target < nodes; target++ {
		require.Len(t, drain(m.Messages(target)), sendersPerNode)
	}
}

func TestAsyncMessenger_ImmediateVisibility(t *testing.T) {
	m := NewAsyncQueueMessenger(3)
	m.InitIteration(0)

	require.NoError(t, m.SendTo(0, 1, 2.5))
	assert.True(t, m.HasMessages(1))
	assert.Equal(t, []float64{2.5}, drain(m.Messages(1)))
	assert.Equal(t, int64(0), m.PendingMessageCount())
	assert.Empty(t, drain(m.Messages(1)))
}

func TestReducingMessenger_SumsIntoOneValue(t *testing.T) {
	m := NewReducingMessenger(4, SumReducer{}, false)
	m.InitIteration(0)
	require.NoError(t, m.SendTo(0, 2, 1.5))
	require.NoError(t, m.SendTo(1, 2, 2.5))
	require.NoError(t, m.SendTo(3, 2, 4.0))

	m.InitIteration(1)
	assert.True(t, m.HasMessages(2))
	assert.Equal(t, []float64{8.0}, drain(m.Messages(2)))
	assert.Empty(t, drain(m.Messages(2)))
}

func TestReducingMessenger_MinTracksArgminSender(t *testing.T) {
	m := NewReducingMessenger(4, MinReducer{}, true)
	m.InitIteration(0)
	require.NoError(t, m.SendTo(1, 0, 5))
	require.NoError(t, m.SendTo(2, 0, 3))
	require.NoError(t, m.SendTo(3, 0, 4))

	m.InitIteration(1)
	it := m.Messages(0)
	v, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
	assert.Equal(t, int64(2), it.Sender())
}

func TestReducingMessenger_CountDiscardsValues(t *testing.T) {
	m := NewReducingMessenger(2, CountReducer{}, false)
	m.InitIteration(0)
	require.NoError(t, m.SendTo(0, 1, 100))
	require.NoError(t, m.SendTo(0, 1, 200))
	require.NoError(t, m.SendTo(0, 1, 300))

	m.InitIteration(1)
	assert.Equal(t, []float64{3}, drain(m.Messages(1)))
}

func TestReducers(t *testing.T) {
	assert.Equal(t, 7.0, SumReducer{}.Reduce(3, 4))
	assert.Equal(t, 3.0, MinReducer{}.Reduce(3, 4))
	assert.Equal(t, 4.0, MaxReducer{}.Reduce(3, 4))
	assert.Equal(t, 4.0, CountReducer{}.Reduce(3, 99))
	assert.Equal(t, 0.0, CountReducer{}.Identity())
}
