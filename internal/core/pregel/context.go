package pregel

import (
	"github.com/graphbeam/graphbeam/internal/core/collections"
	"github.com/graphbeam/graphbeam/internal/core/graphstore"
)

// nodeContext is the state shared by the per-node context views. One instance
// is reused per worker; reset rebinds it to the next node id.
type nodeContext struct {
	graph  graphstore.Graph
	values *NodeValues
	config Config
	nodeID int64
	err    error
}

// record keeps the first accessor error; the driver surfaces it at the
// barrier instead of interrupting other workers mid-node.
func (c *nodeContext) record(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Err returns the first error recorded by an accessor on this node.
func (c *nodeContext) Err() error { return c.err }

// NodeID returns the mapped id of the node being computed.
func (c *nodeContext) NodeID() int64 { return c.nodeID }

// NodeCount returns the total node count of the graph.
func (c *nodeContext) NodeCount() int64 { return c.graph.NodeCount() }

// Degree returns the out-degree of the node being computed.
func (c *nodeContext) Degree() int { return c.graph.DegreeOf(c.nodeID) }

// Config returns the run configuration.
func (c *nodeContext) Config() Config { return c.config }

// LongNodeValue returns the long value of field for this node. A type
// mismatch is recorded and zero returned; the run fails at the barrier.
func (c *nodeContext) LongNodeValue(field string) int64 {
	v, err := c.values.LongValue(field, c.nodeID)
	if err != nil {
		c.record(err)
	}
	return v
}

// DoubleNodeValue returns the double value of field for this node.
func (c *nodeContext) DoubleNodeValue(field string) float64 {
	v, err := c.values.DoubleValue(field, c.nodeID)
	if err != nil {
		c.record(err)
	}
	return v
}

// LongArrayNodeValue returns the long-array value of field for this node.
func (c *nodeContext) LongArrayNodeValue(field string) []int64 {
	v, err := c.values.LongArrayValue(field, c.nodeID)
	if err != nil {
		c.record(err)
	}
	return v
}

// DoubleArrayNodeValue returns the double-array value of field for this node.
func (c *nodeContext) DoubleArrayNodeValue(field string) []float64 {
	v, err := c.values.DoubleArrayValue(field, c.nodeID)
	if err != nil {
		c.record(err)
	}
	return v
}

// SetNodeValue stores a long value for field on this node.
func (c *nodeContext) SetNodeValue(field string, v int64) {
	if err := c.values.SetLong(field, c.nodeID, v); err != nil {
		c.record(err)
	}
}

// SetDoubleNodeValue stores a double value for field on this node.
func (c *nodeContext) SetDoubleNodeValue(field string, v float64) {
	if err := c.values.SetDouble(field, c.nodeID, v); err != nil {
		c.record(err)
	}
}

// SetLongArrayNodeValue stores a long-array value for field on this node.
func (c *nodeContext) SetLongArrayNodeValue(field string, v []int64) {
	if err := c.values.SetLongArray(field, c.nodeID, v); err != nil {
		c.record(err)
	}
}

// SetDoubleArrayNodeValue stores a double-array value for field on this node.
func (c *nodeContext) SetDoubleArrayNodeValue(field string, v []float64) {
	if err := c.values.SetDoubleArray(field, c.nodeID, v); err != nil {
		c.record(err)
	}
}

// InitContext is the per-node view passed to Computation.Init at the start
// of superstep 0. It can read and write node values but not send messages.
type InitContext struct {
	nodeContext
}

// ComputeContext is the ephemeral per-(node, superstep) view passed to
// Computation.Compute. It never outlives one compute invocation.
type ComputeContext struct {
	nodeContext
	superstep int
	messenger Messenger
	votes     *collections.HugeAtomicBitSet
}

// Superstep returns the current superstep, starting at 0.
func (c *ComputeContext) Superstep() int { return c.superstep }

// Messages returns a single-pass iterator over this node's deliverable
// messages. Iterating consumes them; a second call in the same superstep
// yields nothing.
func (c *ComputeContext) Messages() MessageIterator {
	return c.messenger.Messages(c.nodeID)
}

// IsInitialSuperstep reports whether this is superstep 0.
func (c *ComputeContext) IsInitialSuperstep() bool { return c.superstep == 0 }

// SendTo sends value to target, deliverable in the next superstep (or
// immediately in asynchronous mode).
func (c *ComputeContext) SendTo(target int64, value float64) {
	if err := c.messenger.SendTo(c.nodeID, target, value); err != nil {
		c.record(err)
	}
}

// SendToNeighbors sends value to every out-neighbor of this node.
func (c *ComputeContext) SendToNeighbors(value float64) {
	c.graph.ForEachRelationship(c.nodeID, func(source, target int64) bool {
		if err := c.messenger.SendTo(source, target, value); err != nil {
			c.record(err)
			return false
		}
		return true
	})
}

// ForEachNeighbor calls fn for every out-neighbor of this node.
func (c *ComputeContext) ForEachNeighbor(fn func(target int64) bool) {
	c.graph.ForEachRelationship(c.nodeID, func(_, target int64) bool {
		return fn(target)
	})
}

// VoteToHalt marks this node as wanting to halt. The node is reactivated if
// a message arrives for it before a later superstep.
func (c *ComputeContext) VoteToHalt() {
	c.votes.Set(c.nodeID)
}

// MasterContext is the single-threaded barrier view passed to an optional
// MasterComputation after each superstep.
type MasterContext struct {
	superstep       int
	nodeCount       int64
	activeNodeCount int64
	pendingMessages int64
}

// Superstep returns the superstep that just completed.
func (c *MasterContext) Superstep() int { return c.superstep }

// NodeCount returns the total node count of the graph.
func (c *MasterContext) NodeCount() int64 { return c.nodeCount }

// ActiveNodeCount returns the number of nodes that have not voted to halt.
func (c *MasterContext) ActiveNodeCount() int64 { return c.activeNodeCount }

// PendingMessages returns the message backlog for the next superstep.
func (c *MasterContext) PendingMessages() int64 { return c.pendingMessages }
