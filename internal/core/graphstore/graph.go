// Package graphstore specifies the boundary to the external graph topology
// and property storage engine, plus an in-memory adapter used by tests and
// the CLI. The computation core only ever sees dense mapped node ids; all
// original-id translation happens at this boundary.
package graphstore

// PropertyKind identifies the storage type of a node property container.
type PropertyKind int

const (
	PropertyLong PropertyKind = iota
	PropertyDouble
	PropertyLongArray
	PropertyDoubleArray
)

func (k PropertyKind) String() string {
	switch k {
	case PropertyLong:
		return "long"
	case PropertyDouble:
		return "double"
	case PropertyLongArray:
		return "long_array"
	case PropertyDoubleArray:
		return "double_array"
	default:
		return "unknown"
	}
}

// NodePropertyValues is the typed per-node property accessor consumed by the
// property bridge at init. Accessors are addressed by mapped node id.
type NodePropertyValues interface {
	Kind() PropertyKind
	LongValue(nodeID int64) int64
	DoubleValue(nodeID int64) float64
	LongArrayValue(nodeID int64) []int64
	DoubleArrayValue(nodeID int64) []float64
}

// Graph is the topology collaborator consumed by the computation core.
// PRINCIPLES:
// - Dense zero-based mapped node ids everywhere inside the core
// - Relationship iteration is single-threaded per source node
type Graph interface {
	NodeCount() int64
	// ToMappedNodeID translates an original graph id to a mapped id.
	ToMappedNodeID(originalID int64) (int64, bool)
	// ToOriginalNodeID translates a mapped id back to the original id.
	ToOriginalNodeID(mappedID int64) int64
	// DegreeOf returns the out-degree of the node.
	DegreeOf(nodeID int64) int
	// ForEachRelationship calls fn for every outgoing relationship of
	// nodeID until fn returns false.
	ForEachRelationship(nodeID int64, fn func(source, target int64) bool)
	// NodeProperties resolves a property container by key.
	NodeProperties(key string) (NodePropertyValues, bool)
}
