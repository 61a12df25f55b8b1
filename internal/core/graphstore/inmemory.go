package graphstore

import (
	"fmt"
	"sort"
)

// InMemoryGraph is a compressed-adjacency in-memory Graph implementation.
// Topology is stored CSR-style: one offsets array indexed by mapped id and
// one flat targets array, so relationship iteration allocates nothing.
type InMemoryGraph struct {
	originalIDs []int64
	mapped      map[int64]int64
	offsets     []int64
	targets     []int64
	properties  map[string]NodePropertyValues
}

// NodeCount returns the number of nodes.
func (g *InMemoryGraph) NodeCount() int64 {
	return int64(len(g.originalIDs))
}

// ToMappedNodeID translates an original id to its dense mapped id.
func (g *InMemoryGraph) ToMappedNodeID(originalID int64) (int64, bool) {
	id, ok := g.mapped[originalID]
	return id, ok
}

// ToOriginalNodeID translates a mapped id back to the original id.
func (g *InMemoryGraph) ToOriginalNodeID(mappedID int64) int64 {
	return g.originalIDs[mappedID]
}

// DegreeOf returns the out-degree of the node.
func (g *InMemoryGraph) DegreeOf(nodeID int64) int {
	return int(g.offsets[nodeID+1] - g.offsets[nodeID])
}

// ForEachRelationship iterates outgoing relationships of nodeID.
func (g *InMemoryGraph) ForEachRelationship(nodeID int64, fn func(source, target int64) bool) {
	for i := g.offsets[nodeID]; i < g.offsets[nodeID+1]; i++ {
		if !fn(nodeID, g.targets[i]) {
			return
		}
	}
}

// NodeProperties resolves a property container by key.
func (g *InMemoryGraph) NodeProperties(key string) (NodePropertyValues, bool) {
	p, ok := g.properties[key]
	return p, ok
}

// GraphBuilder assembles an InMemoryGraph from original-id nodes and
// relationships.
type GraphBuilder struct {
	nodes      []int64
	seen       map[int64]struct{}
	rels       [][2]int64
	longProps  map[string][]int64
	dblProps   map[string][]float64
	longArrays map[string][][]int64
	dblArrays  map[string][][]float64
}

// NewGraphBuilder returns an empty builder.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		seen:       make(map[int64]struct{}),
		longProps:  make(map[string][]int64),
		dblProps:   make(map[string][]float64),
		longArrays: make(map[string][][]int64),
		dblArrays:  make(map[string][][]float64),
	}
}

// AddNode registers a node by its original id. Duplicates are ignored.
func (b *GraphBuilder) AddNode(originalID int64) *GraphBuilder {
	if _, ok := b.seen[originalID]; !ok {
		b.seen[originalID] = struct{}{}
		b.nodes = append(b.nodes, originalID)
	}
	return b
}

// AddRelationship registers a directed relationship between original ids,
// adding endpoints implicitly.
func (b *GraphBuilder) AddRelationship(sourceOriginal, targetOriginal int64) *GraphBuilder {
	b.AddNode(sourceOriginal)
	b.AddNode(targetOriginal)
	b.rels = append(b.rels, [2]int64{sourceOriginal, targetOriginal})
	return b
}

// WithLongProperty attaches a long property; values are indexed by mapped id
// (insertion order of nodes).
func (b *GraphBuilder) WithLongProperty(key string, values []int64) *GraphBuilder {
	b.longProps[key] = values
	return b
}

// WithDoubleProperty attaches a double property indexed by mapped id.
func (b *GraphBuilder) WithDoubleProperty(key string, values []float64) *GraphBuilder {
	b.dblProps[key] = values
	return b
}

// WithLongArrayProperty attaches a long-array property indexed by mapped id.
func (b *GraphBuilder) WithLongArrayProperty(key string, values [][]int64) *GraphBuilder {
	b.longArrays[key] = values
	return b
}

// WithDoubleArrayProperty attaches a double-array property indexed by mapped id.
func (b *GraphBuilder) WithDoubleArrayProperty(key string, values [][]float64) *GraphBuilder {
	b.dblArrays[key] = values
	return b
}

// Build freezes the builder into an InMemoryGraph. Mapped ids are assigned by
// node insertion order. Property value slices must match the node count.
func (b *GraphBuilder) Build() (*InMemoryGraph, error) {
	n := len(b.nodes)
	mapped := make(map[int64]int64, n)
	for i, orig := range b.nodes {
		mapped[orig] = int64(i)
	}

	// CSR assembly: count degrees, then place targets.
	degrees := make([]int64, n)
	for _, r := range b.rels {
		degrees[mapped[r[0]]]++
	}
	offsets := make([]int64, n+1)
	for i := 0; i < n; i++ {
		offsets[i+1] = offsets[i] + degrees[i]
	}
	targets := make([]int64, len(b.rels))
	cursor := make([]int64, n)
	for _, r := range b.rels {
		src := mapped[r[0]]
		targets[offsets[src]+cursor[src]] = mapped[r[1]]
		cursor[src]++
	}
	// Deterministic iteration order per source node.
	for i := 0; i < n; i++ {
		seg := targets[offsets[i]:offsets[i+1]]
		sort.Slice(seg, func(a, b int) bool { return seg[a] < seg[b] })
	}

	props := make(map[string]NodePropertyValues)
	for key, vals := range b.longProps {
		if len(vals) != n {
			return nil, fmt.Errorf("graphstore: property %q has %d values for %d nodes", key, len(vals), n)
		}
		props[key] = longProperties(vals)
	}
	for key, vals := range b.dblProps {
		if len(vals) != n {
			return nil, fmt.Errorf("graphstore: property %q has %d values for %d nodes", key, len(vals), n)
		}
		props[key] = doubleProperties(vals)
	}
	for key, vals := range b.longArrays {
		if len(vals) != n {
			return nil, fmt.Errorf("graphstore: property %q has %d values for %d nodes", key, len(vals), n)
		}
		props[key] = longArrayProperties(vals)
	}
	for key, vals := range b.dblArrays {
		if len(vals) != n {
			return nil, fmt.Errorf("graphstore: property %q has %d values for %d nodes", key, len(vals), n)
		}
		props[key] = doubleArrayProperties(vals)
	}

	copied := make([]int64, n)
	copy(copied, b.nodes)
	return &InMemoryGraph{
		originalIDs: copied,
		mapped:      mapped,
		offsets:     offsets,
		targets:     targets,
		properties:  props,
	}, nil
}

type longProperties []int64

func (p longProperties) Kind() PropertyKind                    { return PropertyLong }
func (p longProperties) LongValue(nodeID int64) int64          { return p[nodeID] }
func (p longProperties) DoubleValue(nodeID int64) float64      { return float64(p[nodeID]) }
func (p longProperties) LongArrayValue(int64) []int64          { return nil }
func (p longProperties) DoubleArrayValue(int64) []float64      { return nil }

type doubleProperties []float64

func (p doubleProperties) Kind() PropertyKind                  { return PropertyDouble }
func (p doubleProperties) LongValue(nodeID int64) int64        { return int64(p[nodeID]) }
func (p doubleProperties) DoubleValue(nodeID int64) float64    { return p[nodeID] }
func (p doubleProperties) LongArrayValue(int64) []int64        { return nil }
func (p doubleProperties) DoubleArrayValue(int64) []float64    { return nil }

type longArrayProperties [][]int64

func (p longArrayProperties) Kind() PropertyKind                   { return PropertyLongArray }
func (p longArrayProperties) LongValue(int64) int64                { return 0 }
func (p longArrayProperties) DoubleValue(int64) float64            { return 0 }
func (p longArrayProperties) LongArrayValue(nodeID int64) []int64  { return p[nodeID] }
func (p longArrayProperties) DoubleArrayValue(int64) []float64     { return nil }

type doubleArrayProperties [][]float64

func (p doubleArrayProperties) Kind() PropertyKind                      { return PropertyDoubleArray }
func (p doubleArrayProperties) LongValue(int64) int64                   { return 0 }
func (p doubleArrayProperties) DoubleValue(int64) float64               { return 0 }
func (p doubleArrayProperties) LongArrayValue(int64) []int64            { return nil }
func (p doubleArrayProperties) DoubleArrayValue(nodeID int64) []float64 { return p[nodeID] }
