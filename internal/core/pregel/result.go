package pregel

import (
	"fmt"

	"github.com/graphbeam/graphbeam/internal/core/collections"
	"github.com/graphbeam/graphbeam/internal/core/graphstore"
)

// Result reports the outcome of one driver run. Exactly one of DidConverge,
// Terminated, or the iteration cap explains why the run stopped; progress
// from completed supersteps is always retained.
type Result struct {
	RunID         string
	RanIterations int
	DidConverge   bool
	Terminated    bool

	schema Schema
	values *NodeValues
}

func (r Result) publicElement(field string) (Element, error) {
	el, ok := r.schema.Element(field)
	if !ok {
		return Element{}, fmt.Errorf("%w: %q", ErrFieldNotFound, field)
	}
	if el.Visibility != VisibilityPublic {
		return Element{}, fmt.Errorf("%w: %q", ErrFieldNotPublic, field)
	}
	return el, nil
}

// LongNodeValues returns the final column of a public long field.
func (r Result) LongNodeValues(field string) (*collections.HugeLongArray, error) {
	el, err := r.publicElement(field)
	if err != nil {
		return nil, err
	}
	if el.Type != ValueTypeLong {
		return nil, fmt.Errorf("%w: field %q is %s, requested long", ErrSchemaMismatch, field, el.Type)
	}
	return r.values.longColumn(field), nil
}

// DoubleNodeValues returns the final column of a public double field.
func (r Result) DoubleNodeValues(field string) (*collections.HugeDoubleArray, error) {
	el, err := r.publicElement(field)
	if err != nil {
		return nil, err
	}
	if el.Type != ValueTypeDouble {
		return nil, fmt.Errorf("%w: field %q is %s, requested double", ErrSchemaMismatch, field, el.Type)
	}
	return r.values.doubleColumn(field), nil
}

// LongArrayNodeValues returns the final column of a public long-array field.
func (r Result) LongArrayNodeValues(field string) (*collections.HugeObjectArray[[]int64], error) {
	el, err := r.publicElement(field)
	if err != nil {
		return nil, err
	}
	if el.Type != ValueTypeLongArray {
		return nil, fmt.Errorf("%w: field %q is %s, requested long_array", ErrSchemaMismatch, field, el.Type)
	}
	return r.values.longArrayColumn(field), nil
}

// DoubleArrayNodeValues returns the final column of a public double-array field.
func (r Result) DoubleArrayNodeValues(field string) (*collections.HugeObjectArray[[]float64], error) {
	el, err := r.publicElement(field)
	if err != nil {
		return nil, err
	}
	if el.Type != ValueTypeDoubleArray {
		return nil, fmt.Errorf("%w: field %q is %s, requested double_array", ErrSchemaMismatch, field, el.Type)
	}
	return r.values.doubleArrayColumn(field), nil
}

// NodeProperty exports a public field as a typed property-values object the
// caller can hand back to the graph store for persistence.
func (r Result) NodeProperty(field string) (graphstore.NodePropertyValues, error) {
	el, err := r.publicElement(field)
	if err != nil {
		return nil, err
	}
	switch el.Type {
	case ValueTypeLong:
		return longColumnProperty{r.values.longColumn(field)}, nil
	case ValueTypeDouble:
		return doubleColumnProperty{r.values.doubleColumn(field)}, nil
	case ValueTypeLongArray:
		return longArrayColumnProperty{r.values.longArrayColumn(field)}, nil
	default:
		return doubleArrayColumnProperty{r.values.doubleArrayColumn(field)}, nil
	}
}

// PublicFields lists the exportable field names in declaration order.
func (r Result) PublicFields() []string {
	var out []string
	for _, el := range r.schema.Elements() {
		if el.Visibility == VisibilityPublic {
			out = append(out, el.Name)
		}
	}
	return out
}

// Schema returns the schema of the run.
func (r Result) Schema() Schema { return r.schema }

type longColumnProperty struct{ col *collections.HugeLongArray }

func (p longColumnProperty) Kind() graphstore.PropertyKind      { return graphstore.PropertyLong }
func (p longColumnProperty) LongValue(nodeID int64) int64       { return p.col.Get(nodeID) }
func (p longColumnProperty) DoubleValue(nodeID int64) float64   { return float64(p.col.Get(nodeID)) }
func (p longColumnProperty) LongArrayValue(int64) []int64       { return nil }
func (p longColumnProperty) DoubleArrayValue(int64) []float64   { return nil }

type doubleColumnProperty struct{ col *collections.HugeDoubleArray }

func (p doubleColumnProperty) Kind() graphstore.PropertyKind    { return graphstore.PropertyDouble }
func (p doubleColumnProperty) LongValue(nodeID int64) int64     { return int64(p.col.Get(nodeID)) }
func (p doubleColumnProperty) DoubleValue(nodeID int64) float64 { return p.col.Get(nodeID) }
func (p doubleColumnProperty) LongArrayValue(int64) []int64     { return nil }
func (p doubleColumnProperty) DoubleArrayValue(int64) []float64 { return nil }

type longArrayColumnProperty struct {
	col *collections.HugeObjectArray[[]int64]
}

func (p longArrayColumnProperty) Kind() graphstore.PropertyKind     { return graphstore.PropertyLongArray }
func (p longArrayColumnProperty) LongValue(int64) int64             { return 0 }
func (p longArrayColumnProperty) DoubleValue(int64) float64         { return 0 }
func (p longArrayColumnProperty) LongArrayValue(nodeID int64) []int64 { return p.col.Get(nodeID) }
func (p longArrayColumnProperty) DoubleArrayValue(int64) []float64  { return nil }

type doubleArrayColumnProperty struct {
	col *collections.HugeObjectArray[[]float64]
}

func (p doubleArrayColumnProperty) Kind() graphstore.PropertyKind        { return graphstore.PropertyDoubleArray }
func (p doubleArrayColumnProperty) LongValue(int64) int64                { return 0 }
func (p doubleArrayColumnProperty) DoubleValue(int64) float64            { return 0 }
func (p doubleArrayColumnProperty) LongArrayValue(int64) []int64         { return nil }
func (p doubleArrayColumnProperty) DoubleArrayValue(nodeID int64) []float64 { return p.col.Get(nodeID) }
