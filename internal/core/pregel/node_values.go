package pregel

import (
	"fmt"

	"github.com/graphbeam/graphbeam/internal/core/collections"
)

// NodeValues is the columnar per-node state store: one huge array per schema
// field, addressed by mapped node id. A node's slice of every column is
// exclusively owned by the single worker currently computing that node, so
// per-node reads and writes need no locking.
type NodeValues struct {
	schema    Schema
	nodeCount int64

	longs      map[string]*collections.HugeLongArray
	doubles    map[string]*collections.HugeDoubleArray
	longArrs   map[string]*collections.HugeObjectArray[[]int64]
	doubleArrs map[string]*collections.HugeObjectArray[[]float64]
}

// NewNodeValues allocates one column per schema field sized to nodeCount and
// applies per-field defaults.
func NewNodeValues(schema Schema, nodeCount int64) *NodeValues {
	nv := &NodeValues{
		schema:     schema,
		nodeCount:  nodeCount,
		longs:      make(map[string]*collections.HugeLongArray),
		doubles:    make(map[string]*collections.HugeDoubleArray),
		longArrs:   make(map[string]*collections.HugeObjectArray[[]int64]),
		doubleArrs: make(map[string]*collections.HugeObjectArray[[]float64]),
	}
	for _, el := range schema.Elements() {
		switch el.Type {
		case ValueTypeLong:
			arr := collections.NewHugeLongArray(nodeCount)
			if el.hasDefault {
				if def, err := el.Default.Long(); err == nil && def != 0 {
					arr.Fill(def)
				}
			}
			nv.longs[el.Name] = arr
		case ValueTypeDouble:
			arr := collections.NewHugeDoubleArray(nodeCount)
			if el.hasDefault {
				if def, err := el.Default.Double(); err == nil && def != 0 {
					arr.Fill(def)
				}
			}
			nv.doubles[el.Name] = arr
		case ValueTypeLongArray:
			nv.longArrs[el.Name] = collections.NewHugeObjectArray[[]int64](nodeCount)
		case ValueTypeDoubleArray:
			nv.doubleArrs[el.Name] = collections.NewHugeObjectArray[[]float64](nodeCount)
		}
	}
	return nv
}

// NodeCount returns the fixed length of every column.
func (nv *NodeValues) NodeCount() int64 { return nv.nodeCount }

// Schema returns the schema the store was built from.
func (nv *NodeValues) Schema() Schema { return nv.schema }

func (nv *NodeValues) checkNode(nodeID int64) error {
	if nodeID < 0 || nodeID >= nv.nodeCount {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrNodeIDOutOfRange, nodeID, nv.nodeCount)
	}
	return nil
}

func (nv *NodeValues) mismatch(field string, want ValueType) error {
	el, ok := nv.schema.Element(field)
	if !ok {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, field)
	}
	return fmt.Errorf("%w: field %q is %s, requested %s", ErrSchemaMismatch, field, el.Type, want)
}

// LongValue returns the long value of field at nodeID.
func (nv *NodeValues) LongValue(field string, nodeID int64) (int64, error) {
	arr, ok := nv.longs[field]
	if !ok {
		return 0, nv.mismatch(field, ValueTypeLong)
	}
	if err := nv.checkNode(nodeID); err != nil {
		return 0, err
	}
	return arr.Get(nodeID), nil
}

// SetLong stores a long value for field at nodeID.
func (nv *NodeValues) SetLong(field string, nodeID int64, v int64) error {
	arr, ok := nv.longs[field]
	if !ok {
		return nv.mismatch(field, ValueTypeLong)
	}
	if err := nv.checkNode(nodeID); err != nil {
		return err
	}
	arr.Set(nodeID, v)
	return nil
}

// DoubleValue returns the double value of field at nodeID.
func (nv *NodeValues) DoubleValue(field string, nodeID int64) (float64, error) {
	arr, ok := nv.doubles[field]
	if !ok {
		return 0, nv.mismatch(field, ValueTypeDouble)
	}
	if err := nv.checkNode(nodeID); err != nil {
		return 0, err
	}
	return arr.Get(nodeID), nil
}

// SetDouble stores a double value for field at nodeID.
func (nv *NodeValues) SetDouble(field string, nodeID int64, v float64) error {
	arr, ok := nv.doubles[field]
	if !ok {
		return nv.mismatch(field, ValueTypeDouble)
	}
	if err := nv.checkNode(nodeID); err != nil {
		return err
	}
	arr.Set(nodeID, v)
	return nil
}

// LongArrayValue returns the long-array value of field at nodeID.
func (nv *NodeValues) LongArrayValue(field string, nodeID int64) ([]int64, error) {
	arr, ok := nv.longArrs[field]
	if !ok {
		return nil, nv.mismatch(field, ValueTypeLongArray)
	}
	if err := nv.checkNode(nodeID); err != nil {
		return nil, err
	}
	return arr.Get(nodeID), nil
}

// SetLongArray stores a long-array value for field at nodeID.
func (nv *NodeValues) SetLongArray(field string, nodeID int64, v []int64) error {
	arr, ok := nv.longArrs[field]
	if !ok {
		return nv.mismatch(field, ValueTypeLongArray)
	}
	if err := nv.checkNode(nodeID); err != nil {
		return err
	}
	arr.Set(nodeID, v)
	return nil
}

// DoubleArrayValue returns the double-array value of field at nodeID.
func (nv *NodeValues) DoubleArrayValue(field string, nodeID int64) ([]float64, error) {
	arr, ok := nv.doubleArrs[field]
	if !ok {
		return nil, nv.mismatch(field, ValueTypeDoubleArray)
	}
	if err := nv.checkNode(nodeID); err != nil {
		return nil, err
	}
	return arr.Get(nodeID), nil
}

// SetDoubleArray stores a double-array value for field at nodeID.
func (nv *NodeValues) SetDoubleArray(field string, nodeID int64, v []float64) error {
	arr, ok := nv.doubleArrs[field]
	if !ok {
		return nv.mismatch(field, ValueTypeDoubleArray)
	}
	if err := nv.checkNode(nodeID); err != nil {
		return err
	}
	arr.Set(nodeID, v)
	return nil
}

// longColumn and friends expose the backing arrays to the bridge and the
// result export. They bypass type checks; callers resolve the element first.
func (nv *NodeValues) longColumn(field string) *collections.HugeLongArray          { return nv.longs[field] }
func (nv *NodeValues) doubleColumn(field string) *collections.HugeDoubleArray      { return nv.doubles[field] }
func (nv *NodeValues) longArrayColumn(field string) *collections.HugeObjectArray[[]int64]   { return nv.longArrs[field] }
func (nv *NodeValues) doubleArrayColumn(field string) *collections.HugeObjectArray[[]float64] { return nv.doubleArrs[field] }
