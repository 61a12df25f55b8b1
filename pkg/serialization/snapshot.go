package serialization

import (
	"fmt"

	"github.com/graphbeam/graphbeam/pkg/graphbeam"
)

// FieldColumn is the exported column for one public field.
type FieldColumn struct {
	Name string `json:"name" msgpack:"name"`
	Type string `json:"type" msgpack:"type"`

	LongValues        []int64     `json:"long_values,omitempty" msgpack:"long_values,omitempty"`
	DoubleValues      []float64   `json:"double_values,omitempty" msgpack:"double_values,omitempty"`
	LongArrayValues   [][]int64   `json:"long_array_values,omitempty" msgpack:"long_array_values,omitempty"`
	DoubleArrayValues [][]float64 `json:"double_array_values,omitempty" msgpack:"double_array_values,omitempty"`
}

// Snapshot is the wire shape of one run's public node values. Columns are
// indexed by mapped node id; OriginalIDs restores the caller's id space.
type Snapshot struct {
	RunID         string `json:"run_id" msgpack:"run_id"`
	RanIterations int    `json:"ran_iterations" msgpack:"ran_iterations"`
	DidConverge   bool   `json:"did_converge" msgpack:"did_converge"`

	NodeCount   int64         `json:"node_count" msgpack:"node_count"`
	OriginalIDs []int64       `json:"original_ids" msgpack:"original_ids"`
	Fields      []FieldColumn `json:"fields" msgpack:"fields"`
}

// BuildSnapshot extracts every public field of result into columnar form.
func BuildSnapshot(result graphbeam.Result, g graphbeam.Graph) (*Snapshot, error) {
	nodeCount := g.NodeCount()
	snap := &Snapshot{
		RunID:         result.RunID,
		RanIterations: result.RanIterations,
		DidConverge:   result.DidConverge,
		NodeCount:     nodeCount,
		OriginalIDs:   make([]int64, nodeCount),
	}
	for id := int64(0); id < nodeCount; id++ {
		snap.OriginalIDs[id] = g.ToOriginalNodeID(id)
	}

	schema := result.Schema()
	for _, name := range result.PublicFields() {
		el, _ := schema.Element(name)
		col := FieldColumn{Name: name, Type: el.Type.String()}

		switch el.Type {
		case graphbeam.ValueTypeLong:
			values, err := result.LongNodeValues(name)
			if err != nil {
				return nil, err
			}
			col.LongValues = values.ToSlice()
		case graphbeam.ValueTypeDouble:
			values, err := result.DoubleNodeValues(name)
			if err != nil {
				return nil, err
			}
			col.DoubleValues = values.ToSlice()
		case graphbeam.ValueTypeLongArray:
			values, err := result.LongArrayNodeValues(name)
			if err != nil {
				return nil, err
			}
			col.LongArrayValues = make([][]int64, nodeCount)
			for id := int64(0); id < nodeCount; id++ {
				col.LongArrayValues[id] = values.Get(id)
			}
		case graphbeam.ValueTypeDoubleArray:
			values, err := result.DoubleArrayNodeValues(name)
			if err != nil {
				return nil, err
			}
			col.DoubleArrayValues = make([][]float64, nodeCount)
			for id := int64(0); id < nodeCount; id++ {
				col.DoubleArrayValues[id] = values.Get(id)
			}
		default:
			return nil, fmt.Errorf("unsupported field type %q", el.Type)
		}

		snap.Fields = append(snap.Fields, col)
	}

	return snap, nil
}

// Field returns the named column, if present.
func (s *Snapshot) Field(name string) (FieldColumn, bool) {
	for _, col := range s.Fields {
		if col.Name == name {
			return col, true
		}
	}
	return FieldColumn{}, false
}
