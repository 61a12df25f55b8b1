package pregel

import (
	"fmt"

	"github.com/graphbeam/graphbeam/internal/core/concurrency"
	"github.com/graphbeam/graphbeam/internal/core/graphstore"
)

// initFromPropertySources populates every schema field bound to a property
// source from the graph store's typed accessors. It runs at init, before any
// superstep, and fails fast on an unresolvable key or a container whose kind
// cannot feed the field's type. Copies run in parallel over the id space.
func initFromPropertySources(
	graph graphstore.Graph,
	schema Schema,
	values *NodeValues,
	exec *concurrency.Executor,
	term *concurrency.TerminationFlag,
) error {
	nodeCount := graph.NodeCount()
	for _, el := range schema.Elements() {
		if el.PropertySource == "" {
			continue
		}
		props, ok := graph.NodeProperties(el.PropertySource)
		if !ok {
			return fmt.Errorf("%w: %q (field %q)", ErrPropertyNotFound, el.PropertySource, el.Name)
		}
		if err := checkSourceKind(el, props.Kind()); err != nil {
			return err
		}

		var copyErr error
		switch el.Type {
		case ValueTypeLong:
			col := values.longColumn(el.Name)
			copyErr = exec.ParallelFor(0, nodeCount, term, func(id int64) {
				col.Set(id, props.LongValue(id))
			})
		case ValueTypeDouble:
			col := values.doubleColumn(el.Name)
			copyErr = exec.ParallelFor(0, nodeCount, term, func(id int64) {
				col.Set(id, props.DoubleValue(id))
			})
		case ValueTypeLongArray:
			col := values.longArrayColumn(el.Name)
			copyErr = exec.ParallelFor(0, nodeCount, term, func(id int64) {
				col.Set(id, props.LongArrayValue(id))
			})
		case ValueTypeDoubleArray:
			col := values.doubleArrayColumn(el.Name)
			copyErr = exec.ParallelFor(0, nodeCount, term, func(id int64) {
				col.Set(id, props.DoubleArrayValue(id))
			})
		}
		if copyErr != nil {
			return copyErr
		}
	}
	return nil
}

// checkSourceKind verifies that a property container can feed a schema field.
// Long containers widen into double fields; every other combination must
// match exactly.
func checkSourceKind(el Element, kind graphstore.PropertyKind) error {
	ok := false
	switch el.Type {
	case ValueTypeLong:
		ok = kind == graphstore.PropertyLong
	case ValueTypeDouble:
		ok = kind == graphstore.PropertyDouble || kind == graphstore.PropertyLong
	case ValueTypeLongArray:
		ok = kind == graphstore.PropertyLongArray
	case ValueTypeDoubleArray:
		ok = kind == graphstore.PropertyDoubleArray
	}
	if !ok {
		return fmt.Errorf("%w: property %q is %s, field %q is %s",
			ErrSchemaMismatch, el.PropertySource, kind, el.Name, el.Type)
	}
	return nil
}
