package pregel

import "fmt"

// ValueType is the closed set of per-node field types.
type ValueType int

const (
	ValueTypeLong ValueType = iota
	ValueTypeDouble
	ValueTypeLongArray
	ValueTypeDoubleArray
)

func (t ValueType) String() string {
	switch t {
	case ValueTypeLong:
		return "long"
	case ValueTypeDouble:
		return "double"
	case ValueTypeLongArray:
		return "long_array"
	case ValueTypeDoubleArray:
		return "double_array"
	default:
		return "unknown"
	}
}

// Visibility controls whether a field is exported with the result.
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityPrivate
)

// Value is the tagged variant carried across the typed store boundary.
// Exactly one arm is populated, selected by Kind.
type Value struct {
	kind        ValueType
	longValue   int64
	doubleValue float64
	longArray   []int64
	doubleArray []float64
}

// LongValue wraps an int64.
func LongValue(v int64) Value { return Value{kind: ValueTypeLong, longValue: v} }

// DoubleValue wraps a float64.
func DoubleValue(v float64) Value { return Value{kind: ValueTypeDouble, doubleValue: v} }

// LongArrayValue wraps an []int64.
func LongArrayValue(v []int64) Value { return Value{kind: ValueTypeLongArray, longArray: v} }

// DoubleArrayValue wraps a []float64.
func DoubleArrayValue(v []float64) Value { return Value{kind: ValueTypeDoubleArray, doubleArray: v} }

// Kind returns the populated arm.
func (v Value) Kind() ValueType { return v.kind }

// Long returns the long arm, or ErrSchemaMismatch.
func (v Value) Long() (int64, error) {
	if v.kind != ValueTypeLong {
		return 0, fmt.Errorf("%w: have %s, want long", ErrSchemaMismatch, v.kind)
	}
	return v.longValue, nil
}

// Double returns the double arm, or ErrSchemaMismatch.
func (v Value) Double() (float64, error) {
	if v.kind != ValueTypeDouble {
		return 0, fmt.Errorf("%w: have %s, want double", ErrSchemaMismatch, v.kind)
	}
	return v.doubleValue, nil
}

// LongArray returns the long-array arm, or ErrSchemaMismatch.
func (v Value) LongArray() ([]int64, error) {
	if v.kind != ValueTypeLongArray {
		return nil, fmt.Errorf("%w: have %s, want long_array", ErrSchemaMismatch, v.kind)
	}
	return v.longArray, nil
}

// DoubleArray returns the double-array arm, or ErrSchemaMismatch.
func (v Value) DoubleArray() ([]float64, error) {
	if v.kind != ValueTypeDoubleArray {
		return nil, fmt.Errorf("%w: have %s, want double_array", ErrSchemaMismatch, v.kind)
	}
	return v.doubleArray, nil
}

// Element describes one typed per-node field.
type Element struct {
	Name           string
	Type           ValueType
	Visibility     Visibility
	PropertySource string
	Default        Value
	hasDefault     bool
}

// Schema is an ordered, immutable description of per-node fields.
type Schema struct {
	elements []Element
	index    map[string]int
}

// Elements returns the fields in declaration order.
func (s Schema) Elements() []Element { return s.elements }

// Element resolves a field by name.
func (s Schema) Element(name string) (Element, bool) {
	i, ok := s.index[name]
	if !ok {
		return Element{}, false
	}
	return s.elements[i], true
}

// Len returns the number of fields.
func (s Schema) Len() int { return len(s.elements) }

// SchemaBuilder accumulates fields; Build freezes them.
type SchemaBuilder struct {
	elements []Element
	sources  map[string]string
	err      error
}

// NewSchemaBuilder returns an empty builder.
func NewSchemaBuilder() *SchemaBuilder {
	return &SchemaBuilder{sources: make(map[string]string)}
}

// Add appends a field with the type's zero default (0 for long, 0.0 for
// double, nil for arrays).
func (b *SchemaBuilder) Add(name string, t ValueType, vis Visibility) *SchemaBuilder {
	b.elements = append(b.elements, Element{Name: name, Type: t, Visibility: vis})
	return b
}

// AddWithDefault appends a field initialized to def for every node.
func (b *SchemaBuilder) AddWithDefault(name string, t ValueType, vis Visibility, def Value) *SchemaBuilder {
	if def.Kind() != t && b.err == nil {
		b.err = fmt.Errorf("%w: default for %q is %s, field is %s", ErrSchemaMismatch, name, def.Kind(), t)
	}
	b.elements = append(b.elements, Element{Name: name, Type: t, Visibility: vis, Default: def, hasDefault: true})
	return b
}

// WithPropertySource binds a declared field to a node property key in the
// external graph store.
func (b *SchemaBuilder) WithPropertySource(field, sourceKey string) *SchemaBuilder {
	b.sources[field] = sourceKey
	return b
}

// Build freezes the schema. It fails on an empty schema, duplicate field
// names, a mismatched default, or a property source referencing an
// undeclared field.
func (b *SchemaBuilder) Build() (Schema, error) {
	if b.err != nil {
		return Schema{}, b.err
	}
	if len(b.elements) == 0 {
		return Schema{}, ErrEmptySchema
	}

	index := make(map[string]int, len(b.elements))
	elements := make([]Element, len(b.elements))
	copy(elements, b.elements)
	for i, el := range elements {
		if _, ok := index[el.Name]; ok {
			return Schema{}, fmt.Errorf("%w: %q", ErrDuplicateField, el.Name)
		}
		index[el.Name] = i
	}
	for field, key := range b.sources {
		i, ok := index[field]
		if !ok {
			return Schema{}, fmt.Errorf("%w: property source %q references %q", ErrFieldNotFound, key, field)
		}
		elements[i].PropertySource = key
	}
	return Schema{elements: elements, index: index}, nil
}
