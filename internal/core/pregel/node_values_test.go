package pregel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) Schema {
	t.Helper()
	schema, err := NewSchemaBuilder().
		Add("rank", ValueTypeDouble, VisibilityPublic).
		AddWithDefault("component", ValueTypeLong, VisibilityPublic, LongValue(-1)).
		Add("path", ValueTypeLongArray, VisibilityPrivate).
		Add("weights", ValueTypeDoubleArray, VisibilityPrivate).
		Build()
	require.NoError(t, err)
	return schema
}

func TestNodeValues_Defaults(t *testing.T) {
	nv := NewNodeValues(testSchema(t), 100)
	assert.Equal(t, int64(100), nv.NodeCount())

	rank, err := nv.DoubleValue("rank", 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rank)

	comp, err := nv.LongValue("component", 99)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), comp)

	path, err := nv.LongArrayValue("path", 50)
	require.NoError(t, err)
	assert.Nil(t, path)
}

func TestNodeValues_SetGetRoundTrip(t *testing.T) {
	nv := NewNodeValues(testSchema(t), 10)

	require.NoError(t, nv.SetDouble("rank", 3, 0.85))
	require.NoError(t, nv.SetLong("component", 3, 7))
	require.NoError(t, nv.SetLongArray("path", 3, []int64{1, 2, 3}))
	require.NoError(t, nv.SetDoubleArray("weights", 3, []float64{0.5}))

	rank, err := nv.DoubleValue("rank", 3)
	require.NoError(t, err)
	assert.Equal(t, 0.85, rank)

	comp, err := nv.LongValue("component", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), comp)

	path, err := nv.LongArrayValue("path", 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, path)

	weights, err := nv.DoubleArrayValue("weights", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, weights)
}

func TestNodeValues_SchemaMismatch(t *testing.T) {
	nv := NewNodeValues(testSchema(t), 10)

	_, err := nv.LongValue("rank", 0)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	err = nv.SetDouble("component", 0, 1.0)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	_, err = nv.DoubleArrayValue("path", 0)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestNodeValues_UnknownField(t *testing.T) {
	nv := NewNodeValues(testSchema(t), 10)
	_, err := nv.DoubleValue("nope", 0)
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestNodeValues_OutOfRange(t *testing.T) {
	nv := NewNodeValues(testSchema(t), 10)

	_, err := nv.DoubleValue("rank", 10)
	assert.ErrorIs(t, err, ErrNodeIDOutOfRange)

	err = nv.SetDouble("rank", -1, 1.0)
	assert.ErrorIs(t, err, ErrNodeIDOutOfRange)
}
