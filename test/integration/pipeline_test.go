// Package integration exercises the public surface end to end: graph
// construction, prebuilt computations, custom computations, and snapshot
// export.
package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphbeam/graphbeam/pkg/graphbeam"
	"github.com/graphbeam/graphbeam/pkg/prebuilt"
	"github.com/graphbeam/graphbeam/pkg/serialization"
)

// starGraph builds a hub with spokes in both directions, hub first.
func starGraph(t *testing.T, spokes int64) graphbeam.Graph {
	t.Helper()
	b := graphbeam.NewGraphBuilder().AddNode(0)
	for spoke := int64(1); spoke <= spokes; spoke++ {
		b.AddRelationship(0, spoke)
		b.AddRelationship(spoke, 0)
	}
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestPageRankOnStar(t *testing.T) {
	g := starGraph(t, 10)

	result, err := prebuilt.Run(context.Background(), g, prebuilt.NewPageRank(),
		graphbeam.Config{MaxIterations: 200})
	require.NoError(t, err)
	require.True(t, result.DidConverge)

	ranks, err := result.DoubleNodeValues(prebuilt.RankField)
	require.NoError(t, err)

	// The hub dominates and the spokes are symmetric.
	hub := ranks.Get(0)
	for spoke := int64(1); spoke <= 10; spoke++ {
		assert.Greater(t, hub, ranks.Get(spoke))
		assert.InDelta(t, ranks.Get(1), ranks.Get(spoke), 1e-6)
	}

	// Scores form a probability distribution.
	total := 0.0
	for id := int64(0); id < g.NodeCount(); id++ {
		total += ranks.Get(id)
	}
	assert.InDelta(t, 1.0, total, 1e-3)
}

func TestComponentsAcrossDisconnectedStars(t *testing.T) {
	b := graphbeam.NewGraphBuilder()
	// Two stars with no relationship between them.
	for spoke := int64(1); spoke <= 4; spoke++ {
		b.AddRelationship(0, spoke)
		b.AddRelationship(spoke, 0)
	}
	for spoke := int64(101); spoke <= 104; spoke++ {
		b.AddRelationship(100, spoke)
		b.AddRelationship(spoke, 100)
	}
	g, err := b.Build()
	require.NoError(t, err)

	result, err := prebuilt.Run(context.Background(), g, prebuilt.NewConnectedComponents(),
		graphbeam.Config{MaxIterations: 20})
	require.NoError(t, err)
	require.True(t, result.DidConverge)

	labels, err := result.LongNodeValues(prebuilt.ComponentField)
	require.NoError(t, err)

	labelOf := func(original int64) int64 {
		mapped, ok := g.ToMappedNodeID(original)
		require.True(t, ok)
		return labels.Get(mapped)
	}

	first := labelOf(0)
	for spoke := int64(1); spoke <= 4; spoke++ {
		assert.Equal(t, first, labelOf(spoke))
	}
	second := labelOf(100)
	assert.NotEqual(t, first, second)
	for spoke := int64(101); spoke <= 104; spoke++ {
		assert.Equal(t, second, labelOf(spoke))
	}
}

func TestCustomComputationWithPropertySeeds(t *testing.T) {
	// Seeded infection spread: infected nodes infect their neighbors, one
	// hop per superstep.
	g, err := graphbeam.NewGraphBuilder().
		AddNode(0).AddNode(1).AddNode(2).AddNode(3).
		AddRelationship(0, 1).
		AddRelationship(1, 2).
		AddRelationship(2, 3).
		WithLongProperty("seed_infected", []int64{1, 0, 0, 0}).
		Build()
	require.NoError(t, err)

	schema, err := graphbeam.NewSchemaBuilder().
		Add("infected", graphbeam.ValueTypeLong, graphbeam.VisibilityPublic).
		WithPropertySource("infected", "seed_infected").
		Build()
	require.NoError(t, err)

	comp := graphbeam.ComputationFuncs{
		ComputeFn: func(ctx *graphbeam.ComputeContext) error {
			infected := ctx.LongNodeValue("infected") == 1
			if !ctx.IsInitialSuperstep() && !infected {
				if _, ok := ctx.Messages().Next(); ok {
					infected = true
					ctx.SetNodeValue("infected", 1)
				}
			}
			if infected {
				ctx.SendToNeighbors(1)
			}
			ctx.VoteToHalt()
			return ctx.Err()
		},
	}

	result, err := graphbeam.Run(context.Background(), g, schema, comp,
		graphbeam.Config{MaxIterations: 10})
	require.NoError(t, err)

	infected, err := result.LongNodeValues("infected")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 1, 1, 1}, infected.ToSlice())
}

func TestSnapshotRoundTripThroughEveryPipeline(t *testing.T) {
	g := starGraph(t, 5)
	result, err := prebuilt.Run(context.Background(), g, prebuilt.NewDegreeCentrality(),
		graphbeam.Config{MaxIterations: 5})
	require.NoError(t, err)

	snap, err := serialization.BuildSnapshot(result, g)
	require.NoError(t, err)
	require.Equal(t, int64(6), snap.NodeCount)

	pipelines := []*serialization.Serializer{
		serialization.DefaultSerializer(),
		serialization.NewSerializer(serialization.Config{
			Codec:       serialization.NewJSONCodec(),
			Compression: serialization.CompressionGzip,
		}),
	}
	for _, s := range pipelines {
		data, err := s.Serialize(snap)
		require.NoError(t, err)

		var decoded serialization.Snapshot
		require.NoError(t, s.Deserialize(data, &decoded))
		assert.Equal(t, *snap, decoded)
	}
}
