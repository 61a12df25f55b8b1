package prebuilt

import (
	"github.com/graphbeam/graphbeam/pkg/graphbeam"
)

// ComponentField is the public field ConnectedComponents writes labels to.
const ComponentField = "component"

// ConnectedComponents labels each node with the smallest node id reachable
// from it by propagating label minima along relationships. On graphs whose
// relationships were added in both directions the labels identify connected
// components.
type ConnectedComponents struct{}

// NewConnectedComponents returns the label propagation algorithm.
func NewConnectedComponents() ConnectedComponents { return ConnectedComponents{} }

func (ConnectedComponents) Name() string { return "components" }

func (ConnectedComponents) Schema() (graphbeam.Schema, error) {
	return graphbeam.NewSchemaBuilder().
		Add(ComponentField, graphbeam.ValueTypeLong, graphbeam.VisibilityPublic).
		Build()
}

// Messenger keeps only the smallest incoming label per node.
func (ConnectedComponents) Messenger(nodeCount int64) graphbeam.Messenger {
	return graphbeam.NewReducingMessenger(nodeCount, graphbeam.MinReducer{}, false)
}

func (ConnectedComponents) Computation() graphbeam.Computation {
	return graphbeam.ComputationFuncs{
		InitFn: func(ctx *graphbeam.InitContext) error {
			ctx.SetNodeValue(ComponentField, ctx.NodeID())
			return nil
		},
		ComputeFn: func(ctx *graphbeam.ComputeContext) error {
			label := ctx.LongNodeValue(ComponentField)
			if ctx.IsInitialSuperstep() {
				ctx.SendToNeighbors(float64(label))
				ctx.VoteToHalt()
				return ctx.Err()
			}
			changed := false
			if v, ok := ctx.Messages().Next(); ok && int64(v) < label {
				label = int64(v)
				ctx.SetNodeValue(ComponentField, label)
				changed = true
			}
			if changed {
				ctx.SendToNeighbors(float64(label))
			}
			ctx.VoteToHalt()
			return ctx.Err()
		},
	}
}
