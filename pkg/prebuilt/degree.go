package prebuilt

import (
	"github.com/graphbeam/graphbeam/pkg/graphbeam"
)

// DegreeField is the public field DegreeCentrality writes counts to.
const DegreeField = "degree"

// DegreeCentrality records each node's out-degree. It converges in a single
// superstep and sends no messages.
type DegreeCentrality struct{}

// NewDegreeCentrality returns the degree counting algorithm.
func NewDegreeCentrality() DegreeCentrality { return DegreeCentrality{} }

func (DegreeCentrality) Name() string { return "degree" }

func (DegreeCentrality) Schema() (graphbeam.Schema, error) {
	return graphbeam.NewSchemaBuilder().
		Add(DegreeField, graphbeam.ValueTypeLong, graphbeam.VisibilityPublic).
		Build()
}

func (DegreeCentrality) Messenger(int64) graphbeam.Messenger { return nil }

func (DegreeCentrality) Computation() graphbeam.Computation {
	return graphbeam.ComputationFuncs{
		ComputeFn: func(ctx *graphbeam.ComputeContext) error {
			ctx.SetNodeValue(DegreeField, int64(ctx.Degree()))
			ctx.VoteToHalt()
			return ctx.Err()
		},
	}
}
