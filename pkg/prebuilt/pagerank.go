package prebuilt

import (
	"math"

	"github.com/graphbeam/graphbeam/pkg/graphbeam"
)

// RankField is the public field PageRank writes its scores to.
const RankField = "pagerank"

// PageRank scores nodes by the stationary distribution of a random surfer.
// Each superstep a node folds the incoming rank shares into a new score and
// forwards its own share along every out-relationship; a node votes to halt
// once its score moves less than Tolerance, and an incoming share wakes it
// back up.
type PageRank struct {
	// DampingFactor is the probability of following a relationship
	// instead of teleporting.
	DampingFactor float64
	// Tolerance is the per-node score delta below which a node votes to
	// halt.
	Tolerance float64
}

// NewPageRank returns PageRank with the conventional damping factor 0.85.
func NewPageRank() PageRank {
	return PageRank{DampingFactor: 0.85, Tolerance: 1e-7}
}

func (PageRank) Name() string { return "pagerank" }

func (PageRank) Schema() (graphbeam.Schema, error) {
	return graphbeam.NewSchemaBuilder().
		Add(RankField, graphbeam.ValueTypeDouble, graphbeam.VisibilityPublic).
		Build()
}

// Messenger sums incoming shares, so each node sees one folded value.
func (PageRank) Messenger(nodeCount int64) graphbeam.Messenger {
	return graphbeam.NewReducingMessenger(nodeCount, graphbeam.SumReducer{}, false)
}

func (p PageRank) Computation() graphbeam.Computation {
	return graphbeam.ComputationFuncs{
		InitFn: func(ctx *graphbeam.InitContext) error {
			ctx.SetDoubleNodeValue(RankField, 1/float64(ctx.NodeCount()))
			return nil
		},
		ComputeFn: func(ctx *graphbeam.ComputeContext) error {
			rank := ctx.DoubleNodeValue(RankField)
			if !ctx.IsInitialSuperstep() {
				sum := 0.0
				it := ctx.Messages()
				for {
					v, ok := it.Next()
					if !ok {
						break
					}
					sum += v
				}
				next := (1-p.DampingFactor)/float64(ctx.NodeCount()) + p.DampingFactor*sum
				delta := math.Abs(next - rank)
				rank = next
				ctx.SetDoubleNodeValue(RankField, rank)
				if delta < p.Tolerance {
					ctx.VoteToHalt()
					return ctx.Err()
				}
			}
			if degree := ctx.Degree(); degree > 0 {
				ctx.SendToNeighbors(rank / float64(degree))
			}
			return ctx.Err()
		},
	}
}
