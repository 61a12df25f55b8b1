package graphbeam

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/graphbeam/graphbeam/internal/core/concurrency"
	"github.com/graphbeam/graphbeam/internal/core/graphstore"
	"github.com/graphbeam/graphbeam/internal/core/pregel"
	"github.com/graphbeam/graphbeam/internal/infrastructure/progress"
)

// Re-export graph construction types for convenience.
type Graph = graphstore.Graph
type GraphBuilder = graphstore.GraphBuilder

// Re-export the computation surface.
type Computation = pregel.Computation
type ComputationFuncs = pregel.ComputationFuncs
type InitContext = pregel.InitContext
type ComputeContext = pregel.ComputeContext
type MasterContext = pregel.MasterContext
type MessageIterator = pregel.MessageIterator

// Re-export configuration and results.
type Config = pregel.Config
type Schema = pregel.Schema
type SchemaBuilder = pregel.SchemaBuilder
type Result = pregel.Result

type ValueType = pregel.ValueType
type Visibility = pregel.Visibility

const (
	ValueTypeLong        = pregel.ValueTypeLong
	ValueTypeDouble      = pregel.ValueTypeDouble
	ValueTypeLongArray   = pregel.ValueTypeLongArray
	ValueTypeDoubleArray = pregel.ValueTypeDoubleArray

	VisibilityPublic  = pregel.VisibilityPublic
	VisibilityPrivate = pregel.VisibilityPrivate
)

// Re-export messengers so callers can opt into reduced delivery.
type Messenger = pregel.Messenger
type MessageReducer = pregel.MessageReducer

type SumReducer = pregel.SumReducer
type MinReducer = pregel.MinReducer
type MaxReducer = pregel.MaxReducer
type CountReducer = pregel.CountReducer

// NewReducingMessenger constructs a messenger that folds all messages for a
// target into a single value with reducer.
func NewReducingMessenger(nodeCount int64, reducer MessageReducer, trackSender bool) Messenger {
	return pregel.NewReducingMessenger(nodeCount, reducer, trackSender)
}

// NewGraphBuilder constructs an empty in-memory graph builder.
func NewGraphBuilder() *GraphBuilder { return graphstore.NewGraphBuilder() }

// NewSchemaBuilder constructs an empty schema builder.
func NewSchemaBuilder() *SchemaBuilder { return pregel.NewSchemaBuilder() }

// Runtime bundles the pieces shared across runs: a logger, a termination
// flag, and an optional progress tracker. The zero value is not usable;
// construct one with NewRuntime.
type Runtime struct {
	log     zerolog.Logger
	term    *concurrency.TerminationFlag
	tracker progress.Tracker
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger attaches a structured logger to every run.
func WithLogger(log zerolog.Logger) Option {
	return func(rt *Runtime) { rt.log = log }
}

// WithProgressTracker attaches a progress tracker to every run.
func WithProgressTracker(t progress.Tracker) Option {
	return func(rt *Runtime) { rt.tracker = t }
}

// NewRuntime constructs a runtime with in-memory defaults suitable for local
// usage and tests.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		log:     zerolog.Nop(),
		term:    concurrency.NewTerminationFlag(),
		tracker: progress.NoopTracker{},
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Stop requests cooperative cancellation of all runs started from this
// runtime.
func (rt *Runtime) Stop() { rt.term.Terminate() }

// Run executes computation over g under cfg and blocks until the run
// converges, hits the iteration cap, fails, or is cancelled.
func (rt *Runtime) Run(ctx context.Context, g Graph, schema Schema, computation Computation, cfg Config) (Result, error) {
	return rt.RunWithMessenger(ctx, g, schema, computation, cfg, nil)
}

// RunWithMessenger is Run with an explicit message delivery strategy. A nil
// messenger selects the default queue messenger for cfg.
func (rt *Runtime) RunWithMessenger(ctx context.Context, g Graph, schema Schema, computation Computation, cfg Config, messenger Messenger) (Result, error) {
	b := pregel.NewBuilder().
		WithGraph(g).
		WithSchema(schema).
		WithComputation(computation).
		WithConfig(cfg).
		WithTerminationFlag(rt.term).
		WithProgressTracker(rt.tracker).
		WithLogger(rt.log)
	if messenger != nil {
		b = b.WithMessenger(messenger)
	}
	p, err := b.Build()
	if err != nil {
		return Result{}, err
	}
	return p.Run(ctx)
}

// Run executes a computation with a one-off default runtime. It is the
// shortest path from a graph and a computation to a result.
func Run(ctx context.Context, g Graph, schema Schema, computation Computation, cfg Config) (Result, error) {
	return NewRuntime().Run(ctx, g, schema, computation, cfg)
}
