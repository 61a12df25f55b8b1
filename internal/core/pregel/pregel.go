package pregel

// Pregel implements vertex-centric graph computation with BSP
// synchronization.
// PRINCIPLES:
// - Parallel per-node computation over disjoint partitions
// - Bulk Synchronous Parallel superstep barriers
// - Message passing with one-superstep delivery delay
// - Vote-to-halt convergence with message reactivation

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/graphbeam/graphbeam/internal/core/collections"
	"github.com/graphbeam/graphbeam/internal/core/concurrency"
	"github.com/graphbeam/graphbeam/internal/core/graphstore"
	"github.com/graphbeam/graphbeam/internal/core/partition"
	"github.com/graphbeam/graphbeam/internal/infrastructure/progress"
)
import imetrics "github.com/graphbeam/graphbeam/internal/infrastructure/metrics"

// Pregel is the superstep driver: the state machine tying storage,
// partitioning, execution, and messaging into
// init -> (compute -> barrier -> convergence-check)* -> halted.
type Pregel struct {
	graph       graphstore.Graph
	config      Config
	schema      Schema
	computation Computation
	messenger   Messenger

	values *NodeValues
	votes  *collections.HugeAtomicBitSet

	executor     *concurrency.Executor
	ownsExecutor bool
	term         *concurrency.TerminationFlag
	tracker      progress.Tracker
	log          zerolog.Logger
	runID        string
}

// Builder assembles a Pregel driver. Graph, schema, and computation are
// required; everything else has defaults derived from the config.
type Builder struct {
	graph       graphstore.Graph
	config      Config
	schema      Schema
	computation Computation
	messenger   Messenger
	executor    *concurrency.Executor
	term        *concurrency.TerminationFlag
	tracker     progress.Tracker
	log         *zerolog.Logger
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder { return &Builder{} }

// WithGraph sets the graph collaborator.
func (b *Builder) WithGraph(g graphstore.Graph) *Builder { b.graph = g; return b }

// WithConfig sets the run configuration.
func (b *Builder) WithConfig(c Config) *Builder { b.config = c; return b }

// WithSchema sets the node value schema.
func (b *Builder) WithSchema(s Schema) *Builder { b.schema = s; return b }

// WithComputation sets the per-node program.
func (b *Builder) WithComputation(c Computation) *Builder { b.computation = c; return b }

// WithMessenger overrides the messenger chosen from the config.
func (b *Builder) WithMessenger(m Messenger) *Builder { b.messenger = m; return b }

// WithExecutor shares an existing executor instead of owning one.
func (b *Builder) WithExecutor(e *concurrency.Executor) *Builder { b.executor = e; return b }

// WithTerminationFlag injects the shared cancellation cell.
func (b *Builder) WithTerminationFlag(t *concurrency.TerminationFlag) *Builder { b.term = t; return b }

// WithProgressTracker sets the progress collaborator.
func (b *Builder) WithProgressTracker(t progress.Tracker) *Builder { b.tracker = t; return b }

// WithLogger sets the run logger.
func (b *Builder) WithLogger(l zerolog.Logger) *Builder { b.log = &l; return b }

// Build validates the configuration and allocates the run state. All
// configuration and schema errors surface here, before any parallel work.
func (b *Builder) Build() (*Pregel, error) {
	if b.graph == nil {
		return nil, ErrMissingGraph
	}
	if b.computation == nil {
		return nil, ErrMissingComputation
	}
	if b.schema.Len() == 0 {
		return nil, ErrEmptySchema
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	cfg := b.config.withDefaults()
	nodeCount := b.graph.NodeCount()

	messenger := b.messenger
	if messenger == nil {
		if cfg.IsAsynchronous {
			messenger = NewAsyncQueueMessenger(nodeCount)
		} else {
			messenger = NewSyncQueueMessenger(nodeCount, cfg.TrackSender)
		}
	}

	executor := b.executor
	ownsExecutor := false
	if executor == nil {
		executor = concurrency.NewExecutor(cfg.Concurrency, cfg.QueueCapacity)
		ownsExecutor = true
	}

	term := b.term
	if term == nil {
		term = concurrency.NewTerminationFlag()
	}
	tracker := b.tracker
	if tracker == nil {
		tracker = progress.NoopTracker{}
	}
	runID := uuid.NewString()
	log := zerolog.Nop()
	if b.log != nil {
		log = *b.log
	}

	return &Pregel{
		graph:        b.graph,
		config:       cfg,
		schema:       b.schema,
		computation:  b.computation,
		messenger:    messenger,
		values:       NewNodeValues(b.schema, nodeCount),
		votes:        collections.NewHugeAtomicBitSet(nodeCount),
		executor:     executor,
		ownsExecutor: ownsExecutor,
		term:         term,
		tracker:      tracker,
		log:          log.With().Str("run_id", runID).Logger(),
		runID:        runID,
	}, nil
}

// TerminationFlag returns the run's cancellation cell, for callers that want
// to stop a run from outside.
func (p *Pregel) TerminationFlag() *concurrency.TerminationFlag { return p.term }

// Run executes the state machine. It always returns a Result distinguishing
// converged, iteration-cap, and terminated outcomes; progress from completed
// supersteps is never dropped. Cancellation surfaces as ErrTerminated.
func (p *Pregel) Run(ctx context.Context) (Result, error) {
	imetrics.IncRuns()
	if p.ownsExecutor {
		defer p.executor.Stop()
	}

	// Context cancellation folds into the cooperative flag.
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			p.term.Terminate()
		case <-watchDone:
		}
	}()

	result := Result{RunID: p.runID, schema: p.schema, values: p.values}
	nodeCount := p.graph.NodeCount()
	p.log.Info().Int64("nodes", nodeCount).Int("max_iterations", p.config.MaxIterations).Msg("pregel run started")

	if err := initFromPropertySources(p.graph, p.schema, p.values, p.executor, p.term); err != nil {
		if !p.term.Running() {
			result.Terminated = true
		}
		return result, err
	}

	for superstep := 0; superstep < p.config.MaxIterations; superstep++ {
		// Barrier side: make last superstep's sends deliverable.
		p.messenger.InitIteration(superstep)
		p.tracker.Reset(nodeCount)

		if err := p.computeStep(superstep); err != nil {
			result.RanIterations = superstep
			if !p.term.Running() {
				result.Terminated = true
			}
			p.log.Warn().Err(err).Int("superstep", superstep).Msg("pregel run aborted")
			return result, err
		}

		imetrics.IncSupersteps()
		result.RanIterations = superstep + 1

		// Barrier: single-threaded convergence evaluation.
		pending := p.messenger.PendingMessageCount()
		converged := p.votes.AllSet() && pending == 0

		if mc, ok := p.computation.(MasterComputation); ok {
			mctx := &MasterContext{
				superstep:       superstep,
				nodeCount:       nodeCount,
				activeNodeCount: nodeCount - p.votes.Cardinality(),
				pendingMessages: pending,
			}
			if mc.MasterCompute(mctx) {
				converged = true
			}
		}

		p.log.Debug().
			Int("superstep", superstep).
			Int64("active_nodes", nodeCount-p.votes.Cardinality()).
			Int64("pending_messages", pending).
			Msg("superstep complete")

		if converged {
			result.DidConverge = true
			break
		}
	}

	p.tracker.Finished()
	p.log.Info().
		Int("ran_iterations", result.RanIterations).
		Bool("did_converge", result.DidConverge).
		Msg("pregel run finished")
	return result, nil
}

// computeStep runs the parallel phase of one superstep. A node computes when
// it has not voted to halt or when it has deliverable messages; in the
// latter case its halt vote is cleared first.
func (p *Pregel) computeStep(superstep int) error {
	nodeCount := p.graph.NodeCount()
	parts := p.partitions(nodeCount)
	processed := concurrency.NewWorkerLocalAggregator(p.executor.Concurrency(), int64(0),
		func(a, b int64) int64 { return a + b })

	err := p.executor.Scope(p.term, func(s *concurrency.Scope) {
		for _, part := range parts {
			part := part
			s.Spawn(func(worker int) error {
				initCtx := &InitContext{nodeContext{graph: p.graph, values: p.values, config: p.config}}
				computeCtx := &ComputeContext{
					nodeContext: nodeContext{graph: p.graph, values: p.values, config: p.config},
					superstep:   superstep,
					messenger:   p.messenger,
					votes:       p.votes,
				}

				for id := part.StartNode; id < part.EndNode(); id++ {
					if !p.term.Running() {
						return concurrency.ErrTerminated
					}
					if superstep > 0 {
						hasMessages := p.messenger.HasMessages(id)
						if p.votes.Get(id) {
							if !hasMessages {
								continue
							}
							// Message arrival reactivates a halted node.
							p.votes.ClearBit(id)
						}
					}

					if superstep == 0 {
						initCtx.nodeID = id
						initCtx.err = nil
						if err := p.computation.Init(initCtx); err != nil {
							return err
						}
						if err := initCtx.Err(); err != nil {
							return err
						}
					}

					computeCtx.nodeID = id
					computeCtx.err = nil
					if err := p.computation.Compute(computeCtx); err != nil {
						return err
					}
					if err := computeCtx.Err(); err != nil {
						return err
					}
					processed.Accumulate(worker, 1)
				}
				return nil
			})
		}
	})

	done := processed.Merge()
	p.tracker.Progress(done)
	imetrics.IncNodeComputes(done)
	return err
}

// minPartitionBatch keeps tiny graphs from being split into per-task slivers.
const minPartitionBatch = 64

func (p *Pregel) partitions(nodeCount int64) []partition.Partition {
	// Range is the only strategy; Auto resolves to it.
	return partition.RangePartitionWithBatchSize(nodeCount, minPartitionBatch, p.executor.Concurrency())
}
