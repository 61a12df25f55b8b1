package pregel

// Computation is the user-defined per-node program.
// PRINCIPLES:
// - Init runs once per node at the start of superstep 0
// - Compute runs for every active node in every superstep
// - Closures run to completion synchronously and must not block on I/O
type Computation interface {
	Init(ctx *InitContext) error
	Compute(ctx *ComputeContext) error
}

// MasterComputation is optionally implemented by computations that want a
// single-threaded hook at each barrier. Returning true halts the run with
// DidConverge set, regardless of votes and pending messages.
type MasterComputation interface {
	MasterCompute(ctx *MasterContext) bool
}

// ComputationFuncs adapts plain functions to the Computation interface.
type ComputationFuncs struct {
	InitFn    func(ctx *InitContext) error
	ComputeFn func(ctx *ComputeContext) error
}

// Init calls InitFn when set.
func (c ComputationFuncs) Init(ctx *InitContext) error {
	if c.InitFn == nil {
		return nil
	}
	return c.InitFn(ctx)
}

// Compute calls ComputeFn.
func (c ComputationFuncs) Compute(ctx *ComputeContext) error {
	if c.ComputeFn == nil {
		return nil
	}
	return c.ComputeFn(ctx)
}
