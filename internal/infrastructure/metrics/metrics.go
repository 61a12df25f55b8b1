package metrics

import (
	"expvar"
)

// Messenger metrics (counters) using expvar maps keyed by messenger kind.
var (
	messagesSent    = expvar.NewMap("graphbeam_messages_sent_total")
	messagesDrained = expvar.NewMap("graphbeam_messages_drained_total")
)

// Driver / Executor metrics.
var (
	runsTotal        = new(expvar.Int)
	superstepsTotal  = new(expvar.Int)
	nodeComputesTotal = new(expvar.Int)
	executorWorkers  = new(expvar.Int)
	executorQueued   = new(expvar.Int)
)

func init() {
	expvar.Publish("graphbeam_runs_total", runsTotal)
	expvar.Publish("graphbeam_supersteps_total", superstepsTotal)
	expvar.Publish("graphbeam_node_computes_total", nodeComputesTotal)
	expvar.Publish("graphbeam_executor_workers", executorWorkers)
	expvar.Publish("graphbeam_executor_queued_total", executorQueued)
}

// Messenger helpers
func MessagesSent(kind string, n int64)    { messagesSent.Add(kind, n) }
func MessagesDrained(kind string, n int64) { messagesDrained.Add(kind, n) }

// Driver/Executor helpers
func IncRuns()                  { runsTotal.Add(1) }
func IncSupersteps()            { superstepsTotal.Add(1) }
func IncNodeComputes(n int64)   { nodeComputesTotal.Add(n) }
func SetExecutorWorkers(n int)  { executorWorkers.Set(int64(n)) }
func AddExecutorQueued(n int)   { executorQueued.Add(int64(n)) }
