// Package metrics exposes expvar-published counters and gauges used by the
// graphbeam runtime (executor, messenger, and Pregel driver). It intentionally
// avoids external dependencies and is consumed through the standard
// /debug/vars endpoint when embedded in a server process.
package metrics
