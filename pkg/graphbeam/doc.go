// Package graphbeam provides a minimal public façade for building graphs and
// running vertex-centric computations without importing internal packages. It
// re-exports the core types for convenience and exposes a Run helper that
// wires a computation, a graph, and a configuration into one call.
package graphbeam
