package prebuilt

import (
	"context"
	"fmt"

	"github.com/graphbeam/graphbeam/pkg/graphbeam"
)

// Algorithm bundles a computation with the schema it operates on and the
// message delivery strategy it expects. Implementations should be pure: a
// single Algorithm value may back many concurrent runs.
type Algorithm interface {
	Name() string
	Schema() (graphbeam.Schema, error)
	Computation() graphbeam.Computation
	// Messenger returns the delivery strategy for a graph of nodeCount
	// nodes, or nil to use the configuration's default queue messenger.
	Messenger(nodeCount int64) graphbeam.Messenger
}

// Run executes algo over g with a one-off runtime.
func Run(ctx context.Context, g graphbeam.Graph, algo Algorithm, cfg graphbeam.Config) (graphbeam.Result, error) {
	schema, err := algo.Schema()
	if err != nil {
		return graphbeam.Result{}, err
	}
	return graphbeam.NewRuntime().RunWithMessenger(ctx, g, schema, algo.Computation(), cfg, algo.Messenger(g.NodeCount()))
}

// Registry holds named algorithms.
type Registry struct {
	algorithms map[string]Algorithm
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{algorithms: make(map[string]Algorithm)}
}

// Register adds or replaces an algorithm.
func (r *Registry) Register(a Algorithm) {
	r.algorithms[a.Name()] = a
}

// MustRegister panics on duplicate names; useful during init() setup.
func (r *Registry) MustRegister(a Algorithm) {
	if _, exists := r.algorithms[a.Name()]; exists {
		panic(fmt.Sprintf("algorithm already registered: %s", a.Name()))
	}
	r.algorithms[a.Name()] = a
}

// Get retrieves a named algorithm.
func (r *Registry) Get(name string) (Algorithm, bool) {
	a, ok := r.algorithms[name]
	return a, ok
}

// Names lists the registered algorithm names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.algorithms))
	for name := range r.algorithms {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry returns a registry with every algorithm this package
// ships.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(NewPageRank())
	r.MustRegister(NewConnectedComponents())
	r.MustRegister(NewDegreeCentrality())
	return r
}
