package pregel

import (
	"fmt"
	"runtime"

	"github.com/go-playground/validator/v10"
)

// Partitioning selects how the node id space is divided across workers.
type Partitioning string

const (
	// PartitioningAuto resolves to range partitioning.
	PartitioningAuto Partitioning = "auto"
	// PartitioningRange divides [0, nodeCount) into contiguous ranges.
	PartitioningRange Partitioning = "range"
)

// Config holds the recognized driver options.
type Config struct {
	// MaxIterations caps the number of supersteps. Reaching the cap
	// without convergence is a normal terminal status, not an error.
	MaxIterations int `validate:"required,min=1"`
	// IsAsynchronous selects immediate message visibility instead of the
	// one-superstep delay.
	IsAsynchronous bool
	// Partitioning selects the id-space division strategy.
	Partitioning Partitioning `validate:"omitempty,oneof=auto range"`
	// TrackSender records message senders (reducing messenger only).
	TrackSender bool
	// Concurrency sets the worker pool size. Zero means NumCPU.
	Concurrency int `validate:"min=0"`
	// QueueCapacity sets the per-worker queue capacity of the executor.
	// Defaults to 100 when <= 0.
	QueueCapacity int
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration; it runs fail-fast before any parallel
// work begins.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid pregel config: %w", err)
	}
	return nil
}

// withDefaults resolves zero values to their effective settings.
func (c Config) withDefaults() Config {
	if c.Concurrency <= 0 {
		c.Concurrency = runtime.NumCPU()
		if c.Concurrency < 1 {
			c.Concurrency = 1
		}
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 100
	}
	if c.Partitioning == "" {
		c.Partitioning = PartitioningAuto
	}
	return c
}
