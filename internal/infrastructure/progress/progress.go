// Package progress provides the progress-tracking collaborator boundary used
// by the Pregel driver at each superstep barrier.
package progress

import (
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Tracker receives "N nodes processed" increments from the driver. Reset is
// called at the start of each superstep with the expected volume, Finished
// once the run halts.
type Tracker interface {
	Reset(volume int64)
	Progress(n int64)
	Finished()
}

// Task is a logging Tracker. Progress increments may arrive concurrently;
// everything else is barrier-only.
type Task struct {
	ID        string
	Name      string
	volume    int64
	processed atomic.Int64
	log       zerolog.Logger
}

// NewTask creates a named task logging through the given logger.
func NewTask(name string, logger zerolog.Logger) *Task {
	id := uuid.NewString()
	return &Task{
		ID:   id,
		Name: name,
		log:  logger.With().Str("task", name).Str("task_id", id).Logger(),
	}
}

// Reset starts a new unit of work with the given volume.
func (t *Task) Reset(volume int64) {
	t.volume = volume
	t.processed.Store(0)
}

// Progress records n more items processed.
func (t *Task) Progress(n int64) {
	done := t.processed.Add(n)
	t.log.Debug().Int64("processed", done).Int64("volume", t.volume).Msg("progress")
}

// Finished marks the task complete.
func (t *Task) Finished() {
	t.log.Info().Int64("processed", t.processed.Load()).Msg("task finished")
}

// Processed returns the number of items recorded since the last Reset.
func (t *Task) Processed() int64 {
	return t.processed.Load()
}

// NoopTracker discards all progress. Used when the caller does not track.
type NoopTracker struct{}

func (NoopTracker) Reset(int64)    {}
func (NoopTracker) Progress(int64) {}
func (NoopTracker) Finished()      {}
