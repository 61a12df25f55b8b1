package progress

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestTask_CountsConcurrentProgress(t *testing.T) {
	task := NewTask("compute", zerolog.Nop())
	assert.NotEmpty(t, task.ID)

	task.Reset(400)
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				task.Progress(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(400), task.Processed())
	task.Finished()

	task.Reset(10)
	assert.Equal(t, int64(0), task.Processed())
}

func TestNoopTracker(t *testing.T) {
	var tracker Tracker = NoopTracker{}
	tracker.Reset(5)
	tracker.Progress(5)
	tracker.Finished()
}
