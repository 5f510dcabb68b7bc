package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/memorymatch/internal/models"
	"github.com/vytor/memorymatch/internal/worker"
)

type countingJob struct {
	runs *atomic.Int32
	err  error
}

func (j countingJob) Name() string { return "counting" }

func (j countingJob) Run(context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestPool_DrainsQueuedJobsOnStop(t *testing.T) {
	var runs atomic.Int32
	pool := worker.NewPool(2, 16)
	pool.Start(context.Background())

	for i := 0; i < 10; i++ {
		err := errors.New("boom")
		if i%2 == 0 {
			err = nil
		}
		require.NoError(t, pool.Submit(countingJob{runs: &runs, err: err}))
	}
	pool.Stop()

	assert.Equal(t, int32(10), runs.Load())
	assert.ErrorIs(t, pool.Submit(countingJob{runs: &runs}), worker.ErrPoolStopped)

	// Stopping twice is harmless.
	pool.Stop()
}

func TestPool_RejectsWhenFull(t *testing.T) {
	var runs atomic.Int32
	pool := worker.NewPool(1, 1)

	// Not started, so the single slot stays occupied.
	require.NoError(t, pool.Submit(countingJob{runs: &runs}))
	assert.ErrorIs(t, pool.Submit(countingJob{runs: &runs}), worker.ErrQueueFull)
	assert.Equal(t, 1, pool.QueueSize())

	pool.Start(context.Background())
	pool.Stop()
	assert.Equal(t, int32(1), runs.Load())
}

type recordingSaver struct {
	mu     sync.Mutex
	scores []models.Score
	err    error
}

func (r *recordingSaver) Save(_ context.Context, score models.Score) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.scores = append(r.scores, score)
	return int64(len(r.scores)), nil
}

func TestSaveScoreJob(t *testing.T) {
	saver := &recordingSaver{}
	job := &worker.SaveScoreJob{Saver: saver, Score: models.Score{UserID: 1, ThemeID: 2, Attempts: 8, TimeSeconds: 31}}

	assert.Equal(t, "save_score", job.Name())
	require.NoError(t, job.Run(context.Background()))
	require.Len(t, saver.scores, 1)
	assert.Equal(t, 8, saver.scores[0].Attempts)

	saver.err = errors.New("db down")
	assert.EqualError(t, job.Run(context.Background()), "db down")
}
