package jobs

import (
	"github.com/vytor/memorymatch/internal/models"
	"github.com/vytor/memorymatch/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	persistPool *worker.Pool
	scores      worker.ScoreSaver
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(persistPool *worker.Pool, scores worker.ScoreSaver) JobQueue {
	return &WorkerQueue{
		persistPool: persistPool,
		scores:      scores,
	}
}

func (q *WorkerQueue) EnqueueScore(score models.Score) error {
	return q.persistPool.Submit(&worker.SaveScoreJob{
		Saver: q.scores,
		Score: score,
	})
}
