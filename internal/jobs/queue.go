package jobs

import "github.com/vytor/memorymatch/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueScore(score models.Score) error
}
