package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vytor/memorymatch/internal/logger"
)

var (
	ErrPoolStopped = errors.New("worker pool stopped")
	ErrQueueFull   = errors.New("worker queue full")
)

type Job interface {
	Run(context.Context) error
	Name() string
}

type Pool struct {
	mu      sync.RWMutex
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	queue   int
	stopped bool
	cancel  context.CancelFunc
	log     *logger.Logger
}

func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	log := logger.Default().WithPrefix("worker-pool")
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		queue:   queueSize,
		log:     log,
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			workerLog := p.log.WithField("worker_id", id)
			workerLog.Debug("worker started")

			// Queued jobs are drained after Stop closes the channel.
			for job := range p.jobs {
				jobLog := workerLog.WithField("job", job.Name())
				jobLog.Debug("starting job")
				start := time.Now()

				jobCtx := logger.NewContext(ctx, jobLog)
				if err := job.Run(jobCtx); err != nil {
					jobLog.Error("job failed after %v: %v", time.Since(start), err)
				} else {
					jobLog.Info("job completed in %v", time.Since(start))
				}
			}
			workerLog.Debug("worker shutting down (queue closed)")
		}(i + 1)
	}
}

// Stop closes the queue, waits for queued jobs to finish, then cancels the
// context handed to jobs.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	p.log.Info("stopping worker pool")
	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.log.Info("worker pool stopped")
}

// Submit enqueues job without blocking.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}
	select {
	case p.jobs <- job:
		p.log.Debug("submitted job: %s", job.Name())
		return nil
	default:
		p.log.Warn("queue full, rejecting job: %s", job.Name())
		return ErrQueueFull
	}
}

// QueueSize returns the current number of pending jobs.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}
