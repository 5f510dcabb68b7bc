package game

import (
	"context"
	"time"
)

// DefaultClockInterval is how often a Clock reports by default.
const DefaultClockInterval = 500 * time.Millisecond

// ElapsedSource is the read-only view of a session a Clock needs.
type ElapsedSource interface {
	ElapsedSeconds() int
	IsFinished() bool
}

// Clock reports a session's elapsed time on a fixed cadence. It never
// mutates the session.
type Clock struct {
	src      ElapsedSource
	interval time.Duration
}

func NewClock(src ElapsedSource, interval time.Duration) *Clock {
	if interval <= 0 {
		interval = DefaultClockInterval
	}
	return &Clock{src: src, interval: interval}
}

// Run calls report with the elapsed seconds immediately and then on every
// tick, until the source is finished or ctx is done. It blocks.
func (c *Clock) Run(ctx context.Context, report func(elapsedSeconds int)) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil || c.src.IsFinished() {
			return
		}
		report(c.src.ElapsedSeconds())

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Ticks runs the clock in its own goroutine and delivers readings on the
// returned channel, which is closed when the clock stops. Readings are
// dropped if the receiver falls behind.
func (c *Clock) Ticks(ctx context.Context) <-chan int {
	out := make(chan int, 1)
	go func() {
		defer close(out)
		c.Run(ctx, func(elapsed int) {
			select {
			case out <- elapsed:
			default:
			}
		})
	}()
	return out
}
