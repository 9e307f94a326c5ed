package frame

import (
	"context"
	"time"
)

// Loop flushes a Queue on every tick of a ticker, on the goroutine that
// calls Run.
type Loop struct {
	*Queue
	interval time.Duration
	frames   int
}

func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{Queue: NewQueue(), interval: interval}
}

func (l *Loop) Interval() time.Duration { return l.interval }

// Frames counts the ticks that flushed at least one callback.
func (l *Loop) Frames() int { return l.frames }

// Run flushes the queue every interval until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if l.Flush() > 0 {
				l.frames++
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunUntilDrained flushes the queue every interval and returns once a flush
// leaves nothing queued, which is when the animation it feeds has stopped.
// It also returns after maxFrames flushing ticks; zero means no limit.
func (l *Loop) RunUntilDrained(ctx context.Context, maxFrames int) error {
	if l.Len() == 0 {
		return nil
	}
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for n := 0; maxFrames == 0 || n < maxFrames; {
		select {
		case <-ticker.C:
			if l.Flush() > 0 {
				l.frames++
				n++
			}
			if l.Len() == 0 {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
