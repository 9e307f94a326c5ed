// Package frame provides the frame callbacks that drive an animation
// looper: a queue that hosts drain once per displayed frame, and a ticker
// loop that drains it at a fixed rate.
package frame

import "time"

// DefaultInterval is the 60 Hz frame interval.
const DefaultInterval = time.Second / 60

// Queue holds callbacks requested for the next frame. It is not safe for
// concurrent use; requests and flushes happen on one goroutine.
type Queue struct {
	pending []func()
	spare   []func()
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) RequestFrame(fn func()) {
	q.pending = append(q.pending, fn)
}

// Len returns the number of callbacks waiting for the next frame.
func (q *Queue) Len() int { return len(q.pending) }

// Flush runs the callbacks queued before the call and returns how many ran.
// Callbacks requested while flushing wait for the next frame.
func (q *Queue) Flush() int {
	batch := q.pending
	q.pending = q.spare[:0]
	for _, fn := range batch {
		fn()
	}
	clear(batch)
	q.spare = batch[:0]
	return len(batch)
}
