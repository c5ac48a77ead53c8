// Package memory provides the bounded in-memory seed-job queue used to fan
// refresh work out to pipeline workers.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ishaan2692/search-engine/internal/catalog"
)

// ErrClosed is returned by Dequeue once the queue is closed and drained.
var ErrClosed = errors.New("queue closed")

// Queue is a bounded in-memory queue with context-aware operations.
type Queue struct {
	ch      chan catalog.SeedJob
	closeMu sync.Mutex
	closed  bool
}

// NewQueue constructs a queue with the provided capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{ch: make(chan catalog.SeedJob, capacity)}
}

// Enqueue pushes a job into the queue or returns when the context ends.
func (q *Queue) Enqueue(ctx context.Context, job catalog.SeedJob) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("enqueue canceled: %w", ctx.Err())
	case q.ch <- job:
		return nil
	}
}

// Dequeue pops the next job, respecting context cancellation. Jobs buffered
// before Close are still delivered; afterwards Dequeue returns ErrClosed.
func (q *Queue) Dequeue(ctx context.Context) (catalog.SeedJob, error) {
	select {
	case <-ctx.Done():
		return catalog.SeedJob{}, fmt.Errorf("dequeue canceled: %w", ctx.Err())
	case job, ok := <-q.ch:
		if !ok {
			return catalog.SeedJob{}, ErrClosed
		}
		return job, nil
	}
}

// Close marks the queue complete. Safe to call more than once.
func (q *Queue) Close() {
	q.closeMu.Lock()
	defer q.closeMu.Unlock()
	if q.closed {
		return
	}
	close(q.ch)
	q.closed = true
}
