package crawler

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// visitTracker records URLs already fetched within one crawl invocation.
type visitTracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newVisitTracker() *visitTracker {
	return &visitTracker{seen: make(map[string]struct{})}
}

func (t *visitTracker) Mark(url string) {
	if url == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen[url] = struct{}{}
}

func (t *visitTracker) Seen(url string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.seen[url]
	return ok
}

// wait sleeps for delay unless the context finishes first.
func wait(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// RandomRangeDelay implements catalog.DelayStrategy with a uniformly
// jittered pause inside [Min, Max]. The jitter keeps request cadence from
// looking mechanical to the origin server.
type RandomRangeDelay struct {
	Min time.Duration
	Max time.Duration
}

// Next returns the politeness pause after the nth fetch.
func (d RandomRangeDelay) Next(int) time.Duration {
	if d.Min < 0 {
		d.Min = 0
	}
	if d.Max <= d.Min {
		return d.Min
	}
	return d.Min + time.Duration(rand.Int63n(int64(d.Max-d.Min)))
}
