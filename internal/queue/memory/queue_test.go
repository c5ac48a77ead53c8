package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ishaan2692/search-engine/internal/catalog"
)

func TestQueueFIFO(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	q := NewQueue(4)

	jobs := []catalog.SeedJob{
		{Seed: "https://a.example.com", MaxDepth: 1},
		{Seed: "https://b.example.com", MaxDepth: 2},
	}
	for _, j := range jobs {
		require.NoError(t, q.Enqueue(ctx, j))
	}
	q.Close()

	for _, want := range jobs {
		got, err := q.Dequeue(ctx)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := q.Dequeue(ctx)
	require.ErrorIs(t, err, ErrClosed)
}

func TestQueueDequeueRespectsContext(t *testing.T) {
	t.Parallel()

	q := NewQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueueCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	q := NewQueue(1)
	q.Close()
	q.Close()
}
