package catalog

import (
	"context"
	"net/http"
	"time"
)

// Page is the result of fetching one URL.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Body       []byte
}

// Fetcher fetches a URL and returns the body plus metadata.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// Store persists Product records keyed by their content-addressed ID.
// Implementations must keep at most one record per ID; Upsert uses replace
// semantics (last write wins).
type Store interface {
	Upsert(ctx context.Context, p Product) error
	GetAll(ctx context.Context) ([]Product, error)
	Count(ctx context.Context) (int, error)
	CountByPetType(ctx context.Context) (map[PetType]int, error)
	Clear(ctx context.Context) error
}

// RetryPolicy decides whether a failed attempt is retried and how long to
// wait before the next one.
type RetryPolicy interface {
	ShouldRetry(err error, attempt int) bool
	Backoff(attempt int) time.Duration
}

// IdentityPool yields the request headers for a given attempt, so identity
// rotation is an injected strategy rather than logic buried in the fetcher.
type IdentityPool interface {
	Pick(attempt int) http.Header
}

// DelayStrategy yields the politeness pause after the nth fetch of a crawl.
type DelayStrategy interface {
	Next(n int) time.Duration
}
