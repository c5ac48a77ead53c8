// Package fetcher implements page retrieval on top of the Colly collector.
package fetcher

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/ishaan2692/search-engine/internal/catalog"
)

// Config controls the shared HTTP behavior of a Client.
type Config struct {
	Timeout     time.Duration
	MaxParallel int
}

// Client is a Colly-based catalog.Fetcher. Every Fetch clones the base
// collector, so per-request handlers never leak between calls, and request
// identity headers come from the injected pool.
type Client struct {
	base       *colly.Collector
	identities catalog.IdentityPool
	logger     *zap.Logger
	requests   atomic.Int64
}

// New constructs a configured Client.
func New(cfg Config, identities catalog.IdentityPool, logger *zap.Logger) (*Client, error) {
	if cfg.Timeout <= 0 {
		return nil, errors.New("fetcher timeout must be > 0")
	}
	parallel := cfg.MaxParallel
	if parallel <= 0 {
		parallel = 2
	}

	base := colly.NewCollector(colly.Async(true))
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		MaxConnsPerHost:       parallel * 2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.Timeout)

	if err := base.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: parallel,
	}); err != nil {
		return nil, err
	}

	return &Client{
		base:       base,
		identities: identities,
		logger:     logger,
	}, nil
}

// Fetch retrieves a single URL and returns the response page. Transport
// failures and timeouts surface as errors; non-2xx statuses surface through
// the returned Page so callers decide what counts as a failure.
func (c *Client) Fetch(ctx context.Context, rawURL string) (catalog.Page, error) {
	collector := c.base.Clone()
	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() {
			resultCh <- res
		})
	}

	n := int(c.requests.Add(1))
	collector.OnRequest(func(r *colly.Request) {
		if c.identities == nil {
			return
		}
		for key, values := range c.identities.Pick(n) {
			for _, v := range values {
				r.Headers.Set(key, v)
			}
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		send(fetchResult{page: catalog.Page{
			URL:        rawURL,
			FinalURL:   r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       append([]byte{}, r.Body...),
		}})
	})

	collector.OnError(func(r *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		if r != nil && r.StatusCode != 0 {
			// HTTP-level failures still carry a page; let the caller
			// inspect the status instead of treating them as transport
			// errors.
			send(fetchResult{page: catalog.Page{
				URL:        rawURL,
				FinalURL:   r.Request.URL.String(),
				StatusCode: r.StatusCode,
				Body:       append([]byte{}, r.Body...),
			}})
			return
		}
		send(fetchResult{err: err})
	})

	done := make(chan error, 1)
	go func() {
		if err := collector.Visit(rawURL); err != nil {
			done <- err
			return
		}
		collector.Wait()
		done <- nil
	}()

	select {
	case <-ctx.Done():
		return catalog.Page{}, ctx.Err()
	case err := <-done:
		if err != nil {
			return catalog.Page{}, err
		}
	}

	select {
	case res := <-resultCh:
		if res.err != nil {
			c.logger.Debug("fetch failed", zap.String("url", rawURL), zap.Error(res.err))
		}
		return res.page, res.err
	default:
		return catalog.Page{}, errors.New("fetch produced no result")
	}
}

type fetchResult struct {
	page catalog.Page
	err  error
}
