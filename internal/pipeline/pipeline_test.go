package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ishaan2692/search-engine/internal/catalog"
	"github.com/ishaan2692/search-engine/internal/store/memory"
)

type fakeCrawler struct {
	mu      sync.Mutex
	results map[string][]string
	errs    map[string]error
	crawled []string
}

func (c *fakeCrawler) Crawl(_ context.Context, seed string, _ int) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.crawled = append(c.crawled, seed)
	if err, ok := c.errs[seed]; ok {
		return nil, err
	}
	return c.results[seed], nil
}

type fakeScraper struct {
	mu    sync.Mutex
	store catalog.Store
	fail  map[string]error
}

func (s *fakeScraper) Scrape(ctx context.Context, url string) (catalog.Product, error) {
	s.mu.Lock()
	err := s.fail[url]
	s.mu.Unlock()
	if err != nil {
		return catalog.Product{}, err
	}
	p := catalog.Product{ID: catalog.ProductID(url), URL: url, PetType: catalog.PetTypeOther}
	if upsertErr := s.store.Upsert(ctx, p); upsertErr != nil {
		return catalog.Product{}, upsertErr
	}
	return p, nil
}

func TestRefreshAggregatesAcrossSeeds(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	crawlerFake := &fakeCrawler{
		results: map[string][]string{
			"https://a.example.com/dog/": {
				"https://a.example.com/product/1",
				"https://a.example.com/product/2",
			},
			"https://b.example.com/cat/": {
				"https://b.example.com/p/3",
			},
		},
	}
	scraperFake := &fakeScraper{store: store, fail: map[string]error{}}

	p := New(Config{
		Seeds:    []string{"https://a.example.com/dog/", "https://b.example.com/cat/"},
		MaxDepth: 2,
		Workers:  2,
	}, crawlerFake, scraperFake, store, zap.NewNop())

	report, err := p.Refresh(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, report.SeedsCrawled)
	require.Zero(t, report.SeedsFailed)
	require.Equal(t, 3, report.Attempted)
	require.Equal(t, 3, report.Succeeded)
	require.Zero(t, report.Failed)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestRefreshCountsPartialFailures(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	crawlerFake := &fakeCrawler{
		results: map[string][]string{
			"https://a.example.com/dog/": {
				"https://a.example.com/product/ok",
				"https://a.example.com/product/broken",
			},
		},
		errs: map[string]error{
			"https://down.example.com/": errors.New("connection refused"),
		},
	}
	scraperFake := &fakeScraper{
		store: store,
		fail: map[string]error{
			"https://a.example.com/product/broken": errors.New("retries exhausted"),
		},
	}

	p := New(Config{
		Seeds:    []string{"https://a.example.com/dog/", "https://down.example.com/"},
		MaxDepth: 1,
		Workers:  1,
	}, crawlerFake, scraperFake, store, zap.NewNop())

	report, err := p.Refresh(context.Background())
	require.NoError(t, err)

	// One seed down, one URL failed: everything else still lands.
	require.Equal(t, 1, report.SeedsCrawled)
	require.Equal(t, 1, report.SeedsFailed)
	require.Equal(t, 2, report.Attempted)
	require.Equal(t, 1, report.Succeeded)
	require.Equal(t, 1, report.Failed)
	require.Equal(t, "1/2 products scraped across 1 seeds", report.String())
}

func TestRefreshRequiresSeeds(t *testing.T) {
	t.Parallel()

	p := New(Config{}, &fakeCrawler{}, &fakeScraper{store: memory.NewStore()}, memory.NewStore(), zap.NewNop())
	_, err := p.Refresh(context.Background())
	require.Error(t, err)
}
