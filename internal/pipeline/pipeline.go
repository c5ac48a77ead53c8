// Package pipeline orchestrates the crawl→scrape refresh across all
// configured seed sites.
//
// Each seed is one queue job. Workers consume jobs independently; the only
// shared mutable state between them is the Store, whose atomic upsert
// semantics serialize concurrent writes to the same record.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ishaan2692/search-engine/internal/catalog"
	"github.com/ishaan2692/search-engine/internal/metrics"
	memqueue "github.com/ishaan2692/search-engine/internal/queue/memory"
)

// SiteCrawler discovers candidate product URLs below a seed.
type SiteCrawler interface {
	Crawl(ctx context.Context, seed string, maxDepth int) ([]string, error)
}

// ProductScraper turns one product URL into a stored record.
type ProductScraper interface {
	Scrape(ctx context.Context, url string) (catalog.Product, error)
}

// Config controls refresh behavior.
type Config struct {
	Seeds      []string
	MaxDepth   int
	Workers    int
	QueueDepth int
}

// Report summarizes one refresh run. Partial results are the expected
// outcome: per-URL failures are counted, never fatal.
type Report struct {
	SeedsCrawled int `json:"seeds_crawled"`
	SeedsFailed  int `json:"seeds_failed"`
	Attempted    int `json:"attempted"`
	Succeeded    int `json:"succeeded"`
	Failed       int `json:"failed"`
}

// Pipeline fans refresh work out over a bounded queue to a worker pool.
type Pipeline struct {
	cfg     Config
	crawler SiteCrawler
	scraper ProductScraper
	store   catalog.Store
	logger  *zap.Logger
}

// New constructs a Pipeline.
func New(cfg Config, siteCrawler SiteCrawler, productScraper ProductScraper, store catalog.Store, logger *zap.Logger) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 1
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = len(cfg.Seeds) + 1
	}
	return &Pipeline{
		cfg:     cfg,
		crawler: siteCrawler,
		scraper: productScraper,
		store:   store,
		logger:  logger,
	}
}

// Refresh crawls every configured seed and scrapes each discovered product
// URL. It returns an error only for configuration-level problems; failures
// local to one URL or one seed are logged, counted, and skipped.
func (p *Pipeline) Refresh(ctx context.Context) (Report, error) {
	if len(p.cfg.Seeds) == 0 {
		return Report{}, errors.New("no seed urls configured")
	}

	queue := memqueue.NewQueue(p.cfg.QueueDepth)
	go func() {
		defer queue.Close()
		for _, seed := range p.cfg.Seeds {
			job := catalog.SeedJob{Seed: seed, MaxDepth: p.cfg.MaxDepth}
			if err := queue.Enqueue(ctx, job); err != nil {
				p.logger.Warn("seed enqueue canceled", zap.String("seed", seed), zap.Error(err))
				return
			}
		}
	}()

	var (
		mu     sync.Mutex
		report Report
		wg     sync.WaitGroup
	)
	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			log := p.logger.With(zap.Int("worker", worker))
			for {
				job, err := queue.Dequeue(ctx)
				if err != nil {
					if !errors.Is(err, memqueue.ErrClosed) && ctx.Err() == nil {
						log.Error("dequeue failed", zap.Error(err))
					}
					return
				}
				partial := p.processSeed(ctx, log, job)
				mu.Lock()
				report.SeedsCrawled += partial.SeedsCrawled
				report.SeedsFailed += partial.SeedsFailed
				report.Attempted += partial.Attempted
				report.Succeeded += partial.Succeeded
				report.Failed += partial.Failed
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if count, err := p.store.Count(ctx); err == nil {
		metrics.SetProductsStored(count)
	}

	p.logger.Info("refresh complete",
		zap.Int("seeds_crawled", report.SeedsCrawled),
		zap.Int("attempted", report.Attempted),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
	)
	return report, ctx.Err()
}

func (p *Pipeline) processSeed(ctx context.Context, log *zap.Logger, job catalog.SeedJob) Report {
	var report Report

	urls, err := p.crawler.Crawl(ctx, job.Seed, job.MaxDepth)
	if err != nil {
		log.Warn("seed crawl failed", zap.String("seed", job.Seed), zap.Error(err))
		report.SeedsFailed++
		return report
	}
	report.SeedsCrawled++
	log.Info("seed crawled",
		zap.String("seed", job.Seed),
		zap.Int("candidates", len(urls)),
	)

	for _, url := range urls {
		if ctx.Err() != nil {
			return report
		}
		report.Attempted++
		if _, err := p.scraper.Scrape(ctx, url); err != nil {
			report.Failed++
			metrics.ObserveScrape("failure")
			log.Warn("scrape failed", zap.String("url", url), zap.Error(err))
			continue
		}
		report.Succeeded++
		metrics.ObserveScrape("success")
	}
	return report
}

// String renders the report as the presentation layer's summary line.
func (r Report) String() string {
	return fmt.Sprintf("%d/%d products scraped across %d seeds", r.Succeeded, r.Attempted, r.SeedsCrawled)
}
