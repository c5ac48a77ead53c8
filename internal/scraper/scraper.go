// Package scraper turns one product page URL into a stored Product record.
//
// Extraction is best effort: a selector chain that matches nothing yields an
// empty field, an unfetchable image yields an empty payload, and neither
// fails the scrape. Only transport-level failures are retried.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ishaan2692/search-engine/internal/catalog"
	"github.com/ishaan2692/search-engine/internal/extract"
)

// FieldSelectors are the ordered fallback chains tried per product field.
type FieldSelectors struct {
	Title       []string
	Description []string
	Price       []string
	Image       []string
}

// DefaultFieldSelectors covers the markup variants seen across the demo
// sites without per-site code paths.
func DefaultFieldSelectors() FieldSelectors {
	return FieldSelectors{
		Title:       []string{"h1", ".product-title", ".product-name"},
		Description: []string{".product-description", `[itemprop="description"]`, ".detail-content"},
		Price:       []string{".price", ".product-price", `[itemprop="price"]`},
		Image:       []string{"img.product-image", `[itemprop="image"]`},
	}
}

// Config controls scrape behavior.
type Config struct {
	Selectors FieldSelectors
}

// Scraper fetches product pages, extracts fields, and upserts records.
type Scraper struct {
	cfg     Config
	fetcher catalog.Fetcher
	store   catalog.Store
	retry   catalog.RetryPolicy
	logger  *zap.Logger
}

// New constructs a Scraper. The retry policy governs transient fetch
// failures; a nil policy means a single attempt.
func New(cfg Config, fetcher catalog.Fetcher, store catalog.Store, retry catalog.RetryPolicy, logger *zap.Logger) *Scraper {
	if len(cfg.Selectors.Title) == 0 {
		cfg.Selectors = DefaultFieldSelectors()
	}
	return &Scraper{
		cfg:     cfg,
		fetcher: fetcher,
		store:   store,
		retry:   retry,
		logger:  logger,
	}
}

// statusError marks an HTTP-level failure. It is deliberately not a
// net.Error, so the retry policy treats it as non-transient.
type statusError struct {
	url  string
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.url, e.code)
}

// Scrape fetches rawURL with retry on transient failures, extracts the
// product fields, and upserts the record under the replace policy. The
// returned error is non-fatal to callers iterating over a batch of URLs.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (catalog.Product, error) {
	page, err := s.fetchWithRetry(ctx, rawURL)
	if err != nil {
		return catalog.Product{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return catalog.Product{}, fmt.Errorf("parse %s: %w", rawURL, err)
	}

	title := extract.FirstText(doc, s.cfg.Selectors.Title)
	product := catalog.Product{
		ID:          catalog.ProductID(rawURL),
		Title:       title,
		Description: extract.FirstText(doc, s.cfg.Selectors.Description),
		Price:       extract.ParsePrice(extract.FirstText(doc, s.cfg.Selectors.Price)),
		URL:         rawURL,
		Image:       s.fetchImage(ctx, extract.FirstAttr(doc, s.cfg.Selectors.Image, "src")),
		PetType:     catalog.ClassifyPetType(rawURL, title),
	}

	if err := s.store.Upsert(ctx, product); err != nil {
		return catalog.Product{}, fmt.Errorf("upsert product: %w", err)
	}
	return product, nil
}

func (s *Scraper) fetchWithRetry(ctx context.Context, rawURL string) (catalog.Page, error) {
	attempt := 0
	for {
		attempt++
		page, err := s.fetcher.Fetch(ctx, rawURL)
		if err == nil && page.StatusCode >= 400 {
			err = &statusError{url: rawURL, code: page.StatusCode}
		}
		if err == nil {
			return page, nil
		}
		if s.retry == nil || !s.retry.ShouldRetry(err, attempt) {
			return catalog.Page{}, fmt.Errorf("fetch %s: %w", rawURL, err)
		}
		backoff := s.retry.Backoff(attempt)
		s.logger.Warn("transient fetch failure, backing off",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		if err := sleep(ctx, backoff); err != nil {
			return catalog.Page{}, err
		}
	}
}

// fetchImage retrieves the primary image payload. Anything short of an
// absolute HTTP(S) reference answering 2xx yields an empty payload; image
// problems never fail the scrape.
func (s *Scraper) fetchImage(ctx context.Context, ref string) []byte {
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return nil
	}
	page, err := s.fetcher.Fetch(ctx, ref)
	if err != nil || page.StatusCode < 200 || page.StatusCode >= 300 {
		s.logger.Debug("image fetch skipped",
			zap.String("image_url", ref),
			zap.Int("status", page.StatusCode),
			zap.Error(err),
		)
		return nil
	}
	return page.Body
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
