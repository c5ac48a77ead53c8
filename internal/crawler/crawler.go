// Package crawler implements depth-bounded discovery of product page URLs.
//
// A crawl is a breadth-first walk from one seed URL. Discovered links are
// split into product links (leaves, collected into the result) and
// traversable links (same-site pages appended to the frontier). The depth
// budget is consumed once per dequeued page, not per BFS level.
package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ishaan2692/search-engine/internal/catalog"
	"github.com/ishaan2692/search-engine/internal/metrics"
)

// Config holds the link classification rules for a crawl session.
type Config struct {
	// ProductMarkers are path substrings that identify product detail pages.
	ProductMarkers []string
	// ExcludeMarkers veto a product classification (review/comment sub-pages).
	ExcludeMarkers []string
}

// DefaultConfig returns the marker sets used when configuration supplies none.
func DefaultConfig() Config {
	return Config{
		ProductMarkers: []string{"/product/", "/p/"},
		ExcludeMarkers: []string{"/review", "/comment"},
	}
}

// Crawler discovers candidate product URLs starting from seed pages.
type Crawler struct {
	cfg     Config
	fetcher catalog.Fetcher
	delay   catalog.DelayStrategy
	logger  *zap.Logger
}

// New constructs a Crawler. The delay strategy is applied after every fetch
// as a politeness pause; a nil strategy disables pausing (tests).
func New(cfg Config, fetcher catalog.Fetcher, delay catalog.DelayStrategy, logger *zap.Logger) *Crawler {
	if len(cfg.ProductMarkers) == 0 {
		cfg.ProductMarkers = DefaultConfig().ProductMarkers
	}
	return &Crawler{
		cfg:     cfg,
		fetcher: fetcher,
		delay:   delay,
		logger:  logger,
	}
}

// Crawl walks the site breadth-first from seed and returns the deduplicated
// set of discovered product URLs. A fetch failure on one page is a warning,
// never a crawl abort; only a malformed seed or depth budget fails fast.
func (c *Crawler) Crawl(ctx context.Context, seed string, maxDepth int) ([]string, error) {
	if maxDepth < 1 {
		return nil, fmt.Errorf("max depth must be >= 1, got %d", maxDepth)
	}
	seedURL, err := url.Parse(seed)
	if err != nil {
		return nil, fmt.Errorf("parse seed url: %w", err)
	}
	if !seedURL.IsAbs() || seedURL.Host == "" {
		return nil, fmt.Errorf("seed url %q must be absolute", seed)
	}

	visited := newVisitTracker()
	frontier := []string{seed}
	budget := maxDepth
	products := make(map[string]struct{})
	fetches := 0

	for len(frontier) > 0 && budget > 0 {
		if err := ctx.Err(); err != nil {
			return collect(products), err
		}

		current := frontier[0]
		frontier = frontier[1:]
		if visited.Seen(current) {
			continue
		}

		page, err := c.fetcher.Fetch(ctx, current)
		if err != nil {
			c.logger.Warn("crawl fetch failed", zap.String("url", current), zap.Error(err))
			continue
		}
		visited.Mark(current)
		fetches++
		metrics.ObservePageCrawled(seedURL.Host)

		for _, link := range extractLinks(page.Body, current) {
			switch c.classify(link, seed, budget, visited) {
			case linkProduct:
				products[link] = struct{}{}
			case linkTraversable:
				frontier = append(frontier, link)
			}
		}

		budget--
		c.pause(ctx, fetches)
	}

	return collect(products), nil
}

type linkClass int

const (
	linkDiscard linkClass = iota
	linkProduct
	linkTraversable
)

func (c *Crawler) classify(link, seed string, budget int, visited *visitTracker) linkClass {
	if c.isProductLink(link) {
		return linkProduct
	}
	// Traversal needs at least one more depth unit beyond the current page.
	if budget > 1 && strings.HasPrefix(link, seed) && !visited.Seen(link) {
		return linkTraversable
	}
	return linkDiscard
}

func (c *Crawler) isProductLink(link string) bool {
	matched := false
	for _, marker := range c.cfg.ProductMarkers {
		if strings.Contains(link, marker) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, marker := range c.cfg.ExcludeMarkers {
		if strings.Contains(link, marker) {
			return false
		}
	}
	return true
}

func (c *Crawler) pause(ctx context.Context, n int) {
	if c.delay == nil {
		return
	}
	wait(ctx, c.delay.Next(n))
}

// extractLinks resolves every outbound hyperlink on the page against the
// page's own URL and drops anchors, javascript:, mailto: and other
// non-HTTP schemes.
func extractLinks(body []byte, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "javascript:") ||
			strings.HasPrefix(href, "mailto:") ||
			strings.HasPrefix(href, "tel:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		resolved.Fragment = ""
		abs := resolved.String()
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
	})
	return links
}

func collect(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	return out
}
