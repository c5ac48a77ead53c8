// Package metrics exposes Prometheus collectors for the search engine
// service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pagesCrawledTotal   *prometheus.CounterVec
	scrapesTotal        *prometheus.CounterVec
	productsStored      prometheus.Gauge
	searchQueriesTotal  prometheus.Counter
	indexBuildSeconds   prometheus.Histogram
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus collectors. Safe to call multiple times.
func Init() {
	once.Do(func() {
		pagesCrawledTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "searchengine_pages_crawled_total",
				Help: "Total pages visited by the crawler, labeled by seed host.",
			},
			[]string{"host"},
		)

		scrapesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "searchengine_scrapes_total",
				Help: "Total scrape attempts, labeled by result.",
			},
			[]string{"result"},
		)

		productsStored = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "searchengine_products_stored",
				Help: "Number of product records currently stored.",
			},
		)

		searchQueriesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "searchengine_search_queries_total",
				Help: "Total search queries answered.",
			},
		)

		indexBuildSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "searchengine_index_build_seconds",
				Help:    "Time spent rebuilding the TF-IDF index.",
				Buckets: prometheus.DefBuckets,
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "searchengine_http_requests_total",
				Help: "Total HTTP requests, labeled by method, route, and code.",
			},
			[]string{"method", "route", "code"},
		)

		httpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "searchengine_http_request_duration_seconds",
				Help:    "HTTP request latency, labeled by method and route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		)
	})
}

// ObservePageCrawled counts one crawler page visit.
func ObservePageCrawled(host string) {
	if pagesCrawledTotal != nil {
		pagesCrawledTotal.WithLabelValues(host).Inc()
	}
}

// ObserveScrape counts one scrape attempt with its result label
// ("success" or "failure").
func ObserveScrape(result string) {
	if scrapesTotal != nil {
		scrapesTotal.WithLabelValues(result).Inc()
	}
}

// SetProductsStored records the current store size.
func SetProductsStored(n int) {
	if productsStored != nil {
		productsStored.Set(float64(n))
	}
}

// ObserveSearchQuery counts one answered search query.
func ObserveSearchQuery() {
	if searchQueriesTotal != nil {
		searchQueriesTotal.Inc()
	}
}

// ObserveIndexBuild records the duration of one index rebuild.
func ObserveIndexBuild(d time.Duration) {
	if indexBuildSeconds != nil {
		indexBuildSeconds.Observe(d.Seconds())
	}
}

// ObserveHTTPRequest records one served HTTP request.
func ObserveHTTPRequest(method, route string, code int, d time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler returns the Prometheus scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
