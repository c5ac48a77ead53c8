// Package main wires together the product search engine service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ishaan2692/search-engine/internal/api"
	"github.com/ishaan2692/search-engine/internal/catalog"
	"github.com/ishaan2692/search-engine/internal/config"
	"github.com/ishaan2692/search-engine/internal/crawler"
	"github.com/ishaan2692/search-engine/internal/fetcher"
	"github.com/ishaan2692/search-engine/internal/logging"
	"github.com/ishaan2692/search-engine/internal/metrics"
	"github.com/ishaan2692/search-engine/internal/pipeline"
	"github.com/ishaan2692/search-engine/internal/scraper"
	memorystore "github.com/ishaan2692/search-engine/internal/store/memory"
	postgresstore "github.com/ishaan2692/search-engine/internal/store/postgres"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(logging.Options{
		Development: cfg.Logging.Development,
		Level:       cfg.Logging.Level,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	store, closeStore, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store init failed", zap.Error(err))
	}
	defer closeStore()

	identities := fetcher.NewRotatingIdentityPool(cfg.HTTP.UserAgents)
	fetchClient, err := fetcher.New(fetcher.Config{
		Timeout:     cfg.Timeout(),
		MaxParallel: cfg.HTTP.MaxParallel,
	}, identities, logger.Named("fetcher"))
	if err != nil {
		logger.Fatal("fetcher init failed", zap.Error(err))
	}

	minDelay, maxDelay := cfg.DelayRange()
	siteCrawler := crawler.New(
		crawler.Config{
			ProductMarkers: cfg.Crawler.ProductMarkers,
			ExcludeMarkers: cfg.Crawler.ExcludeMarkers,
		},
		fetchClient,
		crawler.RandomRangeDelay{Min: minDelay, Max: maxDelay},
		logger.Named("crawler"),
	)

	backoffBase, backoffMax := cfg.BackoffRange()
	retry := scraper.NewBackoffPolicy(cfg.Scraper.MaxAttempts, backoffBase, backoffMax)
	productScraper := scraper.New(scraper.Config{}, fetchClient, store, retry, logger.Named("scraper"))

	refresher := pipeline.New(
		pipeline.Config{
			Seeds:      cfg.Crawler.Seeds,
			MaxDepth:   cfg.Crawler.MaxDepth,
			Workers:    cfg.Pipeline.Workers,
			QueueDepth: cfg.Pipeline.QueueDepth,
		},
		siteCrawler,
		productScraper,
		store,
		logger.Named("pipeline"),
	)

	apiServer := api.NewServer(store, refresher, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

// newStore selects the backing store. An empty DSN keeps everything in
// memory, which is the local development mode.
func newStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (catalog.Store, func(), error) {
	if cfg.DB.DSN == "" {
		logger.Info("using in-memory store")
		return memorystore.NewStore(), func() {}, nil
	}

	pg, err := postgresstore.NewStore(ctx, postgresstore.Config{
		DSN:      cfg.DB.DSN,
		Table:    cfg.DB.Table,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	logger.Info("using postgres store", zap.String("table", cfg.DB.Table))
	return pg, pg.Close, nil
}
