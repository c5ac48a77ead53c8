// Package api exposes the HTTP interface consumed by the presentation layer.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ishaan2692/search-engine/internal/catalog"
	"github.com/ishaan2692/search-engine/internal/index"
	"github.com/ishaan2692/search-engine/internal/metrics"
	"github.com/ishaan2692/search-engine/internal/pipeline"
)

const defaultSearchK = 10

// Refresher runs the crawl+scrape pipeline across all configured seeds.
type Refresher interface {
	Refresh(ctx context.Context) (pipeline.Report, error)
}

// Server wires HTTP handlers to the pipeline and store.
type Server struct {
	router    chi.Router
	store     catalog.Store
	refresher Refresher
	logger    *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(store catalog.Store, refresher Refresher, logger *zap.Logger) *Server {
	s := &Server{
		store:     store,
		refresher: refresher,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metricsMiddleware)
	r.Use(timeoutMiddleware(60 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/refresh", s.refresh)
		r.Post("/clear", s.clear)
		r.Get("/search", s.search)
		r.Get("/stats", s.stats)
		r.Get("/products", s.products)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Count(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	report, err := s.refresher.Refresh(r.Context())
	if err != nil {
		s.logger.Error("refresh failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{
		Report:  report,
		Summary: report.String(),
	})
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(r.Context()); err != nil {
		s.logger.Error("clear failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "clear failed")
		return
	}
	metrics.SetProductsStored(0)
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// search rebuilds the index from a fresh store snapshot on every call. The
// index is ephemeral by design; it never survives a store mutation.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	k := defaultSearchK
	if rawK := r.URL.Query().Get("k"); rawK != "" {
		parsed, err := strconv.Atoi(rawK)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "k must be a positive integer")
			return
		}
		k = parsed
	}

	products, err := s.store.GetAll(r.Context())
	if err != nil {
		s.logger.Error("store read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "store read failed")
		return
	}

	start := time.Now()
	idx := index.Build(products)
	metrics.ObserveIndexBuild(time.Since(start))
	metrics.ObserveSearchQuery()

	results := idx.Search(query, k)
	if results == nil {
		results = []index.Result{}
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Query:   query,
		Results: results,
	})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store read failed")
		return
	}
	byType, err := s.store.CountByPetType(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store read failed")
		return
	}
	metrics.SetProductsStored(count)
	writeJSON(w, http.StatusOK, statsResponse{
		Products:  count,
		ByPetType: byType,
	})
}

func (s *Server) products(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.GetAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store read failed")
		return
	}
	listings := make([]productListing, 0, len(all))
	for _, p := range all {
		listings = append(listings, productListing{
			Title:   p.Title,
			Price:   p.Price,
			PetType: p.PetType,
			URL:     p.URL,
		})
	}
	writeJSON(w, http.StatusOK, listings)
}

type refreshResponse struct {
	Report  pipeline.Report `json:"report"`
	Summary string          `json:"summary"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Results []index.Result `json:"results"`
}

type statsResponse struct {
	Products  int                     `json:"products"`
	ByPetType map[catalog.PetType]int `json:"by_pet_type"`
}

type productListing struct {
	Title   string          `json:"title"`
	Price   float64         `json:"price"`
	PetType catalog.PetType `json:"pet_type"`
	URL     string          `json:"url"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
