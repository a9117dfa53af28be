// Package server exposes serve mode's read-only HTTP surface: a health
// probe, the latest cycle reports as JSON, and Prometheus metrics.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type StatusServer struct {
	router *chi.Mux
	log    *zap.Logger
	store  *Store
}

func NewStatusServer(log *zap.Logger, store *Store, gatherer prometheus.Gatherer) *StatusServer {
	s := &StatusServer{
		router: chi.NewRouter(),
		log:    log.Named("status-api"),
		store:  store,
	}

	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/api/v1/status", s.getStatus)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return s
}

type statusResponse struct {
	UpdatedAt time.Time   `json:"updated_at"`
	Reports   interface{} `json:"reports"`
}

func (s *StatusServer) getStatus(w http.ResponseWriter, _ *http.Request) {
	docs, updated := s.store.Snapshot()
	if updated.IsZero() {
		// No pass has completed yet.
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"error": "no monitoring pass completed yet"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(statusResponse{UpdatedAt: updated, Reports: docs}); err != nil {
		s.log.Error("writing status response", zap.Error(err))
	}
}

// ServeHTTP lets StatusServer act as a standard http.Handler.
func (s *StatusServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
