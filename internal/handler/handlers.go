// Package handler exposes the ingested metrics over a small HTTP read API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	internalerrors "github.com/Schera-ole/instrumental/internal/errors"
	middlewareinternal "github.com/Schera-ole/instrumental/internal/middleware"
	"github.com/Schera-ole/instrumental/internal/repository"
)

// Router builds the read API on top of the given storage.
func Router(storage repository.Repository, logger *zap.SugaredLogger) chi.Router {
	router := chi.NewRouter()
	router.Use(middlewareinternal.LoggingMiddleware(logger))
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(15 * time.Second))

	router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		ListGaugesHandler(w, r, storage, logger)
	})
	router.Get("/metrics/{name}", func(w http.ResponseWriter, r *http.Request) {
		GetGaugeHandler(w, r, storage)
	})
	router.Get("/notices", func(w http.ResponseWriter, r *http.Request) {
		ListNoticesHandler(w, r, storage, logger)
	})
	router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		PingHandler(w, r, storage, logger)
	})
	return router
}

// ListGaugesHandler returns every known gauge as JSON, sorted by name.
func ListGaugesHandler(w http.ResponseWriter, r *http.Request, storage repository.Repository, logger *zap.SugaredLogger) {
	points, err := storage.ListGauges(r.Context())
	if err != nil {
		logger.Warnf("listing gauges: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Name < points[j].Name })
	writeJSON(w, points)
}

// GetGaugeHandler returns the latest point of one gauge.
func GetGaugeHandler(w http.ResponseWriter, r *http.Request, storage repository.Repository) {
	name := chi.URLParam(r, "name")
	point, err := storage.GetGauge(r.Context(), name)
	if err != nil {
		if errors.Is(err, internalerrors.ErrGaugeNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, point)
}

// ListNoticesHandler returns all received notices in arrival order.
func ListNoticesHandler(w http.ResponseWriter, r *http.Request, storage repository.Repository, logger *zap.SugaredLogger) {
	notices, err := storage.ListNotices(r.Context())
	if err != nil {
		logger.Warnf("listing notices: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, notices)
}

// PingHandler checks storage health.
func PingHandler(w http.ResponseWriter, r *http.Request, storage repository.Repository, logger *zap.SugaredLogger) {
	if err := storage.Ping(r.Context()); err != nil {
		logger.Warnf("storage ping: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
