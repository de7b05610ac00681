package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// defaultListLimit caps run listings unless the client asks for fewer.
const defaultListLimit = 100

type errorResponse struct {
	Error string `json:"error"`
}

// handleHealth reports liveness.
func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListRuns returns recorded analysis runs, newest first. Supports
// ?limit=N and ?baseline=<name> filters.
func (s *server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if baseline := r.URL.Query().Get("baseline"); baseline != "" {
		runs, err := s.store.ListRunsByBaseline(ctx, baseline)
		if err != nil {
			s.log.WithError(err).Error("Failed to list runs by baseline")
			writeJSON(w, http.StatusInternalServerError, errorResponse{"listing runs failed"})

			return
		}

		writeJSON(w, http.StatusOK, runs)

		return
	}

	limit := defaultListLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{"invalid limit"})

			return
		}

		if n < limit {
			limit = n
		}
	}

	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		s.log.WithError(err).Error("Failed to list runs")
		writeJSON(w, http.StatusInternalServerError, errorResponse{"listing runs failed"})

		return
	}

	writeJSON(w, http.StatusOK, runs)
}

// handleGetRun returns a single recorded run by id.
func (s *server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{"invalid run id"})

		return
	}

	run, err := s.store.GetRun(r.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{"run not found"})

			return
		}

		s.log.WithError(err).Error("Failed to get run")
		writeJSON(w, http.StatusInternalServerError, errorResponse{"getting run failed"})

		return
	}

	writeJSON(w, http.StatusOK, run)
}

// requestLogger logs each request at debug level with method, path, and
// duration.
func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).Round(time.Microsecond),
		}).Debug("Request handled")
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}
