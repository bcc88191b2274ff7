package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/piwi3910/cutlist/internal/cache"
	"github.com/piwi3910/cutlist/internal/model"
)

// generateRequest is the body of POST /api/v1/cutlists. Omitted kerf and
// overage fall back to the configured defaults.
type generateRequest struct {
	Parts             []model.Part            `json:"parts"`
	Stocks            []model.Stock           `json:"stocks"`
	KerfWidth         *float64                `json:"kerfWidth,omitempty"`
	OverageFactor     *float64                `json:"overageFactor,omitempty"`
	ProjectModifiedAt string                  `json:"projectModifiedAt"`
	BypassedIssues    []model.ValidationIssue `json:"bypassedIssues,omitempty"`
}

type validateRequest struct {
	Parts  []model.Part  `json:"parts"`
	Stocks []model.Stock `json:"stocks"`
}

type validateResponse struct {
	Issues []model.ValidationIssue `json:"issues"`
	Valid  bool                    `json:"valid"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.KerfWidth == nil {
		req.KerfWidth = &s.cfg.KerfWidth
	}
	if req.OverageFactor == nil {
		req.OverageFactor = &s.cfg.OverageFactor
	}

	ctx := r.Context()
	key, err := cache.Key("cutlist", req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if data, ok := s.cacheGet(ctx, key); ok {
		s.metrics.cacheHits.Inc()
		s.metrics.generations.WithLabelValues("cached").Inc()
		writeRawJSON(w, http.StatusOK, data)
		return
	}
	s.metrics.cacheMisses.Inc()

	timeout := time.Duration(s.cfg.RequestTimeout)
	cl, err := s.runOptimizer(ctx, timeout, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.metrics.generations.WithLabelValues("timeout").Inc()
			s.logger.Warn("optimizer timed out", "timeout", timeout, "parts", len(req.Parts))
			writeError(w, http.StatusServiceUnavailable, fmt.Errorf("optimizer did not finish within %s", timeout))
			return
		}
		// Client went away; nobody is listening for a response.
		s.metrics.generations.WithLabelValues("cancelled").Inc()
		return
	}

	s.metrics.generations.WithLabelValues("ok").Inc()
	s.metrics.skippedParts.Add(float64(len(cl.SkippedParts)))
	s.metrics.boards.Add(float64(cl.Statistics.TotalBoards))

	data, err := json.Marshal(cl)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to encode cut list: %w", err))
		return
	}
	if err := s.cache.Set(ctx, key, data, time.Duration(s.cfg.CacheTTL)); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
	writeRawJSON(w, http.StatusOK, data)
}

// runOptimizer runs the optimizer in its own goroutine and gives up when the
// deadline passes. The optimizer itself is not interruptible; an abandoned
// run finishes in the background and its result is dropped.
func (s *Server) runOptimizer(ctx context.Context, timeout time.Duration, req generateRequest) (model.CutList, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan model.CutList, 1)
	start := time.Now()
	go func() {
		done <- s.generate(req)
	}()

	select {
	case cl := <-done:
		s.metrics.duration.Observe(time.Since(start).Seconds())
		return cl, nil
	case <-ctx.Done():
		return model.CutList{}, ctx.Err()
	}
}

func (s *Server) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}
	return data, ok
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	issues := model.Validate(req.Parts, req.Stocks)
	if issues == nil {
		issues = []model.ValidationIssue{}
	}
	writeJSON(w, http.StatusOK, validateResponse{Issues: issues, Valid: !model.HasErrors(issues)})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeRawJSON(w, status, data)
}

func writeRawJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
