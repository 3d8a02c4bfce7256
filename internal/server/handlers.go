package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/bubbleset/pkg/buildinfo"
	"github.com/matzehuels/bubbleset/pkg/document"
	bserrors "github.com/matzehuels/bubbleset/pkg/errors"
	"github.com/matzehuels/bubbleset/pkg/pipeline"
)

// CreateLayoutRequest is the body of POST /layouts.
type CreateLayoutRequest struct {
	Records []document.Record `json:"records"`
	Options pipeline.Options  `json:"options"`

	// PreviousID names a stored layout whose circles seed the outline frames.
	PreviousID string `json:"previous_id,omitempty"`
}

// CreateLayoutResponse is the body returned by POST /layouts.
type CreateLayoutResponse struct {
	ID      string          `json:"id"`
	Cached  bool            `json:"cached"`
	Ignored []string        `json:"ignored,omitempty"`
	Layout  document.Layout `json:"layout"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Get(),
	})
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	var req CreateLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, bserrors.Wrap(bserrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if len(req.Records) > MaxRecords {
		s.respondError(w, bserrors.New(bserrors.ErrCodeInvalidRecords,
			"too many records: %d (max %d)", len(req.Records), MaxRecords))
		return
	}
	if err := document.PrepareRecords(req.Records); err != nil {
		s.respondError(w, err)
		return
	}

	opts := s.requestOptions(req.Options)
	if req.PreviousID != "" {
		prev, err := s.store.Get(r.Context(), req.PreviousID)
		if err != nil {
			s.respondError(w, err)
			return
		}
		opts.Previous = prev
	}

	doc, ignored, cached, err := s.runner.GenerateLayoutWithCacheInfo(r.Context(), req.Records, opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	doc.ID, doc.CreatedAt = "", time.Time{}
	if err := s.store.Put(r.Context(), &doc); err != nil {
		s.respondError(w, fmt.Errorf("store layout: %w", err))
		return
	}

	w.Header().Set("Location", "/layouts/"+doc.ID)
	s.respondJSON(w, http.StatusCreated, CreateLayoutResponse{
		ID:      doc.ID,
		Cached:  cached,
		Ignored: ignored,
		Layout:  doc,
	})
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListSize
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.respondError(w, bserrors.New(bserrors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = min(n, DefaultListSize)
	}
	docs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.respondError(w, err)
		return
	}

	type summary struct {
		ID       string `json:"id"`
		Strategy string `json:"strategy"`
		Regions  int    `json:"regions"`
		Records  int    `json:"records"`
		Created  string `json:"created_at"`
	}
	out := make([]summary, 0, len(docs))
	for _, d := range docs {
		out = append(out, summary{
			ID:       d.ID,
			Strategy: d.Strategy,
			Regions:  len(d.Regions),
			Records:  len(d.Records),
			Created:  d.CreatedAt.Format(time.RFC3339),
		})
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLayoutSVG(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	q := r.URL.Query()
	opts := s.requestOptions(pipeline.Options{})
	opts.Formats = []string{pipeline.FormatSVG}
	opts.Labels = queryBool(q.Get("labels"), opts.Labels)
	opts.Regions = queryBool(q.Get("regions"), opts.Regions)
	opts.InnerRadius = queryBool(q.Get("inner"), opts.InnerRadius)
	if v := q.Get("animate"); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil || secs < 0 {
			s.respondError(w, bserrors.New(bserrors.ErrCodeInvalidInput, "invalid animate %q", v))
			return
		}
		opts.Animate = secs
	}

	artifacts, err := s.runner.Render(r.Context(), *doc, opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[pipeline.FormatSVG])
}

// requestOptions layers request options over the server defaults.
func (s *Server) requestOptions(req pipeline.Options) pipeline.Options {
	opts := s.defaults
	if req.Strategy != "" {
		opts.Strategy = req.Strategy
	}
	if req.Width != 0 {
		opts.Width = req.Width
	}
	if req.Height != 0 {
		opts.Height = req.Height
	}
	if req.Padding != 0 {
		opts.Padding = req.Padding
	}
	if req.FallbackRadius != 0 {
		opts.FallbackRadius = req.FallbackRadius
	}
	if req.Seed != 0 {
		opts.Seed = req.Seed
	}
	if req.Frames != 0 {
		opts.Frames = req.Frames
	}
	if req.StrategyOptions != nil {
		opts.StrategyOptions = req.StrategyOptions
	}
	opts.Refresh = req.Refresh
	opts.Logger = s.logger
	return opts
}

func queryBool(v string, fallback bool) bool {
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// respondError maps error codes to HTTP statuses. Errors without a code are
// internal and their details are logged, not returned.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := bserrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		status = http.StatusRequestEntityTooLarge
		msg = fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)
	}
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: msg,
		Code:    string(bserrors.GetCode(err)),
	})
}

func statusFor(err error) int {
	switch bserrors.GetCode(err) {
	case bserrors.ErrCodeNotFound, bserrors.ErrCodeLayoutNotFound:
		return http.StatusNotFound
	case bserrors.ErrCodeInvalidInput, bserrors.ErrCodeInvalidStrategy, bserrors.ErrCodeInvalidFormat,
		bserrors.ErrCodeInvalidConfig, bserrors.ErrCodeInvalidRecords:
		return http.StatusBadRequest
	case bserrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
