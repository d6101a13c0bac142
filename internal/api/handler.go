// Package api exposes the query pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"dynasource/internal/domain"
	"dynasource/internal/middleware"
)

// QueryExecutor is the service surface the handler consumes.
type QueryExecutor interface {
	Execute(ctx context.Context, req *domain.QueryRequest) (*domain.Table, error)
}

// Handler serves the query and health endpoints.
type Handler struct {
	queries QueryExecutor
	checker domain.ConnectionChecker
	logger  *slog.Logger
}

// NewHandler creates an API handler.
func NewHandler(queries QueryExecutor, checker domain.ConnectionChecker, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{queries: queries, checker: checker, logger: logger.With("component", "api")}
}

// flexTime accepts either an RFC 3339 string or a unix-millisecond number,
// the two encodings dashboard clients send.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid time %q: %w", s, err)
		}
		t.Time = parsed
		return nil
	}
	ms, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid time %s: expected RFC 3339 string or unix milliseconds", b)
	}
	t.Time = time.UnixMilli(ms)
	return nil
}

type queryRequestBody struct {
	QueryText string `json:"queryText"`
	Limit     *int64 `json:"limit"`
	TimeRange struct {
		From flexTime `json:"from"`
		To   flexTime `json:"to"`
	} `json:"timeRange"`
	DateTimeFields []struct {
		Name   string `json:"name"`
		Format string `json:"format"`
	} `json:"datetimeFields"`
}

// HandleQuery handles POST /v1/query.
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var body queryRequestBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		h.writeError(w, r, domain.ErrValidation("invalid request body: %v", err))
		return
	}

	req := &domain.QueryRequest{
		QueryText: body.QueryText,
		TimeRange: domain.TimeRange{From: body.TimeRange.From.Time, To: body.TimeRange.To.Time},
	}
	if body.Limit != nil {
		if *body.Limit <= 0 || *body.Limit > int64(^uint32(0)>>1) {
			h.writeError(w, r, domain.ErrValidation("limit must be a positive integer, got %d", *body.Limit))
			return
		}
		limit := int32(*body.Limit)
		req.Limit = &limit
	}
	for _, f := range body.DateTimeFields {
		req.DateTimeFields = append(req.DateTimeFields, domain.DateTimeField{Name: f.Name, Format: f.Format})
	}

	table, err := h.queries.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, table)
}

// HandleHealth handles GET /v1/health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.checker != nil {
		if err := h.checker.CheckConnection(r.Context()); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"error", err, "path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()))
	}
	h.writeJSON(w, status, errorResponse{Code: status, Message: err.Error()})
}
