// Package query implements the statement execution pipeline: placeholder
// substitution, statement execution, date-time normalization, and table
// assembly.
package query

import (
	"context"
	"log/slog"
	"time"

	"dynasource/internal/domain"
	"dynasource/internal/timefmt"
)

// Service runs query requests end to end. It is safe for concurrent use;
// all per-request state lives on the stack of Execute.
type Service struct {
	store   domain.StatementExecutor
	display *time.Location
	logger  *slog.Logger
}

// NewService creates a query service. A nil display location renders
// date-times in the process-local zone.
func NewService(store domain.StatementExecutor, display *time.Location, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		display: display,
		logger:  logger.With("component", "query"),
	}
}

// Execute validates the request, expands time range placeholders, runs the
// statement, normalizes declared date-time fields, and assembles the table.
func (s *Service) Execute(ctx context.Context, req *domain.QueryRequest) (*domain.Table, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Formats resolve once per request. Unresolvable patterns degrade the
	// field to raw passthrough instead of failing the request.
	rules := make(map[string]timefmt.Concrete, len(req.DateTimeFields))
	for _, f := range req.DateTimeFields {
		rule := timefmt.Resolve(timefmt.ParseSpec(f.Format))
		if !rule.Resolved() {
			s.logger.Warn("unresolvable date-time format; field passes through raw",
				"field", f.Name, "format", f.Format)
		}
		rules[f.Name] = rule
	}

	statement := SubstituteTimeRange(req.QueryText, req.TimeRange)

	start := time.Now()
	items, err := s.store.ExecuteStatement(ctx, statement, req.Limit)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("statement executed",
		"items", len(items), "duration", time.Since(start))

	rows, err := s.normalizeRows(ctx, items, rules)
	if err != nil {
		return nil, err
	}

	table := assembleTable(rows)
	return &table, nil
}
