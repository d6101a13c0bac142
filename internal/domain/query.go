package domain

import (
	"strings"
	"time"
)

// TimeRange is the dashboard time window a query runs against.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// DateTimeField declares that a result attribute holds a date-time value and
// how its raw value is encoded: a recognized epoch tag or a display pattern.
type DateTimeField struct {
	Name   string
	Format string
}

// QueryRequest carries everything needed to run one statement. It is owned by
// the caller for the duration of a single execution; nothing in it outlives
// the request/response cycle.
type QueryRequest struct {
	QueryText      string
	Limit          *int32
	TimeRange      TimeRange
	DateTimeFields []DateTimeField
}

// Validate rejects malformed requests before any side effect occurs.
func (r *QueryRequest) Validate() error {
	if strings.TrimSpace(r.QueryText) == "" {
		return ErrValidation("query text is required")
	}
	if r.Limit != nil && *r.Limit <= 0 {
		return ErrValidation("limit must be a positive integer, got %d", *r.Limit)
	}
	seen := make(map[string]bool, len(r.DateTimeFields))
	for _, f := range r.DateTimeFields {
		if f.Name == "" {
			return ErrValidation("date-time field name is required")
		}
		if seen[f.Name] {
			return ErrValidation("duplicate date-time field %q", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}
