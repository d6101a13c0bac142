package api

import (
	"errors"
	"net/http"

	"dynasource/internal/domain"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps domain errors to HTTP status codes. Store failures map to
// 502: the failure belongs to the upstream store, not this service.
func statusFor(err error) int {
	var (
		verr *domain.ValidationError
		nerr *domain.NotFoundError
		serr *domain.StoreError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &nerr):
		return http.StatusNotFound
	case errors.As(err, &serr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
