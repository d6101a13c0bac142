package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Auth validates either an HS256 bearer token or an X-API-Key header.
// With neither a secret nor keys configured, every request passes; that mode
// is rejected at config load in production.
type Auth struct {
	secret []byte
	keys   []string
	logger *slog.Logger
}

// NewAuth creates the auth middleware.
func NewAuth(secret string, apiKeys []string, logger *slog.Logger) *Auth {
	if logger == nil {
		logger = slog.Default()
	}
	var s []byte
	if secret != "" {
		s = []byte(secret)
	}
	return &Auth{secret: s, keys: apiKeys, logger: logger.With("component", "auth")}
}

func (a *Auth) enabled() bool { return a.secret != nil || len(a.keys) > 0 }

// Handler is the middleware entry point.
func (a *Auth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.enabled() {
			next.ServeHTTP(w, r)
			return
		}
		if a.checkAPIKey(r) || a.checkBearer(r) {
			next.ServeHTTP(w, r)
			return
		}
		a.logger.Warn("unauthorized request",
			"path", r.URL.Path, "request_id", RequestIDFromContext(r.Context()))
		unauthorized(w)
	})
}

func (a *Auth) checkAPIKey(r *http.Request) bool {
	key := r.Header.Get("X-API-Key")
	if key == "" {
		return false
	}
	for _, k := range a.keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(k)) == 1 {
			return true
		}
	}
	return false
}

func (a *Auth) checkBearer(r *http.Request) bool {
	if a.secret == nil {
		return false
	}
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return false
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return false
	}
	return parsed.Valid
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
