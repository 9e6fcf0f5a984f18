package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"salaryengine/internal/transport/http/api"
)

// MutationRateLimit throttles POST, PUT, PATCH and DELETE requests per
// authenticated user, falling back to the client IP. Reads are not limited.
func MutationRateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	limiter := httprate.Limit(limit, window,
		httprate.WithKeyFuncs(actorOrIPKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("rate limit exceeded",
				"path", r.URL.Path,
				"method", r.Method,
				"limit", limit,
				"windowSec", int(window.Seconds()),
			)
			if w.Header().Get("Retry-After") == "" {
				w.Header().Set("Retry-After", strconv.Itoa(max(int(window.Seconds()), 1)))
			}
			api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
		}),
	)
	return func(next http.Handler) http.Handler {
		limited := limiter(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 || !isMutation(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			limited.ServeHTTP(w, r)
		})
	}
}

func actorOrIPKey(r *http.Request) (string, error) {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID, nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
