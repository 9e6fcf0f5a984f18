package middleware

import (
	"net/http"

	"salaryengine/internal/transport/http/api"
)

// BodyLimit caps request bodies of writes. A declared Content-Length over
// the cap is rejected before the handler runs.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 && isMutation(r.Method) {
				if r.ContentLength > maxBytes {
					api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", GetRequestID(r.Context()))
					return
				}
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
