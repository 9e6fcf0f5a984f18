package middleware

import (
	"context"
	"net/http"
	"strings"

	"salaryengine/internal/domain/auth"
	"salaryengine/internal/requestctx"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

// Auth attaches the bearer token's user to the request context. Requests
// without a valid token pass through anonymous; RequirePermission rejects
// them where it matters.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.User())))
		})
	}
}

// WithUser stores user on ctx and marks them as the request's actor.
func WithUser(ctx context.Context, user auth.UserContext) context.Context {
	ctx = requestctx.WithActorID(ctx, user.UserID)
	return context.WithValue(ctx, ctxKeyUser, user)
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.UserContext)
	return user, ok
}
