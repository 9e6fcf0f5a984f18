// Package requestctx carries per-request values that domain services read
// without depending on the HTTP layer.
package requestctx

import "context"

type key int

const (
	requestIDKey key = iota
	actorIDKey
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

// WithActorID records the authenticated user acting on the request. Empty
// ids are not stored.
func WithActorID(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorIDKey, userID)
}

func GetActorID(ctx context.Context) string {
	value, _ := ctx.Value(actorIDKey).(string)
	return value
}
