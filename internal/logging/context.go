package logging

import (
	"context"

	"go.uber.org/zap"
)

type actorCtxKey struct{}

// WithActor returns a context carrying the username performing the operation.
func WithActor(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, username)
}

// ActorFromContext returns the acting username, or "" if none is set.
func ActorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	actor, _ := ctx.Value(actorCtxKey{}).(string)
	return actor
}

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	if actor := ActorFromContext(ctx); actor != "" {
		return []zap.Field{zap.String("actor", actor)}
	}
	return nil
}
