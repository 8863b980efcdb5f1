package middleware

import (
	"context"

	"github.com/argvision/argvision-backend/pkg/types"
)

type contextKey string

const ctxActor contextKey = "actor"

// ActorFromContext returns the authenticated actor, or the zero Actor when
// the request is anonymous.
func ActorFromContext(ctx context.Context) types.Actor {
	if ctx == nil {
		return types.Actor{}
	}
	if v, ok := ctx.Value(ctxActor).(types.Actor); ok {
		return v
	}
	return types.Actor{}
}

// WithActor injects the authenticated actor into the context.
func WithActor(ctx context.Context, actor types.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}
