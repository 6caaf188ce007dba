package shared

import (
	"context"

	"github.com/devmarket/devmarket/internal/access"
)

type sessionContextKey struct{}

type actorContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// ContextWithActor stores the request's actor snapshot. A nil actor is valid
// and means anonymous.
func ContextWithActor(ctx context.Context, actor *access.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the actor snapshot for the request and whether one
// was resolved at all.
func ActorFromContext(ctx context.Context) (*access.Actor, bool) {
	v := ctx.Value(actorContextKey{})
	if v == nil {
		return nil, false
	}
	actor, ok := v.(*access.Actor)
	return actor, ok
}
