package rbac

import (
	"context"

	"github.com/devmarket/devmarket/internal/access"
)

// ActorSource resolves a user id into a fresh access snapshot.
type ActorSource interface {
	Actor(ctx context.Context, userID string) (*access.Actor, error)
}

// DecisionObserver counts authorization outcomes.
type DecisionObserver interface {
	ObserveDecision(check string, allowed bool)
}

// Denial describes a refused request.
type Denial struct {
	ActorID   string
	Role      string
	Check     string
	Target    string
	Method    string
	Path      string
	RequestID string
}

// DenialSink receives denials for auditing. Implementations must not block
// the request.
type DenialSink interface {
	RecordDenial(ctx context.Context, d Denial)
}
