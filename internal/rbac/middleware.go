package rbac

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/devmarket/devmarket/internal/access"
	"github.com/devmarket/devmarket/internal/platform/httpx"
	"github.com/devmarket/devmarket/internal/shared"
)

// Check names used for metrics and audit entries.
const (
	CheckRoute  = "route"
	CheckAction = "action"
)

// Middleware wires authorization helpers for HTTP handlers.
type Middleware struct {
	Actors   ActorSource
	Logger   *slog.Logger
	Observer DecisionObserver
	Denials  DenialSink
}

// LoadActor resolves the session user into an actor snapshot and stores it
// in the request context. Requests without a session continue as anonymous.
func (m Middleware) LoadActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := m.resolve(r)
		if err != nil {
			m.logError("rbac load actor", err)
			httpx.RespondError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithActor(r.Context(), actor)))
	})
}

// RequireRole admits the request when the actor satisfies the role
// requirement. No roles means a public route.
func (m Middleware) RequireRole(roles ...access.Role) func(http.Handler) http.Handler {
	req := access.Public()
	if len(roles) > 0 {
		req = access.Roles(roles...)
	}
	target := roleList(roles)
	return m.require(CheckRoute, target, func(actor *access.Actor) bool {
		return access.HasRoutePermission(req, actor)
	})
}

// RequireAction admits the request when the actor may perform action.
func (m Middleware) RequireAction(action access.Action) func(http.Handler) http.Handler {
	return m.require(CheckAction, string(action), func(actor *access.Actor) bool {
		return access.CanPerform(action, actor)
	})
}

func (m Middleware) require(check, target string, allow func(*access.Actor) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := shared.ActorFromContext(r.Context())
			if !ok {
				var err error
				actor, err = m.resolve(r)
				if err != nil {
					m.logError("rbac require "+check, err)
					httpx.RespondError(w, err)
					return
				}
				r = r.WithContext(shared.ContextWithActor(r.Context(), actor))
			}
			allowed := allow(actor)
			if m.Observer != nil {
				m.Observer.ObserveDecision(check, allowed)
			}
			if allowed {
				next.ServeHTTP(w, r)
				return
			}
			m.deny(r, actor, check, target)
			if actor == nil {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			httpx.RespondError(w, httpx.ErrForbidden)
		})
	}
}

func (m Middleware) resolve(r *http.Request) (*access.Actor, error) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.UserID == "" || m.Actors == nil {
		return nil, nil
	}
	actor, err := m.Actors.Actor(r.Context(), sess.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		// A session for a deleted account is treated as anonymous.
		if m.Logger != nil {
			m.Logger.Warn("rbac session user missing", slog.String("user_id", sess.UserID))
		}
		return nil, nil
	}
	return actor, err
}

func (m Middleware) deny(r *http.Request, actor *access.Actor, check, target string) {
	if m.Denials == nil {
		return
	}
	d := Denial{
		Role:      access.RoleAnonymous.String(),
		Check:     check,
		Target:    target,
		Method:    r.Method,
		Path:      r.URL.Path,
		RequestID: chimw.GetReqID(r.Context()),
	}
	if actor != nil {
		d.ActorID = actor.ID
		d.Role = actor.Role.String()
	}
	m.Denials.RecordDenial(r.Context(), d)
}

func (m Middleware) logError(msg string, err error) {
	if m.Logger != nil {
		m.Logger.Error(msg, slog.Any("error", err))
	}
}

func roleList(roles []access.Role) string {
	if len(roles) == 0 {
		return "public"
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.String())
	}
	return strings.Join(names, ",")
}
