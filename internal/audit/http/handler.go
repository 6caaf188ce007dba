package audithttp

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/devmarket/devmarket/internal/access"
	"github.com/devmarket/devmarket/internal/audit"
	"github.com/devmarket/devmarket/internal/platform/httpx"
	"github.com/devmarket/devmarket/internal/rbac"
	"github.com/devmarket/devmarket/internal/shared"
)

const (
	rateLimit  = 30
	rateWindow = time.Minute
)

// Handler exposes the denial log to analytics staff.
type Handler struct {
	logger  *slog.Logger
	service *audit.Service
	rbac    rbac.Middleware
}

// NewHandler constructs the audit handler.
func NewHandler(logger *slog.Logger, service *audit.Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers the denial listing.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAction(access.ActionViewAnalytics))
		r.Use(httprate.Limit(rateLimit, rateWindow, httprate.WithKeyFuncs(rateLimitKey)))
		r.Get("/", h.listDenials)
	})
}

func (h *Handler) listDenials(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	denials, err := h.service.Recent(r.Context(), audit.Filters{
		ActorID: q.Get("actor"),
		Check:   q.Get("check"),
		Limit:   limit,
	})
	if err != nil {
		h.logger.Error("list denials", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if denials == nil {
		denials = []audit.Denial{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"denials": denials})
}

func rateLimitKey(r *http.Request) (string, error) {
	if actor, _ := shared.ActorFromContext(r.Context()); actor != nil {
		return "actor:" + actor.ID, nil
	}
	return httprate.KeyByIP(r)
}
