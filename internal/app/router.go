package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/devmarket/devmarket/internal/access"
	accesshttp "github.com/devmarket/devmarket/internal/access/http"
	audithttp "github.com/devmarket/devmarket/internal/audit/http"
	"github.com/devmarket/devmarket/internal/observability"
	"github.com/devmarket/devmarket/internal/platform/httpx"
	"github.com/devmarket/devmarket/internal/rbac"
	"github.com/devmarket/devmarket/internal/shared"
	"github.com/devmarket/devmarket/internal/users"
	"github.com/devmarket/devmarket/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Sessions       *shared.SessionStore
	RBACMiddleware rbac.Middleware
	AccessHandler  *accesshttp.Handler
	UsersHandler   *users.Handler
	AuditHandler   *audithttp.Handler
	JobHandler     *jobs.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with devmarket defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		for _, mw := range MiddlewareStack(MiddlewareConfig{
			Logger:   params.Logger,
			Config:   params.Config,
			Sessions: params.Sessions,
			RBAC:     params.RBACMiddleware,
			Metrics:  params.Metrics,
		}) {
			r.Use(mw)
		}
		r.Use(chimw.Logger)

		r.Route("/v1", func(r chi.Router) {
			if params.AccessHandler != nil {
				params.AccessHandler.MountRoutes(r)
			}
			r.Route("/admin", func(r chi.Router) {
				if params.UsersHandler != nil {
					r.Route("/users", params.UsersHandler.MountRoutes)
				}
				if params.AuditHandler != nil {
					r.Route("/denials", params.AuditHandler.MountRoutes)
				}
				if params.JobHandler != nil {
					r.Group(func(r chi.Router) {
						r.Use(params.RBACMiddleware.RequireRole(access.RoleAdmin))
						r.Route("/jobs", params.JobHandler.MountRoutes)
					})
				}
			})
		})
	})

	return r
}
