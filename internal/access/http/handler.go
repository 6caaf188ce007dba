// Package accesshttp exposes permission decisions to the storefront over HTTP.
package accesshttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/devmarket/devmarket/internal/access"
	"github.com/devmarket/devmarket/internal/catalog"
	"github.com/devmarket/devmarket/internal/platform/httpx"
	"github.com/devmarket/devmarket/internal/rbac"
	"github.com/devmarket/devmarket/internal/shared"
)

// Catalog fetches the resources decisions are made about.
type Catalog interface {
	Solution(ctx context.Context, id string) (catalog.Solution, error)
	Developer(ctx context.Context, id string) (catalog.Developer, error)
	Search(ctx context.Context, f catalog.Filter) ([]catalog.Solution, error)
}

// Check names for permission-record resolutions. The outcome counted is
// whether the record grants anything beyond viewing.
const (
	checkSolution  = "solution"
	checkDeveloper = "developer"
)

// batchConcurrency bounds parallel resource loads for one batch request.
const batchConcurrency = 8

// Handler serves the decision API.
type Handler struct {
	logger    *slog.Logger
	catalog   Catalog
	rbac      rbac.Middleware
	observer  rbac.DecisionObserver
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, catalog Catalog, rbac rbac.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		catalog:   catalog,
		rbac:      rbac,
		observer:  rbac.Observer,
		validator: validator.New(),
	}
}

// MountRoutes registers the decision routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/solutions", h.listSolutions)
	r.Get("/solutions/{id}/permissions", h.solutionPermissions)
	r.Post("/solutions/permissions", h.batchSolutionPermissions)
	r.Get("/developers/{id}/permissions", h.developerPermissions)
	r.Post("/authorize/route", h.authorizeRoute)
	r.Post("/authorize/action", h.authorizeAction)
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRole(access.RoleAdmin, access.RoleDeveloper, access.RoleBusiness))
		r.Get("/me", h.me)
	})
}

type decision struct {
	ID          string             `json:"id"`
	Permissions access.Permissions `json:"permissions"`
	Rule        string             `json:"rule"`
}

type listedSolution struct {
	catalog.Solution
	Permissions access.Permissions `json:"permissions"`
}

func actorFrom(r *http.Request) *access.Actor {
	actor, _ := shared.ActorFromContext(r.Context())
	return actor
}

func (h *Handler) listSolutions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minPrice, err := parsePrice(q, "min_price")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	maxPrice, err := parsePrice(q, "max_price")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	filter := catalog.Filter{
		Search:      q.Get("search"),
		Category:    q.Get("category"),
		DeveloperID: q.Get("developer"),
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
	}
	if err := h.validator.Struct(filter); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	solutions, err := h.catalog.Search(r.Context(), filter)
	if err != nil {
		h.logger.Error("search solutions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	actor := actorFrom(r)
	out := make([]listedSolution, 0, len(solutions))
	for _, s := range solutions {
		p := access.ResolveSolution(s.Resource(), actor)
		h.observe(checkSolution, p.Mutating())
		out = append(out, listedSolution{Solution: s, Permissions: p})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"solutions": out})
}

func (h *Handler) solutionPermissions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sol, err := h.catalog.Solution(r.Context(), id)
	if err != nil {
		h.respondLookupError(w, "load solution", err)
		return
	}
	p, rule := access.ExplainSolution(sol.Resource(), actorFrom(r))
	h.observe(checkSolution, p.Mutating())
	httpx.JSON(w, http.StatusOK, decision{ID: sol.ID, Permissions: p, Rule: rule})
}

type batchRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=100,dive,required,max=64"`
}

type batchResponse struct {
	Decisions []decision `json:"decisions"`
	Missing   []string   `json:"missing"`
}

func (h *Handler) batchSolutionPermissions(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := httpx.DecodeJSON(w, r, h.validator, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	// One actor snapshot for the whole batch; each resource is loaded in
	// parallel and decided against it.
	actor := actorFrom(r)
	decisions := make([]*decision, len(req.IDs))
	missing := make([]bool, len(req.IDs))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(batchConcurrency)
	for i, id := range req.IDs {
		g.Go(func() error {
			sol, err := h.catalog.Solution(ctx, id)
			if errors.Is(err, catalog.ErrNotFound) {
				missing[i] = true
				return nil
			}
			if err != nil {
				return err
			}
			p, rule := access.ExplainSolution(sol.Resource(), actor)
			decisions[i] = &decision{ID: sol.ID, Permissions: p, Rule: rule}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.logger.Error("batch solution permissions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	resp := batchResponse{Decisions: make([]decision, 0, len(req.IDs)), Missing: []string{}}
	for i, id := range req.IDs {
		if missing[i] {
			resp.Missing = append(resp.Missing, id)
			continue
		}
		h.observe(checkSolution, decisions[i].Permissions.Mutating())
		resp.Decisions = append(resp.Decisions, *decisions[i])
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) developerPermissions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	dev, err := h.catalog.Developer(r.Context(), id)
	if err != nil {
		h.respondLookupError(w, "load developer", err)
		return
	}
	p, rule := access.ExplainDeveloper(dev.ID, actorFrom(r))
	h.observe(checkDeveloper, p.Mutating())
	httpx.JSON(w, http.StatusOK, decision{ID: dev.ID, Permissions: p, Rule: rule})
}

type routeRequest struct {
	Roles []string `json:"roles" validate:"max=8,dive,max=32"`
}

type allowedResponse struct {
	Allowed bool `json:"allowed"`
}

func (h *Handler) authorizeRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := httpx.DecodeJSON(w, r, h.validator, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	allowed := access.HasRoutePermission(access.ParseRoles(req.Roles), actorFrom(r))
	h.observe(rbac.CheckRoute, allowed)
	httpx.JSON(w, http.StatusOK, allowedResponse{Allowed: allowed})
}

type actionRequest struct {
	Action string `json:"action" validate:"required,max=64"`
}

func (h *Handler) authorizeAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := httpx.DecodeJSON(w, r, h.validator, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	allowed := access.CanPerform(access.Action(req.Action), actorFrom(r))
	h.observe(rbac.CheckAction, allowed)
	httpx.JSON(w, http.StatusOK, allowedResponse{Allowed: allowed})
}

type meResponse struct {
	ID            string   `json:"id"`
	Role          string   `json:"role"`
	Status        string   `json:"status"`
	Permissions   []string `json:"permissions"`
	Subscriptions int      `json:"subscriptions"`
	Actions       []string `json:"actions"`
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if actor == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	resp := meResponse{
		ID:            actor.ID,
		Role:          actor.Role.String(),
		Status:        actor.Status.String(),
		Permissions:   actor.Capabilities.Names(),
		Subscriptions: len(actor.Subscriptions),
		Actions:       []string{},
	}
	for _, a := range access.Actions() {
		if access.CanPerform(a, actor) {
			resp.Actions = append(resp.Actions, string(a))
		}
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) respondLookupError(w http.ResponseWriter, msg string, err error) {
	if !errors.Is(err, shared.ErrNotFound) {
		h.logger.Error(msg, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func (h *Handler) observe(check string, allowed bool) {
	if h.observer != nil {
		h.observer.ObserveDecision(check, allowed)
	}
}

// parsePrice reads an optional price in cents. The sign is left to filter
// validation.
func parsePrice(q url.Values, key string) (int64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", httpx.ErrValidation, key)
	}
	return v, nil
}
