package audithttp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmarket/devmarket/internal/access"
	"github.com/devmarket/devmarket/internal/audit"
	"github.com/devmarket/devmarket/internal/rbac"
	"github.com/devmarket/devmarket/internal/shared"
)

type fixedRepo struct {
	denials []audit.Denial
	last    audit.Filters
}

func (f *fixedRepo) InsertDenial(context.Context, audit.Denial) error { return nil }

func (f *fixedRepo) ListDenials(_ context.Context, filters audit.Filters) ([]audit.Denial, error) {
	f.last = filters
	return f.denials, nil
}

func serve(h http.Handler, actor *access.Actor, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(shared.ContextWithActor(req.Context(), actor))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListDenials(t *testing.T) {
	repo := &fixedRepo{denials: []audit.Denial{{ID: "d1", Role: "developer", Check: "action", Target: "manage_users"}}}
	h := NewHandler(slog.Default(), audit.NewService(repo), rbac.Middleware{})
	r := chi.NewRouter()
	h.MountRoutes(r)

	analyst := access.NewActor("a", access.RoleBusiness, access.StatusActive, access.CapabilitiesOf(access.CapViewAnalytics))
	rec := serve(r, analyst, "/?actor=u9&check=action&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Denials []audit.Denial `json:"denials"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Denials, 1)
	assert.Equal(t, "manage_users", body.Denials[0].Target)
	assert.Equal(t, audit.Filters{ActorID: "u9", Check: "action", Limit: 5}, repo.last)
}

func TestListDenialsRequiresAnalytics(t *testing.T) {
	h := NewHandler(slog.Default(), audit.NewService(&fixedRepo{}), rbac.Middleware{})
	r := chi.NewRouter()
	h.MountRoutes(r)

	assert.Equal(t, http.StatusUnauthorized, serve(r, nil, "/").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, access.NewActor("d", access.RoleDeveloper, access.StatusActive, 0), "/").Code)
}

func TestListDenialsIsRateLimitedPerActor(t *testing.T) {
	h := NewHandler(slog.Default(), audit.NewService(&fixedRepo{}), rbac.Middleware{})
	r := chi.NewRouter()
	h.MountRoutes(r)

	admin := access.NewActor("admin", access.RoleAdmin, access.StatusActive, 0)
	for i := 0; i < rateLimit; i++ {
		require.Equal(t, http.StatusOK, serve(r, admin, "/").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(r, admin, "/").Code)

	other := access.NewActor("admin2", access.RoleAdmin, access.StatusActive, 0)
	assert.Equal(t, http.StatusOK, serve(r, other, "/").Code)
}
