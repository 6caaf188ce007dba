package users

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmarket/devmarket/internal/access"
	"github.com/devmarket/devmarket/internal/rbac"
	"github.com/devmarket/devmarket/internal/shared"
)

func TestListUsersRequiresManageUsers(t *testing.T) {
	repo := &stubRepo{users: map[string]User{"u1": {ID: "u1", Email: "a@b.c", Role: "developer", Status: "active"}}}
	h := NewHandler(slog.Default(), NewService(repo), rbac.Middleware{})
	r := chi.NewRouter()
	h.MountRoutes(r)

	serve := func(actor *access.Actor) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(shared.ContextWithActor(req.Context(), actor))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(access.NewActor("d", access.RoleDeveloper, access.StatusActive, 0)).Code)

	staff := access.NewActor("s", access.RoleBusiness, access.StatusActive, access.CapabilitiesOf(access.CapManageUsers))
	rec := serve(staff)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Users []User `json:"users"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Users, 1)
	assert.Equal(t, "u1", body.Users[0].ID)
}
