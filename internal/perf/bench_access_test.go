package perf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/devmarket/devmarket/internal/access"
	accesshttp "github.com/devmarket/devmarket/internal/access/http"
	"github.com/devmarket/devmarket/internal/catalog"
	"github.com/devmarket/devmarket/internal/rbac"
	"github.com/devmarket/devmarket/internal/shared"
)

func subscribedBuyer(n int) *access.Actor {
	subs := make([]string, n)
	for i := range subs {
		subs[i] = fmt.Sprintf("s%d", i)
	}
	return access.NewActor("b1", access.RoleBusiness, access.StatusActive, 0, subs...)
}

func BenchmarkResolveSolution(b *testing.B) {
	sol := access.Solution{ID: "s500", DeveloperID: "d1"}
	buyer := subscribedBuyer(1000)
	b.ReportAllocs()
	for b.Loop() {
		_ = access.ResolveSolution(sol, buyer)
	}
}

func BenchmarkCanPerform(b *testing.B) {
	staff := access.NewActor("s1", access.RoleBusiness, access.StatusActive, access.CapabilitiesOf(access.CapViewAnalytics))
	actions := access.Actions()
	b.ReportAllocs()
	for b.Loop() {
		for _, a := range actions {
			_ = access.CanPerform(a, staff)
		}
	}
}

type benchCatalog struct {
	solutions map[string]catalog.Solution
}

func (c benchCatalog) Solution(_ context.Context, id string) (catalog.Solution, error) {
	s, ok := c.solutions[id]
	if !ok {
		return catalog.Solution{}, catalog.ErrNotFound
	}
	return s, nil
}

func (c benchCatalog) Developer(context.Context, string) (catalog.Developer, error) {
	return catalog.Developer{}, catalog.ErrNotFound
}

func (c benchCatalog) Search(context.Context, catalog.Filter) ([]catalog.Solution, error) {
	return nil, nil
}

func newBatchRouter(n int) (http.Handler, []byte) {
	sols := make(map[string]catalog.Solution, n)
	body := bytes.NewBufferString(`{"ids":[`)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("s%d", i)
		sols[id] = catalog.Solution{ID: id, DeveloperID: "d1"}
		if i > 0 {
			body.WriteByte(',')
		}
		fmt.Fprintf(body, "%q", id)
	}
	body.WriteString("]}")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := accesshttp.NewHandler(logger, benchCatalog{solutions: sols}, rbac.Middleware{})
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r, body.Bytes()
}

func serveBatch(h http.Handler, body []byte, actor *access.Actor) int {
	req := httptest.NewRequest(http.MethodPost, "/solutions/permissions", bytes.NewReader(body))
	req = req.WithContext(shared.ContextWithActor(req.Context(), actor))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func BenchmarkBatchPermissions(b *testing.B) {
	h, body := newBatchRouter(100)
	buyer := subscribedBuyer(50)
	b.ReportAllocs()
	for b.Loop() {
		if code := serveBatch(h, body, buyer); code != http.StatusOK {
			b.Fatalf("unexpected status %d", code)
		}
	}
}

func TestBatchPermissionsLatencyTarget(t *testing.T) {
	h, body := newBatchRouter(100)
	buyer := subscribedBuyer(50)

	const runs = 20
	start := time.Now()
	for i := 0; i < runs; i++ {
		require.Equal(t, http.StatusOK, serveBatch(h, body, buyer))
	}
	perRequest := time.Since(start) / runs
	require.Less(t, perRequest, 250*time.Millisecond, "batch of 100 decisions regressed: %s", perRequest)
}
