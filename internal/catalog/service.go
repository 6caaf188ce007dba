package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/devmarket/devmarket/internal/shared"
)

// ErrNotFound indicates that the requested listing or profile does not exist.
var ErrNotFound = fmt.Errorf("catalog: %w", shared.ErrNotFound)

// RepositoryPort defines catalog reads.
type RepositoryPort interface {
	GetSolution(ctx context.Context, id string) (Solution, error)
	ListSolutions(ctx context.Context) ([]Solution, error)
	GetDeveloper(ctx context.Context, id string) (Developer, error)
}

// defaultLoadTimeout bounds a shared load once it is detached from its callers.
const defaultLoadTimeout = 5 * time.Second

// Service fetches resources handed to the access engine.
type Service struct {
	repo        RepositoryPort
	group       singleflight.Group
	loadTimeout time.Duration
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, loadTimeout: defaultLoadTimeout}
}

// load runs fn once per key for all concurrent callers. The query runs
// detached from any single caller's context so one cancelled request cannot
// fail the others; each caller still stops waiting when its own ctx ends.
func (s *Service) load(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := s.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()
		return fn(loadCtx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// Solution loads a listing. Concurrent loads of the same id share one query;
// nothing is kept once it returns.
func (s *Service) Solution(ctx context.Context, id string) (Solution, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Solution{}, ErrNotFound
	}
	v, err := s.load(ctx, "solution:"+id, func(ctx context.Context) (any, error) {
		return s.repo.GetSolution(ctx, id)
	})
	if err != nil {
		return Solution{}, err
	}
	return v.(Solution), nil
}

// Developer loads a developer profile.
func (s *Service) Developer(ctx context.Context, id string) (Developer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Developer{}, ErrNotFound
	}
	v, err := s.load(ctx, "developer:"+id, func(ctx context.Context) (any, error) {
		return s.repo.GetDeveloper(ctx, id)
	})
	if err != nil {
		return Developer{}, err
	}
	return v.(Developer), nil
}

// Search returns listings matching the filter.
func (s *Service) Search(ctx context.Context, f Filter) ([]Solution, error) {
	all, err := s.repo.ListSolutions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Solution, 0, len(all))
	for _, sol := range all {
		if f.Match(sol) {
			out = append(out, sol)
		}
	}
	return out, nil
}
