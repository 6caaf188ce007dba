package users

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/devmarket/devmarket/internal/access"
	"github.com/devmarket/devmarket/internal/shared"
)

// ErrNotFound indicates that the requested user does not exist.
var ErrNotFound = fmt.Errorf("users: %w", shared.ErrNotFound)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	FindUser(ctx context.Context, id string) (User, error)
	ListSubscriptions(ctx context.Context, userID string) ([]string, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// Service handles user lookups.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Actor loads a fresh access snapshot for the user. An empty id is the
// anonymous actor. Results are never cached: subscriptions change between
// requests and a stale set would re-enable purchase.
func (s *Service) Actor(ctx context.Context, id string) (*access.Actor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}

	var (
		user User
		subs []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.repo.FindUser(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		subs, err = s.repo.ListSubscriptions(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return user.Actor(subs), nil
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}
