package audit

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Repository persists and reads denials.
type Repository interface {
	InsertDenial(ctx context.Context, d Denial) error
	ListDenials(ctx context.Context, f Filters) ([]Denial, error)
}

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Service records and lists denials.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates an audit service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Record validates and stores a denial.
func (s *Service) Record(ctx context.Context, d Denial) error {
	if s == nil || s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if strings.TrimSpace(d.ID) == "" || d.Check == "" {
		return errors.New("audit: denial requires id and check")
	}
	if d.OccurredAt.IsZero() {
		d.OccurredAt = s.now().UTC()
	}
	return s.repo.InsertDenial(ctx, d)
}

// Recent lists denials with the limit clamped to a sane window.
func (s *Service) Recent(ctx context.Context, f Filters) ([]Denial, error) {
	if s == nil || s.repo == nil {
		return nil, errors.New("audit: repository not configured")
	}
	switch {
	case f.Limit <= 0:
		f.Limit = defaultLimit
	case f.Limit > maxLimit:
		f.Limit = maxLimit
	}
	f.ActorID = strings.TrimSpace(f.ActorID)
	f.Check = strings.TrimSpace(f.Check)
	return s.repo.ListDenials(ctx, f)
}
