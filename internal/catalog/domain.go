package catalog

import (
	"strings"
	"time"

	"github.com/devmarket/devmarket/internal/access"
)

// Solution is a marketplace listing.
type Solution struct {
	ID          string    `json:"id"`
	DeveloperID string    `json:"developerId"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	PriceCents  int64     `json:"priceCents"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Resource returns the authorization view of the listing.
func (s Solution) Resource() access.Solution {
	return access.Solution{ID: s.ID, DeveloperID: s.DeveloperID}
}

// Developer is a public developer profile.
type Developer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Filter narrows a listing. Zero fields do not filter.
type Filter struct {
	Search      string `validate:"omitempty,max=200"`
	Category    string `validate:"omitempty,max=64"`
	DeveloperID string `validate:"omitempty,max=64"`
	MinPrice    int64  `validate:"gte=0"`
	MaxPrice    int64  `validate:"gte=0"`
}

// Match reports whether s satisfies every set predicate.
func (f Filter) Match(s Solution) bool {
	if q := strings.TrimSpace(f.Search); q != "" {
		if !strings.Contains(strings.ToLower(s.Title), strings.ToLower(q)) {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(f.Category, s.Category) {
		return false
	}
	if f.DeveloperID != "" && f.DeveloperID != s.DeveloperID {
		return false
	}
	if f.MinPrice > 0 && s.PriceCents < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && s.PriceCents > f.MaxPrice {
		return false
	}
	return true
}
