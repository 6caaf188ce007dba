package users

import (
	"time"

	"github.com/devmarket/devmarket/internal/access"
)

// User represents a marketplace account as stored.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Actor converts the stored account and its current subscriptions into an
// access snapshot.
func (u User) Actor(subscriptions []string) *access.Actor {
	return access.NewActor(
		u.ID,
		access.ParseRole(u.Role),
		access.ParseStatus(u.Status),
		access.ParseCapabilities(u.Permissions),
		subscriptions...,
	)
}
