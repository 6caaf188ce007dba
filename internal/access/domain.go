// Package access decides what an actor may do with marketplace resources.
//
// Every function in this package is pure and total: it never performs I/O,
// never returns an error and falls back to the most restrictive answer for
// input it does not recognise.
package access

import "strings"

// Role identifies the kind of account an actor holds.
type Role uint8

const (
	// RoleUnknown is any role string the engine does not recognise.
	RoleUnknown Role = iota
	// RoleAnonymous is an unauthenticated visitor.
	RoleAnonymous
	// RoleAdmin operates the marketplace.
	RoleAdmin
	// RoleDeveloper publishes solutions.
	RoleDeveloper
	// RoleBusiness buys solutions and posts requests.
	RoleBusiness
)

var roleNames = map[Role]string{
	RoleUnknown:   "unknown",
	RoleAnonymous: "anonymous",
	RoleAdmin:     "admin",
	RoleDeveloper: "developer",
	RoleBusiness:  "business",
}

// ParseRole maps a stored role name onto a Role. Unrecognised names map to
// RoleUnknown.
func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return RoleAdmin
	case "developer":
		return RoleDeveloper
	case "business":
		return RoleBusiness
	case "", "anonymous":
		return RoleAnonymous
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return roleNames[RoleUnknown]
}

// Status is the lifecycle state of an account.
type Status uint8

const (
	// StatusActive accounts are subject to the normal role rules.
	StatusActive Status = iota
	// StatusSuspended accounts are restricted to viewing.
	StatusSuspended
)

// ParseStatus maps a stored status name onto a Status. Anything other than
// "active" is treated as suspended.
func ParseStatus(raw string) Status {
	if strings.EqualFold(strings.TrimSpace(raw), "active") {
		return StatusActive
	}
	return StatusSuspended
}

func (s Status) String() string {
	if s == StatusActive {
		return "active"
	}
	return "suspended"
}

// Actor is a snapshot of the party asking for a decision. A nil *Actor is the
// anonymous visitor.
//
// Actors must be rebuilt from current data for every check; Subscriptions in
// particular changes between requests.
type Actor struct {
	ID            string
	Role          Role
	Status        Status
	Capabilities  Capabilities
	Subscriptions map[string]struct{}
}

// NewActor builds an Actor with the given subscriptions.
func NewActor(id string, role Role, status Status, caps Capabilities, subscriptions ...string) *Actor {
	subs := make(map[string]struct{}, len(subscriptions))
	for _, s := range subscriptions {
		if s == "" {
			continue
		}
		subs[s] = struct{}{}
	}
	return &Actor{ID: id, Role: role, Status: status, Capabilities: caps, Subscriptions: subs}
}

// Suspended reports whether the actor's account is suspended.
func (a *Actor) Suspended() bool {
	return a != nil && a.Status == StatusSuspended
}

// SubscribedTo reports whether the actor already holds the solution.
func (a *Actor) SubscribedTo(solutionID string) bool {
	if a == nil || solutionID == "" {
		return false
	}
	_, ok := a.Subscriptions[solutionID]
	return ok
}

// Solution is the part of a listing that matters for authorization.
type Solution struct {
	ID          string
	DeveloperID string
}

// Permissions is the decision returned for a resource.
type Permissions struct {
	CanView     bool   `json:"canView"`
	CanEdit     bool   `json:"canEdit"`
	CanDelete   bool   `json:"canDelete"`
	CanContact  bool   `json:"canContact"`
	CanPurchase bool   `json:"canPurchase"`
	CanReview   bool   `json:"canReview"`
	Message     string `json:"message,omitempty"`
}

// Messages surfaced alongside restricted decisions.
const (
	MsgLoginToPurchase   = "Log in to purchase or contact the developer"
	MsgLoginToContact    = "Log in to contact this developer"
	MsgSuspended         = "Your account is suspended. Please contact support."
	MsgAlreadySubscribed = "You are already subscribed to this solution"
)

func viewOnly(message string) Permissions {
	return Permissions{CanView: true, Message: message}
}

func fullAccess() Permissions {
	return Permissions{
		CanView:     true,
		CanEdit:     true,
		CanDelete:   true,
		CanContact:  true,
		CanPurchase: true,
		CanReview:   true,
	}
}

// Mutating reports whether any flag other than CanView is set.
func (p Permissions) Mutating() bool {
	return p.CanEdit || p.CanDelete || p.CanContact || p.CanPurchase || p.CanReview
}
