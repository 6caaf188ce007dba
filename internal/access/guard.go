package access

import "strings"

// RouteRequirement describes who may enter a route. The zero value is a
// public route.
type RouteRequirement struct {
	roles []Role
}

// Public returns a requirement that admits everyone.
func Public() RouteRequirement {
	return RouteRequirement{}
}

// Roles returns a requirement that admits any of the listed roles. A single
// role is an exact match.
func Roles(roles ...Role) RouteRequirement {
	if len(roles) == 0 {
		// An empty role list must not collapse into a public route.
		return RouteRequirement{roles: []Role{}}
	}
	return RouteRequirement{roles: append([]Role(nil), roles...)}
}

// ParseRoles builds a requirement from role names. Only an absent or empty
// list yields a public route. Blank names are dropped but still make the list
// non-empty, and names that do not parse still count, so both admit nobody
// but admins.
func ParseRoles(names []string) RouteRequirement {
	cleaned := make([]Role, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		cleaned = append(cleaned, ParseRole(n))
	}
	if len(names) == 0 {
		return Public()
	}
	return Roles(cleaned...)
}

// IsPublic reports whether the requirement admits anonymous visitors.
func (r RouteRequirement) IsPublic() bool {
	return r.roles == nil
}

// Allows reports whether role is listed. RoleUnknown is never listed.
func (r RouteRequirement) Allows(role Role) bool {
	if role == RoleUnknown {
		return false
	}
	for _, candidate := range r.roles {
		if candidate == role {
			return true
		}
	}
	return false
}

// HasRoutePermission decides whether actor may enter a route. Checks run in
// order: public, anonymous, suspended, admin, role membership.
func HasRoutePermission(req RouteRequirement, actor *Actor) bool {
	switch {
	case req.IsPublic():
		return true
	case actor == nil:
		return false
	case actor.Suspended():
		return false
	case actor.Role == RoleAdmin:
		return true
	default:
		return req.Allows(actor.Role)
	}
}
