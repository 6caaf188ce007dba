package access

// rule is one row of a decision table. Tables are evaluated top to bottom and
// the first rule whose match returns true decides.
type rule[R any] struct {
	name   string
	match  func(resource R, actor *Actor) bool
	decide func(resource R, actor *Actor) Permissions
}

func evaluate[R any](rules []rule[R], resource R, actor *Actor) (Permissions, string) {
	for _, r := range rules {
		if r.match(resource, actor) {
			return r.decide(resource, actor), r.name
		}
	}
	return viewOnly(""), "fallback"
}

func isAnonymous[R any](_ R, a *Actor) bool { return a == nil }

func isSuspended[R any](_ R, a *Actor) bool { return a.Suspended() }

func hasRole[R any](role Role) func(R, *Actor) bool {
	return func(_ R, a *Actor) bool { return a != nil && a.Role == role }
}

func always[R any](p Permissions) func(R, *Actor) Permissions {
	return func(R, *Actor) Permissions { return p }
}

// Order matters: anonymous and suspended are hard gates ahead of any role
// rule, so a suspended admin is view-only.
var solutionRules = []rule[Solution]{
	{
		name:   "anonymous",
		match:  isAnonymous[Solution],
		decide: always[Solution](viewOnly(MsgLoginToPurchase)),
	},
	{
		name:   "suspended",
		match:  isSuspended[Solution],
		decide: always[Solution](viewOnly(MsgSuspended)),
	},
	{
		name:   "admin",
		match:  hasRole[Solution](RoleAdmin),
		decide: always[Solution](fullAccess()),
	},
	{
		name: "developer-owner",
		match: func(s Solution, a *Actor) bool {
			return a.Role == RoleDeveloper && a.ID == s.DeveloperID
		},
		decide: always[Solution](Permissions{CanView: true, CanEdit: true, CanDelete: true}),
	},
	{
		name:   "developer",
		match:  hasRole[Solution](RoleDeveloper),
		decide: always[Solution](Permissions{CanView: true, CanContact: true, CanPurchase: true, CanReview: true}),
	},
	{
		name:  "business",
		match: hasRole[Solution](RoleBusiness),
		decide: func(s Solution, a *Actor) Permissions {
			p := Permissions{CanView: true, CanContact: true, CanReview: true, CanPurchase: true}
			if a.SubscribedTo(s.ID) {
				p.CanPurchase = false
				p.Message = MsgAlreadySubscribed
			}
			return p
		},
	},
}

// Self is checked before role, and self never includes delete: a developer
// may remove a listing but not their own profile.
var developerRules = []rule[string]{
	{
		name:   "anonymous",
		match:  isAnonymous[string],
		decide: always[string](viewOnly(MsgLoginToContact)),
	},
	{
		name:   "suspended",
		match:  isSuspended[string],
		decide: always[string](viewOnly(MsgSuspended)),
	},
	{
		name:   "admin",
		match:  hasRole[string](RoleAdmin),
		decide: always[string](fullAccess()),
	},
	{
		name:   "self",
		match:  func(id string, a *Actor) bool { return a.ID == id },
		decide: always[string](Permissions{CanView: true, CanEdit: true}),
	},
	{
		name:   "business",
		match:  hasRole[string](RoleBusiness),
		decide: always[string](Permissions{CanView: true, CanContact: true, CanReview: true}),
	},
	{
		name:   "developer",
		match:  hasRole[string](RoleDeveloper),
		decide: always[string](Permissions{CanView: true, CanContact: true}),
	},
}

// ResolveSolution returns what actor may do with a solution listing.
func ResolveSolution(solution Solution, actor *Actor) Permissions {
	p, _ := evaluate(solutionRules, solution, actor)
	return p
}

// ResolveDeveloper returns what actor may do with a developer profile.
func ResolveDeveloper(developerID string, actor *Actor) Permissions {
	p, _ := evaluate(developerRules, developerID, actor)
	return p
}

// ExplainSolution is ResolveSolution plus the name of the rule that decided.
func ExplainSolution(solution Solution, actor *Actor) (Permissions, string) {
	return evaluate(solutionRules, solution, actor)
}

// ExplainDeveloper is ResolveDeveloper plus the name of the rule that decided.
func ExplainDeveloper(developerID string, actor *Actor) (Permissions, string) {
	return evaluate(developerRules, developerID, actor)
}
