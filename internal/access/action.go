package access

// Action names a mutating operation the UI may dispatch.
type Action string

const (
	ActionManageUsers     Action = "manage_users"
	ActionManageSolutions Action = "manage_solutions"
	ActionManageContent   Action = "manage_content"
	ActionViewAnalytics   Action = "view_analytics"
	ActionManageBilling   Action = "manage_billing"
	ActionManageSettings  Action = "manage_settings"
	ActionCreateSolution  Action = "create_solution"
	ActionSubmitProposal  Action = "submit_proposal"
	ActionCreateRequest   Action = "create_request"
)

// staff actions are granted by capability bits.
var staffActions = map[Action]Capability{
	ActionManageUsers:     CapManageUsers,
	ActionManageSolutions: CapManageSolutions,
	ActionManageContent:   CapManageContent,
	ActionViewAnalytics:   CapViewAnalytics,
	ActionManageBilling:   CapManageBilling,
	ActionManageSettings:  CapManageSettings,
}

// role actions are granted to exactly one role.
var roleActions = map[Action]Role{
	ActionCreateSolution: RoleDeveloper,
	ActionSubmitProposal: RoleDeveloper,
	ActionCreateRequest:  RoleBusiness,
}

// Actions lists every action the engine knows, staff actions first.
func Actions() []Action {
	return []Action{
		ActionManageUsers,
		ActionManageSolutions,
		ActionManageContent,
		ActionViewAnalytics,
		ActionManageBilling,
		ActionManageSettings,
		ActionCreateSolution,
		ActionSubmitProposal,
		ActionCreateRequest,
	}
}

// Known reports whether the engine has a rule for the action.
func (a Action) Known() bool {
	if _, ok := staffActions[a]; ok {
		return true
	}
	_, ok := roleActions[a]
	return ok
}

// CanPerform decides whether actor may perform action. Unknown actions are
// denied to everyone except admins.
func CanPerform(action Action, actor *Actor) bool {
	if actor == nil || actor.Suspended() {
		return false
	}
	if actor.Role == RoleAdmin {
		return true
	}
	if c, ok := staffActions[action]; ok {
		return actor.Capabilities.Has(c)
	}
	if role, ok := roleActions[action]; ok {
		return actor.Role == role
	}
	return false
}
