// Package dashboard is the role-gated entity management engine behind the console:
// capabilities per role, one strategy per entity kind, the list filter, the form and
// approval state machines, and the controller that orchestrates loads and mutations.
//
// The engine never performs I/O on its own goroutine. Operations that need the gateway
// return an Effect; the owner runs it wherever it likes and feeds the resulting Event
// back through Controller.Handle.
package dashboard

import "marketadmin/internal/model"

// Capabilities what a role may do with one entity kind
type Capabilities struct {
	Create  bool
	Edit    bool
	Delete  bool
	Approve bool
}

// Any at least one action is granted
func (c Capabilities) Any() bool {
	return c.Create || c.Edit || c.Delete || c.Approve
}

// Resolve pure and total; unknown roles and kinds get nothing
func Resolve(role model.Role, kind model.EntityKind) Capabilities {
	if !role.Valid() {
		return Capabilities{}
	}

	switch kind {
	case model.KindProduct:
		write := role == model.RoleAdmin || role == model.RoleEditor || role == model.RoleApprover
		return Capabilities{
			Create:  write,
			Edit:    write,
			Delete:  write,
			Approve: role == model.RoleAdmin || role == model.RoleApprover,
		}
	case model.KindUser, model.KindBusiness:
		admin := role == model.RoleAdmin
		return Capabilities{Create: admin, Edit: admin, Delete: admin, Approve: admin}
	}
	return Capabilities{}
}

// Visible whether the kind's tab exists at all for role
func Visible(role model.Role, kind model.EntityKind) bool {
	if !role.Valid() {
		return false
	}
	switch kind {
	case model.KindProduct:
		return true
	case model.KindUser, model.KindBusiness:
		return role == model.RoleAdmin
	}
	return false
}

// Tabs visible kinds in navigation order
func Tabs(role model.Role) []model.EntityKind {
	tabs := make([]model.EntityKind, 0, len(model.Kinds))
	for _, k := range model.Kinds {
		if Visible(role, k) {
			tabs = append(tabs, k)
		}
	}
	return tabs
}
