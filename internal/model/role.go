package model

// Role staff role inside the marketplace
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEditor   Role = "editor"
	RoleApprover Role = "approver"
	RoleViewer   Role = "viewer"
)

// Roles every known role, in display order
var Roles = []Role{RoleAdmin, RoleEditor, RoleApprover, RoleViewer}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleApprover, RoleViewer:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
