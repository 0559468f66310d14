package model

// Identity the authenticated staff member for the lifetime of a session
type Identity struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
	Business  int64  `json:"business"`
}

// IsAdmin nil-safe admin check
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
