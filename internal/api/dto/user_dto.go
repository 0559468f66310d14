package dto

import "marketadmin/internal/model"

// ==================== Login ====================

// LoginRequest credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse token pair plus the account that logged in
type LoginResponse struct {
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
	User    *model.Identity `json:"user"`
}

// ==================== User ====================

// UserPayload create/update body for users.
// Password is only sent on create; on edit it is left empty and omitted from the wire.
type UserPayload struct {
	Username  string     `json:"username" binding:"required,max=150"`
	Email     string     `json:"email" binding:"required,email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      model.Role `json:"role" binding:"omitempty,oneof=admin editor approver viewer"`
	Business  int64      `json:"business" binding:"required"`
	Password  string     `json:"password,omitempty"`
}

// ==================== Errors ====================

// ErrorResponse error body returned by the marketplace API
type ErrorResponse struct {
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Message whichever of the two fields is set
func (e ErrorResponse) Message() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Detail
}
