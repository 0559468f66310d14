package service

import (
	"errors"
	"fmt"
)

// ==================== Shared errors ====================

var (
	ErrNotAuthenticated = errors.New("authentication credentials were not provided")
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")
)

// ValidationError a rejected field, rendered by the API as {"field": ["message"]}
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
