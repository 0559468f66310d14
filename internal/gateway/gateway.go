// Package gateway is the boundary between the console and the marketplace API.
// Every call blocks until the API answers; callers that must not block run them off the UI goroutine.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"marketadmin/internal/api/dto"
	"marketadmin/internal/model"
)

// Gateway CRUD per entity kind plus authentication
type Gateway interface {
	Login(ctx context.Context, username, password string) (*dto.LoginResponse, error)
	Me(ctx context.Context) (*model.Identity, error)

	ListPublicProducts(ctx context.Context) ([]model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, p *dto.ProductPayload) (*model.Product, error)
	UpdateProduct(ctx context.Context, id int64, p *dto.ProductPayload) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ApproveProduct(ctx context.Context, id int64) (*model.Product, error)

	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, u *dto.UserPayload) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, u *dto.UserPayload) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error

	ListBusinesses(ctx context.Context) ([]model.Business, error)
	CreateBusiness(ctx context.Context, b *dto.BusinessPayload) (*model.Business, error)
	UpdateBusiness(ctx context.Context, id int64, b *dto.BusinessPayload) (*model.Business, error)
	DeleteBusiness(ctx context.Context, id int64) error
}

// ==================== Errors ====================

var (
	ErrUnauthorized = errors.New("gateway: unauthorized")
	ErrForbidden    = errors.New("gateway: forbidden")
	ErrNotFound     = errors.New("gateway: not found")
)

// APIError non-2xx answer from the marketplace API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("marketplace api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("marketplace api: %d %s", e.Status, e.Message)
}

// Unwrap maps well-known statuses onto the sentinel errors
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}
