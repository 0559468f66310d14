package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"marketadmin/internal/api/dto"
	"marketadmin/internal/middleware"
	"marketadmin/internal/model"
	"marketadmin/internal/repository"
)

// ==================== UserService ====================

// UserService staff accounts; writes are admin-only at the router
type UserService struct {
	userRepo     repository.UserRepository
	businessRepo repository.BusinessRepository
}

// NewUserService creates the user service
func NewUserService(userRepo repository.UserRepository, businessRepo repository.BusinessRepository) *UserService {
	return &UserService{userRepo: userRepo, businessRepo: businessRepo}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

// Create requires a password; role defaults to viewer
func (s *UserService) Create(ctx context.Context, req *dto.UserPayload) (*model.User, error) {
	if req.Password == "" {
		return nil, invalid("password", "This field is required.")
	}
	if err := s.checkPayload(ctx, 0, req); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:   strings.TrimSpace(req.Username),
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       roleOrDefault(req.Role),
		BusinessID: req.Business,
		Password:   string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update keeps the stored password unless a new one is sent
func (s *UserService) Update(ctx context.Context, id int64, req *dto.UserPayload) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err := s.checkPayload(ctx, id, req); err != nil {
		return nil, err
	}

	user.Username = strings.TrimSpace(req.Username)
	user.Email = req.Email
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Role = roleOrDefault(req.Role)
	user.BusinessID = req.Business

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete refuses to remove the caller's own account
func (s *UserService) Delete(ctx context.Context, id int64) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if caller := middleware.CallerFrom(ctx); caller != nil && caller.UserID == id {
		return ErrDeleteSelf
	}
	return s.userRepo.Delete(ctx, id)
}

// EnsureAdmin bootstraps an empty sandbox with one business and one admin; no-op once username exists
func (s *UserService) EnsureAdmin(ctx context.Context, username, password, businessName string) (*model.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	b := &model.Business{Name: businessName}
	if err := s.businessRepo.Create(ctx, b); err != nil {
		return nil, err
	}

	return s.Create(ctx, &dto.UserPayload{
		Username: username,
		Email:    username + "@example.com",
		Role:     model.RoleAdmin,
		Business: b.ID,
		Password: password,
	})
}

func (s *UserService) checkPayload(ctx context.Context, id int64, req *dto.UserPayload) error {
	if strings.TrimSpace(req.Username) == "" {
		return invalid("username", "This field may not be blank.")
	}
	if req.Role != "" && !req.Role.Valid() {
		return invalid("role", "\"%s\" is not a valid choice.", req.Role)
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, strings.TrimSpace(req.Username), id)
	if err != nil {
		return err
	}
	if exists {
		return invalid("username", "A user with that username already exists.")
	}

	b, err := s.businessRepo.GetByID(ctx, req.Business)
	if err != nil {
		return err
	}
	if b == nil {
		return invalid("business", "Invalid pk \"%d\" - object does not exist.", req.Business)
	}
	return nil
}

func roleOrDefault(r model.Role) model.Role {
	if r == "" {
		return model.RoleViewer
	}
	return r
}

var (
	ErrUserNotFound = errors.New("user not found")
	ErrDeleteSelf   = errors.New("you cannot delete your own account")
)
