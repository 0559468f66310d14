package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"marketadmin/internal/api/dto"
	"marketadmin/internal/middleware"
	"marketadmin/internal/model"
	"marketadmin/internal/repository"
)

// ==================== AuthService ====================

// AuthService sandbox login and "who am I"
type AuthService struct {
	userRepo repository.UserRepository
	issuer   *middleware.TokenIssuer
}

// NewAuthService creates the auth service
func NewAuthService(userRepo repository.UserRepository, issuer *middleware.TokenIssuer) *AuthService {
	return &AuthService{userRepo: userRepo, issuer: issuer}
}

// Login checks the password and issues a token pair
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := s.issuer.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Access:  access,
		Refresh: refresh,
		User:    user.Identity(),
	}, nil
}

// Me current account, re-read from storage
func (s *AuthService) Me(ctx context.Context) (*model.Identity, error) {
	caller := middleware.CallerFrom(ctx)
	if caller == nil {
		return nil, ErrNotAuthenticated
	}

	user, err := s.userRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user.Identity(), nil
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)
