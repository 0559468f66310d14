package service

import (
	"context"
	"errors"
	"strings"

	"marketadmin/internal/api/dto"
	"marketadmin/internal/model"
	"marketadmin/internal/repository"
)

// ==================== BusinessService ====================

// BusinessService tenant management; writes are admin-only at the router
type BusinessService struct {
	businessRepo repository.BusinessRepository
}

func NewBusinessService(businessRepo repository.BusinessRepository) *BusinessService {
	return &BusinessService{businessRepo: businessRepo}
}

func (s *BusinessService) List(ctx context.Context) ([]model.Business, error) {
	return s.businessRepo.List(ctx)
}

func (s *BusinessService) Create(ctx context.Context, req *dto.BusinessPayload) (*model.Business, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "This field may not be blank.")
	}

	b := &model.Business{Name: name}
	if err := s.businessRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BusinessService) Update(ctx context.Context, id int64, req *dto.BusinessPayload) (*model.Business, error) {
	b, err := s.businessRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBusinessNotFound
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "This field may not be blank.")
	}
	b.Name = name

	if err := s.businessRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete cascades to the business's users and products
func (s *BusinessService) Delete(ctx context.Context, id int64) error {
	b, err := s.businessRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrBusinessNotFound
	}
	return s.businessRepo.Delete(ctx, id)
}

var (
	ErrBusinessNotFound = errors.New("business not found")
)
