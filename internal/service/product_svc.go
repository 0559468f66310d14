package service

import (
	"context"
	"errors"
	"strings"

	"marketadmin/internal/api/dto"
	"marketadmin/internal/middleware"
	"marketadmin/internal/model"
	"marketadmin/internal/repository"
	"marketadmin/pkg/utils"
)

// ==================== ProductService ====================

// ProductService product listings and their approval.
// Admins and approvers work across all businesses, everyone else only inside their own.
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates the product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ListPublic approved products, no authentication needed
func (s *ProductService) ListPublic(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.List(ctx, repository.ProductFilter{Status: model.StatusApproved})
}

// List products the caller may see
func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	caller := middleware.CallerFrom(ctx)
	if caller == nil {
		return nil, ErrNotAuthenticated
	}

	filter := repository.ProductFilter{}
	if !caller.CanSeeAllProducts() {
		filter.BusinessID = caller.BusinessID
	}
	return s.productRepo.List(ctx, filter)
}

// Create owner business and creator always come from the caller; the payload's business is ignored
func (s *ProductService) Create(ctx context.Context, req *dto.ProductPayload) (*model.Product, error) {
	caller := middleware.CallerFrom(ctx)
	if caller == nil {
		return nil, ErrNotAuthenticated
	}

	price, err := checkProductPayload(req)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.StatusDraft
	}
	if status == model.StatusApproved && !caller.CanApprove() {
		return nil, ErrPermissionDenied
	}

	// CreatedBy is filled by the audit callback
	p := &model.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       price,
		Status:      status,
		BusinessID:  caller.BusinessID,
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, p.ID)
}

// Update status may stay or move forward; only approvers may move it to approved
func (s *ProductService) Update(ctx context.Context, id int64, req *dto.ProductPayload) (*model.Product, error) {
	p, err := s.visible(ctx, id)
	if err != nil {
		return nil, err
	}

	price, err := checkProductPayload(req)
	if err != nil {
		return nil, err
	}

	if req.Status != "" && req.Status != p.Status {
		if !p.Status.CanAdvanceTo(req.Status) {
			return nil, invalid("status", "Cannot move a product from %s back to %s.", p.Status.Label(), req.Status.Label())
		}
		if req.Status == model.StatusApproved && !middleware.CallerFrom(ctx).CanApprove() {
			return nil, ErrPermissionDenied
		}
		p.Status = req.Status
	}

	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Price = price

	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if _, err := s.visible(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// Approve sets status approved; approving an approved product changes nothing
func (s *ProductService) Approve(ctx context.Context, id int64) (*model.Product, error) {
	if !middleware.CallerFrom(ctx).CanApprove() {
		return nil, ErrPermissionDenied
	}

	p, err := s.visible(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status.Terminal() {
		return p, nil
	}

	if err := s.productRepo.UpdateStatus(ctx, id, model.StatusApproved); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, id)
}

// visible loads id, reporting not-found for products outside the caller's reach
func (s *ProductService) visible(ctx context.Context, id int64) (*model.Product, error) {
	caller := middleware.CallerFrom(ctx)
	if caller == nil {
		return nil, ErrNotAuthenticated
	}

	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || (!caller.CanSeeAllProducts() && p.BusinessID != caller.BusinessID) {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// checkProductPayload returns the normalized price
func checkProductPayload(req *dto.ProductPayload) (string, error) {
	if strings.TrimSpace(req.Name) == "" {
		return "", invalid("name", "This field may not be blank.")
	}
	if n := utils.WordCount(req.Description); n > utils.MaxDescriptionWords {
		return "", invalid("description", "Description must not exceed %d words. Current count: %d", utils.MaxDescriptionWords, n)
	}
	if req.Status != "" && !req.Status.Valid() {
		return "", invalid("status", "\"%s\" is not a valid choice.", req.Status)
	}

	price, err := utils.NormalizePrice(req.Price)
	switch {
	case errors.Is(err, utils.ErrPriceDecimalPlaces):
		return "", invalid("price", "Ensure that there are no more than %d decimal places.", utils.PriceDecimalPlaces)
	case errors.Is(err, utils.ErrPriceTooLarge):
		return "", invalid("price", "Ensure that there are no more than %d digits in total.", utils.PriceMaxDigits)
	case err != nil:
		return "", invalid("price", "A valid number is required.")
	}
	return price, nil
}

var (
	ErrProductNotFound = errors.New("product not found")
)
