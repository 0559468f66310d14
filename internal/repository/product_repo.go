package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"marketadmin/internal/model"
)

// ==================== ProductRepository ====================

// ProductRepository sandbox storage for products; reads preload owner and creator
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	UpdateStatus(ctx context.Context, id int64, status model.ProductStatus) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	CountByBusiness(ctx context.Context, status model.ProductStatus) ([]BusinessCount, error)
}

// BusinessCount products of one business in a given status
type BusinessCount struct {
	BusinessID   int64  `gorm:"column:business_id"`
	BusinessName string `gorm:"column:business_name"`
	Count        int64  `gorm:"column:count"`
}

// ProductFilter zero values mean "no restriction"
type ProductFilter struct {
	BusinessID int64
	Status     model.ProductStatus
}

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository creates the product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit("Owner", "Creator").Create(product).Error
}

// GetByID returns (nil, nil) when missing
func (r *productRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Owner").Preload("Creator").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.FillDerived()
	return &p, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit("Owner", "Creator").Save(product).Error
}

func (r *productRepo) UpdateStatus(ctx context.Context, id int64, status model.ProductStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

// List newest first
func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{}).Preload("Owner").Preload("Creator")

	if filter.BusinessID != 0 {
		query = query.Where("business_id = ?", filter.BusinessID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var list []model.Product
	if err := query.Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	for i := range list {
		list[i].FillDerived()
	}
	return list, nil
}

// CountByBusiness groups products in status by owning business, busiest first
func (r *productRepo) CountByBusiness(ctx context.Context, status model.ProductStatus) ([]BusinessCount, error) {
	var rows []BusinessCount
	err := r.db.WithContext(ctx).
		Table("products").
		Select("products.business_id AS business_id, businesses.name AS business_name, COUNT(*) AS count").
		Joins("LEFT JOIN businesses ON businesses.id = products.business_id").
		Where("products.status = ?", status).
		Group("products.business_id, businesses.name").
		Order("count DESC, products.business_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
