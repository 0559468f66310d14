package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"marketadmin/internal/model"
)

// ==================== BusinessRepository ====================

// BusinessRepository sandbox storage for businesses
type BusinessRepository interface {
	Create(ctx context.Context, b *model.Business) error
	GetByID(ctx context.Context, id int64) (*model.Business, error)
	Update(ctx context.Context, b *model.Business) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Business, error)
}

type businessRepo struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepo{db: db}
}

func (r *businessRepo) Create(ctx context.Context, b *model.Business) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *businessRepo) GetByID(ctx context.Context, id int64) (*model.Business, error) {
	var b model.Business
	err := r.db.WithContext(ctx).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *businessRepo) Update(ctx context.Context, b *model.Business) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// Delete removes the business together with its users and products, inside one transaction
func (r *businessRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ?", id).Delete(&model.Product{}).Error; err != nil {
			return err
		}
		if err := tx.Where("business_id = ?", id).Delete(&model.User{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Business{}, id).Error
	})
}

func (r *businessRepo) List(ctx context.Context) ([]model.Business, error) {
	var list []model.Business
	err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}
