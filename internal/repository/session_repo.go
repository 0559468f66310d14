package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketadmin/internal/model"
)

// ==================== SessionRepository ====================

// SessionRepository persists the console's "current user" value between runs
type SessionRepository interface {
	Get(ctx context.Context, key string) (*model.StoredSession, error)
	Save(ctx context.Context, s *model.StoredSession) error
	Delete(ctx context.Context, key string) error
}

type sessionRepo struct {
	db *gorm.DB
}

// NewSessionRepository creates the session store on top of db
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

// Get returns (nil, nil) when nothing is stored under key
func (r *sessionRepo) Get(ctx context.Context, key string) (*model.StoredSession, error) {
	var s model.StoredSession
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Save upserts by key
func (r *sessionRepo) Save(ctx context.Context, s *model.StoredSession) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"identity", "access_token", "refresh_token", "updated_at"}),
	}).Create(s).Error
}

func (r *sessionRepo) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&model.StoredSession{}).Error
}
