package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type AddonRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, addon *types.Addon) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Addon, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Addon, error)
}

type addonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAddonRepo(db *gorm.DB, baseLog *logger.Logger) AddonRepo {
	return &addonRepo{db: db, log: baseLog.With("repo", "AddonRepo")}
}

func (r *addonRepo) Upsert(ctx context.Context, tx *gorm.DB, addon *types.Addon) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(addon).Error
}

func (r *addonRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Addon{}).Error
}

func (r *addonRepo) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Addon, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Addon
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *addonRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Addon, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Addon
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
