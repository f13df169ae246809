package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type FeatureToggleRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, toggle *types.FeatureToggle) error
	UpdateFields(ctx context.Context, tx *gorm.DB, name string, fields map[string]interface{}) error
	Get(ctx context.Context, tx *gorm.DB, name string) (*types.FeatureToggle, error)
	GetAll(ctx context.Context, tx *gorm.DB, archived bool) ([]*types.FeatureToggle, error)
	Exists(ctx context.Context, tx *gorm.DB, name string, includeArchived bool) (bool, error)
	DropAll(ctx context.Context, tx *gorm.DB) error
}

type featureToggleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeatureToggleRepo(db *gorm.DB, baseLog *logger.Logger) FeatureToggleRepo {
	return &featureToggleRepo{db: db, log: baseLog.With("repo", "FeatureToggleRepo")}
}

func (r *featureToggleRepo) Upsert(ctx context.Context, tx *gorm.DB, toggle *types.FeatureToggle) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		}).
		Create(toggle).Error
}

func (r *featureToggleRepo) UpdateFields(ctx context.Context, tx *gorm.DB, name string, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.FeatureToggle{}).
		Where("name = ?", name).
		Updates(fields).Error
}

func (r *featureToggleRepo) Get(ctx context.Context, tx *gorm.DB, name string) (*types.FeatureToggle, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.FeatureToggle
	if err := transaction.WithContext(ctx).
		Where("name = ?", name).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *featureToggleRepo) GetAll(ctx context.Context, tx *gorm.DB, archived bool) ([]*types.FeatureToggle, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.FeatureToggle
	if err := transaction.WithContext(ctx).
		Where("archived = ?", archived).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *featureToggleRepo) Exists(ctx context.Context, tx *gorm.DB, name string, includeArchived bool) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).
		Model(&types.FeatureToggle{}).
		Where("name = ?", name)
	if !includeArchived {
		query = query.Where("archived = ?", false)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *featureToggleRepo) DropAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("1 = 1").
		Delete(&types.FeatureToggle{}).Error
}
