package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type ContextFieldRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, field *types.ContextField) error
	Delete(ctx context.Context, tx *gorm.DB, name string) error
	Get(ctx context.Context, tx *gorm.DB, name string) (*types.ContextField, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.ContextField, error)
	Exists(ctx context.Context, tx *gorm.DB, name string) (bool, error)
}

type contextFieldRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContextFieldRepo(db *gorm.DB, baseLog *logger.Logger) ContextFieldRepo {
	return &contextFieldRepo{db: db, log: baseLog.With("repo", "ContextFieldRepo")}
}

func (r *contextFieldRepo) Upsert(ctx context.Context, tx *gorm.DB, field *types.ContextField) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		}).
		Create(field).Error
}

func (r *contextFieldRepo) Delete(ctx context.Context, tx *gorm.DB, name string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("name = ?", name).
		Delete(&types.ContextField{}).Error
}

func (r *contextFieldRepo) Get(ctx context.Context, tx *gorm.DB, name string) (*types.ContextField, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.ContextField
	if err := transaction.WithContext(ctx).
		Where("name = ?", name).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *contextFieldRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.ContextField, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ContextField
	if err := transaction.WithContext(ctx).
		Order("sort_order ASC").
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contextFieldRepo) Exists(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ContextField{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
