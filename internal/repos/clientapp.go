package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type ClientAppRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, app *types.ClientApplication) error
	Get(ctx context.Context, tx *gorm.DB, appName string) (*types.ClientApplication, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.ClientApplication, error)
	Exists(ctx context.Context, tx *gorm.DB, appName string) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, appName string) error
}

type clientAppRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientAppRepo(db *gorm.DB, baseLog *logger.Logger) ClientAppRepo {
	return &clientAppRepo{db: db, log: baseLog.With("repo", "ClientAppRepo")}
}

func (r *clientAppRepo) Upsert(ctx context.Context, tx *gorm.DB, app *types.ClientApplication) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "app_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"strategies", "updated_at"}),
		}).
		Create(app).Error
}

func (r *clientAppRepo) Get(ctx context.Context, tx *gorm.DB, appName string) (*types.ClientApplication, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.ClientApplication
	if err := transaction.WithContext(ctx).
		Where("app_name = ?", appName).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *clientAppRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.ClientApplication, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ClientApplication
	if err := transaction.WithContext(ctx).
		Order("app_name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *clientAppRepo) Exists(ctx context.Context, tx *gorm.DB, appName string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ClientApplication{}).
		Where("app_name = ?", appName).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *clientAppRepo) Delete(ctx context.Context, tx *gorm.DB, appName string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("app_name = ?", appName).
		Delete(&types.ClientApplication{}).Error
}
