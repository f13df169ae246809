package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type ClientInstanceRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, instance *types.ClientInstance) error
	GetByAppName(ctx context.Context, tx *gorm.DB, appName string) ([]*types.ClientInstance, error)
	DeleteForApp(ctx context.Context, tx *gorm.DB, appName string) error
}

type clientInstanceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientInstanceRepo(db *gorm.DB, baseLog *logger.Logger) ClientInstanceRepo {
	return &clientInstanceRepo{db: db, log: baseLog.With("repo", "ClientInstanceRepo")}
}

func (r *clientInstanceRepo) Upsert(ctx context.Context, tx *gorm.DB, instance *types.ClientInstance) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "app_name"}, {Name: "instance_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"client_ip", "last_seen"}),
		}).
		Create(instance).Error
}

func (r *clientInstanceRepo) GetByAppName(ctx context.Context, tx *gorm.DB, appName string) ([]*types.ClientInstance, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ClientInstance
	if err := transaction.WithContext(ctx).
		Where("app_name = ?", appName).
		Order("last_seen DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *clientInstanceRepo) DeleteForApp(ctx context.Context, tx *gorm.DB, appName string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("app_name = ?", appName).
		Delete(&types.ClientInstance{}).Error
}
