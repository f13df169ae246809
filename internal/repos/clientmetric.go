package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type ClientMetricRepo interface {
	Insert(ctx context.Context, tx *gorm.DB, metric *types.ClientMetric) error
	GetRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ClientMetric, error)
}

type clientMetricRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientMetricRepo(db *gorm.DB, baseLog *logger.Logger) ClientMetricRepo {
	return &clientMetricRepo{db: db, log: baseLog.With("repo", "ClientMetricRepo")}
}

func (r *clientMetricRepo) Insert(ctx context.Context, tx *gorm.DB, metric *types.ClientMetric) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(metric).Error
}

func (r *clientMetricRepo) GetRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ClientMetric, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ClientMetric
	if err := transaction.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
