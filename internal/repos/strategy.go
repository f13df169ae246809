package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type StrategyRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, strategy *types.Strategy) error
	UpdateFields(ctx context.Context, tx *gorm.DB, name string, fields map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, name string) error
	Get(ctx context.Context, tx *gorm.DB, name string) (*types.Strategy, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Strategy, error)
	GetEditable(ctx context.Context, tx *gorm.DB) ([]*types.Strategy, error)
	Exists(ctx context.Context, tx *gorm.DB, name string) (bool, error)
	DropAll(ctx context.Context, tx *gorm.DB) error
	SeedBuiltIns(ctx context.Context, tx *gorm.DB) error
}

type strategyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStrategyRepo(db *gorm.DB, baseLog *logger.Logger) StrategyRepo {
	return &strategyRepo{db: db, log: baseLog.With("repo", "StrategyRepo")}
}

func (r *strategyRepo) Upsert(ctx context.Context, tx *gorm.DB, strategy *types.Strategy) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		}).
		Create(strategy).Error
}

func (r *strategyRepo) UpdateFields(ctx context.Context, tx *gorm.DB, name string, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Strategy{}).
		Where("name = ?", name).
		Updates(fields).Error
}

func (r *strategyRepo) Delete(ctx context.Context, tx *gorm.DB, name string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("name = ?", name).
		Delete(&types.Strategy{}).Error
}

func (r *strategyRepo) Get(ctx context.Context, tx *gorm.DB, name string) (*types.Strategy, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Strategy
	if err := transaction.WithContext(ctx).
		Where("name = ?", name).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *strategyRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Strategy, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Strategy
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *strategyRepo) GetEditable(ctx context.Context, tx *gorm.DB) ([]*types.Strategy, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Strategy
	if err := transaction.WithContext(ctx).
		Where("editable = ?", true).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *strategyRepo) Exists(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Strategy{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *strategyRepo) DropAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	// Built-in strategies survive a drop; they are not user state.
	return transaction.WithContext(ctx).
		Where("editable = ?", true).
		Delete(&types.Strategy{}).Error
}

// SeedBuiltIns inserts the shipped strategies, leaving existing rows alone.
func (r *strategyRepo) SeedBuiltIns(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	for _, strategy := range types.BuiltInStrategies() {
		err := transaction.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).
			Create(strategy).Error
		if err != nil {
			r.log.Error("Failed to seed built-in strategy", "name", strategy.Name, "error", err)
			return err
		}
	}
	return nil
}
