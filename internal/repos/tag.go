package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type TagRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, tag *types.Tag) error
	Delete(ctx context.Context, tx *gorm.DB, tagType, tagValue string) error
	Get(ctx context.Context, tx *gorm.DB, tagType, tagValue string) (*types.Tag, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Tag, error)
	Exists(ctx context.Context, tx *gorm.DB, tagType, tagValue string) (bool, error)
	DropAll(ctx context.Context, tx *gorm.DB) error
}

type tagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	return &tagRepo{db: db, log: baseLog.With("repo", "TagRepo")}
}

func (r *tagRepo) Upsert(ctx context.Context, tx *gorm.DB, tag *types.Tag) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "type"}, {Name: "value"}},
			DoNothing: true,
		}).
		Create(tag).Error
}

func (r *tagRepo) Delete(ctx context.Context, tx *gorm.DB, tagType, tagValue string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("type = ? AND value = ?", tagType, tagValue).
		Delete(&types.Tag{}).Error
}

func (r *tagRepo) Get(ctx context.Context, tx *gorm.DB, tagType, tagValue string) (*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Tag
	if err := transaction.WithContext(ctx).
		Where("type = ? AND value = ?", tagType, tagValue).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *tagRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Tag
	if err := transaction.WithContext(ctx).
		Order("type ASC").
		Order("value ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *tagRepo) Exists(ctx context.Context, tx *gorm.DB, tagType, tagValue string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Tag{}).
		Where("type = ? AND value = ?", tagType, tagValue).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *tagRepo) DropAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("1 = 1").
		Delete(&types.Tag{}).Error
}
