package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type TagTypeRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, tagType *types.TagType) error
	Delete(ctx context.Context, tx *gorm.DB, name string) error
	Get(ctx context.Context, tx *gorm.DB, name string) (*types.TagType, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.TagType, error)
	Exists(ctx context.Context, tx *gorm.DB, name string) (bool, error)
	DropAll(ctx context.Context, tx *gorm.DB) error
}

type tagTypeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTagTypeRepo(db *gorm.DB, baseLog *logger.Logger) TagTypeRepo {
	return &tagTypeRepo{db: db, log: baseLog.With("repo", "TagTypeRepo")}
}

func (r *tagTypeRepo) Upsert(ctx context.Context, tx *gorm.DB, tagType *types.TagType) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		}).
		Create(tagType).Error
}

func (r *tagTypeRepo) Delete(ctx context.Context, tx *gorm.DB, name string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("name = ?", name).
		Delete(&types.TagType{}).Error
}

func (r *tagTypeRepo) Get(ctx context.Context, tx *gorm.DB, name string) (*types.TagType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.TagType
	if err := transaction.WithContext(ctx).
		Where("name = ?", name).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *tagTypeRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.TagType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.TagType
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *tagTypeRepo) Exists(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.TagType{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *tagTypeRepo) DropAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("1 = 1").
		Delete(&types.TagType{}).Error
}
