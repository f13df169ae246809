package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type FeatureTagRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, featureTag *types.FeatureTag) error
	Delete(ctx context.Context, tx *gorm.DB, featureName, tagType, tagValue string) error
	GetByFeature(ctx context.Context, tx *gorm.DB, featureName string) ([]*types.FeatureTag, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.FeatureTag, error)
	DropAll(ctx context.Context, tx *gorm.DB) error
}

type featureTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeatureTagRepo(db *gorm.DB, baseLog *logger.Logger) FeatureTagRepo {
	return &featureTagRepo{db: db, log: baseLog.With("repo", "FeatureTagRepo")}
}

func (r *featureTagRepo) Upsert(ctx context.Context, tx *gorm.DB, featureTag *types.FeatureTag) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "feature_name"}, {Name: "tag_type"}, {Name: "tag_value"}},
			DoNothing: true,
		}).
		Create(featureTag).Error
}

func (r *featureTagRepo) Delete(ctx context.Context, tx *gorm.DB, featureName, tagType, tagValue string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("feature_name = ? AND tag_type = ? AND tag_value = ?", featureName, tagType, tagValue).
		Delete(&types.FeatureTag{}).Error
}

func (r *featureTagRepo) GetByFeature(ctx context.Context, tx *gorm.DB, featureName string) ([]*types.FeatureTag, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.FeatureTag
	if err := transaction.WithContext(ctx).
		Where("feature_name = ?", featureName).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *featureTagRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.FeatureTag, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.FeatureTag
	if err := transaction.WithContext(ctx).
		Order("feature_name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *featureTagRepo) DropAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("1 = 1").
		Delete(&types.FeatureTag{}).Error
}
