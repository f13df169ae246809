package repos

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type EventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.Event) error
	// GetLatest returns the newest events first, tie-broken by id
	// descending for rows sharing a timestamp.
	GetLatest(ctx context.Context, tx *gorm.DB, limit int) ([]types.Event, error)
	// GetByDataName returns the newest events first whose payload name
	// matches, restricted to ids strictly greater than afterID.
	GetByDataName(ctx context.Context, tx *gorm.DB, name string, afterID uint, limit int) ([]types.Event, error)
	// MaxIDByType returns the highest id among events of the given type,
	// or zero when none exist.
	MaxIDByType(ctx context.Context, tx *gorm.DB, eventType string) (uint, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return &eventRepo{db: db, log: baseLog.With("repo", "EventRepo")}
}

func (r *eventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.Event) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetLatest(ctx context.Context, tx *gorm.DB, limit int) ([]types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.Event
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *eventRepo) GetByDataName(ctx context.Context, tx *gorm.DB, name string, afterID uint, limit int) ([]types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.Event
	if err := transaction.WithContext(ctx).
		Where(datatypes.JSONQuery("data").Equals(name, "name")).
		Where("id > ?", afterID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *eventRepo) MaxIDByType(ctx context.Context, tx *gorm.DB, eventType string) (uint, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var maxID *uint
	if err := transaction.WithContext(ctx).
		Model(&types.Event{}).
		Where("type = ?", eventType).
		Select("MAX(id)").
		Scan(&maxID).Error; err != nil {
		return 0, err
	}
	if maxID == nil {
		return 0, nil
	}
	return *maxID, nil
}
