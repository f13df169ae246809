package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/flagbridge-backend/internal/apierr"
	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

// knownAddonProviders is the closed set of integration providers this
// deployment can be configured with. Delivery itself is out of scope
// here; the config CRUD is not.
var knownAddonProviders = map[string]struct{}{
	"webhook": {},
	"slack":   {},
	"datadog": {},
}

type AddonInput struct {
	ID          uuid.UUID              `json:"id"`
	Provider    string                 `json:"provider"`
	Description string                 `json:"description"`
	Enabled     bool                   `json:"enabled"`
	Parameters  map[string]interface{} `json:"parameters"`
	Events      []string               `json:"events"`
}

type AddonService interface {
	GetAddons(ctx context.Context) ([]*types.Addon, error)
	GetAddon(ctx context.Context, id uuid.UUID) (*types.Addon, error)
	CreateAddon(ctx context.Context, input AddonInput, createdBy string) (uuid.UUID, error)
	UpdateAddon(ctx context.Context, id uuid.UUID, input AddonInput, createdBy string) error
	DeleteAddon(ctx context.Context, id uuid.UUID, createdBy string) error
}

type addonService struct {
	log      *logger.Logger
	repo     repos.AddonRepo
	eventLog EventLogService
}

func NewAddonService(baseLog *logger.Logger, repo repos.AddonRepo, eventLog EventLogService) AddonService {
	return &addonService{
		log:      baseLog.With("service", "AddonService"),
		repo:     repo,
		eventLog: eventLog,
	}
}

func (s *addonService) storeEvent(ctx context.Context, kind events.Kind, createdBy string, payload interface{}) error {
	event, err := newEvent(kind, createdBy, payload)
	if err != nil {
		return err
	}
	return s.eventLog.Store(ctx, event)
}

func (s *addonService) GetAddons(ctx context.Context) ([]*types.Addon, error) {
	return s.repo.GetAll(ctx, nil)
}

func (s *addonService) GetAddon(ctx context.Context, id uuid.UUID) (*types.Addon, error) {
	addon, err := s.repo.Get(ctx, nil, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("addon", id.String())
	}
	if err != nil {
		return nil, err
	}
	return addon, nil
}

func (s *addonService) CreateAddon(ctx context.Context, input AddonInput, createdBy string) (uuid.UUID, error) {
	if err := validateAddonInput(input); err != nil {
		return uuid.Nil, err
	}
	input.ID = uuid.New()
	if err := s.storeEvent(ctx, events.AddonConfigCreated, createdBy, input); err != nil {
		return uuid.Nil, err
	}
	return input.ID, nil
}

func (s *addonService) UpdateAddon(ctx context.Context, id uuid.UUID, input AddonInput, createdBy string) error {
	if _, err := s.GetAddon(ctx, id); err != nil {
		return err
	}
	if err := validateAddonInput(input); err != nil {
		return err
	}
	input.ID = id
	return s.storeEvent(ctx, events.AddonConfigUpdated, createdBy, input)
}

func (s *addonService) DeleteAddon(ctx context.Context, id uuid.UUID, createdBy string) error {
	if _, err := s.GetAddon(ctx, id); err != nil {
		return err
	}
	return s.storeEvent(ctx, events.AddonConfigDeleted, createdBy, struct {
		ID uuid.UUID `json:"id"`
	}{ID: id})
}

func validateAddonInput(input AddonInput) error {
	if input.Provider == "" {
		return apierr.Validation(errors.New("addon provider is required"))
	}
	if _, ok := knownAddonProviders[input.Provider]; !ok {
		return apierr.Validation(fmt.Errorf("unknown addon provider %q", input.Provider))
	}
	if len(input.Events) == 0 {
		return apierr.Validation(errors.New("addon must subscribe to at least one event type"))
	}
	return nil
}
