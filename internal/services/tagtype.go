package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/flagbridge-backend/internal/apierr"
	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type TagTypeInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

type TagTypeService interface {
	GetTagTypes(ctx context.Context) ([]*types.TagType, error)
	GetTagType(ctx context.Context, name string) (*types.TagType, error)
	CreateTagType(ctx context.Context, input TagTypeInput, createdBy string) error
	UpdateTagType(ctx context.Context, name string, input TagTypeInput, createdBy string) error
	DeleteTagType(ctx context.Context, name, createdBy string) error
	ValidateName(ctx context.Context, name string) error
}

type tagTypeService struct {
	log      *logger.Logger
	repo     repos.TagTypeRepo
	eventLog EventLogService
}

func NewTagTypeService(baseLog *logger.Logger, repo repos.TagTypeRepo, eventLog EventLogService) TagTypeService {
	return &tagTypeService{
		log:      baseLog.With("service", "TagTypeService"),
		repo:     repo,
		eventLog: eventLog,
	}
}

func (s *tagTypeService) storeEvent(ctx context.Context, kind events.Kind, createdBy string, payload interface{}) error {
	event, err := newEvent(kind, createdBy, payload)
	if err != nil {
		return err
	}
	return s.eventLog.Store(ctx, event)
}

func (s *tagTypeService) GetTagTypes(ctx context.Context) ([]*types.TagType, error) {
	return s.repo.GetAll(ctx, nil)
}

func (s *tagTypeService) GetTagType(ctx context.Context, name string) (*types.TagType, error) {
	tagType, err := s.repo.Get(ctx, nil, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("tag type", name)
	}
	if err != nil {
		return nil, err
	}
	return tagType, nil
}

func (s *tagTypeService) CreateTagType(ctx context.Context, input TagTypeInput, createdBy string) error {
	if err := s.ValidateName(ctx, input.Name); err != nil {
		return err
	}
	return s.storeEvent(ctx, events.TagTypeCreated, createdBy, input)
}

func (s *tagTypeService) UpdateTagType(ctx context.Context, name string, input TagTypeInput, createdBy string) error {
	if _, err := s.GetTagType(ctx, name); err != nil {
		return err
	}
	input.Name = name
	return s.storeEvent(ctx, events.TagTypeUpdated, createdBy, input)
}

func (s *tagTypeService) DeleteTagType(ctx context.Context, name, createdBy string) error {
	if _, err := s.GetTagType(ctx, name); err != nil {
		return err
	}
	return s.storeEvent(ctx, events.TagTypeDeleted, createdBy, namedPayload{Name: name})
}

func (s *tagTypeService) ValidateName(ctx context.Context, name string) error {
	if name == "" {
		return apierr.Validation(errors.New("tag type name is required"))
	}
	exists, err := s.repo.Exists(ctx, nil, name)
	if err != nil {
		return err
	}
	if exists {
		return apierr.NameExists("tag type", name)
	}
	return nil
}
