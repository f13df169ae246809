package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/flagbridge-backend/internal/apierr"
	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type TagInput struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type TagService interface {
	GetTags(ctx context.Context) ([]*types.Tag, error)
	GetTag(ctx context.Context, tagType, tagValue string) (*types.Tag, error)
	CreateTag(ctx context.Context, input TagInput, createdBy string) error
	DeleteTag(ctx context.Context, tagType, tagValue, createdBy string) error
	// TagFeature attaches a tag to a toggle, creating the tag on the fly
	// when it does not exist yet.
	TagFeature(ctx context.Context, featureName string, input TagInput, createdBy string) error
	UntagFeature(ctx context.Context, featureName, tagType, tagValue, createdBy string) error
	GetTagsForFeature(ctx context.Context, featureName string) ([]*types.FeatureTag, error)
}

type tagService struct {
	log            *logger.Logger
	tagRepo        repos.TagRepo
	featureTagRepo repos.FeatureTagRepo
	featureRepo    repos.FeatureToggleRepo
	eventLog       EventLogService
}

func NewTagService(
	baseLog *logger.Logger,
	tagRepo repos.TagRepo,
	featureTagRepo repos.FeatureTagRepo,
	featureRepo repos.FeatureToggleRepo,
	eventLog EventLogService,
) TagService {
	return &tagService{
		log:            baseLog.With("service", "TagService"),
		tagRepo:        tagRepo,
		featureTagRepo: featureTagRepo,
		featureRepo:    featureRepo,
		eventLog:       eventLog,
	}
}

func (s *tagService) storeEvent(ctx context.Context, kind events.Kind, createdBy string, payload interface{}) error {
	event, err := newEvent(kind, createdBy, payload)
	if err != nil {
		return err
	}
	return s.eventLog.Store(ctx, event)
}

func (s *tagService) GetTags(ctx context.Context) ([]*types.Tag, error) {
	return s.tagRepo.GetAll(ctx, nil)
}

func (s *tagService) GetTag(ctx context.Context, tagType, tagValue string) (*types.Tag, error) {
	tag, err := s.tagRepo.Get(ctx, nil, tagType, tagValue)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("tag", tagType+":"+tagValue)
	}
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) CreateTag(ctx context.Context, input TagInput, createdBy string) error {
	normalizeTagInput(&input)
	if err := validateTagInput(input); err != nil {
		return err
	}
	exists, err := s.tagRepo.Exists(ctx, nil, input.Type, input.Value)
	if err != nil {
		return err
	}
	if exists {
		return apierr.NameExists("tag", input.Type+":"+input.Value)
	}
	return s.storeEvent(ctx, events.TagCreated, createdBy, input)
}

func (s *tagService) DeleteTag(ctx context.Context, tagType, tagValue, createdBy string) error {
	if _, err := s.GetTag(ctx, tagType, tagValue); err != nil {
		return err
	}
	return s.storeEvent(ctx, events.TagDeleted, createdBy, TagInput{Type: tagType, Value: tagValue})
}

func (s *tagService) TagFeature(ctx context.Context, featureName string, input TagInput, createdBy string) error {
	normalizeTagInput(&input)
	if err := validateTagInput(input); err != nil {
		return err
	}
	featureExists, err := s.featureRepo.Exists(ctx, nil, featureName, false)
	if err != nil {
		return err
	}
	if !featureExists {
		return apierr.NotFound("feature", featureName)
	}
	tagExists, err := s.tagRepo.Exists(ctx, nil, input.Type, input.Value)
	if err != nil {
		return err
	}
	if !tagExists {
		if err := s.storeEvent(ctx, events.TagCreated, createdBy, input); err != nil {
			return err
		}
	}
	return s.storeFeatureTagEvent(ctx, events.FeatureTagged, createdBy, types.FeatureTag{
		FeatureName: featureName,
		TagType:     input.Type,
		TagValue:    input.Value,
	})
}

func (s *tagService) UntagFeature(ctx context.Context, featureName, tagType, tagValue, createdBy string) error {
	return s.storeFeatureTagEvent(ctx, events.FeatureUntagged, createdBy, types.FeatureTag{
		FeatureName: featureName,
		TagType:     tagType,
		TagValue:    tagValue,
	})
}

// storeFeatureTagEvent emits a tagging event carrying the toggle's tag
// set as it looks once the event is applied, for tag-filtered audit views.
func (s *tagService) storeFeatureTagEvent(ctx context.Context, kind events.Kind, createdBy string, featureTag types.FeatureTag) error {
	event, err := newEvent(kind, createdBy, featureTag)
	if err != nil {
		return err
	}

	existing, err := s.featureTagRepo.GetByFeature(ctx, nil, featureTag.FeatureName)
	if err != nil {
		s.log.Warn("Failed to load tags for event", "feature", featureTag.FeatureName, "error", err)
		existing = nil
	}
	resulting := make([]*types.FeatureTag, 0, len(existing)+1)
	for _, stored := range existing {
		if stored.TagType == featureTag.TagType && stored.TagValue == featureTag.TagValue {
			continue
		}
		resulting = append(resulting, stored)
	}
	if kind == events.FeatureTagged {
		resulting = append(resulting, &featureTag)
	}
	event.Tags = marshalEventTags(resulting)

	return s.eventLog.Store(ctx, event)
}

func (s *tagService) GetTagsForFeature(ctx context.Context, featureName string) ([]*types.FeatureTag, error) {
	return s.featureTagRepo.GetByFeature(ctx, nil, featureName)
}

func normalizeTagInput(input *TagInput) {
	if input.Type == "" {
		input.Type = "simple"
	}
}

func validateTagInput(input TagInput) error {
	if input.Value == "" {
		return apierr.Validation(errors.New("tag value is required"))
	}
	if len(input.Value) > 255 {
		return apierr.Validation(fmt.Errorf("tag value %q is too long", input.Value))
	}
	return nil
}
