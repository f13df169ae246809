package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/flagbridge-backend/internal/apierr"
	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

var featureNamePattern = regexp.MustCompile(`^[0-9a-zA-Z._-]+$`)

// FeatureToggleInput is the mutation payload for toggles. Its JSON shape
// doubles as the event payload, so the field names must stay aligned
// with types.FeatureToggle.
type FeatureToggleInput struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Enabled     bool                    `json:"enabled"`
	Stale       bool                    `json:"stale"`
	Project     string                  `json:"project,omitempty"`
	Strategies  []types.StrategyBinding `json:"strategies"`
	Variants    []types.Variant         `json:"variants,omitempty"`
}

type FeatureToggleService interface {
	GetFeatures(ctx context.Context) ([]*types.FeatureToggle, error)
	GetFeature(ctx context.Context, name string) (*types.FeatureToggle, error)
	GetArchivedFeatures(ctx context.Context) ([]*types.FeatureToggle, error)
	CreateFeature(ctx context.Context, input FeatureToggleInput, createdBy string) error
	UpdateFeature(ctx context.Context, name string, input FeatureToggleInput, createdBy string) error
	ToggleFeature(ctx context.Context, name, createdBy string) (*types.FeatureToggle, error)
	SetEnabled(ctx context.Context, name string, enabled bool, createdBy string) error
	ArchiveFeature(ctx context.Context, name, createdBy string) error
	ReviveFeature(ctx context.Context, name, createdBy string) error
	SetStale(ctx context.Context, name string, stale bool, createdBy string) error
	// ValidateName reports whether a name is usable for a new toggle.
	ValidateName(ctx context.Context, name string) error
}

type featureToggleService struct {
	log            *logger.Logger
	repo           repos.FeatureToggleRepo
	featureTagRepo repos.FeatureTagRepo
	eventLog       EventLogService
}

func NewFeatureToggleService(baseLog *logger.Logger, repo repos.FeatureToggleRepo, featureTagRepo repos.FeatureTagRepo, eventLog EventLogService) FeatureToggleService {
	return &featureToggleService{
		log:            baseLog.With("service", "FeatureToggleService"),
		repo:           repo,
		featureTagRepo: featureTagRepo,
		eventLog:       eventLog,
	}
}

// newEvent builds an event row from a kind and a JSON-serializable
// payload. Shared by every mutating service in this package.
func newEvent(kind events.Kind, createdBy string, payload interface{}) (*types.Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	return &types.Event{Type: kind.String(), CreatedBy: createdBy, Data: data}, nil
}

func (s *featureToggleService) storeEvent(ctx context.Context, kind events.Kind, createdBy, featureName string, payload interface{}) error {
	event, err := newEvent(kind, createdBy, payload)
	if err != nil {
		return err
	}
	event.Tags = s.auditTags(ctx, featureName)
	return s.eventLog.Store(ctx, event)
}

// auditTags denormalizes the toggle's current tags onto the event row so
// the audit trail can be filtered by tag without joining.
func (s *featureToggleService) auditTags(ctx context.Context, featureName string) datatypes.JSON {
	featureTags, err := s.featureTagRepo.GetByFeature(ctx, nil, featureName)
	if err != nil {
		s.log.Warn("Failed to load tags for event", "feature", featureName, "error", err)
		return nil
	}
	return marshalEventTags(featureTags)
}

func marshalEventTags(featureTags []*types.FeatureTag) datatypes.JSON {
	if len(featureTags) == 0 {
		return nil
	}
	tags := make([]TagInput, 0, len(featureTags))
	for _, featureTag := range featureTags {
		tags = append(tags, TagInput{Type: featureTag.TagType, Value: featureTag.TagValue})
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return nil
	}
	return raw
}

type namedPayload struct {
	Name string `json:"name"`
}

func (s *featureToggleService) GetFeatures(ctx context.Context) ([]*types.FeatureToggle, error) {
	return s.repo.GetAll(ctx, nil, false)
}

func (s *featureToggleService) GetFeature(ctx context.Context, name string) (*types.FeatureToggle, error) {
	toggle, err := s.repo.Get(ctx, nil, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("feature", name)
	}
	if err != nil {
		return nil, err
	}
	if toggle.Archived {
		return nil, apierr.NotFound("feature", name)
	}
	return toggle, nil
}

func (s *featureToggleService) GetArchivedFeatures(ctx context.Context) ([]*types.FeatureToggle, error) {
	return s.repo.GetAll(ctx, nil, true)
}

func (s *featureToggleService) CreateFeature(ctx context.Context, input FeatureToggleInput, createdBy string) error {
	if err := validateFeatureInput(&input); err != nil {
		return err
	}
	// Archived toggles still hold their name; reviving is the way back.
	exists, err := s.repo.Exists(ctx, nil, input.Name, true)
	if err != nil {
		return err
	}
	if exists {
		return apierr.NameExists("feature", input.Name)
	}
	return s.storeEvent(ctx, events.FeatureCreated, createdBy, input.Name, input)
}

func (s *featureToggleService) UpdateFeature(ctx context.Context, name string, input FeatureToggleInput, createdBy string) error {
	exists, err := s.repo.Exists(ctx, nil, name, false)
	if err != nil {
		return err
	}
	if !exists {
		return apierr.NotFound("feature", name)
	}
	input.Name = name
	if err := validateFeatureInput(&input); err != nil {
		return err
	}
	return s.storeEvent(ctx, events.FeatureUpdated, createdBy, name, input)
}

func (s *featureToggleService) ToggleFeature(ctx context.Context, name, createdBy string) (*types.FeatureToggle, error) {
	toggle, err := s.GetFeature(ctx, name)
	if err != nil {
		return nil, err
	}
	toggle.Enabled = !toggle.Enabled
	if err := s.emitEnabledState(ctx, toggle, createdBy); err != nil {
		return nil, err
	}
	return toggle, nil
}

func (s *featureToggleService) SetEnabled(ctx context.Context, name string, enabled bool, createdBy string) error {
	toggle, err := s.GetFeature(ctx, name)
	if err != nil {
		return err
	}
	toggle.Enabled = enabled
	return s.emitEnabledState(ctx, toggle, createdBy)
}

func (s *featureToggleService) emitEnabledState(ctx context.Context, toggle *types.FeatureToggle, createdBy string) error {
	kind := events.FeatureDisabled
	if toggle.Enabled {
		kind = events.FeatureEnabled
	}
	return s.storeEvent(ctx, kind, createdBy, toggle.Name, toggle)
}

func (s *featureToggleService) ArchiveFeature(ctx context.Context, name, createdBy string) error {
	exists, err := s.repo.Exists(ctx, nil, name, false)
	if err != nil {
		return err
	}
	if !exists {
		return apierr.NotFound("feature", name)
	}
	return s.storeEvent(ctx, events.FeatureArchived, createdBy, name, namedPayload{Name: name})
}

func (s *featureToggleService) ReviveFeature(ctx context.Context, name, createdBy string) error {
	exists, err := s.repo.Exists(ctx, nil, name, true)
	if err != nil {
		return err
	}
	if !exists {
		return apierr.NotFound("feature", name)
	}
	return s.storeEvent(ctx, events.FeatureRevived, createdBy, name, namedPayload{Name: name})
}

func (s *featureToggleService) SetStale(ctx context.Context, name string, stale bool, createdBy string) error {
	if _, err := s.GetFeature(ctx, name); err != nil {
		return err
	}
	kind := events.FeatureStaleOff
	if stale {
		kind = events.FeatureStaleOn
	}
	return s.storeEvent(ctx, kind, createdBy, name, namedPayload{Name: name})
}

func (s *featureToggleService) ValidateName(ctx context.Context, name string) error {
	if err := validateFeatureName(name); err != nil {
		return err
	}
	exists, err := s.repo.Exists(ctx, nil, name, true)
	if err != nil {
		return err
	}
	if exists {
		return apierr.NameExists("feature", name)
	}
	return nil
}

func validateFeatureName(name string) error {
	if name == "" {
		return apierr.Validation(errors.New("feature name is required"))
	}
	if len(name) > 128 {
		return apierr.Validation(errors.New("feature name must be at most 128 characters"))
	}
	if !featureNamePattern.MatchString(name) {
		return apierr.Validation(fmt.Errorf("feature name %q must be URL friendly (letters, digits, '.', '-', '_')", name))
	}
	return nil
}

func validateFeatureInput(input *FeatureToggleInput) error {
	if err := validateFeatureName(input.Name); err != nil {
		return err
	}
	if input.Project == "" {
		input.Project = "default"
	}
	// A toggle always has at least the default strategy.
	if len(input.Strategies) == 0 {
		input.Strategies = []types.StrategyBinding{{Name: "default"}}
	}
	for _, binding := range input.Strategies {
		if binding.Name == "" {
			return apierr.Validation(errors.New("strategy binding is missing a name"))
		}
	}
	seen := make(map[string]struct{}, len(input.Variants))
	for _, variant := range input.Variants {
		if variant.Name == "" {
			return apierr.Validation(errors.New("variant is missing a name"))
		}
		if variant.Weight < 0 || variant.Weight > 100 {
			return apierr.Validation(fmt.Errorf("variant %q weight must be between 0 and 100", variant.Name))
		}
		if _, dup := seen[variant.Name]; dup {
			return apierr.Validation(fmt.Errorf("variant name %q is duplicated", variant.Name))
		}
		seen[variant.Name] = struct{}{}
	}
	return nil
}
