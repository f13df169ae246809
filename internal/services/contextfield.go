package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/flagbridge-backend/internal/apierr"
	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type ContextFieldInput struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	SortOrder   int      `json:"sortOrder" yaml:"sortOrder"`
	LegalValues []string `json:"legalValues,omitempty" yaml:"legalValues,omitempty"`
}

type ContextFieldService interface {
	GetContextFields(ctx context.Context) ([]*types.ContextField, error)
	GetContextField(ctx context.Context, name string) (*types.ContextField, error)
	CreateContextField(ctx context.Context, input ContextFieldInput, createdBy string) error
	UpdateContextField(ctx context.Context, name string, input ContextFieldInput, createdBy string) error
	DeleteContextField(ctx context.Context, name, createdBy string) error
	// SeedFromFile loads field definitions from a YAML file and creates
	// the ones not present yet. Missing path is not an error.
	SeedFromFile(ctx context.Context, path string) error
}

type contextFieldService struct {
	log      *logger.Logger
	repo     repos.ContextFieldRepo
	eventLog EventLogService
}

func NewContextFieldService(baseLog *logger.Logger, repo repos.ContextFieldRepo, eventLog EventLogService) ContextFieldService {
	return &contextFieldService{
		log:      baseLog.With("service", "ContextFieldService"),
		repo:     repo,
		eventLog: eventLog,
	}
}

func (s *contextFieldService) storeEvent(ctx context.Context, kind events.Kind, createdBy string, payload interface{}) error {
	event, err := newEvent(kind, createdBy, payload)
	if err != nil {
		return err
	}
	return s.eventLog.Store(ctx, event)
}

func (s *contextFieldService) GetContextFields(ctx context.Context) ([]*types.ContextField, error) {
	return s.repo.GetAll(ctx, nil)
}

func (s *contextFieldService) GetContextField(ctx context.Context, name string) (*types.ContextField, error) {
	field, err := s.repo.Get(ctx, nil, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("context field", name)
	}
	if err != nil {
		return nil, err
	}
	return field, nil
}

func (s *contextFieldService) CreateContextField(ctx context.Context, input ContextFieldInput, createdBy string) error {
	if err := validateContextFieldInput(input); err != nil {
		return err
	}
	exists, err := s.repo.Exists(ctx, nil, input.Name)
	if err != nil {
		return err
	}
	if exists {
		return apierr.NameExists("context field", input.Name)
	}
	return s.storeEvent(ctx, events.ContextFieldCreated, createdBy, input)
}

func (s *contextFieldService) UpdateContextField(ctx context.Context, name string, input ContextFieldInput, createdBy string) error {
	if _, err := s.GetContextField(ctx, name); err != nil {
		return err
	}
	input.Name = name
	if err := validateContextFieldInput(input); err != nil {
		return err
	}
	return s.storeEvent(ctx, events.ContextFieldUpdated, createdBy, input)
}

func (s *contextFieldService) DeleteContextField(ctx context.Context, name, createdBy string) error {
	if _, err := s.GetContextField(ctx, name); err != nil {
		return err
	}
	return s.storeEvent(ctx, events.ContextFieldDeleted, createdBy, namedPayload{Name: name})
}

func (s *contextFieldService) SeedFromFile(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Info("Context field seed file not found, skipping", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read context field seed: %w", err)
	}

	var seed struct {
		ContextFields []ContextFieldInput `yaml:"contextFields"`
	}
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse context field seed: %w", err)
	}

	for _, input := range seed.ContextFields {
		if err := validateContextFieldInput(input); err != nil {
			return fmt.Errorf("seed field %q: %w", input.Name, err)
		}
		exists, err := s.repo.Exists(ctx, nil, input.Name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := s.storeEvent(ctx, events.ContextFieldCreated, "system:seed", input); err != nil {
			return err
		}
		s.log.Info("Seeded context field", "name", input.Name)
	}
	return nil
}

func validateContextFieldInput(input ContextFieldInput) error {
	if input.Name == "" {
		return apierr.Validation(errors.New("context field name is required"))
	}
	if len(input.Name) > 128 {
		return apierr.Validation(fmt.Errorf("context field name %q is too long", input.Name))
	}
	seen := make(map[string]struct{}, len(input.LegalValues))
	for _, value := range input.LegalValues {
		if _, dup := seen[value]; dup {
			return apierr.Validation(fmt.Errorf("legal value %q is duplicated", value))
		}
		seen[value] = struct{}{}
	}
	return nil
}
