package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/yungbote/flagbridge-backend/internal/apierr"
	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

var strategyNamePattern = regexp.MustCompile(`^[0-9a-zA-Z._-]+$`)

type StrategyInput struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Parameters  []types.StrategyParameter `json:"parameters"`
}

type StrategyService interface {
	GetStrategies(ctx context.Context) ([]*types.Strategy, error)
	GetStrategy(ctx context.Context, name string) (*types.Strategy, error)
	CreateStrategy(ctx context.Context, input StrategyInput, createdBy string) error
	UpdateStrategy(ctx context.Context, name string, input StrategyInput, createdBy string) error
	DeleteStrategy(ctx context.Context, name, createdBy string) error
	DeprecateStrategy(ctx context.Context, name, createdBy string) error
	ReactivateStrategy(ctx context.Context, name, createdBy string) error
}

type strategyService struct {
	log      *logger.Logger
	repo     repos.StrategyRepo
	eventLog EventLogService
}

func NewStrategyService(baseLog *logger.Logger, repo repos.StrategyRepo, eventLog EventLogService) StrategyService {
	return &strategyService{
		log:      baseLog.With("service", "StrategyService"),
		repo:     repo,
		eventLog: eventLog,
	}
}

func (s *strategyService) storeEvent(ctx context.Context, kind events.Kind, createdBy string, payload interface{}) error {
	event, err := newEvent(kind, createdBy, payload)
	if err != nil {
		return err
	}
	return s.eventLog.Store(ctx, event)
}

func (s *strategyService) GetStrategies(ctx context.Context) ([]*types.Strategy, error) {
	return s.repo.GetAll(ctx, nil)
}

func (s *strategyService) GetStrategy(ctx context.Context, name string) (*types.Strategy, error) {
	strategy, err := s.repo.Get(ctx, nil, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("strategy", name)
	}
	if err != nil {
		return nil, err
	}
	return strategy, nil
}

func (s *strategyService) CreateStrategy(ctx context.Context, input StrategyInput, createdBy string) error {
	if err := validateStrategyInput(input); err != nil {
		return err
	}
	exists, err := s.repo.Exists(ctx, nil, input.Name)
	if err != nil {
		return err
	}
	if exists {
		return apierr.NameExists("strategy", input.Name)
	}
	return s.storeEvent(ctx, events.StrategyCreated, createdBy, input)
}

func (s *strategyService) UpdateStrategy(ctx context.Context, name string, input StrategyInput, createdBy string) error {
	strategy, err := s.editableStrategy(ctx, name)
	if err != nil {
		return err
	}
	input.Name = strategy.Name
	if err := validateStrategyInput(input); err != nil {
		return err
	}
	return s.storeEvent(ctx, events.StrategyUpdated, createdBy, input)
}

func (s *strategyService) DeleteStrategy(ctx context.Context, name, createdBy string) error {
	if _, err := s.editableStrategy(ctx, name); err != nil {
		return err
	}
	return s.storeEvent(ctx, events.StrategyDeleted, createdBy, namedPayload{Name: name})
}

func (s *strategyService) DeprecateStrategy(ctx context.Context, name, createdBy string) error {
	if _, err := s.GetStrategy(ctx, name); err != nil {
		return err
	}
	// Everything may be deprecated except the default strategy; toggles
	// with no explicit strategies fall back to it.
	if name == "default" {
		return apierr.Forbidden("the default strategy cannot be deprecated")
	}
	return s.storeEvent(ctx, events.StrategyDeprecated, createdBy, namedPayload{Name: name})
}

func (s *strategyService) ReactivateStrategy(ctx context.Context, name, createdBy string) error {
	if _, err := s.GetStrategy(ctx, name); err != nil {
		return err
	}
	return s.storeEvent(ctx, events.StrategyReactivated, createdBy, namedPayload{Name: name})
}

func (s *strategyService) editableStrategy(ctx context.Context, name string) (*types.Strategy, error) {
	strategy, err := s.GetStrategy(ctx, name)
	if err != nil {
		return nil, err
	}
	if !strategy.Editable {
		return nil, apierr.Forbidden(fmt.Sprintf("strategy %q is built in and cannot be changed", name))
	}
	return strategy, nil
}

func validateStrategyInput(input StrategyInput) error {
	if input.Name == "" {
		return apierr.Validation(errors.New("strategy name is required"))
	}
	if !strategyNamePattern.MatchString(input.Name) {
		return apierr.Validation(fmt.Errorf("strategy name %q must be URL friendly (letters, digits, '.', '-', '_')", input.Name))
	}
	for _, param := range input.Parameters {
		if param.Name == "" {
			return apierr.Validation(errors.New("strategy parameter is missing a name"))
		}
	}
	return nil
}
