package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/flagbridge-backend/internal/apierr"
	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

const stateFormatVersion = 1

// StateExport is the portable snapshot format. Only editable strategies
// are included; built-ins exist in every deployment already.
type StateExport struct {
	Version     int                  `json:"version"`
	Features    []FeatureToggleInput `json:"features,omitempty"`
	Strategies  []StrategyInput      `json:"strategies,omitempty"`
	TagTypes    []TagTypeInput       `json:"tagTypes,omitempty"`
	Tags        []TagInput           `json:"tags,omitempty"`
	FeatureTags []types.FeatureTag   `json:"featureTags,omitempty"`
}

type ExportOptions struct {
	IncludeFeatureToggles bool
	IncludeStrategies     bool
	IncludeTags           bool
}

type ImportOptions struct {
	UserName         string
	DropBeforeImport bool
	KeepExisting     bool
}

type StateService interface {
	Export(ctx context.Context, opts ExportOptions) (*StateExport, error)
	// Import replays a snapshot into the event log. The whole document is
	// validated before anything is emitted; invalid input changes nothing.
	Import(ctx context.Context, data StateExport, opts ImportOptions) error
}

type stateService struct {
	log            *logger.Logger
	featureRepo    repos.FeatureToggleRepo
	strategyRepo   repos.StrategyRepo
	tagRepo        repos.TagRepo
	tagTypeRepo    repos.TagTypeRepo
	featureTagRepo repos.FeatureTagRepo
	eventLog       EventLogService
}

func NewStateService(
	baseLog *logger.Logger,
	featureRepo repos.FeatureToggleRepo,
	strategyRepo repos.StrategyRepo,
	tagRepo repos.TagRepo,
	tagTypeRepo repos.TagTypeRepo,
	featureTagRepo repos.FeatureTagRepo,
	eventLog EventLogService,
) StateService {
	return &stateService{
		log:            baseLog.With("service", "StateService"),
		featureRepo:    featureRepo,
		strategyRepo:   strategyRepo,
		tagRepo:        tagRepo,
		tagTypeRepo:    tagTypeRepo,
		featureTagRepo: featureTagRepo,
		eventLog:       eventLog,
	}
}

func (s *stateService) Export(ctx context.Context, opts ExportOptions) (*StateExport, error) {
	export := &StateExport{Version: stateFormatVersion}
	group, groupCtx := errgroup.WithContext(ctx)

	if opts.IncludeFeatureToggles {
		group.Go(func() error {
			toggles, err := s.featureRepo.GetAll(groupCtx, nil, false)
			if err != nil {
				return err
			}
			export.Features = make([]FeatureToggleInput, 0, len(toggles))
			for _, toggle := range toggles {
				input, err := toggleToInput(toggle)
				if err != nil {
					return err
				}
				export.Features = append(export.Features, input)
			}
			return nil
		})
	}
	if opts.IncludeStrategies {
		group.Go(func() error {
			strategies, err := s.strategyRepo.GetEditable(groupCtx, nil)
			if err != nil {
				return err
			}
			export.Strategies = make([]StrategyInput, 0, len(strategies))
			for _, strategy := range strategies {
				input, err := strategyToInput(strategy)
				if err != nil {
					return err
				}
				export.Strategies = append(export.Strategies, input)
			}
			return nil
		})
	}
	if opts.IncludeTags {
		group.Go(func() error {
			tagTypes, err := s.tagTypeRepo.GetAll(groupCtx, nil)
			if err != nil {
				return err
			}
			export.TagTypes = make([]TagTypeInput, 0, len(tagTypes))
			for _, tagType := range tagTypes {
				export.TagTypes = append(export.TagTypes, TagTypeInput{
					Name:        tagType.Name,
					Description: tagType.Description,
					Icon:        tagType.Icon,
				})
			}
			return nil
		})
		group.Go(func() error {
			tags, err := s.tagRepo.GetAll(groupCtx, nil)
			if err != nil {
				return err
			}
			export.Tags = make([]TagInput, 0, len(tags))
			for _, tag := range tags {
				export.Tags = append(export.Tags, TagInput{Type: tag.Type, Value: tag.Value})
			}
			return nil
		})
		group.Go(func() error {
			featureTags, err := s.featureTagRepo.GetAll(groupCtx, nil)
			if err != nil {
				return err
			}
			export.FeatureTags = make([]types.FeatureTag, 0, len(featureTags))
			for _, featureTag := range featureTags {
				export.FeatureTags = append(export.FeatureTags, types.FeatureTag{
					FeatureName: featureTag.FeatureName,
					TagType:     featureTag.TagType,
					TagValue:    featureTag.TagValue,
				})
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("export state: %w", err)
	}
	return export, nil
}

func (s *stateService) Import(ctx context.Context, data StateExport, opts ImportOptions) error {
	if data.Version > stateFormatVersion {
		return apierr.Validation(fmt.Errorf("unsupported state format version %d", data.Version))
	}
	if err := validateImport(data); err != nil {
		return err
	}

	if len(data.Features) > 0 {
		if err := s.importFeatures(ctx, data.Features, opts); err != nil {
			return err
		}
	}
	if len(data.Strategies) > 0 {
		if err := s.importStrategies(ctx, data.Strategies, opts); err != nil {
			return err
		}
	}
	if len(data.TagTypes) > 0 || len(data.Tags) > 0 || len(data.FeatureTags) > 0 {
		if err := s.importTags(ctx, data, opts); err != nil {
			return err
		}
	}
	return nil
}

// validateImport checks the whole document up front so a bad entry in
// the middle never leaves a half-applied import behind.
func validateImport(data StateExport) error {
	for i := range data.Features {
		if err := validateFeatureInput(&data.Features[i]); err != nil {
			return fmt.Errorf("feature %d: %w", i, err)
		}
	}
	for i, strategy := range data.Strategies {
		if err := validateStrategyInput(strategy); err != nil {
			return fmt.Errorf("strategy %d: %w", i, err)
		}
	}
	for i, tagType := range data.TagTypes {
		if tagType.Name == "" {
			return apierr.Validation(fmt.Errorf("tag type %d is missing a name", i))
		}
	}
	for i := range data.Tags {
		normalizeTagInput(&data.Tags[i])
		if err := validateTagInput(data.Tags[i]); err != nil {
			return fmt.Errorf("tag %d: %w", i, err)
		}
	}
	for i, featureTag := range data.FeatureTags {
		if featureTag.FeatureName == "" || featureTag.TagValue == "" {
			return apierr.Validation(fmt.Errorf("feature tag %d is incomplete", i))
		}
	}
	return nil
}

func (s *stateService) importFeatures(ctx context.Context, features []FeatureToggleInput, opts ImportOptions) error {
	if opts.DropBeforeImport {
		if err := s.emit(ctx, events.DropFeatures, opts.UserName, nil); err != nil {
			return err
		}
	}
	for _, input := range features {
		if !opts.DropBeforeImport {
			stored, err := s.featureRepo.Get(ctx, nil, input.Name)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if stored != nil {
				if opts.KeepExisting {
					continue
				}
				storedInput, err := toggleToInput(stored)
				if err != nil {
					return err
				}
				// Re-importing an unchanged toggle is a no-op, not a
				// new event.
				if jsonEqual(storedInput, input) {
					continue
				}
			}
		}
		if err := s.emit(ctx, events.FeatureImport, opts.UserName, input); err != nil {
			return err
		}
	}
	return nil
}

func (s *stateService) importStrategies(ctx context.Context, strategies []StrategyInput, opts ImportOptions) error {
	if opts.DropBeforeImport {
		if err := s.emit(ctx, events.DropStrategies, opts.UserName, nil); err != nil {
			return err
		}
	}
	for _, input := range strategies {
		stored, err := s.strategyRepo.Get(ctx, nil, input.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if stored != nil {
			// Built-ins are never overwritten by an import.
			if !stored.Editable {
				continue
			}
			if !opts.DropBeforeImport {
				if opts.KeepExisting {
					continue
				}
				storedInput, err := strategyToInput(stored)
				if err != nil {
					return err
				}
				if jsonEqual(storedInput, input) {
					continue
				}
			}
		}
		if err := s.emit(ctx, events.StrategyImport, opts.UserName, input); err != nil {
			return err
		}
	}
	return nil
}

func (s *stateService) importTags(ctx context.Context, data StateExport, opts ImportOptions) error {
	if opts.DropBeforeImport {
		for _, kind := range []events.Kind{events.DropFeatureTags, events.DropTags, events.DropTagTypes} {
			if err := s.emit(ctx, kind, opts.UserName, nil); err != nil {
				return err
			}
		}
	}
	for _, input := range data.TagTypes {
		if !opts.DropBeforeImport {
			stored, err := s.tagTypeRepo.Get(ctx, nil, input.Name)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if stored != nil {
				if opts.KeepExisting {
					continue
				}
				storedInput := TagTypeInput{
					Name:        stored.Name,
					Description: stored.Description,
					Icon:        stored.Icon,
				}
				if jsonEqual(storedInput, input) {
					continue
				}
			}
		}
		if err := s.emit(ctx, events.TagTypeImport, opts.UserName, input); err != nil {
			return err
		}
	}
	for _, input := range data.Tags {
		if !opts.DropBeforeImport {
			exists, err := s.tagRepo.Exists(ctx, nil, input.Type, input.Value)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
		}
		if err := s.emit(ctx, events.TagImport, opts.UserName, input); err != nil {
			return err
		}
	}
	for _, featureTag := range data.FeatureTags {
		if err := s.emit(ctx, events.FeatureTagImport, opts.UserName, types.FeatureTag{
			FeatureName: featureTag.FeatureName,
			TagType:     featureTag.TagType,
			TagValue:    featureTag.TagValue,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *stateService) emit(ctx context.Context, kind events.Kind, createdBy string, payload interface{}) error {
	if payload == nil {
		payload = struct{}{}
	}
	event, err := newEvent(kind, createdBy, payload)
	if err != nil {
		return err
	}
	return s.eventLog.Store(ctx, event)
}

func toggleToInput(toggle *types.FeatureToggle) (FeatureToggleInput, error) {
	input := FeatureToggleInput{
		Name:        toggle.Name,
		Description: toggle.Description,
		Enabled:     toggle.Enabled,
		Stale:       toggle.Stale,
		Project:     toggle.Project,
	}
	if len(toggle.Strategies) > 0 {
		if err := json.Unmarshal(toggle.Strategies, &input.Strategies); err != nil {
			return input, fmt.Errorf("decode strategies of %q: %w", toggle.Name, err)
		}
	}
	if len(toggle.Variants) > 0 {
		if err := json.Unmarshal(toggle.Variants, &input.Variants); err != nil {
			return input, fmt.Errorf("decode variants of %q: %w", toggle.Name, err)
		}
	}
	return input, nil
}

func strategyToInput(strategy *types.Strategy) (StrategyInput, error) {
	input := StrategyInput{
		Name:        strategy.Name,
		Description: strategy.Description,
	}
	if len(strategy.Parameters) > 0 {
		if err := json.Unmarshal(strategy.Parameters, &input.Parameters); err != nil {
			return input, fmt.Errorf("decode parameters of %q: %w", strategy.Name, err)
		}
	}
	return input, nil
}

// jsonEqual compares two values through their JSON form, which ignores
// nil-versus-empty slice differences between stored and imported shapes.
func jsonEqual(a, b interface{}) bool {
	rawA, errA := json.Marshal(a)
	rawB, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	var decodedA, decodedB interface{}
	if json.Unmarshal(rawA, &decodedA) != nil || json.Unmarshal(rawB, &decodedB) != nil {
		return false
	}
	return reflect.DeepEqual(decodedA, decodedB)
}
