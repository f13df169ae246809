package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/flagbridge-backend/internal/clients/redis"
	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/metrics"
	"github.com/yungbote/flagbridge-backend/internal/projectors"
	"github.com/yungbote/flagbridge-backend/internal/services"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type Services struct {
	EventLog      services.EventLogService
	Feature       services.FeatureToggleService
	Strategy      services.StrategyService
	Tag           services.TagService
	TagType       services.TagTypeService
	ContextField  services.ContextFieldService
	Addon         services.AddonService
	State         services.StateService
	ClientMetrics services.ClientMetricsService
	ClientApp     services.ClientAppService
	Auth          services.AuthService

	Bus          *events.Bus
	Stream       *metrics.Stream
	Aggregator   *metrics.Aggregator
	FeatureCache *redis.FeatureCache
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	bus := events.NewBus(log)
	eventLog := services.NewEventLogService(db, log, reposet.Event, bus)

	// Projectors register themselves on the bus; read models only change
	// through them.
	projectors.NewFeatureToggleProjector(log, reposet.FeatureToggle, bus)
	projectors.NewStrategyProjector(log, reposet.Strategy, bus)
	projectors.NewTagProjector(log, reposet.Tag, bus)
	projectors.NewTagTypeProjector(log, reposet.TagType, bus)
	projectors.NewFeatureTagProjector(log, reposet.FeatureTag, bus)
	projectors.NewContextFieldProjector(log, reposet.ContextField, bus)
	projectors.NewAddonProjector(log, reposet.Addon, bus)

	stream := metrics.NewStream()
	aggregator := metrics.NewAggregator(log, stream)

	featureCache := redis.NewFeatureCache(log, clients.Redis, cfg.FeatureCacheTTL)
	subscribeCacheInvalidation(bus, featureCache)

	auth, err := services.NewAuthService(log, cfg.JWTSecretKey, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return Services{}, err
	}

	return Services{
		EventLog:      eventLog,
		Feature:       services.NewFeatureToggleService(log, reposet.FeatureToggle, reposet.FeatureTag, eventLog),
		Strategy:      services.NewStrategyService(log, reposet.Strategy, eventLog),
		Tag:           services.NewTagService(log, reposet.Tag, reposet.FeatureTag, reposet.FeatureToggle, eventLog),
		TagType:       services.NewTagTypeService(log, reposet.TagType, eventLog),
		ContextField:  services.NewContextFieldService(log, reposet.ContextField, eventLog),
		Addon:         services.NewAddonService(log, reposet.Addon, eventLog),
		State:         services.NewStateService(log, reposet.FeatureToggle, reposet.Strategy, reposet.Tag, reposet.TagType, reposet.FeatureTag, eventLog),
		ClientMetrics: services.NewClientMetricsService(log, reposet.ClientMetric, reposet.ClientInstance, stream),
		ClientApp:     services.NewClientAppService(log, reposet.ClientApp, reposet.ClientInstance, eventLog),
		Auth:          auth,
		Bus:           bus,
		Stream:        stream,
		Aggregator:    aggregator,
		FeatureCache:  featureCache,
	}, nil
}

// subscribeCacheInvalidation drops the cached client features payload on
// any event that can change it.
func subscribeCacheInvalidation(bus *events.Bus, cache *redis.FeatureCache) {
	if cache == nil {
		return
	}
	invalidate := func(types.Event) { cache.Invalidate(context.Background()) }
	for _, kind := range []events.Kind{
		events.FeatureCreated,
		events.FeatureUpdated,
		events.FeatureEnabled,
		events.FeatureDisabled,
		events.FeatureArchived,
		events.FeatureRevived,
		events.FeatureStaleOn,
		events.FeatureStaleOff,
		events.FeatureImport,
		events.DropFeatures,
	} {
		bus.Subscribe(kind, invalidate)
	}
}
