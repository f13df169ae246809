package app

import (
	"github.com/yungbote/flagbridge-backend/internal/handlers"
	"github.com/yungbote/flagbridge-backend/internal/logger"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Event        *handlers.EventHandler
	Feature      *handlers.FeatureHandler
	Strategy     *handlers.StrategyHandler
	Tag          *handlers.TagHandler
	TagType      *handlers.TagTypeHandler
	ContextField *handlers.ContextFieldHandler
	Addon        *handlers.AddonHandler
	Metrics      *handlers.MetricsHandler
	State        *handlers.StateHandler
	Application  *handlers.ApplicationHandler
	Client       *handlers.ClientHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:         handlers.NewAuthHandler(services.Auth),
		Event:        handlers.NewEventHandler(services.EventLog),
		Feature:      handlers.NewFeatureHandler(services.Feature),
		Strategy:     handlers.NewStrategyHandler(services.Strategy),
		Tag:          handlers.NewTagHandler(services.Tag),
		TagType:      handlers.NewTagTypeHandler(services.TagType),
		ContextField: handlers.NewContextFieldHandler(services.ContextField),
		Addon:        handlers.NewAddonHandler(services.Addon),
		Metrics:      handlers.NewMetricsHandler(services.Aggregator),
		State:        handlers.NewStateHandler(services.State),
		Application:  handlers.NewApplicationHandler(services.ClientApp, services.Aggregator),
		Client:       handlers.NewClientHandler(services.Feature, services.ClientMetrics, services.ClientApp, services.FeatureCache),
	}
}
