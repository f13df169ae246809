package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/flagbridge-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:         handlers.Auth,
		EventHandler:        handlers.Event,
		FeatureHandler:      handlers.Feature,
		StrategyHandler:     handlers.Strategy,
		TagHandler:          handlers.Tag,
		TagTypeHandler:      handlers.TagType,
		ContextFieldHandler: handlers.ContextField,
		AddonHandler:        handlers.Addon,
		MetricsHandler:      handlers.Metrics,
		StateHandler:        handlers.State,
		ApplicationHandler:  handlers.Application,
		ClientHandler:       handlers.Client,
		AuthMiddleware:      middleware.Auth,
		ServiceName:         "flagbridge",
		AuthEnabled:         cfg.AuthEnabled,
		ClientTokens:        cfg.ClientTokens,
		CORSOrigins:         cfg.CORSOrigins,
	})
}
