package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/flagbridge-backend/internal/handlers"
	"github.com/yungbote/flagbridge-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	EventHandler        *handlers.EventHandler
	FeatureHandler      *handlers.FeatureHandler
	StrategyHandler     *handlers.StrategyHandler
	TagHandler          *handlers.TagHandler
	TagTypeHandler      *handlers.TagTypeHandler
	ContextFieldHandler *handlers.ContextFieldHandler
	AddonHandler        *handlers.AddonHandler
	MetricsHandler      *handlers.MetricsHandler
	StateHandler        *handlers.StateHandler
	ApplicationHandler  *handlers.ApplicationHandler
	ClientHandler       *handlers.ClientHandler
	AuthMiddleware      *middleware.AuthMiddleware

	ServiceName  string
	AuthEnabled  bool
	ClientTokens []string
	CORSOrigins  []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/api/admin/login", cfg.AuthHandler.Login)

	// ===============
	// || Admin     ||
	// ===============
	admin := router.Group("/api/admin")
	if cfg.AuthEnabled {
		admin.Use(cfg.AuthMiddleware.RequireAdmin())
	}

	features := admin.Group("/features")
	{
		features.GET("", cfg.FeatureHandler.GetFeatures)
		features.POST("", cfg.FeatureHandler.CreateFeature)
		features.POST("/validate", cfg.FeatureHandler.ValidateName)
		features.GET("/:name", cfg.FeatureHandler.GetFeature)
		features.PUT("/:name", cfg.FeatureHandler.UpdateFeature)
		features.DELETE("/:name", cfg.FeatureHandler.ArchiveFeature)
		features.POST("/:name/toggle", cfg.FeatureHandler.ToggleFeature)
		features.POST("/:name/toggle/on", cfg.FeatureHandler.EnableFeature)
		features.POST("/:name/toggle/off", cfg.FeatureHandler.DisableFeature)
		features.POST("/:name/stale/on", cfg.FeatureHandler.StaleOn)
		features.POST("/:name/stale/off", cfg.FeatureHandler.StaleOff)
		features.GET("/:name/tags", cfg.TagHandler.GetTagsForFeature)
		features.POST("/:name/tags", cfg.TagHandler.TagFeature)
		features.DELETE("/:name/tags/:type/:value", cfg.TagHandler.UntagFeature)
	}

	archive := admin.Group("/archive")
	{
		archive.GET("/features", cfg.FeatureHandler.GetArchivedFeatures)
		archive.POST("/revive/:name", cfg.FeatureHandler.ReviveFeature)
	}

	strategies := admin.Group("/strategies")
	{
		strategies.GET("", cfg.StrategyHandler.GetStrategies)
		strategies.POST("", cfg.StrategyHandler.CreateStrategy)
		strategies.GET("/:name", cfg.StrategyHandler.GetStrategy)
		strategies.PUT("/:name", cfg.StrategyHandler.UpdateStrategy)
		strategies.DELETE("/:name", cfg.StrategyHandler.DeleteStrategy)
		strategies.POST("/:name/deprecate", cfg.StrategyHandler.DeprecateStrategy)
		strategies.POST("/:name/reactivate", cfg.StrategyHandler.ReactivateStrategy)
	}

	tags := admin.Group("/tags")
	{
		tags.GET("", cfg.TagHandler.GetTags)
		tags.POST("", cfg.TagHandler.CreateTag)
		tags.GET("/:type/:value", cfg.TagHandler.GetTag)
		tags.DELETE("/:type/:value", cfg.TagHandler.DeleteTag)
	}

	tagTypes := admin.Group("/tag-types")
	{
		tagTypes.GET("", cfg.TagTypeHandler.GetTagTypes)
		tagTypes.POST("", cfg.TagTypeHandler.CreateTagType)
		tagTypes.POST("/validate", cfg.TagTypeHandler.ValidateName)
		tagTypes.GET("/:name", cfg.TagTypeHandler.GetTagType)
		tagTypes.PUT("/:name", cfg.TagTypeHandler.UpdateTagType)
		tagTypes.DELETE("/:name", cfg.TagTypeHandler.DeleteTagType)
	}

	contextFields := admin.Group("/context")
	{
		contextFields.GET("", cfg.ContextFieldHandler.GetContextFields)
		contextFields.POST("", cfg.ContextFieldHandler.CreateContextField)
		contextFields.GET("/:name", cfg.ContextFieldHandler.GetContextField)
		contextFields.PUT("/:name", cfg.ContextFieldHandler.UpdateContextField)
		contextFields.DELETE("/:name", cfg.ContextFieldHandler.DeleteContextField)
	}

	addons := admin.Group("/addons")
	{
		addons.GET("", cfg.AddonHandler.GetAddons)
		addons.POST("", cfg.AddonHandler.CreateAddon)
		addons.GET("/:id", cfg.AddonHandler.GetAddon)
		addons.PUT("/:id", cfg.AddonHandler.UpdateAddon)
		addons.DELETE("/:id", cfg.AddonHandler.DeleteAddon)
	}

	events := admin.Group("/events")
	{
		events.GET("", cfg.EventHandler.GetEvents)
		events.GET("/:name", cfg.EventHandler.GetEventsByName)
	}

	adminMetrics := admin.Group("/metrics")
	{
		adminMetrics.GET("/feature-toggles", cfg.MetricsHandler.GetToggleMetrics)
		adminMetrics.GET("/seen-toggles", cfg.MetricsHandler.GetSeenToggles)
		adminMetrics.GET("/seen-apps", cfg.MetricsHandler.GetSeenApps)
		adminMetrics.GET("/applications", cfg.ApplicationHandler.GetApplications)
	}

	applications := admin.Group("/applications")
	{
		applications.GET("", cfg.ApplicationHandler.GetApplications)
		applications.GET("/:appName", cfg.ApplicationHandler.GetApplication)
		applications.DELETE("/:appName", cfg.ApplicationHandler.DeleteApplication)
	}

	state := admin.Group("/state")
	{
		state.GET("/export", cfg.StateHandler.Export)
		state.POST("/import", cfg.StateHandler.Import)
	}

	// ===============
	// || Client    ||
	// ===============
	client := router.Group("/api/client")
	client.Use(cfg.AuthMiddleware.RequireClientToken(cfg.ClientTokens))
	{
		client.GET("/features", cfg.ClientHandler.GetFeatures)
		client.GET("/features/:name", cfg.ClientHandler.GetFeature)
		client.POST("/metrics", cfg.ClientHandler.PostMetrics)
		client.POST("/register", cfg.ClientHandler.Register)
	}

	return router
}
