package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/flagbridge-backend/internal/clients/redis"
	"github.com/yungbote/flagbridge-backend/internal/metrics"
	"github.com/yungbote/flagbridge-backend/internal/services"
)

// ClientHandler serves the SDK-facing API: the feature payload, metrics
// ingestion and application registration.
type ClientHandler struct {
	featureService       services.FeatureToggleService
	clientMetricsService services.ClientMetricsService
	clientAppService     services.ClientAppService
	featureCache         *redis.FeatureCache
}

func NewClientHandler(
	featureService services.FeatureToggleService,
	clientMetricsService services.ClientMetricsService,
	clientAppService services.ClientAppService,
	featureCache *redis.FeatureCache,
) *ClientHandler {
	return &ClientHandler{
		featureService:       featureService,
		clientMetricsService: clientMetricsService,
		clientAppService:     clientAppService,
		featureCache:         featureCache,
	}
}

func (h *ClientHandler) GetFeatures(c *gin.Context) {
	ctx := c.Request.Context()
	if cached, ok := h.featureCache.Get(ctx); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	features, err := h.featureService.GetFeatures(ctx)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	payload, err := json.Marshal(gin.H{"version": 1, "features": features})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	h.featureCache.Set(ctx, payload)
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

func (h *ClientHandler) GetFeature(c *gin.Context) {
	feature, err := h.featureService.GetFeature(c.Request.Context(), c.Param("name"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, feature)
}

func (h *ClientHandler) PostMetrics(c *gin.Context) {
	var payload metrics.ClientMetricsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if err := h.clientMetricsService.RegisterMetrics(c.Request.Context(), payload, c.ClientIP()); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *ClientHandler) Register(c *gin.Context) {
	var registration services.ClientRegistration
	if err := c.ShouldBindJSON(&registration); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if err := h.clientAppService.RegisterClient(c.Request.Context(), registration, c.ClientIP()); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
