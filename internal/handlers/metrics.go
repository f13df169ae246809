package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/flagbridge-backend/internal/metrics"
)

type MetricsHandler struct {
	aggregator *metrics.Aggregator
}

func NewMetricsHandler(aggregator *metrics.Aggregator) *MetricsHandler {
	return &MetricsHandler{aggregator: aggregator}
}

func (h *MetricsHandler) GetToggleMetrics(c *gin.Context) {
	RespondOK(c, gin.H{
		"globalCount": h.aggregator.GlobalCount(),
		"toggles":     h.aggregator.GetTogglesMetrics(),
	})
}

func (h *MetricsHandler) GetSeenToggles(c *gin.Context) {
	RespondOK(c, h.aggregator.GetAppsWithToggles())
}

func (h *MetricsHandler) GetSeenApps(c *gin.Context) {
	RespondOK(c, h.aggregator.GetSeenAppsPerToggle())
}
