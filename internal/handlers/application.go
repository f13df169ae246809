package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/flagbridge-backend/internal/metrics"
	"github.com/yungbote/flagbridge-backend/internal/middleware"
	"github.com/yungbote/flagbridge-backend/internal/services"
)

// ApplicationHandler serves the admin view of registered SDK
// applications, enriched with what the aggregator has seen from them.
type ApplicationHandler struct {
	clientAppService services.ClientAppService
	aggregator       *metrics.Aggregator
}

func NewApplicationHandler(clientAppService services.ClientAppService, aggregator *metrics.Aggregator) *ApplicationHandler {
	return &ApplicationHandler{clientAppService: clientAppService, aggregator: aggregator}
}

func (h *ApplicationHandler) GetApplications(c *gin.Context) {
	applications, err := h.clientAppService.GetApplications(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"applications": applications})
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	appName := c.Param("appName")
	application, err := h.clientAppService.GetApplication(c.Request.Context(), appName)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"application": application,
		"seenToggles": h.aggregator.GetSeenTogglesByAppName(appName),
	})
}

func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	if err := h.clientAppService.DeleteApplication(c.Request.Context(), c.Param("appName"), middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
