package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/flagbridge-backend/internal/middleware"
	"github.com/yungbote/flagbridge-backend/internal/services"
)

type FeatureHandler struct {
	featureService services.FeatureToggleService
}

func NewFeatureHandler(featureService services.FeatureToggleService) *FeatureHandler {
	return &FeatureHandler{featureService: featureService}
}

func (h *FeatureHandler) GetFeatures(c *gin.Context) {
	features, err := h.featureService.GetFeatures(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"version": 1, "features": features})
}

func (h *FeatureHandler) GetFeature(c *gin.Context) {
	feature, err := h.featureService.GetFeature(c.Request.Context(), c.Param("name"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, feature)
}

func (h *FeatureHandler) CreateFeature(c *gin.Context) {
	var input services.FeatureToggleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if err := h.featureService.CreateFeature(c.Request.Context(), input, middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"name": input.Name})
}

func (h *FeatureHandler) UpdateFeature(c *gin.Context) {
	var input services.FeatureToggleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if err := h.featureService.UpdateFeature(c.Request.Context(), c.Param("name"), input, middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"name": c.Param("name")})
}

func (h *FeatureHandler) ToggleFeature(c *gin.Context) {
	feature, err := h.featureService.ToggleFeature(c.Request.Context(), c.Param("name"), middleware.UserFrom(c))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, feature)
}

func (h *FeatureHandler) EnableFeature(c *gin.Context) {
	h.setEnabled(c, true)
}

func (h *FeatureHandler) DisableFeature(c *gin.Context) {
	h.setEnabled(c, false)
}

func (h *FeatureHandler) setEnabled(c *gin.Context, enabled bool) {
	if err := h.featureService.SetEnabled(c.Request.Context(), c.Param("name"), enabled, middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"name": c.Param("name"), "enabled": enabled})
}

func (h *FeatureHandler) StaleOn(c *gin.Context) {
	h.setStale(c, true)
}

func (h *FeatureHandler) StaleOff(c *gin.Context) {
	h.setStale(c, false)
}

func (h *FeatureHandler) setStale(c *gin.Context, stale bool) {
	if err := h.featureService.SetStale(c.Request.Context(), c.Param("name"), stale, middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"name": c.Param("name"), "stale": stale})
}

func (h *FeatureHandler) ArchiveFeature(c *gin.Context) {
	if err := h.featureService.ArchiveFeature(c.Request.Context(), c.Param("name"), middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *FeatureHandler) GetArchivedFeatures(c *gin.Context) {
	features, err := h.featureService.GetArchivedFeatures(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"version": 1, "features": features})
}

func (h *FeatureHandler) ReviveFeature(c *gin.Context) {
	if err := h.featureService.ReviveFeature(c.Request.Context(), c.Param("name"), middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *FeatureHandler) ValidateName(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if err := h.featureService.ValidateName(c.Request.Context(), req.Name); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"name": req.Name, "valid": true})
}
