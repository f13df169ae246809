package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/flagbridge-backend/internal/middleware"
	"github.com/yungbote/flagbridge-backend/internal/services"
)

type AddonHandler struct {
	addonService services.AddonService
}

func NewAddonHandler(addonService services.AddonService) *AddonHandler {
	return &AddonHandler{addonService: addonService}
}

func (h *AddonHandler) GetAddons(c *gin.Context) {
	addons, err := h.addonService.GetAddons(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"version": 1, "addons": addons})
}

func (h *AddonHandler) GetAddon(c *gin.Context) {
	id, ok := addonID(c)
	if !ok {
		return
	}
	addon, err := h.addonService.GetAddon(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, addon)
}

func (h *AddonHandler) CreateAddon(c *gin.Context) {
	var input services.AddonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	id, err := h.addonService.CreateAddon(c.Request.Context(), input, middleware.UserFrom(c))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"id": id})
}

func (h *AddonHandler) UpdateAddon(c *gin.Context) {
	id, ok := addonID(c)
	if !ok {
		return
	}
	var input services.AddonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if err := h.addonService.UpdateAddon(c.Request.Context(), id, input, middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": id})
}

func (h *AddonHandler) DeleteAddon(c *gin.Context) {
	id, ok := addonID(c)
	if !ok {
		return
	}
	if err := h.addonService.DeleteAddon(c.Request.Context(), id, middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func addonID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", errors.New("invalid addon id"))
		return uuid.Nil, false
	}
	return id, true
}
