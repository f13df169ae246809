package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/flagbridge-backend/internal/middleware"
	"github.com/yungbote/flagbridge-backend/internal/services"
)

type ContextFieldHandler struct {
	contextFieldService services.ContextFieldService
}

func NewContextFieldHandler(contextFieldService services.ContextFieldService) *ContextFieldHandler {
	return &ContextFieldHandler{contextFieldService: contextFieldService}
}

func (h *ContextFieldHandler) GetContextFields(c *gin.Context) {
	fields, err := h.contextFieldService.GetContextFields(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"version": 1, "contextFields": fields})
}

func (h *ContextFieldHandler) GetContextField(c *gin.Context) {
	field, err := h.contextFieldService.GetContextField(c.Request.Context(), c.Param("name"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, field)
}

func (h *ContextFieldHandler) CreateContextField(c *gin.Context) {
	var input services.ContextFieldInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if err := h.contextFieldService.CreateContextField(c.Request.Context(), input, middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"name": input.Name})
}

func (h *ContextFieldHandler) UpdateContextField(c *gin.Context) {
	var input services.ContextFieldInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if err := h.contextFieldService.UpdateContextField(c.Request.Context(), c.Param("name"), input, middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"name": c.Param("name")})
}

func (h *ContextFieldHandler) DeleteContextField(c *gin.Context) {
	if err := h.contextFieldService.DeleteContextField(c.Request.Context(), c.Param("name"), middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
