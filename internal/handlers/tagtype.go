package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/flagbridge-backend/internal/middleware"
	"github.com/yungbote/flagbridge-backend/internal/services"
)

type TagTypeHandler struct {
	tagTypeService services.TagTypeService
}

func NewTagTypeHandler(tagTypeService services.TagTypeService) *TagTypeHandler {
	return &TagTypeHandler{tagTypeService: tagTypeService}
}

func (h *TagTypeHandler) GetTagTypes(c *gin.Context) {
	tagTypes, err := h.tagTypeService.GetTagTypes(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"version": 1, "tagTypes": tagTypes})
}

func (h *TagTypeHandler) GetTagType(c *gin.Context) {
	tagType, err := h.tagTypeService.GetTagType(c.Request.Context(), c.Param("name"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, tagType)
}

func (h *TagTypeHandler) CreateTagType(c *gin.Context) {
	var input services.TagTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if err := h.tagTypeService.CreateTagType(c.Request.Context(), input, middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"name": input.Name})
}

func (h *TagTypeHandler) UpdateTagType(c *gin.Context) {
	var input services.TagTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if err := h.tagTypeService.UpdateTagType(c.Request.Context(), c.Param("name"), input, middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"name": c.Param("name")})
}

func (h *TagTypeHandler) DeleteTagType(c *gin.Context) {
	if err := h.tagTypeService.DeleteTagType(c.Request.Context(), c.Param("name"), middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *TagTypeHandler) ValidateName(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if err := h.tagTypeService.ValidateName(c.Request.Context(), req.Name); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"name": req.Name, "valid": true})
}
