package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/flagbridge-backend/internal/middleware"
	"github.com/yungbote/flagbridge-backend/internal/services"
)

type TagHandler struct {
	tagService services.TagService
}

func NewTagHandler(tagService services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

func (h *TagHandler) GetTags(c *gin.Context) {
	tags, err := h.tagService.GetTags(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"version": 1, "tags": tags})
}

func (h *TagHandler) GetTag(c *gin.Context) {
	tag, err := h.tagService.GetTag(c.Request.Context(), c.Param("type"), c.Param("value"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, tag)
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var input services.TagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if err := h.tagService.CreateTag(c.Request.Context(), input, middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, input)
}

func (h *TagHandler) DeleteTag(c *gin.Context) {
	if err := h.tagService.DeleteTag(c.Request.Context(), c.Param("type"), c.Param("value"), middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *TagHandler) TagFeature(c *gin.Context) {
	var input services.TagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if err := h.tagService.TagFeature(c.Request.Context(), c.Param("name"), input, middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, input)
}

func (h *TagHandler) UntagFeature(c *gin.Context) {
	err := h.tagService.UntagFeature(
		c.Request.Context(),
		c.Param("name"),
		c.Param("type"),
		c.Param("value"),
		middleware.UserFrom(c),
	)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *TagHandler) GetTagsForFeature(c *gin.Context) {
	tags, err := h.tagService.GetTagsForFeature(c.Request.Context(), c.Param("name"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"version": 1, "tags": tags})
}
