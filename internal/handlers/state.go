package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/flagbridge-backend/internal/middleware"
	"github.com/yungbote/flagbridge-backend/internal/services"
)

type StateHandler struct {
	stateService services.StateService
}

func NewStateHandler(stateService services.StateService) *StateHandler {
	return &StateHandler{stateService: stateService}
}

// Export serves the portable snapshot. Category query params default to
// everything included.
func (h *StateHandler) Export(c *gin.Context) {
	opts := services.ExportOptions{
		IncludeFeatureToggles: queryFlag(c, "featureToggles", true),
		IncludeStrategies:     queryFlag(c, "strategies", true),
		IncludeTags:           queryFlag(c, "tags", true),
	}
	export, err := h.stateService.Export(c.Request.Context(), opts)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, export)
}

func (h *StateHandler) Import(c *gin.Context) {
	var data services.StateExport
	if err := c.ShouldBindJSON(&data); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	opts := services.ImportOptions{
		UserName:         middleware.UserFrom(c),
		DropBeforeImport: queryFlag(c, "drop", false),
		KeepExisting:     queryFlag(c, "keep", false),
	}
	if err := h.stateService.Import(c.Request.Context(), data, opts); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func queryFlag(c *gin.Context, name string, fallback bool) bool {
	raw, ok := c.GetQuery(name)
	if !ok {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}
