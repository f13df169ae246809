package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/flagbridge-backend/internal/differ"
	"github.com/yungbote/flagbridge-backend/internal/services"
)

type EventHandler struct {
	eventLog services.EventLogService
}

func NewEventHandler(eventLog services.EventLogService) *EventHandler {
	return &EventHandler{eventLog: eventLog}
}

func (h *EventHandler) GetEvents(c *gin.Context) {
	events, err := h.eventLog.GetEvents(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"version": 1, "events": events})
}

// GetEventsByName serves the per-entity audit trail, each event
// annotated with a diff against its predecessor.
func (h *EventHandler) GetEventsByName(c *gin.Context) {
	events, err := h.eventLog.GetEventsFilterByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"toggleName": c.Param("name"), "events": differ.Annotate(events)})
}
