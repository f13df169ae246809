package projectors

import (
	"context"
	"encoding/json"

	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type ContextFieldProjector struct {
	log  *logger.Logger
	repo repos.ContextFieldRepo
}

func NewContextFieldProjector(baseLog *logger.Logger, repo repos.ContextFieldRepo, bus *events.Bus) *ContextFieldProjector {
	p := &ContextFieldProjector{
		log:  baseLog.With("projector", "ContextFieldProjector"),
		repo: repo,
	}
	for _, kind := range []events.Kind{
		events.ContextFieldCreated,
		events.ContextFieldUpdated,
		events.ContextFieldDeleted,
	} {
		bus.Subscribe(kind, p.apply)
	}
	return p
}

func (p *ContextFieldProjector) apply(event types.Event) {
	ctx := context.Background()
	var err error

	switch events.Kind(event.Type) {
	case events.ContextFieldCreated, events.ContextFieldUpdated:
		var field types.ContextField
		if err = json.Unmarshal(event.Data, &field); err == nil {
			err = p.repo.Upsert(ctx, nil, &field)
		}
	case events.ContextFieldDeleted:
		var partial struct {
			Name string `json:"name"`
		}
		if err = json.Unmarshal(event.Data, &partial); err == nil {
			err = p.repo.Delete(ctx, nil, partial.Name)
		}
	}

	if err != nil {
		p.log.Error("Failed to project context field event", "type", event.Type, "error", err)
	}
}
