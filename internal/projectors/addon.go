package projectors

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type AddonProjector struct {
	log  *logger.Logger
	repo repos.AddonRepo
}

func NewAddonProjector(baseLog *logger.Logger, repo repos.AddonRepo, bus *events.Bus) *AddonProjector {
	p := &AddonProjector{
		log:  baseLog.With("projector", "AddonProjector"),
		repo: repo,
	}
	for _, kind := range []events.Kind{
		events.AddonConfigCreated,
		events.AddonConfigUpdated,
		events.AddonConfigDeleted,
	} {
		bus.Subscribe(kind, p.apply)
	}
	return p
}

func (p *AddonProjector) apply(event types.Event) {
	ctx := context.Background()
	var err error

	switch events.Kind(event.Type) {
	case events.AddonConfigCreated, events.AddonConfigUpdated:
		var addon types.Addon
		if err = json.Unmarshal(event.Data, &addon); err == nil {
			err = p.repo.Upsert(ctx, nil, &addon)
		}
	case events.AddonConfigDeleted:
		var partial struct {
			ID uuid.UUID `json:"id"`
		}
		if err = json.Unmarshal(event.Data, &partial); err == nil {
			err = p.repo.Delete(ctx, nil, partial.ID)
		}
	}

	if err != nil {
		p.log.Error("Failed to project addon event", "type", event.Type, "error", err)
	}
}
