package projectors

import (
	"context"
	"encoding/json"

	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type TagTypeProjector struct {
	log  *logger.Logger
	repo repos.TagTypeRepo
}

func NewTagTypeProjector(baseLog *logger.Logger, repo repos.TagTypeRepo, bus *events.Bus) *TagTypeProjector {
	p := &TagTypeProjector{
		log:  baseLog.With("projector", "TagTypeProjector"),
		repo: repo,
	}
	for _, kind := range []events.Kind{
		events.TagTypeCreated,
		events.TagTypeUpdated,
		events.TagTypeImport,
		events.TagTypeDeleted,
		events.DropTagTypes,
	} {
		bus.Subscribe(kind, p.apply)
	}
	return p
}

func (p *TagTypeProjector) apply(event types.Event) {
	ctx := context.Background()
	var err error

	switch events.Kind(event.Type) {
	case events.TagTypeCreated, events.TagTypeUpdated, events.TagTypeImport:
		var tagType types.TagType
		if err = json.Unmarshal(event.Data, &tagType); err == nil {
			err = p.repo.Upsert(ctx, nil, &tagType)
		}
	case events.TagTypeDeleted:
		var partial struct {
			Name string `json:"name"`
		}
		if err = json.Unmarshal(event.Data, &partial); err == nil {
			err = p.repo.Delete(ctx, nil, partial.Name)
		}
	case events.DropTagTypes:
		err = p.repo.DropAll(ctx, nil)
	}

	if err != nil {
		p.log.Error("Failed to project tag type event", "type", event.Type, "error", err)
	}
}
