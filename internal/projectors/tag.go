package projectors

import (
	"context"
	"encoding/json"

	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type TagProjector struct {
	log  *logger.Logger
	repo repos.TagRepo
}

func NewTagProjector(baseLog *logger.Logger, repo repos.TagRepo, bus *events.Bus) *TagProjector {
	p := &TagProjector{
		log:  baseLog.With("projector", "TagProjector"),
		repo: repo,
	}
	for _, kind := range []events.Kind{
		events.TagCreated,
		events.TagImport,
		events.TagDeleted,
		events.DropTags,
	} {
		bus.Subscribe(kind, p.apply)
	}
	return p
}

func (p *TagProjector) apply(event types.Event) {
	ctx := context.Background()
	var err error

	switch events.Kind(event.Type) {
	case events.TagCreated, events.TagImport:
		var tag types.Tag
		if err = json.Unmarshal(event.Data, &tag); err == nil {
			err = p.repo.Upsert(ctx, nil, &tag)
		}
	case events.TagDeleted:
		var tag types.Tag
		if err = json.Unmarshal(event.Data, &tag); err == nil {
			err = p.repo.Delete(ctx, nil, tag.Type, tag.Value)
		}
	case events.DropTags:
		err = p.repo.DropAll(ctx, nil)
	}

	if err != nil {
		p.log.Error("Failed to project tag event", "type", event.Type, "error", err)
	}
}
