package projectors

import (
	"context"
	"encoding/json"

	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type FeatureTagProjector struct {
	log  *logger.Logger
	repo repos.FeatureTagRepo
}

func NewFeatureTagProjector(baseLog *logger.Logger, repo repos.FeatureTagRepo, bus *events.Bus) *FeatureTagProjector {
	p := &FeatureTagProjector{
		log:  baseLog.With("projector", "FeatureTagProjector"),
		repo: repo,
	}
	for _, kind := range []events.Kind{
		events.FeatureTagged,
		events.FeatureTagImport,
		events.FeatureUntagged,
		events.DropFeatureTags,
	} {
		bus.Subscribe(kind, p.apply)
	}
	return p
}

func (p *FeatureTagProjector) apply(event types.Event) {
	ctx := context.Background()
	var err error

	switch events.Kind(event.Type) {
	case events.FeatureTagged, events.FeatureTagImport:
		var featureTag types.FeatureTag
		if err = json.Unmarshal(event.Data, &featureTag); err == nil {
			err = p.repo.Upsert(ctx, nil, &featureTag)
		}
	case events.FeatureUntagged:
		var featureTag types.FeatureTag
		if err = json.Unmarshal(event.Data, &featureTag); err == nil {
			err = p.repo.Delete(ctx, nil, featureTag.FeatureName, featureTag.TagType, featureTag.TagValue)
		}
	case events.DropFeatureTags:
		err = p.repo.DropAll(ctx, nil)
	}

	if err != nil {
		p.log.Error("Failed to project feature tag event", "type", event.Type, "error", err)
	}
}
