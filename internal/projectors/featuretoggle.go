// Package projectors contains the read-model side of the event log.
// Each projector subscribes to the event kinds that affect its table and
// applies them as idempotent upserts. A failed apply leaves the read
// model stale, which is observable and recoverable, so projectors log
// and continue instead of failing the original mutation.
package projectors

import (
	"context"
	"encoding/json"

	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type FeatureToggleProjector struct {
	log  *logger.Logger
	repo repos.FeatureToggleRepo
}

func NewFeatureToggleProjector(baseLog *logger.Logger, repo repos.FeatureToggleRepo, bus *events.Bus) *FeatureToggleProjector {
	p := &FeatureToggleProjector{
		log:  baseLog.With("projector", "FeatureToggleProjector"),
		repo: repo,
	}
	for _, kind := range []events.Kind{
		events.FeatureCreated,
		events.FeatureUpdated,
		events.FeatureImport,
		events.FeatureEnabled,
		events.FeatureDisabled,
		events.FeatureArchived,
		events.FeatureRevived,
		events.FeatureStaleOn,
		events.FeatureStaleOff,
		events.DropFeatures,
	} {
		bus.Subscribe(kind, p.apply)
	}
	return p
}

func (p *FeatureToggleProjector) apply(event types.Event) {
	ctx := context.Background()
	var err error

	switch events.Kind(event.Type) {
	case events.FeatureCreated, events.FeatureUpdated, events.FeatureImport:
		var toggle types.FeatureToggle
		if err = json.Unmarshal(event.Data, &toggle); err == nil {
			toggle.Archived = false
			err = p.repo.Upsert(ctx, nil, &toggle)
		}
	case events.FeatureEnabled:
		err = p.updateNamed(ctx, event, map[string]interface{}{"enabled": true})
	case events.FeatureDisabled:
		err = p.updateNamed(ctx, event, map[string]interface{}{"enabled": false})
	case events.FeatureArchived:
		err = p.updateNamed(ctx, event, map[string]interface{}{"archived": true, "enabled": false})
	case events.FeatureRevived:
		err = p.updateNamed(ctx, event, map[string]interface{}{"archived": false})
	case events.FeatureStaleOn:
		err = p.updateNamed(ctx, event, map[string]interface{}{"stale": true})
	case events.FeatureStaleOff:
		err = p.updateNamed(ctx, event, map[string]interface{}{"stale": false})
	case events.DropFeatures:
		err = p.repo.DropAll(ctx, nil)
	}

	if err != nil {
		p.log.Error("Failed to project feature event", "type", event.Type, "error", err)
	}
}

func (p *FeatureToggleProjector) updateNamed(ctx context.Context, event types.Event, fields map[string]interface{}) error {
	var partial struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(event.Data, &partial); err != nil {
		return err
	}
	return p.repo.UpdateFields(ctx, nil, partial.Name, fields)
}
