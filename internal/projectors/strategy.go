package projectors

import (
	"context"
	"encoding/json"

	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

type StrategyProjector struct {
	log  *logger.Logger
	repo repos.StrategyRepo
}

func NewStrategyProjector(baseLog *logger.Logger, repo repos.StrategyRepo, bus *events.Bus) *StrategyProjector {
	p := &StrategyProjector{
		log:  baseLog.With("projector", "StrategyProjector"),
		repo: repo,
	}
	for _, kind := range []events.Kind{
		events.StrategyCreated,
		events.StrategyUpdated,
		events.StrategyImport,
		events.StrategyDeleted,
		events.StrategyDeprecated,
		events.StrategyReactivated,
		events.DropStrategies,
	} {
		bus.Subscribe(kind, p.apply)
	}
	return p
}

func (p *StrategyProjector) apply(event types.Event) {
	ctx := context.Background()
	var err error

	switch events.Kind(event.Type) {
	case events.StrategyCreated, events.StrategyUpdated, events.StrategyImport:
		var strategy types.Strategy
		if err = json.Unmarshal(event.Data, &strategy); err == nil {
			// These kinds only ever carry user-defined strategies;
			// built-ins are seeded, never imported or created.
			strategy.Editable = true
			err = p.repo.Upsert(ctx, nil, &strategy)
		}
	case events.StrategyDeleted:
		var partial struct {
			Name string `json:"name"`
		}
		if err = json.Unmarshal(event.Data, &partial); err == nil {
			err = p.repo.Delete(ctx, nil, partial.Name)
		}
	case events.StrategyDeprecated:
		err = p.setDeprecated(ctx, event, true)
	case events.StrategyReactivated:
		err = p.setDeprecated(ctx, event, false)
	case events.DropStrategies:
		err = p.repo.DropAll(ctx, nil)
	}

	if err != nil {
		p.log.Error("Failed to project strategy event", "type", event.Type, "error", err)
	}
}

func (p *StrategyProjector) setDeprecated(ctx context.Context, event types.Event, deprecated bool) error {
	var partial struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(event.Data, &partial); err != nil {
		return err
	}
	return p.repo.UpdateFields(ctx, nil, partial.Name, map[string]interface{}{"deprecated": deprecated})
}
