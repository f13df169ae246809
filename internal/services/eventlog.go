package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

// Events served per query. The admin UI pages through history; the log
// itself is unbounded.
const maxEventsReturned = 100

type EventLogService interface {
	// Store appends one event and, after the durable write, notifies the
	// bus. A failed write propagates to the caller: the event did not
	// happen. Subscriber failures never do.
	Store(ctx context.Context, event *types.Event) error
	GetEvents(ctx context.Context) ([]types.Event, error)
	// GetEventsFilterByName returns events whose payload name matches,
	// scoped to after the most recent drop-features marker.
	GetEventsFilterByName(ctx context.Context, name string) ([]types.Event, error)
}

type eventLogService struct {
	db        *gorm.DB
	log       *logger.Logger
	eventRepo repos.EventRepo
	bus       *events.Bus
}

func NewEventLogService(db *gorm.DB, baseLog *logger.Logger, eventRepo repos.EventRepo, bus *events.Bus) EventLogService {
	return &eventLogService{
		db:        db,
		log:       baseLog.With("service", "EventLogService"),
		eventRepo: eventRepo,
		bus:       bus,
	}
}

func (s *eventLogService) Store(ctx context.Context, event *types.Event) error {
	if event == nil || event.Type == "" {
		// A typeless event is a bug in the caller, not bad user input.
		return fmt.Errorf("event log: refusing to store event without a type")
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if err := s.eventRepo.Create(ctx, nil, event); err != nil {
		s.log.Error("Failed to append event", "type", event.Type, "error", err)
		return fmt.Errorf("append event: %w", err)
	}
	// Notify only after the row is durable, so projectors never see an
	// event that could still fail to persist.
	s.bus.Publish(*event)
	return nil
}

func (s *eventLogService) GetEvents(ctx context.Context) ([]types.Event, error) {
	return s.eventRepo.GetLatest(ctx, nil, maxEventsReturned)
}

func (s *eventLogService) GetEventsFilterByName(ctx context.Context, name string) ([]types.Event, error) {
	dropID, err := s.eventRepo.MaxIDByType(ctx, nil, events.DropFeatures.String())
	if err != nil {
		return nil, fmt.Errorf("locate drop marker: %w", err)
	}
	return s.eventRepo.GetByDataName(ctx, nil, name, dropID, maxEventsReturned)
}
