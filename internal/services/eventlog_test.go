package services

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One in-memory database per test: keep the pool on a single
	// connection so every session sees the same schema.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(
		&types.Event{},
		&types.FeatureToggle{},
		&types.Strategy{},
		&types.Tag{},
		&types.TagType{},
		&types.FeatureTag{},
		&types.ContextField{},
		&types.Addon{},
		&types.ClientApplication{},
		&types.ClientInstance{},
		&types.ClientMetric{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newEventLog(t *testing.T) (EventLogService, *events.Bus, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()
	bus := events.NewBus(log)
	return NewEventLogService(db, log, repos.NewEventRepo(db, log), bus), bus, db
}

func TestStoreNotifiesAfterDurableWrite(t *testing.T) {
	eventLog, bus, _ := newEventLog(t)

	var received []types.Event
	bus.Subscribe(events.FeatureCreated, func(e types.Event) {
		received = append(received, e)
	})

	err := eventLog.Store(context.Background(), &types.Event{
		Type:      events.FeatureCreated.String(),
		CreatedBy: "tester",
		Data:      []byte(`{"name":"demo"}`),
	})
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	if len(received) != 1 {
		t.Fatalf("handlers invoked %d times, want 1", len(received))
	}
	// The subscriber sees the persisted row, id already assigned.
	if received[0].ID == 0 {
		t.Fatalf("subscriber saw event before it had an id")
	}

	stored, err := eventLog.GetEvents(context.Background())
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	if len(stored) != 1 || stored[0].Type != events.FeatureCreated.String() {
		t.Fatalf("stored events = %+v, want one feature-created", stored)
	}
	// CreatedAt is filled in by the store path, not a column default.
	if stored[0].CreatedAt.IsZero() {
		t.Fatalf("stored event has a zero CreatedAt")
	}
}

func TestStoreRejectsMissingType(t *testing.T) {
	eventLog, _, _ := newEventLog(t)

	if err := eventLog.Store(context.Background(), &types.Event{Data: []byte(`{}`)}); err == nil {
		t.Fatalf("store accepted an event without a type")
	}
	if err := eventLog.Store(context.Background(), nil); err == nil {
		t.Fatalf("store accepted a nil event")
	}
}

func TestStoreIsolatesPanickingSubscriber(t *testing.T) {
	eventLog, bus, _ := newEventLog(t)

	bus.Subscribe(events.FeatureCreated, func(types.Event) { panic("projector bug") })
	var survived bool
	bus.Subscribe(events.FeatureCreated, func(types.Event) { survived = true })

	err := eventLog.Store(context.Background(), &types.Event{
		Type: events.FeatureCreated.String(),
		Data: []byte(`{"name":"demo"}`),
	})
	if err != nil {
		t.Fatalf("store failed because a subscriber panicked: %v", err)
	}
	if !survived {
		t.Fatalf("later subscriber never ran after an earlier panic")
	}
}

func TestGetEventsNewestFirstAndBounded(t *testing.T) {
	eventLog, _, _ := newEventLog(t)
	ctx := context.Background()

	for i := 0; i < maxEventsReturned+10; i++ {
		err := eventLog.Store(ctx, &types.Event{
			Type: events.FeatureUpdated.String(),
			Data: []byte(`{"name":"demo"}`),
		})
		if err != nil {
			t.Fatalf("store %d: %v", i, err)
		}
	}

	got, err := eventLog.GetEvents(ctx)
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	if len(got) != maxEventsReturned {
		t.Fatalf("got %d events, want %d", len(got), maxEventsReturned)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].ID < got[i].ID {
			t.Fatalf("events not newest first at index %d: %d then %d", i, got[i-1].ID, got[i].ID)
		}
	}
}

func TestGetEventsFilterByNameHonorsDropMarker(t *testing.T) {
	eventLog, _, _ := newEventLog(t)
	ctx := context.Background()

	mustStore := func(kind events.Kind, data string) {
		t.Helper()
		if err := eventLog.Store(ctx, &types.Event{Type: kind.String(), Data: []byte(data)}); err != nil {
			t.Fatalf("store %s: %v", kind, err)
		}
	}

	mustStore(events.FeatureCreated, `{"name":"toggleA"}`)
	mustStore(events.DropFeatures, `{}`)
	mustStore(events.FeatureCreated, `{"name":"toggleA"}`)
	mustStore(events.FeatureCreated, `{"name":"toggleB"}`)

	got, err := eventLog.GetEventsFilterByName(ctx, "toggleA")
	if err != nil {
		t.Fatalf("filter by name: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d events for toggleA, want only the one after the drop marker", len(got))
	}
	if got[0].Type != events.FeatureCreated.String() {
		t.Fatalf("event type = %s, want feature-created", got[0].Type)
	}
}
