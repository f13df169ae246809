package services

import (
	"context"
	"testing"

	"github.com/yungbote/flagbridge-backend/internal/apierr"
	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/projectors"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

func newStrategyStack(t *testing.T) (StrategyService, repos.StrategyRepo) {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()
	bus := events.NewBus(log)
	strategyRepo := repos.NewStrategyRepo(db, log)
	if err := strategyRepo.SeedBuiltIns(context.Background(), nil); err != nil {
		t.Fatalf("seed built-ins: %v", err)
	}
	projectors.NewStrategyProjector(log, strategyRepo, bus)
	eventLog := NewEventLogService(db, log, repos.NewEventRepo(db, log), bus)
	return NewStrategyService(log, strategyRepo, eventLog), strategyRepo
}

func TestSeededBuiltInsAreNotEditable(t *testing.T) {
	_, repo := newStrategyStack(t)
	ctx := context.Background()

	for _, builtIn := range types.BuiltInStrategies() {
		stored, err := repo.Get(ctx, nil, builtIn.Name)
		if err != nil {
			t.Fatalf("get %s: %v", builtIn.Name, err)
		}
		if stored.Editable {
			t.Fatalf("built-in strategy %q stored with editable=true", builtIn.Name)
		}
	}

	editable, err := repo.GetEditable(ctx, nil)
	if err != nil {
		t.Fatalf("get editable: %v", err)
	}
	if len(editable) != 0 {
		t.Fatalf("editable list contains built-ins: %+v", editable)
	}

	// Drop markers clear user strategies only.
	if err := repo.DropAll(ctx, nil); err != nil {
		t.Fatalf("drop: %v", err)
	}
	remaining, err := repo.GetAll(ctx, nil)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(remaining) != len(types.BuiltInStrategies()) {
		t.Fatalf("%d strategies survived a drop, want the %d built-ins", len(remaining), len(types.BuiltInStrategies()))
	}
}

func TestCreateStrategyProjectsReadModel(t *testing.T) {
	svc, _ := newStrategyStack(t)
	ctx := context.Background()

	input := StrategyInput{
		Name:        "byRegion",
		Description: "Active for the listed regions.",
		Parameters:  []types.StrategyParameter{{Name: "regions", Type: "list", Required: true}},
	}
	if err := svc.CreateStrategy(ctx, input, "tester"); err != nil {
		t.Fatalf("create: %v", err)
	}

	strategy, err := svc.GetStrategy(ctx, "byRegion")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strategy.Editable {
		t.Fatalf("user-created strategy projected as non-editable")
	}
	if strategy.Deprecated {
		t.Fatalf("new strategy projected as deprecated")
	}
}

func TestCreateStrategyRejectsExistingName(t *testing.T) {
	svc, _ := newStrategyStack(t)
	ctx := context.Background()

	// Built-in names are taken too.
	err := svc.CreateStrategy(ctx, StrategyInput{Name: "default"}, "tester")
	if !apierr.IsConflict(err) {
		t.Fatalf("create over built-in name = %v, want conflict", err)
	}
}

func TestBuiltInStrategyIsProtected(t *testing.T) {
	svc, _ := newStrategyStack(t)
	ctx := context.Background()

	if err := svc.UpdateStrategy(ctx, "default", StrategyInput{Name: "default"}, "tester"); apierr.StatusOf(err) != 403 {
		t.Fatalf("update built-in = %v, want forbidden", err)
	}
	if err := svc.DeleteStrategy(ctx, "default", "tester"); apierr.StatusOf(err) != 403 {
		t.Fatalf("delete built-in = %v, want forbidden", err)
	}
	if err := svc.DeprecateStrategy(ctx, "default", "tester"); apierr.StatusOf(err) != 403 {
		t.Fatalf("deprecate default = %v, want forbidden", err)
	}
}

func TestDeprecateAndReactivateStrategy(t *testing.T) {
	svc, _ := newStrategyStack(t)
	ctx := context.Background()

	if err := svc.CreateStrategy(ctx, StrategyInput{Name: "byRegion"}, "tester"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeprecateStrategy(ctx, "byRegion", "tester"); err != nil {
		t.Fatalf("deprecate: %v", err)
	}
	strategy, _ := svc.GetStrategy(ctx, "byRegion")
	if !strategy.Deprecated {
		t.Fatalf("strategy not deprecated in read model")
	}

	// Built-ins other than default may be deprecated.
	if err := svc.DeprecateStrategy(ctx, "userWithId", "tester"); err != nil {
		t.Fatalf("deprecate built-in: %v", err)
	}

	if err := svc.ReactivateStrategy(ctx, "byRegion", "tester"); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	strategy, _ = svc.GetStrategy(ctx, "byRegion")
	if strategy.Deprecated {
		t.Fatalf("strategy still deprecated after reactivate")
	}
}

func TestDeleteStrategyRemovesReadModel(t *testing.T) {
	svc, _ := newStrategyStack(t)
	ctx := context.Background()

	if err := svc.CreateStrategy(ctx, StrategyInput{Name: "byRegion"}, "tester"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteStrategy(ctx, "byRegion", "tester"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetStrategy(ctx, "byRegion"); !apierr.IsNotFound(err) {
		t.Fatalf("get deleted strategy = %v, want not found", err)
	}
}
