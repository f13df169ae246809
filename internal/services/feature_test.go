package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/yungbote/flagbridge-backend/internal/apierr"
	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/projectors"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

// newFeatureStack wires the real event log, bus and projector against an
// in-memory database, so service tests exercise the full write path.
func newFeatureStack(t *testing.T) (FeatureToggleService, repos.FeatureToggleRepo) {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()
	bus := events.NewBus(log)
	featureRepo := repos.NewFeatureToggleRepo(db, log)
	featureTagRepo := repos.NewFeatureTagRepo(db, log)
	projectors.NewFeatureToggleProjector(log, featureRepo, bus)
	eventLog := NewEventLogService(db, log, repos.NewEventRepo(db, log), bus)
	return NewFeatureToggleService(log, featureRepo, featureTagRepo, eventLog), featureRepo
}

func TestCreateFeatureProjectsReadModel(t *testing.T) {
	svc, _ := newFeatureStack(t)
	ctx := context.Background()

	err := svc.CreateFeature(ctx, FeatureToggleInput{Name: "demo"}, "tester")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	feature, err := svc.GetFeature(ctx, "demo")
	if err != nil {
		t.Fatalf("get after create: %v", err)
	}
	if feature.Enabled || feature.Stale || feature.Archived {
		t.Fatalf("new feature = %+v, want disabled, fresh, unarchived", feature)
	}

	// A toggle without strategies gets the default binding.
	var bindings []types.StrategyBinding
	if err := json.Unmarshal(feature.Strategies, &bindings); err != nil {
		t.Fatalf("decode strategies: %v", err)
	}
	if len(bindings) != 1 || bindings[0].Name != "default" {
		t.Fatalf("strategies = %+v, want the default binding", bindings)
	}
}

func TestCreateFeatureRejectsDuplicateName(t *testing.T) {
	svc, _ := newFeatureStack(t)
	ctx := context.Background()

	if err := svc.CreateFeature(ctx, FeatureToggleInput{Name: "demo"}, "tester"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := svc.CreateFeature(ctx, FeatureToggleInput{Name: "demo"}, "tester")
	if !apierr.IsConflict(err) {
		t.Fatalf("duplicate create error = %v, want conflict", err)
	}

	// Archived names stay reserved too.
	if err := svc.ArchiveFeature(ctx, "demo", "tester"); err != nil {
		t.Fatalf("archive: %v", err)
	}
	err = svc.CreateFeature(ctx, FeatureToggleInput{Name: "demo"}, "tester")
	if !apierr.IsConflict(err) {
		t.Fatalf("create over archived name error = %v, want conflict", err)
	}
}

func TestCreateFeatureValidation(t *testing.T) {
	svc, _ := newFeatureStack(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input FeatureToggleInput
	}{
		{"empty name", FeatureToggleInput{}},
		{"illegal characters", FeatureToggleInput{Name: "not a name!"}},
		{"variant weight over 100", FeatureToggleInput{
			Name:     "demo",
			Variants: []types.Variant{{Name: "blue", Weight: 150}},
		}},
		{"duplicate variant names", FeatureToggleInput{
			Name:     "demo",
			Variants: []types.Variant{{Name: "blue", Weight: 50}, {Name: "blue", Weight: 50}},
		}},
		{"unnamed strategy binding", FeatureToggleInput{
			Name:       "demo",
			Strategies: []types.StrategyBinding{{}},
		}},
	}
	for _, tc := range cases {
		err := svc.CreateFeature(ctx, tc.input, "tester")
		if apierr.StatusOf(err) != 400 {
			t.Fatalf("%s: error = %v, want validation error", tc.name, err)
		}
	}
}

func TestArchiveHidesAndReviveRestores(t *testing.T) {
	svc, _ := newFeatureStack(t)
	ctx := context.Background()

	if err := svc.CreateFeature(ctx, FeatureToggleInput{Name: "demo", Enabled: true}, "tester"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.ArchiveFeature(ctx, "demo", "tester"); err != nil {
		t.Fatalf("archive: %v", err)
	}

	if _, err := svc.GetFeature(ctx, "demo"); !apierr.IsNotFound(err) {
		t.Fatalf("get archived feature error = %v, want not found", err)
	}
	archived, err := svc.GetArchivedFeatures(ctx)
	if err != nil {
		t.Fatalf("get archived: %v", err)
	}
	if len(archived) != 1 || archived[0].Name != "demo" {
		t.Fatalf("archive list = %+v, want demo", archived)
	}
	// Archiving forces the toggle off.
	if archived[0].Enabled {
		t.Fatalf("archived feature still enabled")
	}

	if err := svc.ReviveFeature(ctx, "demo", "tester"); err != nil {
		t.Fatalf("revive: %v", err)
	}
	if _, err := svc.GetFeature(ctx, "demo"); err != nil {
		t.Fatalf("get revived feature: %v", err)
	}
}

func TestToggleFlipsEnabledState(t *testing.T) {
	svc, _ := newFeatureStack(t)
	ctx := context.Background()

	if err := svc.CreateFeature(ctx, FeatureToggleInput{Name: "demo"}, "tester"); err != nil {
		t.Fatalf("create: %v", err)
	}

	toggled, err := svc.ToggleFeature(ctx, "demo", "tester")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Enabled {
		t.Fatalf("toggle returned enabled=false, want true")
	}
	feature, err := svc.GetFeature(ctx, "demo")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !feature.Enabled {
		t.Fatalf("read model not updated after toggle")
	}

	if _, err := svc.ToggleFeature(ctx, "demo", "tester"); err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	feature, _ = svc.GetFeature(ctx, "demo")
	if feature.Enabled {
		t.Fatalf("read model still enabled after second toggle")
	}
}

func TestStaleMarking(t *testing.T) {
	svc, _ := newFeatureStack(t)
	ctx := context.Background()

	if err := svc.CreateFeature(ctx, FeatureToggleInput{Name: "demo"}, "tester"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.SetStale(ctx, "demo", true, "tester"); err != nil {
		t.Fatalf("stale on: %v", err)
	}
	feature, _ := svc.GetFeature(ctx, "demo")
	if !feature.Stale {
		t.Fatalf("feature not stale after stale-on")
	}
	if err := svc.SetStale(ctx, "demo", false, "tester"); err != nil {
		t.Fatalf("stale off: %v", err)
	}
	feature, _ = svc.GetFeature(ctx, "demo")
	if feature.Stale {
		t.Fatalf("feature still stale after stale-off")
	}
}

func TestMutationsOnMissingFeature(t *testing.T) {
	svc, _ := newFeatureStack(t)
	ctx := context.Background()

	if err := svc.UpdateFeature(ctx, "ghost", FeatureToggleInput{Name: "ghost"}, "tester"); !apierr.IsNotFound(err) {
		t.Fatalf("update missing = %v, want not found", err)
	}
	if err := svc.ArchiveFeature(ctx, "ghost", "tester"); !apierr.IsNotFound(err) {
		t.Fatalf("archive missing = %v, want not found", err)
	}
	if _, err := svc.ToggleFeature(ctx, "ghost", "tester"); !apierr.IsNotFound(err) {
		t.Fatalf("toggle missing = %v, want not found", err)
	}
}
