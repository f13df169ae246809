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

type stateStack struct {
	state    StateService
	features FeatureToggleService
	eventLog EventLogService
}

func newStateStack(t *testing.T) stateStack {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()
	bus := events.NewBus(log)

	featureRepo := repos.NewFeatureToggleRepo(db, log)
	strategyRepo := repos.NewStrategyRepo(db, log)
	tagRepo := repos.NewTagRepo(db, log)
	tagTypeRepo := repos.NewTagTypeRepo(db, log)
	featureTagRepo := repos.NewFeatureTagRepo(db, log)
	if err := strategyRepo.SeedBuiltIns(context.Background(), nil); err != nil {
		t.Fatalf("seed built-ins: %v", err)
	}

	projectors.NewFeatureToggleProjector(log, featureRepo, bus)
	projectors.NewStrategyProjector(log, strategyRepo, bus)
	projectors.NewTagProjector(log, tagRepo, bus)
	projectors.NewTagTypeProjector(log, tagTypeRepo, bus)
	projectors.NewFeatureTagProjector(log, featureTagRepo, bus)

	eventLog := NewEventLogService(db, log, repos.NewEventRepo(db, log), bus)
	return stateStack{
		state:    NewStateService(log, featureRepo, strategyRepo, tagRepo, tagTypeRepo, featureTagRepo, eventLog),
		features: NewFeatureToggleService(log, featureRepo, featureTagRepo, eventLog),
		eventLog: eventLog,
	}
}

func (s stateStack) eventCount(t *testing.T) int {
	t.Helper()
	stored, err := s.eventLog.GetEvents(context.Background())
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	return len(stored)
}

func sampleState() StateExport {
	return StateExport{
		Version: 1,
		Features: []FeatureToggleInput{
			{Name: "demo", Description: "imported toggle", Enabled: true},
		},
		Strategies: []StrategyInput{
			{Name: "byRegion", Parameters: []types.StrategyParameter{{Name: "regions", Type: "list"}}},
		},
		TagTypes:    []TagTypeInput{{Name: "release", Description: "Release planning"}},
		Tags:        []TagInput{{Type: "release", Value: "v1"}},
		FeatureTags: []types.FeatureTag{{FeatureName: "demo", TagType: "release", TagValue: "v1"}},
	}
}

func TestImportPopulatesReadModels(t *testing.T) {
	stack := newStateStack(t)
	ctx := context.Background()

	err := stack.state.Import(ctx, sampleState(), ImportOptions{UserName: "importer"})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	feature, err := stack.features.GetFeature(ctx, "demo")
	if err != nil {
		t.Fatalf("get imported feature: %v", err)
	}
	if !feature.Enabled || feature.Description != "imported toggle" {
		t.Fatalf("imported feature = %+v", feature)
	}

	export, err := stack.state.Export(ctx, ExportOptions{
		IncludeFeatureToggles: true,
		IncludeStrategies:     true,
		IncludeTags:           true,
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(export.Features) != 1 || export.Features[0].Name != "demo" {
		t.Fatalf("exported features = %+v", export.Features)
	}
	// Only the imported strategy comes back; built-ins are excluded.
	if len(export.Strategies) != 1 || export.Strategies[0].Name != "byRegion" {
		t.Fatalf("exported strategies = %+v", export.Strategies)
	}
	if len(export.TagTypes) != 1 || len(export.Tags) != 1 || len(export.FeatureTags) != 1 {
		t.Fatalf("exported tag data = %+v / %+v / %+v", export.TagTypes, export.Tags, export.FeatureTags)
	}
}

func TestReimportIsIdempotent(t *testing.T) {
	stack := newStateStack(t)
	ctx := context.Background()

	doc := sampleState()
	if err := stack.state.Import(ctx, doc, ImportOptions{UserName: "importer"}); err != nil {
		t.Fatalf("first import: %v", err)
	}
	before := stack.eventCount(t)

	// Re-importing the same document must not rewrite history. Feature
	// tags are re-asserted; everything else is skipped as unchanged.
	if err := stack.state.Import(ctx, sampleState(), ImportOptions{UserName: "importer"}); err != nil {
		t.Fatalf("second import: %v", err)
	}
	after := stack.eventCount(t)
	if got := after - before; got != len(doc.FeatureTags) {
		t.Fatalf("second import emitted %d extra events, want %d", got, len(doc.FeatureTags))
	}
}

func TestImportKeepExistingSkipsChangedEntries(t *testing.T) {
	stack := newStateStack(t)
	ctx := context.Background()

	if err := stack.state.Import(ctx, sampleState(), ImportOptions{UserName: "importer"}); err != nil {
		t.Fatalf("first import: %v", err)
	}

	changed := sampleState()
	changed.Features[0].Description = "changed upstream"
	if err := stack.state.Import(ctx, changed, ImportOptions{UserName: "importer", KeepExisting: true}); err != nil {
		t.Fatalf("keep-existing import: %v", err)
	}
	feature, _ := stack.features.GetFeature(ctx, "demo")
	if feature.Description != "imported toggle" {
		t.Fatalf("keep-existing overwrote the stored toggle: %q", feature.Description)
	}

	// Without keepExisting the changed entry wins.
	if err := stack.state.Import(ctx, changed, ImportOptions{UserName: "importer"}); err != nil {
		t.Fatalf("overwrite import: %v", err)
	}
	feature, _ = stack.features.GetFeature(ctx, "demo")
	if feature.Description != "changed upstream" {
		t.Fatalf("import did not apply the changed toggle: %q", feature.Description)
	}
}

func TestImportDropReplacesState(t *testing.T) {
	stack := newStateStack(t)
	ctx := context.Background()

	if err := stack.features.CreateFeature(ctx, FeatureToggleInput{Name: "legacy"}, "tester"); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := stack.state.Import(ctx, sampleState(), ImportOptions{UserName: "importer", DropBeforeImport: true})
	if err != nil {
		t.Fatalf("drop import: %v", err)
	}

	if _, err := stack.features.GetFeature(ctx, "legacy"); !apierr.IsNotFound(err) {
		t.Fatalf("pre-existing toggle survived a drop import: %v", err)
	}
	if _, err := stack.features.GetFeature(ctx, "demo"); err != nil {
		t.Fatalf("imported toggle missing after drop import: %v", err)
	}
}

func TestImportValidatesBeforeEmitting(t *testing.T) {
	stack := newStateStack(t)
	ctx := context.Background()

	doc := sampleState()
	doc.Features = append(doc.Features, FeatureToggleInput{Name: "bad name!"})

	err := stack.state.Import(ctx, doc, ImportOptions{UserName: "importer"})
	if apierr.StatusOf(err) != 400 {
		t.Fatalf("import of invalid document = %v, want validation error", err)
	}
	// Nothing from the document made it into the log.
	if got := stack.eventCount(t); got != 0 {
		t.Fatalf("invalid import emitted %d events, want 0", got)
	}

	unsupported := sampleState()
	unsupported.Version = stateFormatVersion + 1
	if err := stack.state.Import(ctx, unsupported, ImportOptions{UserName: "importer"}); apierr.StatusOf(err) != 400 {
		t.Fatalf("import of future version = %v, want validation error", err)
	}
}
