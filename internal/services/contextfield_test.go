package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/flagbridge-backend/internal/apierr"
	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/projectors"
	"github.com/yungbote/flagbridge-backend/internal/repos"
)

func newContextFieldStack(t *testing.T) ContextFieldService {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()
	bus := events.NewBus(log)
	repo := repos.NewContextFieldRepo(db, log)
	projectors.NewContextFieldProjector(log, repo, bus)
	eventLog := NewEventLogService(db, log, repos.NewEventRepo(db, log), bus)
	return NewContextFieldService(log, repo, eventLog)
}

const seedYAML = `contextFields:
  - name: environment
    description: The deployment environment
    sortOrder: 0
    legalValues: [development, production]
  - name: userId
    description: The current user
    sortOrder: 1
`

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "context-fields.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func TestSeedFromFileCreatesAbsentFields(t *testing.T) {
	svc := newContextFieldStack(t)
	ctx := context.Background()

	if err := svc.SeedFromFile(ctx, writeSeedFile(t, seedYAML)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	fields, err := svc.GetContextFields(ctx)
	if err != nil {
		t.Fatalf("get fields: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("seeded %d fields, want 2", len(fields))
	}

	env, err := svc.GetContextField(ctx, "environment")
	if err != nil {
		t.Fatalf("get environment field: %v", err)
	}
	if env.Description != "The deployment environment" {
		t.Fatalf("environment field = %+v", env)
	}
}

func TestSeedFromFileLeavesExistingFieldsAlone(t *testing.T) {
	svc := newContextFieldStack(t)
	ctx := context.Background()

	custom := ContextFieldInput{Name: "environment", Description: "operator managed"}
	if err := svc.CreateContextField(ctx, custom, "admin"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.SeedFromFile(ctx, writeSeedFile(t, seedYAML)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	env, err := svc.GetContextField(ctx, "environment")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if env.Description != "operator managed" {
		t.Fatalf("seeding overwrote an existing field: %+v", env)
	}
}

func TestSeedFromFileMissingPathIsNoop(t *testing.T) {
	svc := newContextFieldStack(t)
	ctx := context.Background()

	if err := svc.SeedFromFile(ctx, ""); err != nil {
		t.Fatalf("empty path: %v", err)
	}
	if err := svc.SeedFromFile(ctx, filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("absent file: %v", err)
	}
	if err := svc.SeedFromFile(ctx, writeSeedFile(t, "contextFields: [{description: nameless}]")); err == nil {
		t.Fatalf("seed accepted a field without a name")
	}
}

func TestContextFieldLifecycle(t *testing.T) {
	svc := newContextFieldStack(t)
	ctx := context.Background()

	input := ContextFieldInput{Name: "region", LegalValues: []string{"eu", "us"}}
	if err := svc.CreateContextField(ctx, input, "admin"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.CreateContextField(ctx, input, "admin"); !apierr.IsConflict(err) {
		t.Fatalf("duplicate create = %v, want conflict", err)
	}

	if err := svc.UpdateContextField(ctx, "region", ContextFieldInput{Description: "updated"}, "admin"); err != nil {
		t.Fatalf("update: %v", err)
	}
	field, _ := svc.GetContextField(ctx, "region")
	if field.Description != "updated" {
		t.Fatalf("update not projected: %+v", field)
	}

	if err := svc.DeleteContextField(ctx, "region", "admin"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetContextField(ctx, "region"); !apierr.IsNotFound(err) {
		t.Fatalf("get deleted field = %v, want not found", err)
	}

	badValues := ContextFieldInput{Name: "dup", LegalValues: []string{"a", "a"}}
	if err := svc.CreateContextField(ctx, badValues, "admin"); apierr.StatusOf(err) != 400 {
		t.Fatalf("duplicate legal values = %v, want validation error", err)
	}
}
