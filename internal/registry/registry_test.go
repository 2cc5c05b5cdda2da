package registry_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/prestafacil/avaluador/internal/model"
	"github.com/prestafacil/avaluador/internal/registry"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	// Named per test so parallel packages never share the memory DB.
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;`); err != nil {
		t.Logf("pragmas: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.NewRegistry(openTestDB(t), nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func testArtifact(version string) *model.Artifact {
	return &model.Artifact{
		Version:      version,
		Algorithm:    "regresion_lineal",
		FeatureNames: model.CanonicalFeatures(),
		Coefficients: []float64{12000, 55, 20000, 9500, 85000, 30000, -15000},
		Intercept:    250000,
		R2:           0.87,
		TrainedAt:    time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
	}
}

func TestRegistry_RegisterAndActive(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	entry, err := reg.Register(ctx, testArtifact("v1"), true)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !entry.Active || entry.Version != "v1" {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	artifact, active, err := reg.Active(ctx)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if artifact.Version != "v1" || active.ID != entry.ID {
		t.Fatalf("Active returned %s / %s, want v1 / %s", artifact.Version, active.ID, entry.ID)
	}
	if artifact.Intercept != 250000 || len(artifact.Coefficients) != 7 {
		t.Fatalf("payload did not round-trip: %+v", artifact)
	}

	list, err := reg.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 artifact, got %d", len(list))
	}
}

func TestRegistry_ActivateSwitchesSingleActiveRow(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	if _, err := reg.Register(ctx, testArtifact("v1"), true); err != nil {
		t.Fatalf("Register v1: %v", err)
	}
	if _, err := reg.Register(ctx, testArtifact("v2"), false); err != nil {
		t.Fatalf("Register v2: %v", err)
	}

	artifact, _, err := reg.Active(ctx)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if artifact.Version != "v1" {
		t.Fatalf("active = %s, want v1", artifact.Version)
	}

	if err := reg.Activate(ctx, "v2"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	artifact, _, err = reg.Active(ctx)
	if err != nil {
		t.Fatalf("Active after switch: %v", err)
	}
	if artifact.Version != "v2" {
		t.Fatalf("active = %s, want v2", artifact.Version)
	}

	list, err := reg.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	activeCount := 0
	for _, e := range list {
		if e.Active {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Fatalf("expected exactly 1 active artifact, got %d", activeCount)
	}
}

func TestRegistry_DuplicateVersionRejected(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	if _, err := reg.Register(ctx, testArtifact("v1"), false); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := reg.Register(ctx, testArtifact("v1"), false); !errors.Is(err, registry.ErrVersionExists) {
		t.Fatalf("second Register error = %v, want ErrVersionExists", err)
	}
}

func TestRegistry_NoActiveArtifact(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	if _, _, err := reg.Active(ctx); !errors.Is(err, registry.ErrNoActiveArtifact) {
		t.Fatalf("Active on empty registry error = %v, want ErrNoActiveArtifact", err)
	}

	// Registering without activation keeps the registry without an active
	// model; the caller then runs on the traditional estimator.
	if _, err := reg.Register(ctx, testArtifact("v1"), false); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := reg.Active(ctx); !errors.Is(err, registry.ErrNoActiveArtifact) {
		t.Fatalf("Active error = %v, want ErrNoActiveArtifact", err)
	}
}

func TestRegistry_ActivateUnknownVersion(t *testing.T) {
	reg := newTestRegistry(t)

	err := reg.Activate(context.Background(), "v99")
	if !errors.Is(err, registry.ErrArtifactNotFound) {
		t.Fatalf("Activate error = %v, want ErrArtifactNotFound", err)
	}
}

func TestRegistry_GetByVersion(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	if _, err := reg.Register(ctx, testArtifact("v1"), false); err != nil {
		t.Fatalf("Register: %v", err)
	}

	artifact, entry, err := reg.Get(ctx, "v1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if artifact.Version != "v1" || entry.Active {
		t.Fatalf("Get returned %+v / %+v", artifact, entry)
	}

	if _, _, err := reg.Get(ctx, "missing"); !errors.Is(err, registry.ErrArtifactNotFound) {
		t.Fatalf("Get missing error = %v, want ErrArtifactNotFound", err)
	}
}

func TestRegistry_ImportFile(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	data, err := json.Marshal(testArtifact("v-file"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "modelo.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	entry, err := reg.ImportFile(ctx, path, true)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if entry.Version != "v-file" || !entry.Active {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	artifact, _, err := reg.Active(ctx)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if artifact.Version != "v-file" {
		t.Fatalf("active = %s, want v-file", artifact.Version)
	}

	// Importing the same file again reuses the stored entry.
	again, err := reg.ImportFile(ctx, path, true)
	if err != nil {
		t.Fatalf("second ImportFile: %v", err)
	}
	if again.Version != "v-file" || !again.Active {
		t.Fatalf("unexpected entry on re-import: %+v", again)
	}
	entries, err := reg.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("re-import duplicated the artifact: %d entries", len(entries))
	}
}

func TestRegistry_RejectsInvalidArtifact(t *testing.T) {
	reg := newTestRegistry(t)

	bad := testArtifact("v-bad")
	bad.Coefficients = bad.Coefficients[:3]
	if _, err := reg.Register(context.Background(), bad, false); err == nil {
		t.Fatal("Register accepted an artifact with mismatched coefficients")
	}
}
