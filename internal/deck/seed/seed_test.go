package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/statdeck/statdeck/internal/deck/domain"
	"github.com/statdeck/statdeck/internal/deck/storage/bolt"
)

func openTestStore(t *testing.T) *bolt.Store {
	t.Helper()
	store, err := bolt.Open(filepath.Join(t.TempDir(), "seed.bolt"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunSeedsOfficialRecords(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	result, err := Run(ctx, store)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.PresetsCreated != len(OfficialPresets()) {
		t.Fatalf("expected %d presets, created %d", len(OfficialPresets()), result.PresetsCreated)
	}
	if result.ConfigsCreated != len(OfficialConfigs()) {
		t.Fatalf("expected %d configs, created %d", len(OfficialConfigs()), result.ConfigsCreated)
	}

	preset, err := store.GetPreset(ctx, PresetAdventureID)
	if err != nil {
		t.Fatalf("get preset: %v", err)
	}
	if !preset.IsOfficial || len(preset.Stats) == 0 {
		t.Fatalf("unexpected preset %+v", preset)
	}
}

func TestRunIsIdempotentAndKeepsCustomizations(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := Run(ctx, store); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Simulate a user customization of an official record.
	config, err := store.GetConfig(ctx, ConfigStandardID)
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	entry := config.Vocabulary[domain.MechanicHealth]
	entry.Label = "Vitality"
	config.Vocabulary[domain.MechanicHealth] = entry
	if err := store.PutConfig(ctx, config); err != nil {
		t.Fatalf("put customized config: %v", err)
	}

	result, err := Run(ctx, store)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.PresetsCreated != 0 || result.ConfigsCreated != 0 {
		t.Fatalf("second run must create nothing, got %+v", result)
	}

	reloaded, err := store.GetConfig(ctx, ConfigStandardID)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if reloaded.Vocabulary[domain.MechanicHealth].Label != "Vitality" {
		t.Fatal("seeding overwrote a user customization")
	}
}

func TestOfficialRecordsAreValid(t *testing.T) {
	for _, preset := range OfficialPresets() {
		if violations := domain.ValidatePreset(preset); len(violations) != 0 {
			t.Fatalf("preset %s invalid: %v", preset.ID, violations)
		}
	}
	for _, config := range OfficialConfigs() {
		if violations := domain.ValidateConfig(config); len(violations) != 0 {
			t.Fatalf("config %s invalid: %v", config.ID, violations)
		}
	}
}
