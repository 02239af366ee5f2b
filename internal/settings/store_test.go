package settings_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"bdnav/internal/settings"
)

func exerciseStore(t *testing.T, store interface {
	settings.Store
	settings.Lister
}) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, settings.AudioLang); err != nil || ok {
		t.Fatalf("expected empty store, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, settings.AudioLang, "de"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Set(ctx, settings.RegionCode, "1"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	value, ok, err := store.Get(ctx, settings.AudioLang)
	if err != nil || !ok || value != "ger" {
		t.Fatalf("Get(audio_lang) = %q, %v, %v", value, ok, err)
	}
	if err := store.Set(ctx, settings.AudioLang, "ja"); err != nil {
		t.Fatalf("overwrite returned error: %v", err)
	}
	if value, _, _ := store.Get(ctx, settings.AudioLang); value != "jpn" {
		t.Fatalf("expected overwrite, got %q", value)
	}
	if err := store.Set(ctx, settings.Parental, "abc"); !errors.Is(err, settings.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 2 || entries[0].Key != settings.AudioLang || entries[1].Key != settings.RegionCode {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, settings.NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	store, err := settings.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "nested", "settings.db"))
	if err != nil {
		t.Fatalf("OpenSQLite returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)
}

func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.db")

	first, err := settings.OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite returned error: %v", err)
	}
	if err := first.Set(ctx, settings.CountryCode, "GB"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	second, err := settings.OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer second.Close()
	value, ok, err := second.Get(ctx, settings.CountryCode)
	if err != nil || !ok || value != "gb" {
		t.Fatalf("Get after reopen = %q, %v, %v", value, ok, err)
	}
	if err := second.Delete(ctx, settings.CountryCode); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok, _ := second.Get(ctx, settings.CountryCode); ok {
		t.Fatal("expected setting to be deleted")
	}
}

func TestSeedDefaultsKeepsExistingValues(t *testing.T) {
	ctx := context.Background()
	store := settings.NewMemoryStore()
	if err := store.Set(ctx, settings.AudioLang, "fra"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	err := settings.SeedDefaults(ctx, store, map[settings.Setting]string{
		settings.AudioLang: "eng",
		settings.PGLang:    "eng",
	})
	if err != nil {
		t.Fatalf("SeedDefaults returned error: %v", err)
	}
	if v, _, _ := store.Get(ctx, settings.AudioLang); v != "fre" {
		t.Fatalf("existing value overwritten: %q", v)
	}
	if v, _, _ := store.Get(ctx, settings.PGLang); v != "eng" {
		t.Fatalf("default not seeded: %q", v)
	}
}
