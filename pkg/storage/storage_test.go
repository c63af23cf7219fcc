package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeRaw(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o600)
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if _, err := store.Get(ctx, KeyCart); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Set(ctx, KeyCart, `{"items":[]}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value, err := store.Get(ctx, KeyCart)
	if err != nil || value != `{"items":[]}` {
		t.Fatalf("unexpected read %q, %v", value, err)
	}

	if err := store.Del(ctx, KeyCart, KeyAccessToken); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(ctx, KeyCart); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFileSurvivesReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "device.json")

	first, err := NewFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := first.Set(ctx, KeyLastEmail, "sari@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := first.Set(ctx, KeyPopupSeenAt, "2026-08-28T10:00:00Z"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Simulated reload: a fresh adapter over the same path.
	second, err := NewFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value, err := second.Get(ctx, KeyLastEmail)
	if err != nil || value != "sari@example.com" {
		t.Fatalf("unexpected read %q, %v", value, err)
	}

	if err := second.Del(ctx, KeyLastEmail); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	third, err := NewFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := third.Get(ctx, KeyLastEmail); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := third.Get(ctx, KeyPopupSeenAt); err != nil {
		t.Fatalf("unrelated key must survive: %v", err)
	}
}

func TestFileRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.json")
	if err := writeRaw(path, "{not json"); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFile(path); err == nil {
		t.Fatal("expected decode error for corrupt document")
	}
}
