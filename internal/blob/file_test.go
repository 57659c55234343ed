package blob

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "openlatch.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(ctx); !errors.Is(err, ErrNotExist) {
		t.Fatalf("expected ErrNotExist before first save, got %v", err)
	}

	payload := []byte(`{"version":1}`)
	if err := store.Save(ctx, payload); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Errorf("Load = %q, want %q", got, payload)
	}

	// Saves replace, not append.
	if err := store.Save(ctx, []byte(`{"version":2}`)); err != nil {
		t.Fatal(err)
	}
	got, err = store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"version":2}` {
		t.Errorf("Load after overwrite = %q", got)
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	payload := []byte("original")
	if err := store.Save(ctx, payload); err != nil {
		t.Fatal(err)
	}
	payload[0] = 'X'

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "original" {
		t.Errorf("stored payload aliased caller slice: %q", got)
	}

	got[0] = 'Y'
	again, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != "original" {
		t.Errorf("loaded payload aliased stored slice: %q", again)
	}
}
