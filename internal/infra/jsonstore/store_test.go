package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), "store.json"))
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return store
}

func TestStore_Initialize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "store.json")
	ctx := context.Background()

	store := New(path)
	if store.IsInitialized(ctx) {
		t.Fatal("IsInitialized() = true before Initialize")
	}

	// Initialize should create the file
	if err := store.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	// File should exist
	if _, err := os.Stat(path); err != nil {
		t.Errorf("store file not created: %v", err)
	}
	if !store.IsInitialized(ctx) {
		t.Error("IsInitialized() = false after Initialize")
	}

	// Initialize again should be idempotent and keep data
	if err := store.Update(ctx, "k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := store.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() second call error = %v", err)
	}
	if _, found, _ := store.Get(ctx, "k"); !found {
		t.Error("Initialize() discarded existing data")
	}
}

func TestStore_UpdateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Update(ctx, "progression", []byte(`{"level":2}`)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, found, err := store.Get(ctx, "progression")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get() found = false")
	}
	if string(got) != `{"level":2}` {
		t.Errorf("Get() = %s, want {\"level\":2}", got)
	}

	// Replace
	if err := store.Update(ctx, "progression", []byte(`{"level":3}`)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _, _ = store.Get(ctx, "progression")
	if string(got) != `{"level":3}` {
		t.Errorf("Get() after replace = %s", got)
	}
}

func TestStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	got, found, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found || got != nil {
		t.Errorf("Get() = %s, %v; want nil, false", got, found)
	}
}

func TestStore_GetWithoutFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "store.json"))

	_, found, err := store.Get(context.Background(), "progression")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Get() found = true on a missing file")
	}
}

func TestStore_UpdateCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	store := New(path)

	if err := store.Update(context.Background(), "tasks", []byte(`[]`)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("store file not created: %v", err)
	}
}

func TestStore_UpdateRejectsInvalidJSON(t *testing.T) {
	store := newTestStore(t)

	if err := store.Update(context.Background(), "k", []byte("{nope")); err == nil {
		t.Error("Update() error = nil, want error")
	}
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	store := New(path)

	if _, _, err := store.Get(context.Background(), "k"); err == nil {
		t.Error("Get() error = nil on a corrupt file")
	}
	if err := store.Update(context.Background(), "k", []byte(`1`)); err == nil {
		t.Error("Update() error = nil on a corrupt file")
	}
}

func TestStore_CanceledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Update(ctx, "k", []byte(`1`)); err == nil {
		t.Error("Update() error = nil with a canceled context")
	}
	if _, _, err := store.Get(ctx, "k"); err == nil {
		t.Error("Get() error = nil with a canceled context")
	}
}

func TestStore_KeysAreIndependent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Update(ctx, "a", []byte(`"one"`)); err != nil {
		t.Fatal(err)
	}
	if err := store.Update(ctx, "b", []byte(`"two"`)); err != nil {
		t.Fatal(err)
	}

	// A second handle sees both keys.
	other := New(store.Path())
	a, _, _ := other.Get(ctx, "a")
	b, _, _ := other.Get(ctx, "b")
	if string(a) != `"one"` || string(b) != `"two"` {
		t.Errorf("Get() = %s, %s", a, b)
	}
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := string(rune('a' + i))
			if err := store.Update(ctx, key, []byte(`true`)); err != nil {
				t.Errorf("Update(%s) error = %v", key, err)
			}
		}()
	}
	wg.Wait()

	for i := range 20 {
		key := string(rune('a' + i))
		if _, found, _ := store.Get(ctx, key); !found {
			t.Errorf("key %s lost", key)
		}
	}
}
