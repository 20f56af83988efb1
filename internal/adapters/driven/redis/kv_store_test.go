package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/bridge-core/internal/core/domain"
)

// setupTestKVStore creates a test Redis client and KVStore
func setupTestKVStore(t *testing.T) (*KVStore, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewKVStore(client)

	return store, mr, func() {
		client.Close()
		mr.Close()
	}
}

func TestKVStore_SetGet(t *testing.T) {
	store, _, cleanup := setupTestKVStore(t)
	defer cleanup()

	ctx := context.Background()

	if err := store.Set(ctx, "hubspot_state:o1:u1", `{"state":"nonce"}`, 10*time.Minute); err != nil {
		t.Fatalf("unexpected error setting key: %v", err)
	}

	value, err := store.Get(ctx, "hubspot_state:o1:u1")
	if err != nil {
		t.Fatalf("unexpected error getting key: %v", err)
	}
	if value != `{"state":"nonce"}` {
		t.Errorf("expected stored value, got %q", value)
	}
}

func TestKVStore_Get_Missing(t *testing.T) {
	store, _, cleanup := setupTestKVStore(t)
	defer cleanup()

	_, err := store.Get(context.Background(), "missing")
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestKVStore_Set_Overwrites(t *testing.T) {
	store, _, cleanup := setupTestKVStore(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.Set(ctx, "key", "first", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Set(ctx, "key", "second", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value, err := store.Get(ctx, "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "second" {
		t.Errorf("expected overwrite to win, got %q", value)
	}
}

func TestKVStore_Expiry(t *testing.T) {
	store, mr, cleanup := setupTestKVStore(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.Set(ctx, "key", "value", 10*time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Entry is readable before the TTL elapses.
	if _, err := store.Get(ctx, "key"); err != nil {
		t.Fatalf("unexpected error before expiry: %v", err)
	}

	mr.FastForward(11 * time.Minute)

	_, err := store.Get(ctx, "key")
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestKVStore_Delete(t *testing.T) {
	store, _, cleanup := setupTestKVStore(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.Set(ctx, "key", "value", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(ctx, "key"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := store.Get(ctx, "key")
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing key is not an error.
	if err := store.Delete(ctx, "key"); err != nil {
		t.Errorf("unexpected error deleting missing key: %v", err)
	}
}

func TestKVStore_Ping(t *testing.T) {
	store, mr, cleanup := setupTestKVStore(t)
	defer cleanup()

	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}

	mr.Close()
	if err := store.Ping(context.Background()); err == nil {
		t.Error("expected ping to fail once the server is down")
	}
}
