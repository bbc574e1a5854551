package integration

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kettleworks/recipe-proxy/pkg/cache"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	t.Cleanup(func() {
		redisClient.Close()
		container.Terminate(ctx)
	})

	return redisClient
}

func TestRedisStore_GetSet(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	store := cache.NewRedisStore(setupRedis(t))

	key := cache.NewKey("recipeById").Param("id", "12345")

	if _, err := store.Get(ctx, key); !errors.Is(err, cache.ErrCacheMiss) {
		t.Fatalf("Get on empty store: got %v, want ErrCacheMiss", err)
	}

	payload := json.RawMessage(`{"id": 12345, "title": "Paella"}`)
	if err := store.Set(ctx, key, payload, time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Get() = %s, want %s", got, payload)
	}
}

func TestRedisStore_Expiry(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	store := cache.NewRedisStore(setupRedis(t))

	key := cache.NewKey("random")
	if err := store.Set(ctx, key, json.RawMessage(`{}`), 1*time.Second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, err := store.Get(ctx, key); err != nil {
		t.Fatalf("Get before expiry: error = %v", err)
	}

	time.Sleep(1500 * time.Millisecond)

	if _, err := store.Get(ctx, key); !errors.Is(err, cache.ErrCacheMiss) {
		t.Fatalf("Get after expiry: got %v, want ErrCacheMiss", err)
	}
}

func TestRedisStore_KeysAndFlush(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	redisClient := setupRedis(t)
	store := cache.NewRedisStore(redisClient)

	// An unrelated key outside the proxy's prefix must survive
	// introspection and flush untouched.
	if err := redisClient.Set(ctx, "unrelated:app:key", "x", 0).Err(); err != nil {
		t.Fatalf("seed unrelated key: %v", err)
	}

	stored := []cache.Key{
		cache.NewKey("search").Text("query", "soup"),
		cache.NewKey("ingredientInfo").Param("id", "9266"),
	}
	for _, key := range stored {
		if err := store.Set(ctx, key, json.RawMessage(`{}`), time.Hour); err != nil {
			t.Fatalf("Set(%s) error = %v", key, err)
		}
	}

	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("Keys() = %v, want 2 proxy keys", keys)
	}

	if err := store.FlushAll(ctx); err != nil {
		t.Fatalf("FlushAll() error = %v", err)
	}

	keys, err = store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() after flush error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("Keys() after flush = %v, want none", keys)
	}

	if err := redisClient.Get(ctx, "unrelated:app:key").Err(); err != nil {
		t.Errorf("unrelated key removed by FlushAll: %v", err)
	}
}
