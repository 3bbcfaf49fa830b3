package cache

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// newTestRedis connects to a local Redis on DB 15 and flushes it, skipping
// the test when no Redis is available. Full cache behavior is covered by the
// integration suite against a containerized Redis.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at localhost:6379: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewManager_NilRedisPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for nil redis client")
		}
	}()
	NewManager(nil, time.Minute)
}

func TestNewManager_DefaultTTL(t *testing.T) {
	client := newTestRedis(t)

	m := NewManager(client, 0)
	if m.TTL() != 15*time.Minute {
		t.Errorf("Default TTL = %v, want 15m", m.TTL())
	}
}

func TestManager_SetAndGet(t *testing.T) {
	client := newTestRedis(t)
	m := NewManager(client, time.Minute)
	ctx := context.Background()

	key := Key{
		Endpoint:    "/api/v1/players/669387/gamelog",
		QueryParams: url.Values{"season": {"2024"}, "page": {"1"}},
	}
	entry := &Entry{
		Body:       []byte(`{"games": []}`),
		StatusCode: 200,
		TotalPages: 3,
		FetchedAt:  time.Now().UTC(),
	}

	if err := m.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := m.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Body) != string(entry.Body) {
		t.Errorf("Body = %s, want %s", got.Body, entry.Body)
	}
	if got.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", got.TotalPages)
	}
}

func TestManager_GetMiss(t *testing.T) {
	client := newTestRedis(t)
	m := NewManager(client, time.Minute)

	_, err := m.Get(context.Background(), Key{Endpoint: "/api/v1/nothing"})
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestManager_SetNilEntry(t *testing.T) {
	client := newTestRedis(t)
	m := NewManager(client, time.Minute)

	if err := m.Set(context.Background(), Key{Endpoint: "/x"}, nil); err == nil {
		t.Error("Expected error for nil entry")
	}
}

func TestManager_Delete(t *testing.T) {
	client := newTestRedis(t)
	m := NewManager(client, time.Minute)
	ctx := context.Background()

	key := Key{Endpoint: "/api/v1/prospects", QueryParams: url.Values{"season": {"2024"}}}
	entry := &Entry{Body: []byte(`{}`), StatusCode: 200, TotalPages: 1, FetchedAt: time.Now()}

	if err := m.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := m.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := m.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestManager_TTLExpiry(t *testing.T) {
	client := newTestRedis(t)
	m := NewManager(client, time.Second)
	ctx := context.Background()

	key := Key{Endpoint: "/api/v1/prospects"}
	entry := &Entry{Body: []byte(`{}`), StatusCode: 200, TotalPages: 1, FetchedAt: time.Now()}

	if err := m.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	ttl, err := client.TTL(ctx, key.String()).Result()
	if err != nil {
		t.Fatalf("TTL lookup failed: %v", err)
	}
	if ttl <= 0 || ttl > time.Second {
		t.Errorf("Expected TTL in (0, 1s], got %v", ttl)
	}
}
