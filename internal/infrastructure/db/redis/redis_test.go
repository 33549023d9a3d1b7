package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// newTestClient connects to TEST_REDIS_ADDR. Tests are skipped when the
// variable is unset.
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client, err := Connect(context.Background(), Config{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRevocationStore(t *testing.T) {
	store := NewRevocationStore(newTestClient(t))
	ctx := context.Background()
	id := fmt.Sprintf("test-%d", time.Now().UnixNano())

	if revoked, err := store.IsRevoked(ctx, id); err != nil || revoked {
		t.Fatalf("expected fresh session not revoked, got %v %v", revoked, err)
	}
	if err := store.Revoke(ctx, id, time.Minute); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if revoked, err := store.IsRevoked(ctx, id); err != nil || !revoked {
		t.Fatalf("expected revoked, got %v %v", revoked, err)
	}
}

func TestTokenBucket_ExhaustsCapacity(t *testing.T) {
	bucket := NewTokenBucket(newTestClient(t), "test:rl", 2, time.Hour)
	ctx := context.Background()
	key := fmt.Sprintf("user-%d", time.Now().UnixNano())

	for i := 0; i < 2; i++ {
		allowed, _, err := bucket.Allow(ctx, key)
		if err != nil || !allowed {
			t.Fatalf("request %d: expected allowed, got %v %v", i+1, allowed, err)
		}
	}

	allowed, retry, err := bucket.Allow(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("expected third request to be limited")
	}
	if retry <= 0 || retry > time.Hour {
		t.Errorf("unexpected retry-after %v", retry)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatal("expected ping error for unreachable server")
	}
}
