package infra

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return NewRedisStorage(client, "limiter:"), mr
}

func TestRedisStorageRoundTrip(t *testing.T) {
	store, mr := newTestStorage(t)

	if val, err := store.Get("missing"); err != nil || val != nil {
		t.Fatalf("expected nil for missing key, got %q %v", val, err)
	}

	if err := store.Set("10.0.0.1", []byte("3"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("limiter:10.0.0.1") {
		t.Fatal("expected prefixed key in redis")
	}

	val, err := store.Get("10.0.0.1")
	if err != nil || string(val) != "3" {
		t.Fatalf("get: %q %v", val, err)
	}

	mr.FastForward(2 * time.Minute)
	if val, _ := store.Get("10.0.0.1"); val != nil {
		t.Fatalf("expected key to expire, got %q", val)
	}
}

func TestRedisStorageResetKeepsForeignKeys(t *testing.T) {
	store, mr := newTestStorage(t)

	if err := mr.Set("other:key", "keep"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_ = store.Set("a", []byte("1"), 0)
	_ = store.Set("b", []byte("2"), 0)

	if err := store.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if mr.Exists("limiter:a") || mr.Exists("limiter:b") {
		t.Fatal("expected prefixed keys removed")
	}
	if !mr.Exists("other:key") {
		t.Fatal("reset removed a key outside its prefix")
	}

	if err := store.Delete("a"); err != nil {
		t.Fatalf("delete missing key: %v", err)
	}
}
