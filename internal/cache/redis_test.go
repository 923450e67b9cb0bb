package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
)

func stubRedis(t *testing.T, pingErr error) *string {
	t.Helper()
	origNewClient := newRedisClient
	origPing := pingRedis
	t.Cleanup(func() {
		newRedisClient = origNewClient
		pingRedis = origPing
	})

	var capturedAddr string
	newRedisClient = func(opts *redis.Options) *redis.Client {
		capturedAddr = opts.Addr
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return pingErr
	}
	return &capturedAddr
}

func TestOpenWithCustomAddr(t *testing.T) {
	addr := stubRedis(t, nil)

	client, err := Open(context.Background(), "redis:9999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()
	if *addr != "redis:9999" {
		t.Fatalf("expected custom addr, got %s", *addr)
	}
}

func TestOpenWithURL(t *testing.T) {
	addr := stubRedis(t, nil)

	client, err := Open(context.Background(), "redis://cache.internal:6380/2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()
	if *addr != "cache.internal:6380" {
		t.Fatalf("expected parsed addr, got %s", *addr)
	}
}

func TestOpenDisabled(t *testing.T) {
	stubRedis(t, nil)

	client, err := Open(context.Background(), "")
	if err != nil || client != nil {
		t.Fatalf("expected nil client and no error, got %v, %v", client, err)
	}
}

func TestOpenPingFailure(t *testing.T) {
	stubRedis(t, errors.New("connection refused"))

	client, err := Open(context.Background(), "localhost:6379")
	if err == nil || client != nil {
		t.Fatalf("expected failure, got %v, %v", client, err)
	}
}

func TestOptionsInvalidURL(t *testing.T) {
	if _, err := Options("redis://localhost:6379/notanumber"); err == nil {
		t.Fatal("expected parse error")
	}
}
