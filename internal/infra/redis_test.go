package infra

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/congo-pay/bank_account/internal/config"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), config.RedisConfig{URL: "redis://" + mr.Addr() + "/0", DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	if got := client.Options().DialTimeout; got != time.Second {
		t.Fatalf("expected dial timeout 1s, got %s", got)
	}

	if _, err := NewRedisClient(context.Background(), config.RedisConfig{}); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestNewRedisClientUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedisClient(context.Background(), config.RedisConfig{URL: "redis://" + addr, DialTimeout: 200 * time.Millisecond}); err == nil {
		t.Fatalf("expected ping error for closed server")
	}
}

func TestConnectSkipsUnsetBackends(t *testing.T) {
	mr := miniredis.RunT(t)

	b, err := Connect(context.Background(), config.Config{Redis: config.RedisConfig{URL: "redis://" + mr.Addr()}})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer b.Close(nil)

	if b.DB != nil {
		t.Fatalf("expected no database pool")
	}
	if b.Cache == nil {
		t.Fatalf("expected redis client")
	}
}
