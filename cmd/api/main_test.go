package main

import (
	"os"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, key := range []string{"APP_ENV", "PORT", "DATABASE_URL", "REDIS_URL", "LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestRunFailsOnInvalidConfig(t *testing.T) {
	setEnv(t, map[string]string{"APP_ENV": "production", "LOG_LEVEL": "error"})

	if code := run(); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestRunReleasesBackendsOnListenError(t *testing.T) {
	mr := miniredis.RunT(t)
	setEnv(t, map[string]string{
		"APP_ENV":   "development",
		"PORT":      "-1",
		"REDIS_URL": "redis://" + mr.Addr(),
		"LOG_LEVEL": "error",
	})

	if code := run(); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}

	deadline := time.Now().Add(2 * time.Second)
	for mr.CurrentConnectionCount() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("redis connection still open after run returned")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
