package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRedis_NilIsNoop(t *testing.T) {
	var r *Redis
	ctx := context.Background()

	if err := r.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var out map[string]int
	found, err := r.GetJSON(ctx, "k", &out)
	if err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}
	if err := r.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n, err := r.Incr(ctx, "n"); err != nil || n != 0 {
		t.Fatalf("incr: n=%d err=%v", n, err)
	}
	if err := r.Ping(ctx); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestRedis_UnconnectedIsNoop(t *testing.T) {
	r := &Redis{ttl: time.Minute}
	found, err := r.GetJSON(context.Background(), "k", &struct{}{})
	if err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}
}
