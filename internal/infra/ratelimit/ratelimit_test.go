package ratelimit

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func TestMemoryLimiterFixedWindow(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: clock.Now})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		decision, err := limiter.Allow(ctx, "k", 2, time.Minute)
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !decision.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
		if decision.Remaining != 1-i {
			t.Fatalf("expected remaining %d, got %d", 1-i, decision.Remaining)
		}
	}

	decision, err := limiter.Allow(ctx, "k", 2, time.Minute)
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if decision.Allowed || decision.Remaining != 0 {
		t.Fatalf("expected third request denied, got %+v", decision)
	}
	if !decision.ResetAt.Equal(clock.now.Add(time.Minute)) {
		t.Fatalf("unexpected reset: %s", decision.ResetAt)
	}

	clock.now = clock.now.Add(time.Minute + time.Second)
	decision, err = limiter.Allow(ctx, "k", 2, time.Minute)
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("expected new window to allow")
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	ctx := context.Background()

	if d, _ := limiter.Allow(ctx, "a", 1, time.Minute); !d.Allowed {
		t.Fatalf("expected a allowed")
	}
	if d, _ := limiter.Allow(ctx, "b", 1, time.Minute); !d.Allowed {
		t.Fatalf("expected b allowed")
	}
	if d, _ := limiter.Allow(ctx, "a", 1, time.Minute); d.Allowed {
		t.Fatalf("expected a denied")
	}
}

func TestMemoryLimiterCapacity(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: clock.Now, MaxKeys: 1})
	ctx := context.Background()

	if _, err := limiter.Allow(ctx, "a", 1, time.Second); err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if _, err := limiter.Allow(ctx, "b", 1, time.Second); err == nil {
		t.Fatalf("expected capacity error")
	}

	clock.now = clock.now.Add(2 * time.Second)
	if _, err := limiter.Allow(ctx, "b", 1, time.Second); err != nil {
		t.Fatalf("expected expired key evicted, got %v", err)
	}
}

func TestMemoryLimiterDisabledLimit(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	decision, err := limiter.Allow(context.Background(), "k", 0, time.Minute)
	if err != nil || !decision.Allowed {
		t.Fatalf("expected allow with zero limit, got %+v %v", decision, err)
	}
}

func TestNewRedisLimiterRequiresAddr(t *testing.T) {
	if _, err := NewRedisLimiter(RedisConfig{}); err == nil {
		t.Fatalf("expected error for missing addr")
	}
}

func TestDecodeRedisResult(t *testing.T) {
	now := time.Unix(1700000000, 0)

	decision, err := decodeRedisResult([]any{int64(3), int64(1500)}, 2, now)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decision.Allowed || decision.Remaining != 0 {
		t.Fatalf("expected denied, got %+v", decision)
	}
	if !decision.ResetAt.Equal(now.Add(1500 * time.Millisecond)) {
		t.Fatalf("unexpected reset: %s", decision.ResetAt)
	}

	decision, err = decodeRedisResult([]any{int64(1), int64(-1)}, 2, now)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decision.Allowed || decision.Remaining != 1 || !decision.ResetAt.Equal(now) {
		t.Fatalf("unexpected decision: %+v", decision)
	}

	if _, err := decodeRedisResult("bogus", 2, now); err == nil {
		t.Fatalf("expected error for malformed response")
	}
	if _, err := decodeRedisResult([]any{"x", int64(1)}, 2, now); err == nil {
		t.Fatalf("expected error for non-integer counter")
	}
}

func TestRedisLimiterPingUnreachable(t *testing.T) {
	limiter, err := NewRedisLimiter(RedisConfig{Addr: "127.0.0.1:1"})
	if err != nil {
		t.Fatalf("NewRedisLimiter: %v", err)
	}
	defer limiter.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := limiter.Ping(ctx); err == nil {
		t.Fatalf("expected ping error for unreachable redis")
	}
}
