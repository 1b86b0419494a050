package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	pkgredis "github.com/shobhit-APP/smart-agriculture-backend/pkg/redis"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(pkgredis.NewFromClient(rdb), &Config{
		OpTimeout:        time.Second,
		FailureThreshold: 3,
		Cooldown:         time.Minute,
	}), mr
}

func TestClient_GetSetDel(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want %v", err, ErrNotFound)
	}

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	val, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if val != "v" {
		t.Errorf("Get() = %q, want %q", val, "v")
	}

	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("Del() error = %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Del error = %v, want %v", err, ErrNotFound)
	}

	// Deleting an absent key is idempotent.
	if err := c.Del(ctx, "k"); err != nil {
		t.Errorf("Del() of absent key error = %v", err)
	}
}

func TestClient_SetOps(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	if err := c.SAdd(ctx, "s", "1", "2"); err != nil {
		t.Fatalf("SAdd() error = %v", err)
	}

	ok, err := c.SIsMember(ctx, "s", "1")
	if err != nil || !ok {
		t.Errorf("SIsMember(1) = %v, %v; want true, nil", ok, err)
	}

	n, err := c.SCard(ctx, "s")
	if err != nil || n != 2 {
		t.Errorf("SCard() = %d, %v; want 2, nil", n, err)
	}

	members, err := c.SMembers(ctx, "s")
	if err != nil || len(members) != 2 {
		t.Errorf("SMembers() = %v, %v; want 2 members", members, err)
	}

	if err := c.SRem(ctx, "s", "1"); err != nil {
		t.Fatalf("SRem() error = %v", err)
	}
	ok, _ = c.SIsMember(ctx, "s", "1")
	if ok {
		t.Error("SIsMember(1) after SRem = true, want false")
	}
}

func TestClient_BreakerOpensAndRecovers(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	// Kill the backend so every call fails.
	mr.Close()

	for i := 0; i < 3; i++ {
		if err := c.Set(ctx, "k", "v", time.Minute); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("Set() attempt %d error = %v, want %v", i, err, ErrUnavailable)
		}
	}

	// Breaker open: calls fail fast without touching the backend.
	if err := c.Set(ctx, "k", "v", time.Minute); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Set() with open breaker error = %v, want %v", err, ErrUnavailable)
	}

	// Restart the backend; after the cooldown a probe goes through and
	// success resets the failure count.
	if err := mr.Restart(); err != nil {
		t.Fatalf("miniredis restart failed: %v", err)
	}
	now = base.Add(2 * time.Minute)

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set() probe after cooldown error = %v", err)
	}
	if err := c.Set(ctx, "k2", "v", time.Minute); err != nil {
		t.Errorf("Set() after recovery error = %v", err)
	}
}
