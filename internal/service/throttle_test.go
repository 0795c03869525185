package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	apperrors "github.com/gestio-app/gestio/internal/errors"
	pkgredis "github.com/gestio-app/gestio/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func throttleWithMiniredis(t *testing.T, max int, window time.Duration) (*ThrottleService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	client := pkgredis.NewClientFromRedis(rdb, zap.NewNop())
	return NewThrottleService(client, max, window), mr
}

func TestThrottleAllowsWithinBudget(t *testing.T) {
	svc, _ := throttleWithMiniredis(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.Allow(ctx, "awa@example.com", "10.0.0.1"); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}

	err := svc.Allow(ctx, "awa@example.com", "10.0.0.1")
	if !errors.Is(err, apperrors.ErrTooManyAttempts) {
		t.Fatalf("err = %v, want TOO_MANY_ATTEMPTS", err)
	}
}

func TestThrottleCountsEmailAndIPSeparately(t *testing.T) {
	svc, _ := throttleWithMiniredis(t, 2, time.Minute)
	ctx := context.Background()

	// Exhaust one email's budget from distinct IPs.
	if err := svc.Allow(ctx, "awa@example.com", "10.0.0.1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Allow(ctx, "awa@example.com", "10.0.0.2"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Allow(ctx, "awa@example.com", "10.0.0.3"); !errors.Is(err, apperrors.ErrTooManyAttempts) {
		t.Fatalf("email budget not enforced, err = %v", err)
	}

	// Another email from a fresh IP is unaffected.
	if err := svc.Allow(ctx, "other@example.com", "10.0.0.9"); err != nil {
		t.Fatalf("unrelated email throttled: %v", err)
	}
}

func TestThrottleWindowExpires(t *testing.T) {
	svc, mr := throttleWithMiniredis(t, 1, time.Minute)
	ctx := context.Background()

	if err := svc.Allow(ctx, "awa@example.com", "10.0.0.1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Allow(ctx, "awa@example.com", "10.0.0.1"); !errors.Is(err, apperrors.ErrTooManyAttempts) {
		t.Fatalf("err = %v, want TOO_MANY_ATTEMPTS", err)
	}

	mr.FastForward(2 * time.Minute)

	if err := svc.Allow(ctx, "awa@example.com", "10.0.0.1"); err != nil {
		t.Fatalf("counter survived its window: %v", err)
	}
}

func TestThrottleResetClearsEmailCounter(t *testing.T) {
	svc, _ := throttleWithMiniredis(t, 1, time.Minute)
	ctx := context.Background()

	if err := svc.Allow(ctx, "awa@example.com", ""); err != nil {
		t.Fatal(err)
	}
	svc.Reset(ctx, "awa@example.com")

	if err := svc.Allow(ctx, "awa@example.com", ""); err != nil {
		t.Fatalf("counter not cleared: %v", err)
	}
}

func TestThrottleDisabledIsNoop(t *testing.T) {
	client := pkgredis.NewClient(pkgredis.Config{Enabled: false}, zap.NewNop())
	svc := NewThrottleService(client, 1, time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := svc.Allow(ctx, "awa@example.com", "10.0.0.1"); err != nil {
			t.Fatalf("disabled throttle must allow everything, got %v", err)
		}
	}
}
