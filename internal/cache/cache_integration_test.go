//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/groupfund/groupfund/internal/testutil"
)

func newCacheTestEnv(t *testing.T) (context.Context, *Cache) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	c, err := New(ctx, redisURL, time.Minute)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
	return ctx, c
}

func TestIntegrationSummaryCache_GenerationInvalidation(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	_, gen, hit, err := c.GetSummary(ctx)
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	if hit {
		t.Fatal("expected miss on empty cache")
	}

	if err := c.SetSummary(ctx, gen, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("SetSummary failed: %v", err)
	}

	data, _, hit, err := c.GetSummary(ctx)
	if err != nil || !hit || string(data) != `{"v":1}` {
		t.Fatalf("expected hit, got hit=%v data=%s err=%v", hit, data, err)
	}

	if err := c.InvalidateSummary(ctx); err != nil {
		t.Fatalf("InvalidateSummary failed: %v", err)
	}
	_, newGen, hit, err := c.GetSummary(ctx)
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	if hit {
		t.Error("expected miss after invalidation")
	}
	if newGen != gen+1 {
		t.Errorf("generation = %d, want %d", newGen, gen+1)
	}

	// A summary computed before the invalidation stays invisible.
	if err := c.SetSummary(ctx, gen, []byte(`{"v":"stale"}`)); err != nil {
		t.Fatalf("SetSummary failed: %v", err)
	}
	if _, _, hit, _ := c.GetSummary(ctx); hit {
		t.Error("stale summary must not be served")
	}
}

func TestIntegrationRateLimit_WriteBucket(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	for i := 0; i < 3; i++ {
		res, err := c.CheckWriteRateLimit(ctx, "10.0.0.1", 1, 3)
		if err != nil {
			t.Fatalf("CheckWriteRateLimit failed: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	res, err := c.CheckWriteRateLimit(ctx, "10.0.0.1", 1, 3)
	if err != nil {
		t.Fatalf("CheckWriteRateLimit failed: %v", err)
	}
	if res.Allowed {
		t.Error("fourth request should be limited")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, want > 0", res.RetryAfter)
	}

	other, err := c.CheckWriteRateLimit(ctx, "10.0.0.2", 1, 3)
	if err != nil || !other.Allowed {
		t.Errorf("other IP should have its own bucket: %+v, %v", other, err)
	}
}
