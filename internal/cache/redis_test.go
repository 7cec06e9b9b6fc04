package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/makpal80/avtoray/internal/cache"
	"github.com/makpal80/avtoray/internal/models"
	"github.com/makpal80/avtoray/internal/pkg/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newClient(t *testing.T) *cache.RedisClient {
	t.Helper()
	addr := testutil.SetupTestRedis(t)
	c, err := cache.NewRedisClient(addr, "", 0, time.Minute, zap.NewNop())
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestProductsCache(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	if _, hit, err := c.GetProducts(ctx); err != nil || hit {
		t.Fatalf("empty cache: hit=%v err=%v", hit, err)
	}

	p := models.Product{ID: uuid.New(), Name: "Фильтр", Price: 5000, DiscountPercent: 10, Active: true,
		Variants: []models.ProductVariant{{ID: uuid.New(), Name: "Красный"}}}
	if err := c.SetProducts(ctx, []models.Product{p}); err != nil {
		t.Fatalf("SetProducts: %v", err)
	}

	got, hit, err := c.GetProducts(ctx)
	if err != nil || !hit || len(got) != 1 {
		t.Fatalf("GetProducts: %v %v %v", got, hit, err)
	}
	if got[0].ID != p.ID || got[0].Price != 5000 || len(got[0].Variants) != 1 {
		t.Fatalf("cached product mismatch: %+v", got[0])
	}

	if err := c.InvalidateProducts(ctx); err != nil {
		t.Fatalf("InvalidateProducts: %v", err)
	}
	if _, hit, _ := c.GetProducts(ctx); hit {
		t.Fatal("cache must be empty after invalidation")
	}
}

func TestRateLimiter(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()
	key := "login:fail:77011234567"

	for i := 1; i <= 3; i++ {
		n, err := c.Hit(ctx, key, time.Minute)
		if err != nil || n != int64(i) {
			t.Fatalf("Hit #%d: %d %v", i, n, err)
		}
	}
	if n, err := c.Count(ctx, key); err != nil || n != 3 {
		t.Fatalf("Count: %d %v", n, err)
	}
	if err := c.Reset(ctx, key); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if n, _ := c.Count(ctx, key); n != 0 {
		t.Fatalf("Count after reset = %d", n)
	}
}
