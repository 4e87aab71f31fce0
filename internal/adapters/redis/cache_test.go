package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "hotel_reviews/internal/adapters/redis"
	"hotel_reviews/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	var miss []domain.LocationPrice
	ok, err := c.Get(ctx, "hotels:avg-price", &miss)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	in := []domain.LocationPrice{{Location: "CA", AveragePrice: 150}}
	if err := c.Set(ctx, "hotels:avg-price", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("hotel_reviews:hotels:avg-price"); ttl != time.Minute {
		t.Fatalf("expected 60s ttl, got %s", ttl)
	}

	var out []domain.LocationPrice
	ok, err = c.Get(ctx, "hotels:avg-price", &out)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(out) != 1 || out[0] != in[0] {
		t.Fatalf("unexpected cached value: %+v", out)
	}

	if err := c.Del(ctx, "hotels:avg-price"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("hotel_reviews:hotels:avg-price") {
		t.Fatalf("key should be gone")
	}
}

func TestCache_Expiry(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "hotels:list", []domain.Hotel{{ID: "h1", Name: "A"}}, 5); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(6 * time.Second)

	var out []domain.Hotel
	if ok, _ := c.Get(ctx, "hotels:list", &out); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestCache_CorruptEntryIsError(t *testing.T) {
	c, mr := newCache(t)
	if err := mr.Set("hotel_reviews:hotels:list", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var out []domain.Hotel
	ok, err := c.Get(context.Background(), "hotels:list", &out)
	if ok || err == nil {
		t.Fatalf("expected decode error, got ok=%v err=%v", ok, err)
	}
}
