package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_reviews/internal/domain"
)

const (
	keyHotelList     = "hotels:list"
	keyAvgPrice      = "hotels:avg-price"
	keyHotelReviewsF = "hotel:%s:reviews"
)

// hotelReviewsKey folds the spellings a store accepts for one id (hex case,
// braced or undashed UUIDs) onto a single cache key.
func hotelReviewsKey(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		id = u.String()
	}
	return fmt.Sprintf(keyHotelReviewsF, strings.ToLower(id))
}

// readThrough serves key from cache when possible and stores fresh loads.
// A nil cache or a cache error degrades to a plain load.
func readThrough[T any](ctx context.Context, c domain.Cache, ttl time.Duration, key string, load func() (T, error)) (T, error) {
	if c != nil {
		var hit T
		if ok, err := c.Get(ctx, key, &hit); err == nil && ok {
			return hit, nil
		} else if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	if c != nil {
		if err := c.Set(ctx, key, v, int(ttl.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return v, nil
}

func evict(ctx context.Context, c domain.Cache, keys ...string) {
	if c == nil {
		return
	}
	for _, k := range keys {
		if err := c.Del(ctx, k); err != nil {
			log.Warn().Err(err).Str("key", k).Msg("cache evict failed")
		}
	}
}
