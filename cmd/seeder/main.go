package main

import (
	"context"
	"flag"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_reviews/internal/adapters/catalog"
	"hotel_reviews/internal/adapters/observability"
	redisad "hotel_reviews/internal/adapters/redis"
	"hotel_reviews/internal/app"
	"hotel_reviews/internal/domain"
	"hotel_reviews/internal/shared"
	"hotel_reviews/internal/storage"
)

func main() {
	source := flag.String("catalog", "catalog.json", "catalog file path or http(s) URL")
	flag.Parse()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)
	for _, w := range cfg.Warnings() {
		log.Warn().Msg(w)
	}

	os.Exit(run(context.Background(), cfg, *source))
}

// run seeds every catalog entry and returns the process exit code. Deferred
// cleanup runs before main exits.
func run(ctx context.Context, cfg shared.Config, source string) int {
	log.Info().
		Str("catalog", source).
		Str("backend", cfg.StoreBackend).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	store, err := storage.Open(openCtx, cfg)
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("store open failed")
		return 1
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("store close failed")
		}
	}()

	// seeded writes must evict whatever the API has cached
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}

	hotels := app.NewHotelService(store, cache, cfg.CacheTTL())
	reviews := app.NewReviewService(store, store, cache)
	seed := app.NewSeedService(catalog.New(cfg.SeedRPS), hotels, reviews)

	entries, err := seed.Catalog(ctx, source)
	if err != nil {
		log.Error().Err(err).Msg("catalog load failed")
		return 1
	}

	workers := cfg.SeedWorkers
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var okHotels, okReviews, failed atomic.Int64

	for i, entry := range entries {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Error().Err(err).Msg("semaphore acquire failed")
			break
		}

		wg.Add(1)
		go func(idx int, e map[string]any) {
			defer wg.Done()
			defer sem.Release(1)

			h, n, err := seed.SeedHotel(ctx, e)
			okReviews.Add(int64(n))
			if err != nil {
				failed.Add(1)
				log.Warn().Int("index", idx).Str("hotel_id", h.ID).Err(err).Msg("seed failed")
				return
			}
			okHotels.Add(1)
			log.Debug().Int("index", idx).Str("hotel_id", h.ID).Int("reviews", n).Msg("seed ok")
		}(i, entry)
	}

	wg.Wait()
	log.Info().
		Int64("hotels", okHotels.Load()).
		Int64("reviews", okReviews.Load()).
		Int64("failed", failed.Load()).
		Msg("seeding completed")
	if failed.Load() > 0 || ctx.Err() != nil {
		return 1
	}
	return 0
}
