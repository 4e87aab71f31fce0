package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"hotel_reviews/internal/domain"
)

// SeedService loads a catalog of hotels with nested reviews through the
// regular services, so seeded data obeys the same validation and
// existence checks as API traffic.
type SeedService struct {
	source  domain.CatalogSource
	hotels  *HotelService
	reviews *ReviewService
}

func NewSeedService(src domain.CatalogSource, h *HotelService, r *ReviewService) *SeedService {
	return &SeedService{source: src, hotels: h, reviews: r}
}

func (s *SeedService) Catalog(ctx context.Context, location string) ([]map[string]any, error) {
	entries, err := s.source.FetchCatalog(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog %s: %w", location, err)
	}
	return entries, nil
}

// SeedHotel creates one catalog hotel and then its reviews. It returns the
// stored hotel and how many reviews were written. Reviews that fail
// validation are skipped; any other review failure stops the entry.
func (s *SeedService) SeedHotel(ctx context.Context, entry map[string]any) (domain.Hotel, int, error) {
	h, err := s.hotels.Create(ctx, mapCatalogHotel(entry))
	if err != nil {
		return domain.Hotel{}, 0, err
	}

	written := 0
	for i, in := range mapCatalogReviews(h.ID, entry) {
		if _, err := s.reviews.Create(ctx, in); err != nil {
			if errors.Is(err, domain.ErrValidation) {
				log.Warn().Err(err).
					Str("hotel_id", h.ID).
					Int("index", i).
					Msg("skipping invalid catalog review")
				continue
			}
			return h, written, fmt.Errorf("seed reviews for %s: %w", h.ID, err)
		}
		written++
	}
	return h, written, nil
}
