package app

import (
	"context"
	"time"

	"hotel_reviews/internal/domain"
)

const msgHotelFieldsRequired = "All fields are required"

type CreateHotelInput struct {
	Name     string  `json:"name" validate:"required"`
	Location string  `json:"location" validate:"required"`
	Price    float64 `json:"price" validate:"required"`
	Rooms    float64 `json:"rooms" validate:"required"`
}

type HotelService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewHotelService wires the hotel use cases. c may be nil to disable caching.
func NewHotelService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *HotelService {
	return &HotelService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *HotelService) Create(ctx context.Context, in CreateHotelInput) (domain.Hotel, error) {
	if err := validateInput(in, msgHotelFieldsRequired); err != nil {
		return domain.Hotel{}, err
	}
	h, err := s.repo.CreateHotel(ctx, domain.NewHotel{
		Name:     in.Name,
		Location: in.Location,
		Price:    in.Price,
		Rooms:    in.Rooms,
	})
	if err != nil {
		return domain.Hotel{}, storageErr("create hotel", err)
	}
	// a new hotel changes the list and may move any location's average
	evict(ctx, s.cache, keyHotelList, keyAvgPrice)
	return h, nil
}

// List returns every hotel in store order. Never nil.
func (s *HotelService) List(ctx context.Context) ([]domain.Hotel, error) {
	return readThrough(ctx, s.cache, s.cacheTTL, keyHotelList, func() ([]domain.Hotel, error) {
		hs, err := s.repo.ListHotels(ctx)
		if err != nil {
			return nil, storageErr("list hotels", err)
		}
		if hs == nil {
			hs = []domain.Hotel{}
		}
		return hs, nil
	})
}

// AveragePriceByLocation returns the mean price per location, cheapest first.
func (s *HotelService) AveragePriceByLocation(ctx context.Context) ([]domain.LocationPrice, error) {
	return readThrough(ctx, s.cache, s.cacheTTL, keyAvgPrice, func() ([]domain.LocationPrice, error) {
		rows, err := s.repo.AveragePriceByLocation(ctx)
		if err != nil {
			return nil, storageErr("average price by location", err)
		}
		if rows == nil {
			rows = []domain.LocationPrice{}
		}
		return rows, nil
	})
}

// WithReviews returns the hotel joined with its reviews as a zero-or-one
// element slice. A malformed id yields domain.ErrNotFound.
func (s *HotelService) WithReviews(ctx context.Context, id string) ([]domain.HotelReviews, error) {
	key := hotelReviewsKey(id)
	return readThrough(ctx, s.cache, s.cacheTTL, key, func() ([]domain.HotelReviews, error) {
		out, err := s.repo.HotelWithReviews(ctx, id)
		if err != nil {
			return nil, storageErr("hotel with reviews", err)
		}
		if out == nil {
			out = []domain.HotelReviews{}
		}
		for i := range out {
			if out[i].Reviews == nil {
				out[i].Reviews = []domain.Review{}
			}
		}
		return out, nil
	})
}
