package domain

import "context"

type HotelRepository interface {
	CreateHotel(ctx context.Context, h NewHotel) (Hotel, error)
	// GetHotel returns ErrNotFound for an absent or malformed id.
	GetHotel(ctx context.Context, id string) (Hotel, error)
	ListHotels(ctx context.Context) ([]Hotel, error)

	// Aggregations
	AveragePriceByLocation(ctx context.Context) ([]LocationPrice, error)
	// HotelWithReviews yields zero or one element; a malformed id is ErrNotFound.
	HotelWithReviews(ctx context.Context, id string) ([]HotelReviews, error)
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, r NewReview) (Review, error)
	GetReview(ctx context.Context, id string) (Review, error)
	ListReviewsByHotel(ctx context.Context, hotelID string) ([]Review, error)
	DeleteReview(ctx context.Context, id string) error
}

// Store is what a persistence backend provides.
type Store interface {
	HotelRepository
	ReviewRepository
	Close(ctx context.Context) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// CatalogSource fetches a seed catalog as loosely typed hotel entries.
type CatalogSource interface {
	FetchCatalog(ctx context.Context, location string) ([]map[string]any, error)
}
