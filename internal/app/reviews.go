package app

import (
	"context"
	"errors"
	"fmt"

	"hotel_reviews/internal/domain"
)

const msgReviewFieldsRequired = "Hotel ID and rating are required"

// CreateReviewInput.Rating is a pointer so an absent rating is told apart
// from a rating of 0.
type CreateReviewInput struct {
	HotelID string   `json:"hotelId" validate:"required"`
	Rating  *float64 `json:"rating" validate:"required"`
	Comment string   `json:"comment"`
}

type ReviewService struct {
	hotels  domain.HotelRepository
	reviews domain.ReviewRepository
	cache   domain.Cache
}

func NewReviewService(h domain.HotelRepository, r domain.ReviewRepository, c domain.Cache) *ReviewService {
	return &ReviewService{hotels: h, reviews: r, cache: c}
}

// Create stores a review for an existing hotel. The hotel is checked here,
// not by the store, so a hotel removed between check and insert leaves an
// orphaned review.
func (s *ReviewService) Create(ctx context.Context, in CreateReviewInput) (domain.Review, error) {
	if err := validateInput(in, msgReviewFieldsRequired); err != nil {
		return domain.Review{}, err
	}
	if _, err := s.hotels.GetHotel(ctx, in.HotelID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Review{}, fmt.Errorf("hotel %q: %w", in.HotelID, domain.ErrNotFound)
		}
		return domain.Review{}, storageErr("get hotel", err)
	}
	rv, err := s.reviews.CreateReview(ctx, domain.NewReview{
		HotelID: in.HotelID,
		Rating:  *in.Rating,
		Comment: in.Comment,
	})
	if err != nil {
		return domain.Review{}, storageErr("create review", err)
	}
	keys := []string{hotelReviewsKey(rv.HotelID)}
	if k := hotelReviewsKey(in.HotelID); k != keys[0] {
		keys = append(keys, k)
	}
	evict(ctx, s.cache, keys...)
	return rv, nil
}
