// Package memory is a process-local domain.Store for development and tests.
// It follows the same id and ordering rules as the MySQL backend.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"hotel_reviews/internal/domain"
)

type Store struct {
	mu      sync.RWMutex
	hotels  []domain.Hotel
	reviews []domain.Review
	now     func() time.Time
}

func New() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Close(ctx context.Context) error { return nil }

func canonicalID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("id %q: %w", id, domain.ErrNotFound)
	}
	return u.String(), nil
}

func (s *Store) CreateHotel(ctx context.Context, h domain.NewHotel) (domain.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.now()
	out := domain.Hotel{
		ID:        uuid.NewString(),
		Name:      h.Name,
		Location:  h.Location,
		Price:     h.Price,
		Rooms:     h.Rooms,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	s.hotels = append(s.hotels, out)
	return out, nil
}

func (s *Store) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	cid, err := canonicalID(id)
	if err != nil {
		return domain.Hotel{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if h, ok := s.findHotel(cid); ok {
		return h, nil
	}
	return domain.Hotel{}, fmt.Errorf("hotel %s: %w", id, domain.ErrNotFound)
}

func (s *Store) findHotel(id string) (domain.Hotel, bool) {
	for _, h := range s.hotels {
		if h.ID == id {
			return h, true
		}
	}
	return domain.Hotel{}, false
}

func (s *Store) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Hotel{}, s.hotels...), nil
}

func (s *Store) AveragePriceByLocation(ctx context.Context) ([]domain.LocationPrice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type acc struct {
		sum float64
		n   int
	}
	var order []string
	groups := map[string]*acc{}
	for _, h := range s.hotels {
		a, ok := groups[h.Location]
		if !ok {
			a = &acc{}
			groups[h.Location] = a
			order = append(order, h.Location)
		}
		a.sum += h.Price
		a.n++
	}
	out := make([]domain.LocationPrice, 0, len(order))
	for _, loc := range order {
		a := groups[loc]
		out = append(out, domain.LocationPrice{Location: loc, AveragePrice: a.sum / float64(a.n)})
	}
	// ties keep first-seen order
	sort.SliceStable(out, func(i, j int) bool { return out[i].AveragePrice < out[j].AveragePrice })
	return out, nil
}

func (s *Store) HotelWithReviews(ctx context.Context, id string) ([]domain.HotelReviews, error) {
	cid, err := canonicalID(id)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.findHotel(cid)
	if !ok {
		return []domain.HotelReviews{}, nil
	}
	rs := s.reviewsOf(cid)
	return []domain.HotelReviews{{Hotel: h, Reviews: rs, AverageRating: domain.AverageRating(rs)}}, nil
}

func (s *Store) CreateReview(ctx context.Context, r domain.NewReview) (domain.Review, error) {
	hid, err := canonicalID(r.HotelID)
	if err != nil {
		return domain.Review{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.now()
	out := domain.Review{
		ID:        uuid.NewString(),
		HotelID:   hid,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	s.reviews = append(s.reviews, out)
	return out, nil
}

func (s *Store) GetReview(ctx context.Context, id string) (domain.Review, error) {
	cid, err := canonicalID(id)
	if err != nil {
		return domain.Review{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reviews {
		if r.ID == cid {
			return r, nil
		}
	}
	return domain.Review{}, fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
}

func (s *Store) ListReviewsByHotel(ctx context.Context, hotelID string) ([]domain.Review, error) {
	hid, err := canonicalID(hotelID)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reviewsOf(hid), nil
}

func (s *Store) reviewsOf(hotelID string) []domain.Review {
	out := []domain.Review{}
	for _, r := range s.reviews {
		if r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) DeleteReview(ctx context.Context, id string) error {
	cid, err := canonicalID(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.reviews {
		if r.ID == cid {
			s.reviews = append(s.reviews[:i], s.reviews[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
}
