package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"hotel_reviews/internal/domain"
)

// ---- in-memory store ----

type fakeStore struct {
	mu      sync.Mutex
	hotels  []domain.Hotel
	reviews []domain.Review
	seq     int
	calls   map[string]int
	failOn  map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{calls: map[string]int{}, failOn: map[string]error{}}
}

func (f *fakeStore) hit(op string) error {
	f.calls[op]++
	return f.failOn[op]
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq)
}

func (f *fakeStore) CreateHotel(ctx context.Context, h domain.NewHotel) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("CreateHotel"); err != nil {
		return domain.Hotel{}, err
	}
	now := time.Now().UTC()
	out := domain.Hotel{
		ID: f.nextID("h"), Name: h.Name, Location: h.Location,
		Price: h.Price, Rooms: h.Rooms, CreatedAt: now, UpdatedAt: now,
	}
	f.hotels = append(f.hotels, out)
	return out, nil
}

func (f *fakeStore) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("GetHotel"); err != nil {
		return domain.Hotel{}, err
	}
	for _, h := range f.hotels {
		if h.ID == id {
			return h, nil
		}
	}
	return domain.Hotel{}, domain.ErrNotFound
}

func (f *fakeStore) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("ListHotels"); err != nil {
		return nil, err
	}
	return append([]domain.Hotel(nil), f.hotels...), nil
}

func (f *fakeStore) AveragePriceByLocation(ctx context.Context) ([]domain.LocationPrice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("AveragePriceByLocation"); err != nil {
		return nil, err
	}
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, h := range f.hotels {
		sums[h.Location] += h.Price
		counts[h.Location]++
	}
	var out []domain.LocationPrice
	for loc, sum := range sums {
		out = append(out, domain.LocationPrice{Location: loc, AveragePrice: sum / float64(counts[loc])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AveragePrice < out[j].AveragePrice })
	return out, nil
}

func (f *fakeStore) HotelWithReviews(ctx context.Context, id string) ([]domain.HotelReviews, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("HotelWithReviews"); err != nil {
		return nil, err
	}
	for _, h := range f.hotels {
		if h.ID != id {
			continue
		}
		var rs []domain.Review
		for _, r := range f.reviews {
			if r.HotelID == id {
				rs = append(rs, r)
			}
		}
		return []domain.HotelReviews{{Hotel: h, Reviews: rs, AverageRating: domain.AverageRating(rs)}}, nil
	}
	return nil, nil
}

func (f *fakeStore) CreateReview(ctx context.Context, r domain.NewReview) (domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("CreateReview"); err != nil {
		return domain.Review{}, err
	}
	now := time.Now().UTC()
	out := domain.Review{
		ID: f.nextID("r"), HotelID: r.HotelID, Rating: r.Rating,
		Comment: r.Comment, CreatedAt: now, UpdatedAt: now,
	}
	f.reviews = append(f.reviews, out)
	return out, nil
}

func (f *fakeStore) GetReview(ctx context.Context, id string) (domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviews {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Review{}, domain.ErrNotFound
}

func (f *fakeStore) ListReviewsByHotel(ctx context.Context, hotelID string) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Review
	for _, r := range f.reviews {
		if r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteReview(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.reviews {
		if r.ID == id {
			f.reviews = append(f.reviews[:i], f.reviews[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ---- cache storing JSON like the redis adapter ----

type fakeCache struct {
	store map[string][]byte
	dels  []string
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

func ptr(v float64) *float64 { return &v }
