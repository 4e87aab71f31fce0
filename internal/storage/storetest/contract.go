// Package storetest holds the behaviour every domain.Store backend must
// satisfy. Backend integration tests call Run against a live store.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"hotel_reviews/internal/domain"
)

// Run exercises s. absentID must be well-formed for the backend but
// reference no hotel; malformedID must not parse as an id at all.
func Run(t *testing.T, s domain.Store, absentID, malformedID string) {
	t.Helper()
	// unique locations keep assertions independent of other rows in the store
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())

	t.Run("CreateAndGetHotel", func(t *testing.T) { createAndGetHotel(t, s) })
	t.Run("GetHotelMissing", func(t *testing.T) { getHotelMissing(t, s, absentID, malformedID) })
	t.Run("ListHotels", func(t *testing.T) { listHotels(t, s, suffix) })
	t.Run("AveragePriceByLocation", func(t *testing.T) { averagePrice(t, s, suffix) })
	t.Run("HotelWithReviews", func(t *testing.T) { hotelWithReviews(t, s, absentID, malformedID) })
	t.Run("ReviewLifecycle", func(t *testing.T) { reviewLifecycle(t, s) })
}

func mustHotel(t *testing.T, s domain.Store, name, loc string, price float64) domain.Hotel {
	t.Helper()
	h, err := s.CreateHotel(context.Background(), domain.NewHotel{Name: name, Location: loc, Price: price, Rooms: 10})
	if err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	return h
}

func mustReview(t *testing.T, s domain.Store, hotelID string, rating float64, comment string) domain.Review {
	t.Helper()
	rv, err := s.CreateReview(context.Background(), domain.NewReview{HotelID: hotelID, Rating: rating, Comment: comment})
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	return rv
}

func createAndGetHotel(t *testing.T, s domain.Store) {
	ctx := context.Background()
	in := domain.NewHotel{Name: "Sunset Resort", Location: "California", Price: 200, Rooms: 50}
	h, err := s.CreateHotel(ctx, in)
	if err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	if h.ID == "" || h.CreatedAt.IsZero() || h.UpdatedAt.IsZero() {
		t.Fatalf("expected id and timestamps: %+v", h)
	}
	if h.Name != in.Name || h.Location != in.Location || h.Price != in.Price || h.Rooms != in.Rooms {
		t.Fatalf("stored fields differ from input: %+v", h)
	}

	got, err := s.GetHotel(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if got.ID != h.ID || got.Name != h.Name || !got.CreatedAt.Equal(h.CreatedAt) {
		t.Fatalf("GetHotel mismatch: got %+v want %+v", got, h)
	}
}

func getHotelMissing(t *testing.T, s domain.Store, absentID, malformedID string) {
	ctx := context.Background()
	if _, err := s.GetHotel(ctx, absentID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("absent id: expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetHotel(ctx, malformedID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("malformed id: expected ErrNotFound, got %v", err)
	}
}

func listHotels(t *testing.T, s domain.Store, suffix string) {
	ctx := context.Background()
	want := map[string]bool{}
	for i := 0; i < 3; i++ {
		h := mustHotel(t, s, fmt.Sprintf("List %d", i), "List-"+suffix, 100)
		want[h.ID] = true
	}
	hs, err := s.ListHotels(ctx)
	if err != nil {
		t.Fatalf("ListHotels: %v", err)
	}
	if len(hs) < 3 {
		t.Fatalf("expected at least 3 hotels, got %d", len(hs))
	}
	for _, h := range hs {
		delete(want, h.ID)
	}
	if len(want) != 0 {
		t.Fatalf("created hotels missing from list: %v", want)
	}
}

func averagePrice(t *testing.T, s domain.Store, suffix string) {
	ctx := context.Background()
	ca := "CA-" + suffix
	mustHotel(t, s, "Cheap", ca, 100)
	mustHotel(t, s, "Dear", ca, 200)

	rows, err := s.AveragePriceByLocation(ctx)
	if err != nil {
		t.Fatalf("AveragePriceByLocation: %v", err)
	}
	found := false
	for i, r := range rows {
		if i > 0 && rows[i-1].AveragePrice > r.AveragePrice {
			t.Fatalf("rows not ascending at %d: %+v", i, rows)
		}
		if r.Location == ca {
			found = true
			if r.AveragePrice != 150 {
				t.Fatalf("expected 150 for %s, got %v", ca, r.AveragePrice)
			}
		}
	}
	if !found {
		t.Fatalf("location %s missing from report", ca)
	}
}

func hotelWithReviews(t *testing.T, s domain.Store, absentID, malformedID string) {
	ctx := context.Background()
	h := mustHotel(t, s, "Joined", "Joinville", 90)
	for _, r := range []float64{4, 5, 3} {
		mustReview(t, s, h.ID, r, "")
	}

	out, err := s.HotelWithReviews(ctx, h.ID)
	if err != nil {
		t.Fatalf("HotelWithReviews: %v", err)
	}
	if len(out) != 1 || out[0].ID != h.ID || len(out[0].Reviews) != 3 {
		t.Fatalf("unexpected join: %+v", out)
	}
	if out[0].AverageRating == nil || *out[0].AverageRating != 4 {
		t.Fatalf("expected average 4, got %v", out[0].AverageRating)
	}

	lonely := mustHotel(t, s, "Lonely", "Nowhere", 10)
	out, err = s.HotelWithReviews(ctx, lonely.ID)
	if err != nil {
		t.Fatalf("HotelWithReviews: %v", err)
	}
	if len(out) != 1 || len(out[0].Reviews) != 0 || out[0].AverageRating != nil {
		t.Fatalf("expected no reviews and nil average: %+v", out)
	}

	out, err = s.HotelWithReviews(ctx, absentID)
	if err != nil || len(out) != 0 {
		t.Fatalf("absent id: expected empty result, got %+v err=%v", out, err)
	}
	if _, err := s.HotelWithReviews(ctx, malformedID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("malformed id: expected ErrNotFound, got %v", err)
	}
}

func reviewLifecycle(t *testing.T, s domain.Store) {
	ctx := context.Background()
	h := mustHotel(t, s, "Sunset Resort", "California", 200)
	rv := mustReview(t, s, h.ID, 5, "Amazing experience!")
	if rv.ID == "" || rv.HotelID != h.ID || rv.Rating != 5 || rv.Comment != "Amazing experience!" {
		t.Fatalf("unexpected review: %+v", rv)
	}

	got, err := s.GetReview(ctx, rv.ID)
	if err != nil || got.HotelID != h.ID {
		t.Fatalf("GetReview: %+v err=%v", got, err)
	}
	byHotel, err := s.ListReviewsByHotel(ctx, h.ID)
	if err != nil || len(byHotel) != 1 || byHotel[0].ID != rv.ID {
		t.Fatalf("ListReviewsByHotel: %+v err=%v", byHotel, err)
	}

	if err := s.DeleteReview(ctx, rv.ID); err != nil {
		t.Fatalf("DeleteReview: %v", err)
	}
	if _, err := s.GetReview(ctx, rv.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteReview(ctx, rv.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}
