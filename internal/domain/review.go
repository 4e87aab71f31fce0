package domain

import "time"

type Review struct {
	ID        string    `json:"id"`
	HotelID   string    `json:"hotelId"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NewReview struct {
	HotelID string
	Rating  float64
	Comment string
}

// AverageRating returns the mean rating of rs, or nil for an empty set.
func AverageRating(rs []Review) *float64 {
	if len(rs) == 0 {
		return nil
	}
	var sum float64
	for _, r := range rs {
		sum += r.Rating
	}
	avg := sum / float64(len(rs))
	return &avg
}
