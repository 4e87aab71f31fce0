package domain

import "time"

type Hotel struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Price     float64   `json:"price"`
	Rooms     float64   `json:"rooms"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewHotel is the write model; the store assigns ID and timestamps.
type NewHotel struct {
	Name     string
	Location string
	Price    float64
	Rooms    float64
}

// LocationPrice is one row of the average-price-per-location report.
type LocationPrice struct {
	Location     string  `json:"location"`
	AveragePrice float64 `json:"averagePrice"`
}

// HotelReviews is a hotel joined with all reviews that reference it.
// AverageRating is nil when the hotel has no reviews.
type HotelReviews struct {
	Hotel
	Reviews       []Review `json:"reviews"`
	AverageRating *float64 `json:"averageRating"`
}
