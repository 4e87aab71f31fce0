package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hotel_reviews/internal/domain"
)

type hotelDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Location  string             `bson:"location"`
	Price     float64            `bson:"price"`
	Rooms     float64            `bson:"rooms"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type reviewDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	HotelID   primitive.ObjectID `bson:"hotelId"`
	Rating    float64            `bson:"rating"`
	Comment   string             `bson:"comment,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// hotelReviewsDoc is the shape produced by hotelWithReviewsPipeline. The
// hotel is a named field: the bson codec drops anonymous fields of
// unexported type.
type hotelReviewsDoc struct {
	Hotel         hotelDoc    `bson:",inline"`
	Reviews       []reviewDoc `bson:"reviews"`
	AverageRating *float64    `bson:"averageRating"`
}

type locationPriceDoc struct {
	Location     string  `bson:"_id"`
	AveragePrice float64 `bson:"averagePrice"`
}

func (d hotelDoc) toDomain() domain.Hotel {
	return domain.Hotel{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Location:  d.Location,
		Price:     d.Price,
		Rooms:     d.Rooms,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (d reviewDoc) toDomain() domain.Review {
	return domain.Review{
		ID:        d.ID.Hex(),
		HotelID:   d.HotelID.Hex(),
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func reviewsToDomain(ds []reviewDoc) []domain.Review {
	out := make([]domain.Review, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.toDomain())
	}
	return out
}

// now matches BSON datetime precision so returned records equal stored ones.
func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }
