package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hotel_reviews/internal/adapters/observability"
	"hotel_reviews/internal/domain"
)

type Repo struct {
	db      *mongo.Database
	hotels  *mongo.Collection
	reviews *mongo.Collection
}

func New(db *mongo.Database) *Repo {
	return &Repo{
		db:      db,
		hotels:  db.Collection(hotelsCollection),
		reviews: db.Collection(reviewsCollection),
	}
}

// Connect dials uri, verifies the connection and returns a Repo on dbName.
func Connect(ctx context.Context, uri, dbName string) (*Repo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return New(client.Database(dbName)), nil
}

func (r *Repo) Close(ctx context.Context) error { return r.db.Client().Disconnect(ctx) }

// EnsureIndexes creates the secondary indexes the queries rely on.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	if _, err := r.reviews.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "hotelId", Value: 1}},
	}); err != nil {
		return fmt.Errorf("index reviews.hotelId: %w", err)
	}
	if _, err := r.hotels.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "location", Value: 1}},
	}); err != nil {
		return fmt.Errorf("index hotels.location: %w", err)
	}
	return nil
}

func observe(op string, start time.Time, err *error) {
	result := "ok"
	switch {
	case *err == nil:
	case errors.Is(*err, domain.ErrNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	observability.ObserveStore("mongo", op, result, time.Since(start))
}

// objectID parses a hex id; anything malformed is reported as not found.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("id %q: %w", id, domain.ErrNotFound)
	}
	return oid, nil
}

/********** hotels **********/

func (r *Repo) CreateHotel(ctx context.Context, h domain.NewHotel) (_ domain.Hotel, err error) {
	defer observe("create_hotel", time.Now(), &err)

	ts := now()
	doc := hotelDoc{
		Name:      h.Name,
		Location:  h.Location,
		Price:     h.Price,
		Rooms:     h.Rooms,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	res, err := r.hotels.InsertOne(ctx, doc)
	if err != nil {
		return domain.Hotel{}, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *Repo) GetHotel(ctx context.Context, id string) (_ domain.Hotel, err error) {
	defer observe("get_hotel", time.Now(), &err)

	oid, err := objectID(id)
	if err != nil {
		return domain.Hotel{}, err
	}
	var doc hotelDoc
	if err := r.hotels.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Hotel{}, fmt.Errorf("hotel %s: %w", id, domain.ErrNotFound)
		}
		return domain.Hotel{}, err
	}
	return doc.toDomain(), nil
}

func (r *Repo) ListHotels(ctx context.Context) (_ []domain.Hotel, err error) {
	defer observe("list_hotels", time.Now(), &err)

	cur, err := r.hotels.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var docs []hotelDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Hotel, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *Repo) AveragePriceByLocation(ctx context.Context) (_ []domain.LocationPrice, err error) {
	defer observe("average_price_by_location", time.Now(), &err)

	cur, err := r.hotels.Aggregate(ctx, averagePriceByLocationPipeline)
	if err != nil {
		return nil, err
	}
	var docs []locationPriceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.LocationPrice, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.LocationPrice{Location: d.Location, AveragePrice: d.AveragePrice})
	}
	return out, nil
}

func (r *Repo) HotelWithReviews(ctx context.Context, id string) (_ []domain.HotelReviews, err error) {
	defer observe("hotel_with_reviews", time.Now(), &err)

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	cur, err := r.hotels.Aggregate(ctx, hotelWithReviewsPipeline(oid))
	if err != nil {
		return nil, err
	}
	var docs []hotelReviewsDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.HotelReviews, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.HotelReviews{
			Hotel:         d.Hotel.toDomain(),
			Reviews:       reviewsToDomain(d.Reviews),
			AverageRating: d.AverageRating,
		})
	}
	return out, nil
}

/********** reviews **********/

func (r *Repo) CreateReview(ctx context.Context, rv domain.NewReview) (_ domain.Review, err error) {
	defer observe("create_review", time.Now(), &err)

	hid, err := objectID(rv.HotelID)
	if err != nil {
		return domain.Review{}, err
	}
	ts := now()
	doc := reviewDoc{
		HotelID:   hid,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	res, err := r.reviews.InsertOne(ctx, doc)
	if err != nil {
		return domain.Review{}, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *Repo) GetReview(ctx context.Context, id string) (_ domain.Review, err error) {
	defer observe("get_review", time.Now(), &err)

	oid, err := objectID(id)
	if err != nil {
		return domain.Review{}, err
	}
	var doc reviewDoc
	if err := r.reviews.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Review{}, fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
		}
		return domain.Review{}, err
	}
	return doc.toDomain(), nil
}

func (r *Repo) ListReviewsByHotel(ctx context.Context, hotelID string) (_ []domain.Review, err error) {
	defer observe("list_reviews_by_hotel", time.Now(), &err)

	hid, err := objectID(hotelID)
	if err != nil {
		return nil, err
	}
	cur, err := r.reviews.Find(ctx, bson.D{{Key: "hotelId", Value: hid}})
	if err != nil {
		return nil, err
	}
	var docs []reviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return reviewsToDomain(docs), nil
}

func (r *Repo) DeleteReview(ctx context.Context, id string) (err error) {
	defer observe("delete_review", time.Now(), &err)

	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.reviews.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
