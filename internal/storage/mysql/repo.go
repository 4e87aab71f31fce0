package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"hotel_reviews/internal/adapters/observability"
	"hotel_reviews/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Close(ctx context.Context) error { return r.db.Close() }

// EnsureSchema creates the tables when they do not exist yet.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaSQL {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
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
	observability.ObserveStore("mysql", op, result, time.Since(start))
}

// canonicalID normalises a UUID; anything malformed is reported as not found.
func canonicalID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("id %q: %w", id, domain.ErrNotFound)
	}
	return u.String(), nil
}

type scanner interface{ Scan(dest ...any) error }

func scanHotel(s scanner) (domain.Hotel, error) {
	var h domain.Hotel
	err := s.Scan(&h.ID, &h.Name, &h.Location, &h.Price, &h.Rooms, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

func scanReview(s scanner) (domain.Review, error) {
	var rv domain.Review
	var comment sql.NullString
	if err := s.Scan(&rv.ID, &rv.HotelID, &rv.Rating, &comment, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		return domain.Review{}, err
	}
	rv.Comment = comment.String
	return rv, nil
}

/********** hotels **********/

func (r *Repo) CreateHotel(ctx context.Context, h domain.NewHotel) (_ domain.Hotel, err error) {
	defer observe("create_hotel", time.Now(), &err)

	id := uuid.NewString()
	if _, err := r.db.ExecContext(ctx, insertHotelSQL, id, h.Name, h.Location, h.Price, h.Rooms); err != nil {
		return domain.Hotel{}, err
	}
	// read back so timestamps come from the store
	return scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
}

func (r *Repo) GetHotel(ctx context.Context, id string) (_ domain.Hotel, err error) {
	defer observe("get_hotel", time.Now(), &err)

	cid, err := canonicalID(id)
	if err != nil {
		return domain.Hotel{}, err
	}
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, cid))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hotel{}, fmt.Errorf("hotel %s: %w", id, domain.ErrNotFound)
	}
	return h, err
}

func (r *Repo) ListHotels(ctx context.Context) (_ []domain.Hotel, err error) {
	defer observe("list_hotels", time.Now(), &err)

	rows, err := r.db.QueryContext(ctx, listHotelsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) AveragePriceByLocation(ctx context.Context) (_ []domain.LocationPrice, err error) {
	defer observe("average_price_by_location", time.Now(), &err)

	rows, err := r.db.QueryContext(ctx, averagePriceByLocationSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.LocationPrice{}
	for rows.Next() {
		var lp domain.LocationPrice
		if err := rows.Scan(&lp.Location, &lp.AveragePrice); err != nil {
			return nil, err
		}
		out = append(out, lp)
	}
	return out, rows.Err()
}

// HotelWithReviews loads the hotel row and its reviews concurrently and
// averages the ratings.
func (r *Repo) HotelWithReviews(ctx context.Context, id string) (_ []domain.HotelReviews, err error) {
	defer observe("hotel_with_reviews", time.Now(), &err)

	cid, err := canonicalID(id)
	if err != nil {
		return nil, err
	}

	var (
		h       domain.Hotel
		found   bool
		reviews []domain.Review
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var e error
		h, e = scanHotel(r.db.QueryRowContext(gctx, getHotelSQL, cid))
		if errors.Is(e, sql.ErrNoRows) {
			return nil
		}
		found = e == nil
		return e
	})
	g.Go(func() error {
		var e error
		reviews, e = r.listReviews(gctx, cid)
		return e
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !found {
		return []domain.HotelReviews{}, nil
	}
	return []domain.HotelReviews{{
		Hotel:         h,
		Reviews:       reviews,
		AverageRating: domain.AverageRating(reviews),
	}}, nil
}

/********** reviews **********/

func (r *Repo) CreateReview(ctx context.Context, rv domain.NewReview) (_ domain.Review, err error) {
	defer observe("create_review", time.Now(), &err)

	hid, err := canonicalID(rv.HotelID)
	if err != nil {
		return domain.Review{}, err
	}
	id := uuid.NewString()
	if _, err := r.db.ExecContext(ctx, insertReviewSQL, id, hid, rv.Rating, valStr(rv.Comment)); err != nil {
		return domain.Review{}, err
	}
	return scanReview(r.db.QueryRowContext(ctx, getReviewSQL, id))
}

func (r *Repo) GetReview(ctx context.Context, id string) (_ domain.Review, err error) {
	defer observe("get_review", time.Now(), &err)

	cid, err := canonicalID(id)
	if err != nil {
		return domain.Review{}, err
	}
	rv, err := scanReview(r.db.QueryRowContext(ctx, getReviewSQL, cid))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Review{}, fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
	}
	return rv, err
}

func (r *Repo) ListReviewsByHotel(ctx context.Context, hotelID string) (_ []domain.Review, err error) {
	defer observe("list_reviews_by_hotel", time.Now(), &err)

	hid, err := canonicalID(hotelID)
	if err != nil {
		return nil, err
	}
	return r.listReviews(ctx, hid)
}

func (r *Repo) listReviews(ctx context.Context, hotelID string) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsByHotelSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteReview(ctx context.Context, id string) (err error) {
	defer observe("delete_review", time.Now(), &err)

	cid, err := canonicalID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, deleteReviewSQL, cid)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
