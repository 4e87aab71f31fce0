package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "hotel_reviews/internal/adapters/http_server"
	redisad "hotel_reviews/internal/adapters/redis"
	"hotel_reviews/internal/app"
	"hotel_reviews/internal/domain"
	"hotel_reviews/internal/storage/memory"
)

// =============================================================================
// Test helpers
// =============================================================================

func newRouter(store domain.Store, cache domain.Cache) http.Handler {
	srv := server.New(5 * time.Second)
	srv.MountHandlers(&server.Handlers{
		Hotels:  app.NewHotelService(store, cache, time.Minute),
		Reviews: app.NewReviewService(store, store, cache),
	})
	return srv.Mux()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type problemBody struct {
	Title   string `json:"title"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func createHotel(t *testing.T, h http.Handler, name, loc string, price, rooms float64) domain.Hotel {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/api/hotels", map[string]any{
		"name": name, "location": loc, "price": price, "rooms": rooms,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[struct {
		Hotel domain.Hotel `json:"hotel"`
	}](t, rr).Hotel
}

// failingStore breaks every read so the 500 path can be observed.
type failingStore struct{ *memory.Store }

var errDown = errors.New("dial tcp 10.0.0.7:27017: connection refused")

func (failingStore) ListHotels(ctx context.Context) ([]domain.Hotel, error) { return nil, errDown }
func (failingStore) AveragePriceByLocation(ctx context.Context) ([]domain.LocationPrice, error) {
	return nil, errDown
}

// =============================================================================
// Hotels
// =============================================================================

func TestCreateHotel(t *testing.T) {
	h := newRouter(memory.New(), nil)

	rr := do(t, h, http.MethodPost, "/api/hotels", map[string]any{
		"name": "Sunset Resort", "location": "California", "price": 200, "rooms": 50,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	body := decode[struct {
		Message string       `json:"message"`
		Hotel   domain.Hotel `json:"hotel"`
	}](t, rr)
	assert.Equal(t, "Hotel successfully added!", body.Message)
	assert.NotEmpty(t, body.Hotel.ID)
	assert.Equal(t, "Sunset Resort", body.Hotel.Name)
	assert.Equal(t, "California", body.Hotel.Location)
	assert.Equal(t, 200.0, body.Hotel.Price)
	assert.Equal(t, 50.0, body.Hotel.Rooms)
}

func TestCreateHotel_MissingFields(t *testing.T) {
	store := memory.New()
	h := newRouter(store, nil)

	rr := do(t, h, http.MethodPost, "/api/hotels", map[string]any{
		"name": "Ocean View Resort", "location": "Hawaii",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	assert.Contains(t, decode[problemBody](t, rr).Message, "All fields are required")

	hotels, err := store.ListHotels(context.Background())
	require.NoError(t, err)
	assert.Empty(t, hotels)
}

func TestCreateHotel_FractionalRooms(t *testing.T) {
	h := newRouter(memory.New(), nil)
	hotel := createHotel(t, h, "Half Suite", "Porto", 90, 2.5)
	assert.Equal(t, 2.5, hotel.Rooms)
}

func TestCreateHotel_MalformedBody(t *testing.T) {
	h := newRouter(memory.New(), nil)
	rr := do(t, h, http.MethodPost, "/api/hotels", `{"name": "x", "price": "cheap"`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListHotels_IgnoresQuery(t *testing.T) {
	h := newRouter(memory.New(), nil)

	rr := do(t, h, http.MethodGet, "/api/hotels", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	createHotel(t, h, "Beach Resort", "California", 100, 20)
	createHotel(t, h, "Mountain Lodge", "Switzerland", 150, 30)

	rr = do(t, h, http.MethodGet, "/api/hotels?page=1&limit=1&sort=price&location=Nowhere", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.Hotel](t, rr), 2)
}

func TestListHotels_ETag(t *testing.T) {
	h := newRouter(memory.New(), nil)
	createHotel(t, h, "Beach Resort", "California", 100, 20)

	rr := do(t, h, http.MethodGet, "/api/hotels", nil)
	etag := rr.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/hotels", nil)
	req.Header.Set("If-None-Match", etag)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotModified, rr.Code)
}

func TestListHotels_StorageErrorIsOpaque(t *testing.T) {
	h := newRouter(failingStore{memory.New()}, nil)

	rr := do(t, h, http.MethodGet, "/api/hotels", nil)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	p := decode[problemBody](t, rr)
	assert.Equal(t, "internal server error", p.Message)
	assert.NotContains(t, rr.Body.String(), "10.0.0.7")
}

func TestAggregated(t *testing.T) {
	h := newRouter(memory.New(), nil)
	createHotel(t, h, "A", "CA", 100, 1)
	createHotel(t, h, "B", "CA", 200, 1)
	createHotel(t, h, "C", "NV", 80, 1)

	rr := do(t, h, http.MethodGet, "/api/hotels/aggregated?location=California", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"location":"NV","averagePrice":80},{"location":"CA","averagePrice":150}]`, rr.Body.String())
}

func TestAggregated_StorageError(t *testing.T) {
	h := newRouter(failingStore{memory.New()}, nil)
	rr := do(t, h, http.MethodGet, "/api/hotels/aggregated", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

// =============================================================================
// Reviews
// =============================================================================

func TestCreateReview(t *testing.T) {
	h := newRouter(memory.New(), nil)
	hotel := createHotel(t, h, "Sunset Resort", "California", 200, 50)

	rr := do(t, h, http.MethodPost, "/api/reviews", map[string]any{
		"hotelId": hotel.ID, "rating": 5, "comment": "Amazing experience!",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	body := decode[struct {
		Message string        `json:"message"`
		Review  domain.Review `json:"review"`
	}](t, rr)
	assert.Equal(t, "Review successfully added!", body.Message)
	assert.Equal(t, 5.0, body.Review.Rating)
	assert.Equal(t, hotel.ID, body.Review.HotelID)
}

func TestCreateReview_ZeroRating(t *testing.T) {
	h := newRouter(memory.New(), nil)
	hotel := createHotel(t, h, "Sunset Resort", "California", 200, 50)

	rr := do(t, h, http.MethodPost, "/api/reviews", map[string]any{"hotelId": hotel.ID, "rating": 0})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"rating":0`)

	rr = do(t, h, http.MethodPost, "/api/reviews", map[string]any{"hotelId": hotel.ID, "rating": nil})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateReview_UnknownHotel(t *testing.T) {
	store := memory.New()
	h := newRouter(store, nil)

	for _, id := range []string{uuid.NewString(), "invalidHotelId"} {
		rr := do(t, h, http.MethodPost, "/api/reviews", map[string]any{"hotelId": id, "rating": 4})
		require.Equal(t, http.StatusNotFound, rr.Code, id)
		assert.Equal(t, "Hotel not found", decode[problemBody](t, rr).Message)
	}
}

func TestCreateReview_MissingFields(t *testing.T) {
	h := newRouter(memory.New(), nil)
	for _, body := range []map[string]any{
		{"hotelId": "", "rating": "", "comment": ""},
		{"rating": 4},
		{"hotelId": uuid.NewString(), "comment": "no rating"},
	} {
		rr := do(t, h, http.MethodPost, "/api/reviews", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "%v", body)
	}
}

func TestHotelWithReviews(t *testing.T) {
	h := newRouter(memory.New(), nil)
	hotel := createHotel(t, h, "Sunset Resort", "California", 200, 50)
	for _, rating := range []int{4, 5, 3} {
		rr := do(t, h, http.MethodPost, "/api/reviews", map[string]any{"hotelId": hotel.ID, "rating": rating})
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := do(t, h, http.MethodGet, "/api/hotels/"+hotel.ID+"/reviews", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	out := decode[[]domain.HotelReviews](t, rr)
	require.Len(t, out, 1)
	assert.Equal(t, hotel.ID, out[0].ID)
	assert.Len(t, out[0].Reviews, 3)
	require.NotNil(t, out[0].AverageRating)
	assert.Equal(t, 4.0, *out[0].AverageRating)
}

func TestHotelWithReviews_NoReviewsHasNullAverage(t *testing.T) {
	h := newRouter(memory.New(), nil)
	hotel := createHotel(t, h, "Quiet Inn", "Maine", 90, 8)

	rr := do(t, h, http.MethodGet, "/api/hotels/"+hotel.ID+"/reviews", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var raw []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	require.Len(t, raw, 1)
	assert.JSONEq(t, `null`, string(raw[0]["averageRating"]))
	assert.JSONEq(t, `[]`, string(raw[0]["reviews"]))
}

func TestHotelWithReviews_AbsentAndMalformed(t *testing.T) {
	h := newRouter(memory.New(), nil)

	rr := do(t, h, http.MethodGet, "/api/hotels/"+uuid.NewString()+"/reviews", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/hotels/not-an-id/reviews", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHotelWithReviews_CachedViewRefreshedByNewReview(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	h := newRouter(memory.New(), cache)
	hotel := createHotel(t, h, "Cached", "Nice", 120, 4)
	path := "/api/hotels/" + hotel.ID + "/reviews"

	rr := do(t, h, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decode[[]domain.HotelReviews](t, rr)[0].AverageRating)

	rr = do(t, h, http.MethodPost, "/api/reviews", map[string]any{"hotelId": hotel.ID, "rating": 2})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, h, http.MethodGet, path, nil)
	out := decode[[]domain.HotelReviews](t, rr)
	require.NotNil(t, out[0].AverageRating)
	assert.Equal(t, 2.0, *out[0].AverageRating)
}

func TestHotelWithReviews_UppercaseIDSharesCacheEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	h := newRouter(memory.New(), cache)
	hotel := createHotel(t, h, "Cased", "Lyon", 150, 6)
	upper := "/api/hotels/" + strings.ToUpper(hotel.ID) + "/reviews"

	rr := do(t, h, http.MethodGet, upper, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]domain.HotelReviews](t, rr)[0].Reviews)

	rr = do(t, h, http.MethodPost, "/api/reviews", map[string]any{"hotelId": hotel.ID, "rating": 3})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, h, http.MethodGet, upper, nil)
	out := decode[[]domain.HotelReviews](t, rr)
	assert.Len(t, out[0].Reviews, 1)
}

func TestHealthz(t *testing.T) {
	h := newRouter(memory.New(), nil)
	rr := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}
