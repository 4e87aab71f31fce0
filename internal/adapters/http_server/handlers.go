// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_reviews/internal/app"
	"hotel_reviews/internal/domain"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Hotels  *app.HotelService
	Reviews *app.ReviewService
}

type problem struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/api", func(r chi.Router) {
		r.Post("/hotels", h.createHotel)
		r.Get("/hotels", h.listHotels)
		r.Get("/hotels/aggregated", h.averagePriceByLocation)
		r.Get("/hotels/{id}/reviews", h.hotelWithReviews)
		r.Post("/reviews", h.createReview)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, msg string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Message: msg}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the error kind to a fixed status. Internal detail is
// logged, never sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblem(w, http.StatusBadRequest, "Bad Request", ve.Message)
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", notFoundMsg)
	default:
		log.Error().Err(err).
			Str("route", routePattern(r)).
			Str("method", r.Method).
			Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeRead serves a GET result with a weak ETag and honours If-None-Match.
func writeRead(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "internal server error")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return false
	}
	return true
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var in app.CreateHotelInput
	if !decodeBody(w, r, &in) {
		return
	}
	hotel, err := h.Hotels.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Hotel successfully added!",
		"hotel":   hotel,
	})
}

// listHotels ignores any query parameters; the list is never filtered.
func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.Hotels.List(r.Context())
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeRead(w, r, hotels)
}

func (h *Handlers) averagePriceByLocation(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Hotels.AveragePriceByLocation(r.Context())
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeRead(w, r, rows)
}

func (h *Handlers) hotelWithReviews(w http.ResponseWriter, r *http.Request) {
	out, err := h.Hotels.WithReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "Hotel not found")
		return
	}
	writeRead(w, r, out)
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	var in app.CreateReviewInput
	if !decodeBody(w, r, &in) {
		return
	}
	review, err := h.Reviews.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err, "Hotel not found")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Review successfully added!",
		"review":  review,
	})
}
