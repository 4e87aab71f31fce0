package domain_test

import (
	"errors"
	"testing"

	"hotel_reviews/internal/domain"
)

func TestAverageRating(t *testing.T) {
	if got := domain.AverageRating(nil); got != nil {
		t.Fatalf("expected nil for empty set, got %v", *got)
	}
	rs := []domain.Review{{Rating: 4}, {Rating: 5}, {Rating: 3}}
	got := domain.AverageRating(rs)
	if got == nil || *got != 4 {
		t.Fatalf("expected 4, got %v", got)
	}
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("connection refused")
	var err error = &domain.StorageError{Op: "create hotel", Err: cause}
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("storage error should match ErrStorage")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("storage error should unwrap to its cause")
	}

	err = &domain.ValidationError{Message: "All fields are required", Fields: []string{"price"}}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("validation error should match ErrValidation")
	}
	if errors.Is(err, domain.ErrStorage) {
		t.Fatalf("validation error must not match ErrStorage")
	}
}
