// Package geocoding resolves free-text addresses to coordinates.
package geocoding

import (
	"context"
	"errors"
)

// Lookup failures. Callers keep their previous location on either.
var (
	ErrNotFound    = errors.New("address not found")
	ErrUnavailable = errors.New("geocoding service unavailable")
)

// Result is a resolved address.
type Result struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// Geocoder converts an address to coordinates. Implementations return
// ErrNotFound or ErrUnavailable (possibly wrapped) instead of a zero Result.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Result, error)
}

// Outcome classifies a lookup error for logging and metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "unavailable"
	}
}
