package parking

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Status is the state of a single parking spot.
type Status string

const (
	StatusFree     Status = "free"
	StatusOccupied Status = "occupied"
	StatusReserved Status = "reserved"
)

var (
	ErrSpotNotFound = errors.New("spot not found")
	ErrSizeMismatch = errors.New("spot count mismatch")
	ErrMalformed    = errors.New("malformed spot data")
)

var validate = validator.New()

// Spot is one cell of the lot grid. ID is stable for the lifetime of the lot
// and equals the spot's index in the sequence.
type Spot struct {
	ID     int    `json:"id" validate:"min=0"`
	Label  string `json:"label" validate:"required"`
	Status Status `json:"status" validate:"oneof=free occupied reserved"`
}

// Label is the display name of the spot with the given id ("A-1" for id 0).
func Label(id int) string {
	return fmt.Sprintf("A-%d", id+1)
}

// Generate builds n spots; each one is occupied with probability p, free otherwise.
func Generate(n int, p float64, rng Rand) []Spot {
	spots := make([]Spot, 0, n)
	for i := 0; i < n; i++ {
		status := StatusFree
		if rng.Float64() < p {
			status = StatusOccupied
		}
		spots = append(spots, Spot{ID: i, Label: Label(i), Status: status})
	}
	return spots
}

// ValidateSpots accepts a stored sequence only when it has exactly n well formed
// spots whose ids match their positions.
func ValidateSpots(spots []Spot, n int) error {
	if len(spots) != n {
		return fmt.Errorf("%w: want %d, got %d", ErrSizeMismatch, n, len(spots))
	}
	for i := range spots {
		if err := validate.Struct(&spots[i]); err != nil {
			return fmt.Errorf("%w: spot %d: %v", ErrMalformed, i, err)
		}
		if spots[i].ID != i {
			return fmt.Errorf("%w: spot at index %d has id %d", ErrMalformed, i, spots[i].ID)
		}
	}
	return nil
}

// Find returns the index of the spot with the given id.
func Find(spots []Spot, id int) (int, bool) {
	for i := range spots {
		if spots[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Clone copies the sequence so transitions never alias the caller's slice.
func Clone(spots []Spot) []Spot {
	if spots == nil {
		return nil
	}
	out := make([]Spot, len(spots))
	copy(out, spots)
	return out
}
