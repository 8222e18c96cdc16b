package parking

import (
	"fmt"
	"time"
)

// LotAggregate is the coarse occupancy of a whole city lot. It is a separate
// statistical model and not derived from individual spots.
type LotAggregate struct {
	Total      int       `json:"total" validate:"min=0"`
	Occupied   int       `json:"occupied" validate:"min=0,ltefield=Total"`
	Free       int       `json:"free" validate:"min=0"`
	LastUpdate time.Time `json:"lastUpdate"`
}

// GlobalStats sums free and occupied over every configured city.
type GlobalStats struct {
	Free     int `json:"free"`
	Occupied int `json:"occupied"`
	Tracked  int `json:"tracked"`
}

// NewAggregate creates a lot with a uniformly random occupancy in [0, total).
func NewAggregate(total int, rng Rand, now time.Time) LotAggregate {
	occupied := 0
	if total > 0 {
		occupied = rng.IntN(total)
	}
	return LotAggregate{Total: total, Occupied: occupied, Free: total - occupied, LastUpdate: now}
}

// ApplyDelta shifts the occupancy by delta, clamped to [0, Total].
func ApplyDelta(a LotAggregate, delta int, now time.Time) LotAggregate {
	occupied := a.Occupied + delta
	if occupied < 0 {
		occupied = 0
	}
	if occupied > a.Total {
		occupied = a.Total
	}
	a.Occupied = occupied
	a.Free = a.Total - occupied
	a.LastUpdate = now
	return a
}

// RandomDelta draws uniformly from [-maxDelta, +maxDelta].
func RandomDelta(rng Rand, maxDelta int) int {
	if maxDelta <= 0 {
		return 0
	}
	return rng.IntN(2*maxDelta+1) - maxDelta
}

// ValidateAggregate checks 0 <= occupied <= total and free + occupied == total.
func ValidateAggregate(a LotAggregate) error {
	if err := validate.Struct(&a); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if a.Free+a.Occupied != a.Total {
		return fmt.Errorf("%w: free %d + occupied %d != total %d", ErrMalformed, a.Free, a.Occupied, a.Total)
	}
	return nil
}

// RefreshCities applies an independent random delta to every configured city
// present in lots. The map is updated in place; cities are visited in the
// configured order so a seeded source gives reproducible runs.
func RefreshCities(lots map[string]LotAggregate, cities []string, maxDelta int, rng Rand, now time.Time) {
	for _, city := range cities {
		lot, ok := lots[city]
		if !ok {
			continue
		}
		lots[city] = ApplyDelta(lot, RandomDelta(rng, maxDelta), now)
	}
}

// SumCities aggregates the configured cities. ok is false when there is no data.
func SumCities(lots map[string]LotAggregate, cities []string) (GlobalStats, bool) {
	if len(lots) == 0 {
		return GlobalStats{}, false
	}
	var out GlobalStats
	for _, city := range cities {
		lot, ok := lots[city]
		if !ok {
			continue
		}
		out.Free += lot.Free
		out.Occupied += lot.Occupied
	}
	out.Tracked = out.Free + out.Occupied
	return out, true
}
