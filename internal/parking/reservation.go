package parking

import "fmt"

// ToggleReservation moves a free spot to reserved and a reserved spot back to free.
// Occupied spots have no user transition: the sequence is still persisted and
// redrawn but nothing is logged.
func ToggleReservation(spots []Spot, id int) (Result, error) {
	idx, ok := Find(spots, id)
	if !ok {
		return Result{}, fmt.Errorf("%w: id %d", ErrSpotNotFound, id)
	}

	next := Clone(spots)
	spot := &next[idx]
	intents := []Intent{PersistIntent{}}

	switch spot.Status {
	case StatusFree:
		spot.Status = StatusReserved
		intents = append(intents, LogIntent{Message: fmt.Sprintf("Spot %s reserved by USER.", spot.Label)})
	case StatusReserved:
		spot.Status = StatusFree
		intents = append(intents, LogIntent{Message: fmt.Sprintf("Reservation for %s cancelled.", spot.Label)})
	}

	intents = append(intents, RenderIntent{}, ClosePanelIntent{})
	return Result{Spots: next, Spot: spot, Intents: intents}, nil
}
