package parking

import "fmt"

// SimulateTraffic flips one random non-reserved spot: free becomes occupied
// (arrival) and occupied becomes free (departure). Reserved spots are never
// touched. With no eligible spot the result carries no intents.
func SimulateTraffic(spots []Spot, rng Rand) Result {
	eligible := make([]int, 0, len(spots))
	for i := range spots {
		if spots[i].Status != StatusReserved {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return Result{Spots: spots}
	}

	next := Clone(spots)
	spot := &next[eligible[rng.IntN(len(eligible))]]

	var msg string
	if spot.Status == StatusFree {
		spot.Status = StatusOccupied
		msg = fmt.Sprintf("SENSOR: Car arrived at %s", spot.Label)
	} else {
		spot.Status = StatusFree
		msg = fmt.Sprintf("SENSOR: Car left %s", spot.Label)
	}

	return Result{
		Spots:   next,
		Spot:    spot,
		Intents: []Intent{PersistIntent{}, LogIntent{Message: msg}, RenderIntent{}},
	}
}
