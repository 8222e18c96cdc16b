package parking

import "fmt"

// Command is an input to the single-lot state machine.
type Command interface {
	command()
}

// ReserveCommand toggles the user reservation of one spot.
type ReserveCommand struct {
	SpotID int
}

// SimulationTick asks the traffic simulator for one arrival or departure.
type SimulationTick struct{}

func (ReserveCommand) command() {}
func (SimulationTick) command() {}

// Intent is a side effect requested by a transition. The caller executes them in
// order; PersistIntent always comes first so a failed write stops the rest.
type Intent interface {
	intent()
}

// LogIntent appends Message to the event feed.
type LogIntent struct {
	Message string
}

// PersistIntent writes the new sequence back to the store.
type PersistIntent struct{}

// RenderIntent redraws the grid and refreshes the statistics.
type RenderIntent struct{}

// ClosePanelIntent hides the spot detail panel.
type ClosePanelIntent struct{}

func (LogIntent) intent()        {}
func (PersistIntent) intent()    {}
func (RenderIntent) intent()     {}
func (ClosePanelIntent) intent() {}

// Result is the next state of the lot plus the side effects to run.
// Spot points at the changed spot in Spots, nil when nothing was touched.
type Result struct {
	Spots   []Spot
	Spot    *Spot
	Intents []Intent
}

// Changed reports whether any intent has to be executed.
func (r Result) Changed() bool {
	return len(r.Intents) > 0
}

// Handle applies cmd to spots. The input slice is never modified.
func Handle(spots []Spot, cmd Command, rng Rand) (Result, error) {
	switch c := cmd.(type) {
	case ReserveCommand:
		return ToggleReservation(spots, c.SpotID)
	case SimulationTick:
		return SimulateTraffic(spots, rng), nil
	default:
		return Result{}, fmt.Errorf("unsupported command %T", cmd)
	}
}
