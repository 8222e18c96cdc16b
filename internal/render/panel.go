package render

import "github.com/bassista/go_park/internal/parking"

// Panel is the detail panel shown after a spot is selected.
type Panel struct {
	Open        bool           `json:"open"`
	SpotID      int            `json:"spotId"`
	Title       string         `json:"title"`
	Status      parking.Status `json:"status"`
	StatusText  string         `json:"statusText"`
	StatusColor string         `json:"statusColor"`
	Action      string         `json:"action"`
	Enabled     bool           `json:"enabled"`
}

// PanelFor builds the open panel for spot. Occupied spots get a disabled button.
func PanelFor(spot parking.Spot) Panel {
	p := Panel{Open: true, SpotID: spot.ID, Title: "SPOT: " + spot.Label, Status: spot.Status}
	switch spot.Status {
	case parking.StatusOccupied:
		p.StatusText, p.StatusColor = "OCCUPIED", "red"
		p.Action, p.Enabled = "UNAVAILABLE", false
	case parking.StatusReserved:
		p.StatusText, p.StatusColor = "YOUR RESERVATION", "#aa8800"
		p.Action, p.Enabled = "CANCEL RESERVATION", true
	default:
		p.StatusText, p.StatusColor = "FREE", "green"
		p.Action, p.Enabled = "RESERVE SPOT", true
	}
	return p
}
