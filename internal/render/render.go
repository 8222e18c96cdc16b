package render

import (
	"strings"
	"sync"

	"github.com/bassista/go_park/internal/parking"
)

// Renderer redraws the lot after every state change.
type Renderer interface {
	Render(spots []parking.Spot)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(spots []parking.Spot)

func (f RendererFunc) Render(spots []parking.Spot) { f(spots) }

// Multi fans a redraw out to several renderers.
type Multi []Renderer

func (m Multi) Render(spots []parking.Spot) {
	for _, r := range m {
		r.Render(spots)
	}
}

// Cell is the visual model of one spot.
type Cell struct {
	ID     int            `json:"id"`
	Label  string         `json:"label"`
	Icon   string         `json:"icon"`
	Status parking.Status `json:"status"`
}

// Icon maps a status to the grid marker.
func Icon(status parking.Status) string {
	switch status {
	case parking.StatusOccupied:
		return "🚗"
	case parking.StatusReserved:
		return "🔒"
	default:
		return "P"
	}
}

// Cells builds one cell per spot, in spot order.
func Cells(spots []parking.Spot) []Cell {
	cells := make([]Cell, 0, len(spots))
	for _, s := range spots {
		cells = append(cells, Cell{ID: s.ID, Label: s.Label, Icon: Icon(s.Status), Status: s.Status})
	}
	return cells
}

// Grid renders the lot as text, columns cells per row: "[P A-1] [🚗 A-2] ...".
func Grid(spots []parking.Spot, columns int) string {
	if columns <= 0 {
		columns = len(spots)
	}
	var b strings.Builder
	for i, c := range Cells(spots) {
		if i > 0 {
			if i%columns == 0 {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString("[" + c.Icon + " " + c.Label + "]")
	}
	return b.String()
}

// FrameRecorder keeps the latest rendered frame and a version counter the page
// can poll to know when to redraw.
type FrameRecorder struct {
	mu      sync.RWMutex
	version uint64
	cells   []Cell
}

func NewFrameRecorder() *FrameRecorder {
	return &FrameRecorder{}
}

func (r *FrameRecorder) Render(spots []parking.Spot) {
	cells := Cells(spots)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.version++
	r.cells = cells
}

// Frame returns the latest cells and their version (0 before the first render).
func (r *FrameRecorder) Frame() (uint64, []Cell) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Cell, len(r.cells))
	copy(out, r.cells)
	return r.version, out
}
