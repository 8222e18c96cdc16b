package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/bassista/go_park/internal/logger"
	"github.com/bassista/go_park/internal/lot"
	"github.com/bassista/go_park/internal/parking"
	"github.com/bassista/go_park/internal/render"
	"github.com/gin-gonic/gin"
)

// LotService is the part of lot.Service the HTTP layer needs.
type LotService interface {
	Spots(ctx context.Context) ([]parking.Spot, error)
	Stats(ctx context.Context) (parking.LotStats, error)
	ToggleReservation(ctx context.Context, id int) (parking.Result, error)
	SelectSpot(ctx context.Context, id int) (render.Panel, error)
	Panel() render.Panel
}

// FrameSource exposes the latest rendered frame.
type FrameSource interface {
	Frame() (uint64, []render.Cell)
}

// SpotsResponse is the lot together with its counters.
type SpotsResponse struct {
	Spots []parking.Spot   `json:"spots"`
	Stats parking.LotStats `json:"stats"`
	Panel *render.Panel    `json:"panel,omitempty"`
}

// FrameResponse is the latest drawn grid; version grows on every redraw.
type FrameResponse struct {
	Version uint64        `json:"version"`
	Cells   []render.Cell `json:"cells"`
}

type LotController struct {
	lot     LotService
	frames  FrameSource
	columns int
}

func NewLotController(svc LotService, frames FrameSource, columns int) *LotController {
	if columns <= 0 {
		columns = 6
	}
	return &LotController{lot: svc, frames: frames, columns: columns}
}

// ListSpots returns the current spot sequence and its counters.
func (lc *LotController) ListSpots(c *gin.Context) {
	spots, err := lc.lot.Spots(c.Request.Context())
	if err != nil {
		lc.fail(c, "failed to read lot", err)
		return
	}
	c.JSON(http.StatusOK, SpotsResponse{Spots: spots, Stats: parking.Stats(spots)})
}

// Grid returns the lot as a plain text grid.
func (lc *LotController) Grid(c *gin.Context) {
	spots, err := lc.lot.Spots(c.Request.Context())
	if err != nil {
		lc.fail(c, "failed to read lot", err)
		return
	}
	c.String(http.StatusOK, render.Grid(spots, lc.columns))
}

// Frame returns the most recent render so the page can poll for redraws.
func (lc *LotController) Frame(c *gin.Context) {
	version, cells := lc.frames.Frame()
	c.JSON(http.StatusOK, FrameResponse{Version: version, Cells: cells})
}

// Stats returns the public counters; reserved spots count as occupied.
func (lc *LotController) Stats(c *gin.Context) {
	stats, err := lc.lot.Stats(c.Request.Context())
	if err != nil {
		lc.fail(c, "failed to read lot", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SelectSpot opens the detail panel for a spot.
func (lc *LotController) SelectSpot(c *gin.Context) {
	id, ok := spotID(c)
	if !ok {
		return
	}
	panel, err := lc.lot.SelectSpot(c.Request.Context(), id)
	if err != nil {
		lc.fail(c, "failed to select spot", err)
		return
	}
	c.JSON(http.StatusOK, panel)
}

// Panel returns the detail panel state.
func (lc *LotController) Panel(c *gin.Context) {
	c.JSON(http.StatusOK, lc.lot.Panel())
}

// ToggleReservation reserves a free spot or cancels a reservation.
func (lc *LotController) ToggleReservation(c *gin.Context) {
	id, ok := spotID(c)
	if !ok {
		return
	}
	res, err := lc.lot.ToggleReservation(c.Request.Context(), id)
	if err != nil {
		lc.fail(c, "failed to toggle reservation", err)
		return
	}
	panel := lc.lot.Panel()
	c.JSON(http.StatusOK, SpotsResponse{Spots: res.Spots, Stats: parking.Stats(res.Spots), Panel: &panel})
}

func (lc *LotController) fail(c *gin.Context, msg string, err error) {
	if errors.Is(err, lot.ErrSpotNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "spot not found"})
		return
	}
	logger.WithComponent("lot_controller").Errorf("%s: %v", msg, err)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func spotID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid spot id"})
		return 0, false
	}
	return id, true
}
