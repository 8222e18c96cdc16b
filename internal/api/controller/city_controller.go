package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bassista/go_park/internal/logger"
	"github.com/bassista/go_park/internal/parking"
	"github.com/gin-gonic/gin"
)

// CityService is the part of cities.Service the HTTP layer needs.
type CityService interface {
	Cities() []string
	Lots(ctx context.Context) (map[string]parking.LotAggregate, error)
	GlobalStats(ctx context.Context) (parking.GlobalStats, bool, error)
}

// CityResponse is one configured city with its aggregate.
type CityResponse struct {
	Name       string    `json:"name"`
	Total      int       `json:"total"`
	Occupied   int       `json:"occupied"`
	Free       int       `json:"free"`
	LastUpdate time.Time `json:"lastUpdate"`
}

// GlobalStatsResponse backs the "system online" banner.
type GlobalStatsResponse struct {
	parking.GlobalStats
	Online  bool   `json:"online"`
	Caption string `json:"caption"`
}

type CityController struct {
	cities CityService
}

func NewCityController(svc CityService) *CityController {
	return &CityController{cities: svc}
}

// ListCities returns the configured cities in order.
func (cc *CityController) ListCities(c *gin.Context) {
	lots, err := cc.cities.Lots(c.Request.Context())
	if err != nil {
		logger.WithComponent("city_controller").Errorf("failed to read cities: %v", err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read cities"})
		return
	}

	names := cc.cities.Cities()
	out := make([]CityResponse, 0, len(names))
	for _, name := range names {
		lot, ok := lots[name]
		if !ok {
			continue
		}
		out = append(out, CityResponse{
			Name:       name,
			Total:      lot.Total,
			Occupied:   lot.Occupied,
			Free:       lot.Free,
			LastUpdate: lot.LastUpdate,
		})
	}
	c.JSON(http.StatusOK, out)
}

// GlobalStats sums free and occupied spots over every configured city.
func (cc *CityController) GlobalStats(c *gin.Context) {
	stats, ok, err := cc.cities.GlobalStats(c.Request.Context())
	if err != nil {
		logger.WithComponent("city_controller").Errorf("failed to read city stats: %v", err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read city stats"})
		return
	}

	resp := GlobalStatsResponse{GlobalStats: stats, Online: ok, Caption: "SYSTEM OFFLINE"}
	if ok {
		resp.Caption = fmt.Sprintf("SYSTEM ONLINE: tracking %d spots.", stats.Tracked)
	}
	c.JSON(http.StatusOK, resp)
}
