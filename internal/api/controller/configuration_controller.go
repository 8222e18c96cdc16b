package controller

import (
	"net/http"

	"github.com/bassista/go_park/internal/config"
	"github.com/gin-gonic/gin"
)

// ConfigurationResponse is what the dashboard page needs to lay itself out.
type ConfigurationResponse struct {
	TotalSpots              int      `json:"totalSpots"`
	GridColumns             int      `json:"gridColumns"`
	Cities                  []string `json:"cities"`
	TrafficIntervalSec      float64  `json:"trafficIntervalSec"`
	CitiesRefreshSec        float64  `json:"citiesRefreshSec"`
	RefreshIntervalSec      int      `json:"refreshIntervalSec"`
	StatsRefreshIntervalSec int      `json:"statsRefreshIntervalSec"`
}

// ConfigurationController handles configuration-related API endpoints.
type ConfigurationController struct {
	config *config.Config
}

// NewConfigurationController creates a new ConfigurationController.
func NewConfigurationController(cfg *config.Config) *ConfigurationController {
	return &ConfigurationController{
		config: cfg,
	}
}

// GetConfiguration returns the application configuration for the frontend.
func (cc *ConfigurationController) GetConfiguration(c *gin.Context) {
	response := ConfigurationResponse{
		TotalSpots:              cc.config.Lot.TotalSpots,
		GridColumns:             cc.config.Lot.GridColumns,
		Cities:                  cc.config.Cities.Names,
		TrafficIntervalSec:      cc.config.Lot.TrafficInterval.Seconds(),
		CitiesRefreshSec:        cc.config.Cities.RefreshInterval.Seconds(),
		RefreshIntervalSec:      cc.config.Misc.DashboardRefreshSecs,
		StatsRefreshIntervalSec: cc.config.Misc.StatsRefreshIntervalSecs,
	}
	c.JSON(http.StatusOK, response)
}
