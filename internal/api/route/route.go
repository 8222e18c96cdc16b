package route

import (
	"net/http"

	"github.com/bassista/go_park/internal/app"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, s *app.Session) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "UP",
		})
	})

	publicRouter := r.Group("")
	timeout := s.Config.Server.RequestTimeout
	NewConfigurationRouter(timeout, publicRouter, s.Config)
	NewLotRouter(timeout, publicRouter, s.Lot, s.Frames, s.Config.Lot.GridColumns)
	NewCityRouter(timeout, publicRouter, s.Cities)
	NewFeedRouter(publicRouter, s.Feed)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}
