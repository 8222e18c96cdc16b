package route

import (
	"time"

	"github.com/bassista/go_park/internal/api/controller"
	"github.com/bassista/go_park/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

func NewCityRouter(timeout time.Duration, group *gin.RouterGroup, svc controller.CityService) {
	cc := controller.NewCityController(svc)

	cities := group.Group("cities", middleware.RequestTimeout(timeout))
	cities.GET("", cc.ListCities)
	cities.GET("stats", cc.GlobalStats)
}
