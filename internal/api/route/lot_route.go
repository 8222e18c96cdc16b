package route

import (
	"time"

	"github.com/bassista/go_park/internal/api/controller"
	"github.com/bassista/go_park/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// NewLotRouter exposes the single simulated lot under /lot.
func NewLotRouter(timeout time.Duration, group *gin.RouterGroup, svc controller.LotService, frames controller.FrameSource, columns int) {
	lc := controller.NewLotController(svc, frames, columns)

	lot := group.Group("lot", middleware.RequestTimeout(timeout))
	lot.GET("spots", lc.ListSpots)
	lot.GET("spots/:id", lc.SelectSpot)
	lot.POST("spots/:id/toggle", lc.ToggleReservation)
	lot.GET("grid", lc.Grid)
	lot.GET("frame", lc.Frame)
	lot.GET("panel", lc.Panel)
	lot.GET("stats", lc.Stats)
}
