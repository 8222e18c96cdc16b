package route

import (
	"github.com/bassista/go_park/internal/api/controller"
	"github.com/bassista/go_park/internal/eventlog"
	"github.com/gin-gonic/gin"
)

// NewFeedRouter serves the system log. Reading the in-memory feed never
// blocks, so no timeout is attached.
func NewFeedRouter(group *gin.RouterGroup, feed *eventlog.Feed) {
	fc := controller.NewFeedController(feed)
	group.GET("log", fc.Entries)
}
