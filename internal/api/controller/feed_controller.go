package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bassista/go_park/internal/eventlog"
	"github.com/gin-gonic/gin"
)

const defaultFeedLimit = 50

// EntryResponse is one feed line; Line is the preformatted "[hh:mm:ss] > msg".
type EntryResponse struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
	Line    string    `json:"line"`
}

type FeedController struct {
	feed *eventlog.Feed
}

func NewFeedController(feed *eventlog.Feed) *FeedController {
	return &FeedController{feed: feed}
}

// Entries returns the newest feed entries first. ?limit=0 returns all of them.
func (fc *FeedController) Entries(c *gin.Context) {
	limit := defaultFeedLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	entries := fc.feed.Entries(limit)
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryResponse{ID: e.ID, Time: e.Time, Message: e.Message, Line: e.String()})
	}
	c.JSON(http.StatusOK, out)
}
