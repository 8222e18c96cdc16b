package eventlog

import (
	"fmt"
	"sync"
	"time"

	"github.com/bassista/go_park/internal/logger"
	"github.com/google/uuid"
)

// Entry is one line of the dashboard's system log.
type Entry struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// String renders the entry the way the dashboard shows it: "[15:04:05] > message".
func (e Entry) String() string {
	return fmt.Sprintf("[%s] > %s", e.Time.Format("15:04:05"), e.Message)
}

// Feed is an append-only, unbounded event feed. Entries are read newest first.
type Feed struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

func NewFeed() *Feed {
	return &Feed{now: time.Now}
}

// NewFeedWithClock is used by tests that need stable timestamps.
func NewFeedWithClock(now func() time.Time) *Feed {
	return &Feed{now: now}
}

// Append stamps message with the current time and records it.
func (f *Feed) Append(message string) Entry {
	entry := Entry{ID: uuid.NewString(), Time: f.now(), Message: message}

	f.mu.Lock()
	f.entries = append(f.entries, entry)
	f.mu.Unlock()

	logger.WithComponent("feed").Info(message)
	return entry
}

// Entries returns up to limit entries, newest first. limit <= 0 returns all of them.
func (f *Feed) Entries(limit int) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	n := len(f.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Entry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, f.entries[i])
	}
	return out
}

// Len returns the number of recorded entries.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}
