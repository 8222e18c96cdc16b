package eventlog

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	base := time.Date(2026, 10, 18, 9, 5, 7, 0, time.Local)
	var n int
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func TestFeed_NewestFirst(t *testing.T) {
	feed := NewFeedWithClock(fixedClock())
	feed.Append("SENSOR: Car arrived at A-3")
	feed.Append("Spot A-7 reserved by USER.")
	feed.Append("SENSOR: Car left A-3")

	entries := feed.Entries(0)
	require.Len(t, entries, 3)
	assert.Equal(t, "SENSOR: Car left A-3", entries[0].Message)
	assert.Equal(t, "SENSOR: Car arrived at A-3", entries[2].Message)
	assert.True(t, entries[0].Time.After(entries[1].Time))
}

func TestFeed_Limit(t *testing.T) {
	feed := NewFeed()
	for i := 0; i < 5; i++ {
		feed.Append("tick")
	}

	assert.Len(t, feed.Entries(2), 2)
	assert.Len(t, feed.Entries(50), 5)
	assert.Len(t, feed.Entries(-1), 5)
	assert.Equal(t, 5, feed.Len())
}

func TestFeed_EmptyEntries(t *testing.T) {
	assert.Empty(t, NewFeed().Entries(10))
}

func TestEntry_String(t *testing.T) {
	feed := NewFeedWithClock(fixedClock())
	entry := feed.Append("Reservation for A-7 cancelled.")

	assert.Equal(t, "[09:05:08] > Reservation for A-7 cancelled.", entry.String())
	_, err := uuid.Parse(entry.ID)
	assert.NoError(t, err)
}

func TestFeed_ConcurrentAppend(t *testing.T) {
	feed := NewFeed()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			feed.Append("tick")
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, feed.Len())
}
