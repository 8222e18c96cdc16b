package parking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func TestNewAggregate(t *testing.T) {
	a := NewAggregate(500, &scriptedRand{ints: []int{123}}, now)
	assert.Equal(t, LotAggregate{Total: 500, Occupied: 123, Free: 377, LastUpdate: now}, a)
	assert.NoError(t, ValidateAggregate(a))

	empty := NewAggregate(0, &scriptedRand{}, now)
	assert.Equal(t, 0, empty.Occupied)
	assert.Equal(t, 0, empty.Free)
}

// Scenario: Warszawa with 100 of 500 occupied receives a delta of -5.
func TestApplyDelta_Warszawa(t *testing.T) {
	lots := map[string]LotAggregate{"Warszawa": {Total: 500, Occupied: 100, Free: 400}}

	lots["Warszawa"] = ApplyDelta(lots["Warszawa"], -5, now)

	assert.Equal(t, 95, lots["Warszawa"].Occupied)
	assert.Equal(t, 405, lots["Warszawa"].Free)
	assert.Equal(t, now, lots["Warszawa"].LastUpdate)
}

func TestApplyDelta_Clamps(t *testing.T) {
	low := LotAggregate{Total: 500, Occupied: 2, Free: 498}
	for i := 0; i < 10; i++ {
		low = ApplyDelta(low, -5, now)
		require.GreaterOrEqual(t, low.Occupied, 0)
		require.NoError(t, ValidateAggregate(low))
	}
	assert.Equal(t, 0, low.Occupied)
	assert.Equal(t, 500, low.Free)

	high := LotAggregate{Total: 500, Occupied: 497, Free: 3}
	for i := 0; i < 10; i++ {
		high = ApplyDelta(high, 5, now)
		require.LessOrEqual(t, high.Occupied, high.Total)
		require.NoError(t, ValidateAggregate(high))
	}
	assert.Equal(t, 500, high.Occupied)
	assert.Equal(t, 0, high.Free)
}

func TestRandomDelta_Range(t *testing.T) {
	assert.Equal(t, -5, RandomDelta(&scriptedRand{ints: []int{0}}, 5))
	assert.Equal(t, 0, RandomDelta(&scriptedRand{ints: []int{5}}, 5))
	assert.Equal(t, 5, RandomDelta(&scriptedRand{ints: []int{10}}, 5))
	assert.Equal(t, 0, RandomDelta(&scriptedRand{ints: []int{3}}, 0))

	rng := NewRand(11)
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		d := RandomDelta(rng, 5)
		require.GreaterOrEqual(t, d, -5)
		require.LessOrEqual(t, d, 5)
		seen[d] = true
	}
	assert.Len(t, seen, 11, "every delta in [-5, 5] should show up")
}

func TestValidateAggregate(t *testing.T) {
	assert.NoError(t, ValidateAggregate(LotAggregate{Total: 10, Occupied: 4, Free: 6}))
	assert.ErrorIs(t, ValidateAggregate(LotAggregate{Total: 10, Occupied: 11, Free: -1}), ErrMalformed)
	assert.ErrorIs(t, ValidateAggregate(LotAggregate{Total: 10, Occupied: 4, Free: 5}), ErrMalformed)
	assert.ErrorIs(t, ValidateAggregate(LotAggregate{Total: 10, Occupied: -1, Free: 11}), ErrMalformed)
}

func TestRefreshCities(t *testing.T) {
	lots := map[string]LotAggregate{
		"Warszawa": {Total: 500, Occupied: 100, Free: 400},
		"Kraków":   {Total: 500, Occupied: 498, Free: 2},
		"Legacy":   {Total: 10, Occupied: 5, Free: 5},
	}
	// Draw 0 => -5 for Warszawa, draw 10 => +5 for Kraków.
	RefreshCities(lots, []string{"Warszawa", "Kraków", "Gdańsk"}, 5, &scriptedRand{ints: []int{0, 10}}, now)

	assert.Equal(t, 95, lots["Warszawa"].Occupied)
	assert.Equal(t, 500, lots["Kraków"].Occupied)
	assert.Equal(t, 0, lots["Kraków"].Free)
	assert.Equal(t, LotAggregate{Total: 10, Occupied: 5, Free: 5}, lots["Legacy"], "unconfigured cities are left alone")
	assert.NotContains(t, lots, "Gdańsk")
}

func TestSumCities(t *testing.T) {
	_, ok := SumCities(nil, []string{"Warszawa"})
	assert.False(t, ok)

	lots := map[string]LotAggregate{
		"Warszawa": {Total: 500, Occupied: 100, Free: 400},
		"Kraków":   {Total: 500, Occupied: 250, Free: 250},
		"Legacy":   {Total: 10, Occupied: 5, Free: 5},
	}
	stats, ok := SumCities(lots, []string{"Warszawa", "Kraków"})
	require.True(t, ok)
	assert.Equal(t, GlobalStats{Free: 650, Occupied: 350, Tracked: 1000}, stats)
}
