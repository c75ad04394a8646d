package suncalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testLatitude  = 46.5
	testLongitude = -81.0
)

func TestGetSunEventTimes(t *testing.T) {
	sc := NewSunCalc(testLatitude, testLongitude)
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	times, err := sc.GetSunEventTimes(date)
	require.NoError(t, err)

	// Event ordering holds on any ordinary mid-latitude day.
	assert.True(t, times.CivilDawn.Before(times.Sunrise))
	assert.True(t, times.Sunrise.Before(times.Sunset))
	assert.True(t, times.Sunset.Before(times.CivilDusk))
}

func TestGetSunEventTimesUsesCache(t *testing.T) {
	sc := NewSunCalc(testLatitude, testLongitude)
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	first, err := sc.GetSunEventTimes(date)
	require.NoError(t, err)

	sc.lock.RLock()
	_, cached := sc.cache[date.Format("2006-01-02")]
	sc.lock.RUnlock()
	assert.True(t, cached)

	second, err := sc.GetSunEventTimes(date)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPrimeWindows(t *testing.T) {
	sc := NewSunCalc(testLatitude, testLongitude)
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	windows, err := sc.PrimeWindows(date)
	require.NoError(t, err)
	require.Len(t, windows, 2)

	times, err := sc.GetSunEventTimes(date)
	require.NoError(t, err)

	dawn := windows[0]
	assert.Equal(t, "dawn", dawn.Label)
	assert.Equal(t, times.CivilDawn, dawn.Start)
	assert.Equal(t, times.Sunrise.Add(time.Hour), dawn.End)

	dusk := windows[1]
	assert.Equal(t, "dusk", dusk.Label)
	assert.Equal(t, times.Sunset.Add(-time.Hour), dusk.Start)
	assert.Equal(t, times.CivilDusk, dusk.End)
}

func TestIsPrimeTime(t *testing.T) {
	sc := NewSunCalc(testLatitude, testLongitude)
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	times, err := sc.GetSunEventTimes(date)
	require.NoError(t, err)

	inDawn, err := sc.IsPrimeTime(times.Sunrise)
	require.NoError(t, err)
	assert.True(t, inDawn)

	midday := times.Sunrise.Add(times.Sunset.Sub(times.Sunrise) / 2)
	atMidday, err := sc.IsPrimeTime(midday)
	require.NoError(t, err)
	assert.False(t, atMidday)
}
