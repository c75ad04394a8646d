// Package suncalc computes sun event times for the station and derives
// the dawn and dusk prime feeding windows surfaced alongside spot
// rankings.
package suncalc

import (
	"fmt"
	"sync"
	"time"

	"github.com/sj14/astral/pkg/astral"

	"github.com/castnet/castnet-go/internal/conf"
)

// SunEventTimes holds the calculated sun event times in local time
type SunEventTimes struct {
	CivilDawn time.Time
	Sunrise   time.Time
	Sunset    time.Time
	CivilDusk time.Time
}

// PrimeWindow is one low-light period when feeding activity peaks.
type PrimeWindow struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// postSunriseExtent and preSunsetExtent widen the low-light windows past
// the sun events themselves. Activity tapers rather than stopping at
// sunrise.
const (
	postSunriseExtent = time.Hour
	preSunsetExtent   = time.Hour
)

// cacheEntry holds the cached sun event times for a given date
type cacheEntry struct {
	times SunEventTimes
	date  time.Time
}

// SunCalc handles caching and calculation of sun event times
type SunCalc struct {
	cache    map[string]cacheEntry
	lock     sync.RWMutex
	observer astral.Observer
}

// NewSunCalc creates a new SunCalc instance for the station coordinates.
func NewSunCalc(latitude, longitude float64) *SunCalc {
	return &SunCalc{
		cache:    make(map[string]cacheEntry),
		observer: astral.Observer{Latitude: latitude, Longitude: longitude},
	}
}

// GetSunEventTimes returns the sun event times for a given date, using cache if available
func (sc *SunCalc) GetSunEventTimes(date time.Time) (SunEventTimes, error) {
	dateKey := date.Format("2006-01-02")

	sc.lock.RLock()
	entry, exists := sc.cache[dateKey]
	sc.lock.RUnlock()

	if exists && entry.date.Equal(date) {
		return entry.times, nil
	}

	times, err := sc.calculateSunEventTimes(date)
	if err != nil {
		return SunEventTimes{}, err
	}

	sc.lock.Lock()
	sc.cache[dateKey] = cacheEntry{times: times, date: date}
	sc.lock.Unlock()

	return times, nil
}

// PrimeWindows returns the dawn and dusk windows for a date. The dawn
// window runs from civil dawn to an hour past sunrise, the dusk window
// from an hour before sunset to civil dusk.
func (sc *SunCalc) PrimeWindows(date time.Time) ([]PrimeWindow, error) {
	times, err := sc.GetSunEventTimes(date)
	if err != nil {
		return nil, fmt.Errorf("failed to get sun event times: %w", err)
	}
	return []PrimeWindow{
		{Label: "dawn", Start: times.CivilDawn, End: times.Sunrise.Add(postSunriseExtent)},
		{Label: "dusk", Start: times.Sunset.Add(-preSunsetExtent), End: times.CivilDusk},
	}, nil
}

// IsPrimeTime reports whether the given moment falls inside a dawn or
// dusk window of its date.
func (sc *SunCalc) IsPrimeTime(t time.Time) (bool, error) {
	windows, err := sc.PrimeWindows(t)
	if err != nil {
		return false, err
	}
	for _, w := range windows {
		if !t.Before(w.Start) && t.Before(w.End) {
			return true, nil
		}
	}
	return false, nil
}

// calculateSunEventTimes calculates the sun event times for a given date
func (sc *SunCalc) calculateSunEventTimes(date time.Time) (SunEventTimes, error) {
	civilDawn, err := astral.Dawn(sc.observer, date, astral.DepressionCivil)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate civil dawn: %w", err)
	}

	sunrise, err := astral.Sunrise(sc.observer, date)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate sunrise: %w", err)
	}

	sunset, err := astral.Sunset(sc.observer, date)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate sunset: %w", err)
	}

	civilDusk, err := astral.Dusk(sc.observer, date, astral.DepressionCivil)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate civil dusk: %w", err)
	}

	localCivilDawn, err := conf.ConvertUTCToLocal(civilDawn)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to convert civil dawn to local time: %w", err)
	}

	localSunrise, err := conf.ConvertUTCToLocal(sunrise)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to convert sunrise to local time: %w", err)
	}

	localSunset, err := conf.ConvertUTCToLocal(sunset)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to convert sunset to local time: %w", err)
	}

	localCivilDusk, err := conf.ConvertUTCToLocal(civilDusk)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to convert civil dusk to local time: %w", err)
	}

	return SunEventTimes{
		CivilDawn: localCivilDawn,
		Sunrise:   localSunrise,
		Sunset:    localSunset,
		CivilDusk: localCivilDusk,
	}, nil
}
