package spots

import (
	"fmt"
	"math"
	"strings"
)

// Status is the qualitative band derived from the bite score. Bands use
// fixed thresholds, never percentiles, so they cannot shift with the data
// distribution.
type Status string

const (
	StatusGreat Status = "great"
	StatusGood  Status = "good"
	StatusFair  Status = "fair"
	StatusPoor  Status = "poor"
)

// BandThresholds holds the inclusive lower score bound of each band.
type BandThresholds struct {
	Great int
	Good  int
	Fair  int
}

// ScoringConfig carries every tunable of the composite bite score. The
// 50/30/20 weighting and the band cutoffs are product decisions from the
// original deployment, surfaced as configuration so tests can assert on
// them explicitly.
type ScoringConfig struct {
	HabitatWeight float64 // weight of base habitat score x multiplier
	WeatherWeight float64 // weight of the weather score
	TimeWeight    float64 // weight of the time-of-day score

	Bands BandThresholds

	// Weather score internals
	TempFalloffC   float64 // degrees outside the preferred range at which the temperature score reaches zero
	TempShare      float64 // share of the weather score carried by temperature
	PressureShare  float64 // share of the weather score carried by pressure trend
	WindPenaltyKmh float64 // species-agnostic wind threshold
	WindPenalty    float64 // flat penalty above the threshold

	// Time-of-day score outside the species window
	OffWindowTimeScore float64

	// Habitat multiplier range and saturation
	MultiplierFloor float64
	MultiplierCeil  float64
	MaxKeywordHits  int

	// Result set cap applied when the caller does not request a limit
	DefaultLimit int
}

// DefaultScoringConfig returns the reference deployment configuration.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		HabitatWeight:      0.5,
		WeatherWeight:      0.3,
		TimeWeight:         0.2,
		Bands:              BandThresholds{Great: 75, Good: 55, Fair: 35},
		TempFalloffC:       10.0,
		TempShare:          0.7,
		PressureShare:      0.3,
		WindPenaltyKmh:     25.0,
		WindPenalty:        0.2,
		OffWindowTimeScore: 0.4,
		MultiplierFloor:    0.5,
		MultiplierCeil:     1.5,
		MaxKeywordHits:     3,
		DefaultLimit:       100,
	}
}

// StatusFor maps a bite score onto its band.
func (c *ScoringConfig) StatusFor(score int) Status {
	switch {
	case score >= c.Bands.Great:
		return StatusGreat
	case score >= c.Bands.Good:
		return StatusGood
	case score >= c.Bands.Fair:
		return StatusFair
	default:
		return StatusPoor
	}
}

// normalizeMultiplier maps the habitat multiplier range onto [0, 1] so the
// documented component weighting is preserved exactly.
func (c *ScoringConfig) normalizeMultiplier(mult float64) float64 {
	span := c.MultiplierCeil - c.MultiplierFloor
	if span <= 0 {
		return 0
	}
	return clamp01((mult - c.MultiplierFloor) / span)
}

// temperatureScore is 1.0 inside the preferred range and falls off
// linearly outside it, reaching zero TempFalloffC degrees past the edge.
func (c *ScoringConfig) temperatureScore(profile *SpeciesProfile, tempC float64) float64 {
	var dist float64
	switch {
	case tempC < profile.TempMinC:
		dist = profile.TempMinC - tempC
	case tempC > profile.TempMaxC:
		dist = tempC - profile.TempMaxC
	default:
		return 1.0
	}
	if c.TempFalloffC <= 0 {
		return 0
	}
	return clamp01(1.0 - dist/c.TempFalloffC)
}

// pressureScore rewards falling pressure for pressure-sensitive species.
// Insensitive species get a neutral value regardless of trend.
func (c *ScoringConfig) pressureScore(profile *SpeciesProfile, trend PressureTrend) float64 {
	if !profile.PressureSensitive {
		return 0.5
	}
	switch trend {
	case TrendFalling:
		return 1.0
	case TrendRising:
		return 0.2
	default:
		return 0.5
	}
}

// weatherScore combines temperature and pressure alignment, then applies
// the flat wind penalty above the species-agnostic threshold.
func (c *ScoringConfig) weatherScore(profile *SpeciesProfile, w WeatherSnapshot) float64 {
	score := c.TempShare*c.temperatureScore(profile, w.TemperatureC) +
		c.PressureShare*c.pressureScore(profile, w.PressureTrend)
	if w.WindSpeedKmh > c.WindPenaltyKmh {
		score -= c.WindPenalty
	}
	return clamp01(score)
}

// timeScore is a step function of the local hour: full credit inside the
// species window, a fixed constant outside. Edge hours get no ramp.
func (c *ScoringConfig) timeScore(profile *SpeciesProfile, hour int) float64 {
	if profile.ActiveAt(hour) {
		return 1.0
	}
	return c.OffWindowTimeScore
}

// compositeScore folds the three components into the final 0-100 score.
func (c *ScoringConfig) compositeScore(baseHabitat, multiplier, weather, timeOfDay float64) int {
	normalized := c.normalizeMultiplier(multiplier)
	raw := c.HabitatWeight*baseHabitat*normalized +
		c.WeatherWeight*weather +
		c.TimeWeight*timeOfDay
	score := int(math.Round(100 * clamp01(raw)))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// reasoning builds the fixed-order rationale: habitat quality, then the
// dominant weather factor, then time of day, joined by "; ".
func (c *ScoringConfig) reasoning(profile *SpeciesProfile, multiplier float64, w WeatherSnapshot, hour int) string {
	parts := []string{
		c.habitatPhrase(profile, multiplier),
		c.weatherPhrase(profile, w),
		c.timePhrase(profile, hour),
	}
	return strings.Join(parts, "; ")
}

func (c *ScoringConfig) habitatPhrase(profile *SpeciesProfile, multiplier float64) string {
	switch {
	case multiplier >= c.MultiplierCeil:
		return fmt.Sprintf("Prime %s habitat", profile.Name)
	case multiplier > c.MultiplierFloor:
		return "Favorable habitat"
	default:
		return "Generic habitat"
	}
}

// weatherPhrase names the most extreme of temperature, pressure and wind.
// Severity is measured on a common [0, 1] scale; ties resolve in the
// fixed order temperature, pressure, wind.
func (c *ScoringConfig) weatherPhrase(profile *SpeciesProfile, w WeatherSnapshot) string {
	tempSeverity := 0.0
	tempPhrase := "Optimal temp"
	switch {
	case w.TemperatureC < profile.TempMinC:
		tempSeverity = severity(profile.TempMinC-w.TemperatureC, c.TempFalloffC)
		tempPhrase = "Cold water"
	case w.TemperatureC > profile.TempMaxC:
		tempSeverity = severity(w.TemperatureC-profile.TempMaxC, c.TempFalloffC)
		tempPhrase = "Warm water"
	}

	pressureSeverity := 0.0
	pressurePhrase := "Stable pressure"
	if w.PressureTrend == TrendFalling {
		pressureSeverity = 0.3
		pressurePhrase = "Falling pressure"
	} else if w.PressureTrend == TrendRising {
		pressureSeverity = 0.3
		pressurePhrase = "Rising pressure"
	}

	windSeverity := 0.0
	windPhrase := "Light wind"
	if c.WindPenaltyKmh > 0 && w.WindSpeedKmh > c.WindPenaltyKmh {
		windSeverity = severity(w.WindSpeedKmh-c.WindPenaltyKmh, c.WindPenaltyKmh)
		windPhrase = "High wind"
	}

	phrase := tempPhrase
	best := tempSeverity
	if pressureSeverity > best {
		best = pressureSeverity
		phrase = pressurePhrase
	}
	if windSeverity > best {
		phrase = windPhrase
	}
	return phrase
}

func (c *ScoringConfig) timePhrase(profile *SpeciesProfile, hour int) string {
	if profile.ActiveAt(hour) {
		return "Prime feeding time"
	}
	return "Off-peak hours"
}

func severity(dist, scale float64) float64 {
	if scale <= 0 {
		return 1
	}
	return clamp01(dist / scale)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
