// Package spots ranks candidate fishing locations for a target species by
// combining habitat suitability, live weather and time of day into a
// 0-100 bite score with a status band and a human readable rationale.
// The engine is pure: all external data (catalog, weather snapshots,
// current time) is injected by the caller, and identical inputs always
// produce identical output.
package spots

import (
	"strings"

	"github.com/castnet/castnet-go/internal/errors"
)

// ErrUnknownSpecies is returned when ranking is requested for a species
// without a configured profile. Recoverable: callers should present the
// supported species list.
var ErrUnknownSpecies = errors.NewStd("unknown species")

// HourRange is a half-open [Start, End) local hour interval.
type HourRange struct {
	Start int
	End   int
}

// Contains reports whether the local hour falls inside the range.
func (hr HourRange) Contains(hour int) bool {
	return hour >= hr.Start && hour < hr.End
}

// SpeciesProfile describes how one species responds to habitat, weather
// and time of day. Profiles are static configuration, one per supported
// species.
type SpeciesProfile struct {
	Name              string
	Keywords          []string
	TempMinC          float64
	TempMaxC          float64
	PressureSensitive bool
	ActiveHours       []HourRange
	Description       string
}

// ActiveAt reports whether the species' diurnal window covers the given
// local hour. The window is a step function: an hour is either inside or
// outside, there is no partial credit for adjacency.
func (p *SpeciesProfile) ActiveAt(hour int) bool {
	for _, hr := range p.ActiveHours {
		if hr.Contains(hour) {
			return true
		}
	}
	return false
}

// Profiles is the supported species set, keyed by normalized name.
type Profiles map[string]SpeciesProfile

// Get looks up a species profile by name, case-insensitively.
func (p Profiles) Get(species string) (SpeciesProfile, bool) {
	profile, ok := p[normalizeSpecies(species)]
	return profile, ok
}

// Names returns the supported species names. Order follows map iteration;
// callers that need a stable listing sort the result themselves.
func (p Profiles) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	return names
}

func normalizeSpecies(species string) string {
	return strings.ToLower(strings.TrimSpace(species))
}
