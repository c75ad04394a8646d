package spots

import (
	"github.com/castnet/castnet-go/internal/conf"
)

// ProfilesFromSettings converts the configured species profile map into
// engine profiles. Species names are normalized so lookups are
// case-insensitive.
func ProfilesFromSettings(settings *conf.Settings) Profiles {
	profiles := make(Profiles, len(settings.Species))
	for name, pc := range settings.Species {
		hours := make([]HourRange, 0, len(pc.ActiveHours))
		for _, hr := range pc.ActiveHours {
			hours = append(hours, HourRange{Start: hr.Start, End: hr.End})
		}
		key := normalizeSpecies(name)
		profiles[key] = SpeciesProfile{
			Name:              key,
			Keywords:          pc.Keywords,
			TempMinC:          pc.TempMinC,
			TempMaxC:          pc.TempMaxC,
			PressureSensitive: pc.PressureSensitive,
			ActiveHours:       hours,
			Description:       pc.Description,
		}
	}
	return profiles
}

// ScoringConfigFromSettings builds the engine scoring configuration from
// the application settings. Weights and band thresholds stay in
// configuration so tuning never touches scoring logic.
func ScoringConfigFromSettings(settings *conf.Settings) ScoringConfig {
	cfg := DefaultScoringConfig()
	sp := settings.Spots
	cfg.HabitatWeight = sp.HabitatWeight
	cfg.WeatherWeight = sp.WeatherWeight
	cfg.TimeWeight = sp.TimeWeight
	cfg.Bands = BandThresholds{
		Great: sp.Bands.Great,
		Good:  sp.Bands.Good,
		Fair:  sp.Bands.Fair,
	}
	cfg.WindPenaltyKmh = sp.WindPenaltyKmh
	cfg.WindPenalty = sp.WindPenalty
	cfg.OffWindowTimeScore = sp.OffWindowTimeScore
	cfg.MaxKeywordHits = sp.MaxKeywordHits
	cfg.DefaultLimit = sp.DefaultLimit
	return cfg
}
