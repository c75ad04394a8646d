package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestSettings() *Settings {
	s := &Settings{}
	s.Station.Latitude = 46.5
	s.Station.Longitude = -81.0
	s.Scan.PrimaryWeight = 0.7
	s.Scan.SecondaryWeight = 0.3
	s.Spots.HabitatWeight = 0.5
	s.Spots.WeatherWeight = 0.3
	s.Spots.TimeWeight = 0.2
	s.Spots.Bands = BandThresholds{Great: 75, Good: 55, Fair: 35}
	s.Spots.WindPenaltyKmh = 25
	s.Spots.WindPenalty = 0.2
	s.Spots.OffWindowTimeScore = 0.4
	s.Spots.MaxKeywordHits = 3
	s.Spots.DefaultLimit = 100
	s.Spots.MaxLimit = 500
	s.Weather.Provider = "openmeteo"
	s.Weather.PollInterval = 30
	s.Weather.GridDegrees = 0.5
	s.Weather.MaxRegions = 8
	s.Species = map[string]SpeciesProfileConfig{
		"walleye": {
			Keywords:    []string{"weed"},
			TempMinC:    10,
			TempMaxC:    18,
			ActiveHours: []HourRange{{Start: 0, End: 7}},
		},
	}
	return s
}

func TestValidateSettingsAcceptsDefaults(t *testing.T) {
	assert.NoError(t, ValidateSettings(validTestSettings()))
}

func TestValidateSettingsCollectsAllErrors(t *testing.T) {
	s := validTestSettings()
	s.Station.Latitude = 123
	s.Scan.PrimaryWeight = 0.9 // weights no longer sum to 1
	s.Weather.Provider = "carrier-pigeon"

	err := ValidateSettings(s)
	require.Error(t, err)

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 3)
}

func TestValidateScanWeights(t *testing.T) {
	tests := []struct {
		name      string
		primary   float64
		secondary float64
		wantErr   bool
	}{
		{"default split", 0.7, 0.3, false},
		{"even split", 0.5, 0.5, false},
		{"sum below one", 0.6, 0.3, true},
		{"negative weight", -0.1, 1.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validTestSettings()
			s.Scan.PrimaryWeight = tt.primary
			s.Scan.SecondaryWeight = tt.secondary
			err := ValidateSettings(s)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBandThresholds(t *testing.T) {
	s := validTestSettings()
	s.Spots.Bands = BandThresholds{Great: 55, Good: 55, Fair: 35}
	assert.Error(t, ValidateSettings(s))

	s = validTestSettings()
	s.Spots.Bands = BandThresholds{Great: 110, Good: 55, Fair: 35}
	assert.Error(t, ValidateSettings(s))
}

func TestValidateSpeciesProfiles(t *testing.T) {
	s := validTestSettings()
	s.Species = map[string]SpeciesProfileConfig{}
	assert.Error(t, ValidateSettings(s))

	s = validTestSettings()
	s.Species["pike"] = SpeciesProfileConfig{TempMinC: 15, TempMaxC: 22}
	assert.Error(t, ValidateSettings(s), "keywords are required")

	s = validTestSettings()
	s.Species["pike"] = SpeciesProfileConfig{
		Keywords:    []string{"weed"},
		TempMinC:    22,
		TempMaxC:    15,
		ActiveHours: []HourRange{{Start: 0, End: 7}},
	}
	assert.Error(t, ValidateSettings(s), "inverted temperature range")

	s = validTestSettings()
	s.Species["pike"] = SpeciesProfileConfig{
		Keywords:    []string{"weed"},
		TempMinC:    15,
		TempMaxC:    22,
		ActiveHours: []HourRange{{Start: 7, End: 7}},
	}
	assert.Error(t, ValidateSettings(s), "empty hour range")
}

func TestValidateWebServer(t *testing.T) {
	s := validTestSettings()
	s.WebServer.Enabled = true
	s.WebServer.Port = ""
	assert.Error(t, ValidateSettings(s))

	s.WebServer.Port = "8080"
	assert.NoError(t, ValidateSettings(s))
}

func TestSupportedSpecies(t *testing.T) {
	s := validTestSettings()
	s.Species["bass"] = SpeciesProfileConfig{
		Keywords:    []string{"dock"},
		TempMinC:    18,
		TempMaxC:    26,
		ActiveHours: []HourRange{{Start: 5, End: 9}},
	}

	names := s.SupportedSpecies()
	assert.Equal(t, []string{"bass", "walleye"}, names)
}
