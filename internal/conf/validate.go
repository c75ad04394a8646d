// conf/validate.go

package conf

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateStationSettings(&settings.Station); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateScanSettings(&settings.Scan); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateSpotsSettings(&settings.Spots); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateWeatherSettings(&settings.Weather); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateSpeciesProfiles(settings.Species); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateWebServerSettings(settings); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateStationSettings checks the station coordinates
func validateStationSettings(settings *StationSettings) error {
	var errs []string

	if settings.Latitude < -90 || settings.Latitude > 90 {
		errs = append(errs, fmt.Sprintf("station latitude must be between -90 and 90: %f", settings.Latitude))
	}
	if settings.Longitude < -180 || settings.Longitude > 180 {
		errs = append(errs, fmt.Sprintf("station longitude must be between -180 and 180: %f", settings.Longitude))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// validateScanSettings checks the fusion weights
func validateScanSettings(settings *ScanSettings) error {
	var errs []string

	if settings.PrimaryWeight < 0 || settings.PrimaryWeight > 1 {
		errs = append(errs, fmt.Sprintf("scan primary weight must be between 0 and 1: %f", settings.PrimaryWeight))
	}
	if settings.SecondaryWeight < 0 || settings.SecondaryWeight > 1 {
		errs = append(errs, fmt.Sprintf("scan secondary weight must be between 0 and 1: %f", settings.SecondaryWeight))
	}
	if sum := settings.PrimaryWeight + settings.SecondaryWeight; math.Abs(sum-1.0) > 1e-9 {
		errs = append(errs, fmt.Sprintf("scan fusion weights must sum to 1.0: %f", sum))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// validateSpotsSettings checks the composite weights and band thresholds
func validateSpotsSettings(settings *SpotsSettings) error {
	var errs []string

	if sum := settings.HabitatWeight + settings.WeatherWeight + settings.TimeWeight; math.Abs(sum-1.0) > 1e-9 {
		errs = append(errs, fmt.Sprintf("spot composite weights must sum to 1.0: %f", sum))
	}
	if settings.Bands.Great <= settings.Bands.Good || settings.Bands.Good <= settings.Bands.Fair {
		errs = append(errs, fmt.Sprintf("band thresholds must be strictly descending: great=%d good=%d fair=%d",
			settings.Bands.Great, settings.Bands.Good, settings.Bands.Fair))
	}
	if settings.Bands.Great > 100 || settings.Bands.Fair < 0 {
		errs = append(errs, "band thresholds must fall within 0-100")
	}
	if settings.WindPenaltyKmh < 0 {
		errs = append(errs, fmt.Sprintf("wind penalty threshold cannot be negative: %f", settings.WindPenaltyKmh))
	}
	if settings.WindPenalty < 0 || settings.WindPenalty > 1 {
		errs = append(errs, fmt.Sprintf("wind penalty must be between 0 and 1: %f", settings.WindPenalty))
	}
	if settings.OffWindowTimeScore < 0 || settings.OffWindowTimeScore >= 1 {
		errs = append(errs, fmt.Sprintf("off-window time score must be in [0, 1): %f", settings.OffWindowTimeScore))
	}
	if settings.MaxKeywordHits < 1 {
		errs = append(errs, fmt.Sprintf("max keyword hits must be at least 1: %d", settings.MaxKeywordHits))
	}
	if settings.DefaultLimit < 1 || settings.MaxLimit < settings.DefaultLimit {
		errs = append(errs, fmt.Sprintf("spot limits invalid: default=%d max=%d", settings.DefaultLimit, settings.MaxLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// validateWeatherSettings checks the weather provider configuration
func validateWeatherSettings(settings *WeatherSettings) error {
	var errs []string

	if settings.Provider != "none" && settings.Provider != "openmeteo" {
		errs = append(errs, fmt.Sprintf("invalid weather provider: %s", settings.Provider))
	}
	if settings.PollInterval < 1 {
		errs = append(errs, fmt.Sprintf("weather poll interval must be at least 1 minute: %d", settings.PollInterval))
	}
	if settings.GridDegrees <= 0 {
		errs = append(errs, fmt.Sprintf("weather grid size must be positive: %f", settings.GridDegrees))
	}
	if settings.MaxRegions < 1 {
		errs = append(errs, fmt.Sprintf("weather max regions must be at least 1: %d", settings.MaxRegions))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// validateSpeciesProfiles checks every configured species profile
func validateSpeciesProfiles(profiles map[string]SpeciesProfileConfig) error {
	var errs []string

	if len(profiles) == 0 {
		errs = append(errs, "at least one species profile must be configured")
	}

	for name, p := range profiles {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, "species name cannot be empty")
			continue
		}
		if len(p.Keywords) == 0 {
			errs = append(errs, fmt.Sprintf("species %s: at least one habitat keyword required", name))
		}
		if p.TempMinC > p.TempMaxC {
			errs = append(errs, fmt.Sprintf("species %s: temperature range inverted (%f > %f)", name, p.TempMinC, p.TempMaxC))
		}
		for _, hr := range p.ActiveHours {
			if hr.Start < 0 || hr.Start > 23 || hr.End < 1 || hr.End > 24 || hr.Start >= hr.End {
				errs = append(errs, fmt.Sprintf("species %s: invalid active hour range [%d, %d)", name, hr.Start, hr.End))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// validateWebServerSettings checks the web server configuration
func validateWebServerSettings(settings *Settings) error {
	if settings.WebServer.Enabled && settings.WebServer.Port == "" {
		return fmt.Errorf("web server port is required when web server is enabled")
	}
	return nil
}
