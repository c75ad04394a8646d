// config.go: This file contains the configuration for the CastNet-Go application. It defines the settings struct and functions to load and save the settings.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configFiles embed.FS

// StationSettings describes the home location of this CastNet node. It is
// used for sun event calculations and as the fallback weather location.
type StationSettings struct {
	Name      string  // name of the station, used to identify catch sources
	Latitude  float64 // station latitude
	Longitude float64 // station longitude
}

// ScanSettings contains settings for the identification fusion engine.
type ScanSettings struct {
	Debug           bool    // true to enable debug mode
	PrimaryWeight   float64 // weight of the primary classifier confidence in hybrid fusion
	SecondaryWeight float64 // weight of the secondary (similarity search) confidence
}

// BandThresholds holds the fixed bite score cutoffs for status bands.
// Bands are absolute thresholds, never percentiles.
type BandThresholds struct {
	Great int // scores >= Great are GREAT
	Good  int // scores >= Good are GOOD
	Fair  int // scores >= Fair are FAIR, below is POOR
}

// CatalogSettings controls the habitat catalog loader.
type CatalogSettings struct {
	Path           string // path to the habitat GeoJSON file
	RefreshMinutes int    // catalog reload interval in minutes, 0 to load once
}

// SpotsSettings contains settings for the spot recommendation engine.
type SpotsSettings struct {
	Debug              bool            // true to enable debug mode
	HabitatWeight      float64         // weight of the habitat component in the composite score
	WeatherWeight      float64         // weight of the weather component
	TimeWeight         float64         // weight of the time-of-day component
	Bands              BandThresholds  // status band thresholds
	WindPenaltyKmh     float64         // wind speed above which the flat penalty applies
	WindPenalty        float64         // flat penalty subtracted from the weather score
	OffWindowTimeScore float64         // time score outside the species diurnal window
	MaxKeywordHits     int             // keyword hit count at which the habitat multiplier saturates
	DefaultLimit       int             // default number of ranked spots returned
	MaxLimit           int             // hard cap on requested limit
	Catalog            CatalogSettings // habitat catalog settings
}

// WeatherSettings contains all weather-related settings
type WeatherSettings struct {
	Provider     string  // weather provider, "openmeteo" is the only supported value
	Endpoint     string  // provider API endpoint
	PollInterval int     // weather data polling interval in minutes
	GridDegrees  float64 // regional clustering grid size in degrees
	MaxRegions   int     // maximum number of region cells fetched per ranking request
	Debug        bool    // true to enable debug mode
}

// HourRange is a half-open [Start, End) local hour interval. End may be 24.
type HourRange struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// SpeciesProfileConfig holds the per-species scoring profile. Profiles are
// plain key/value configuration so new species can be added without code
// changes.
type SpeciesProfileConfig struct {
	Keywords          []string    `yaml:"keywords"`          // habitat keywords matched against catalog descriptions
	TempMinC          float64     `yaml:"tempminc"`          // lower bound of the preferred water temperature range
	TempMaxC          float64     `yaml:"tempmaxc"`          // upper bound of the preferred water temperature range
	PressureSensitive bool        `yaml:"pressuresensitive"` // true if falling pressure favors feeding activity
	ActiveHours       []HourRange `yaml:"activehours"`       // preferred diurnal windows in local hours
	Description       string      `yaml:"description"`       // short angler-facing description
}

// Settings contains all configuration options for the CastNet-Go application.
type Settings struct {
	Debug bool // true to enable debug mode

	// Runtime values, not stored in config file
	Version   string `yaml:"-"` // Version from build
	BuildDate string `yaml:"-"` // Build date from build

	Main struct {
		Name      string    // name of the CastNet-Go node
		TimeAs24h bool      // true 24-hour time format, false 12-hour time format
		Log       LogConfig // logging configuration
	}

	Station StationSettings // station location settings

	Scan ScanSettings // identification fusion settings

	Spots SpotsSettings // spot recommendation settings

	Weather WeatherSettings // weather provider settings

	Species map[string]SpeciesProfileConfig // per-species scoring profiles

	WebServer struct {
		Debug   bool      // true to enable debug mode
		Enabled bool      // true to enable web server
		Port    string    // port for web server
		Log     LogConfig // logging configuration for web server
	}

	Output struct {
		SQLite struct {
			Enabled bool   // true to enable sqlite output
			Path    string // path to sqlite database
		}

		MySQL struct {
			Enabled  bool   // true to enable mysql output
			Username string // username for mysql database
			Password string // password for mysql database
			Database string // database name for mysql database
			Host     string // host for mysql database
			Port     string // port for mysql database
		}
	}
}

// LogConfig defines the configuration for a log file
type LogConfig struct {
	Enabled     bool         // true to enable this log
	Path        string       // Path to the log file
	Rotation    RotationType // Type of log rotation
	MaxSize     int64        // Max size in bytes for RotationSize
	RotationDay string       // Day of the week for RotationWeekly
}

// RotationType defines different types of log rotations.
type RotationType string

const (
	RotationDaily  RotationType = "daily"
	RotationWeekly RotationType = "weekly"
	RotationSize   RotationType = "size"
)

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into the
// settings instance.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter
	// function defined in defaults.go
	setDefaultConfig()

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates a default config file and writes it to the default config path
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")
	defaultConfig := getDefaultConfig()

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	return string(data)
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting returns the current settings instance, initializing it if necessary
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			_, err := Load()
			if err != nil {
				log.Fatalf("Error loading settings: %v", err)
			}
		}
	})
	return GetSettings()
}

// SaveSettings saves the current settings to the configuration file.
func SaveSettings() error {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()

	settingsCopy := *settingsInstance

	configPath, err := FindConfigFile()
	if err != nil {
		return fmt.Errorf("error finding config file: %w", err)
	}

	if err := SaveYAMLConfig(configPath, &settingsCopy); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	log.Printf("Settings saved successfully to %s", configPath)
	return nil
}

// SaveYAMLConfig updates the YAML configuration file with new settings.
// It overwrites the existing file, not preserving comments or structure.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	// Write to a temporary file first so the replace is atomic
	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()
	defer os.Remove(tempFileName)

	if _, err := tempFile.Write(yamlData); err != nil {
		tempFile.Close()
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := os.Rename(tempFileName, configPath); err != nil {
		// Rename can fail across filesystems, fall back to copy and delete
		if err := moveFile(tempFileName, configPath); err != nil {
			return fmt.Errorf("error copying config file: %w", err)
		}
	}

	return nil
}

// SupportedSpecies returns the sorted list of configured species names.
func (s *Settings) SupportedSpecies() []string {
	return sortedSpeciesNames(s.Species)
}
