// Package weather fetches current conditions for habitat regions and
// turns raw samples into the snapshots spot ranking consumes.
package weather

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/castnet/castnet-go/internal/conf"
	"github.com/castnet/castnet-go/internal/datastore"
	"github.com/castnet/castnet-go/internal/errors"
	"github.com/castnet/castnet-go/internal/habitat"
	"github.com/castnet/castnet-go/internal/logging"
	"github.com/castnet/castnet-go/internal/spots"
)

// Package-level logger for the weather service
var (
	weatherLogger   *slog.Logger
	weatherLevelVar = new(slog.LevelVar)
)

func init() {
	weatherLevelVar.Set(slog.LevelInfo)

	var err error
	weatherLogger, _, err = logging.NewFileLogger("logs/weather.log", "weather", weatherLevelVar)
	if err != nil {
		logging.Error("Failed to initialize weather file logger", "error", err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: weatherLevelVar})
		weatherLogger = slog.New(fbHandler).With("service", "weather")
	}
}

func getLogger() *slog.Logger {
	return weatherLogger
}

// pressureTrendDeadband is the pressure change below which the trend is
// reported as steady. Sensor noise sits well inside one hectopascal.
const pressureTrendDeadband = 1.0

// Observation is one raw sample from a provider.
type Observation struct {
	Time         time.Time
	Latitude     float64
	Longitude    float64
	TemperatureC float64
	PressureHpa  float64
	WindSpeedKmh float64
}

// Provider fetches current conditions for a point.
type Provider interface {
	Fetch(lat, lon float64) (*Observation, error)
}

// Service resolves weather snapshots for habitat locations. Nearby
// locations share one region cell so a ranking request costs at most
// MaxRegions provider calls, and cached cells cost none.
type Service struct {
	provider Provider
	db       datastore.Interface
	settings *conf.Settings
	cache    *gocache.Cache
}

// NewService creates a weather service for the configured provider. A
// "none" provider yields a service that reports no snapshots, which
// excludes every location from ranking.
func NewService(settings *conf.Settings, db datastore.Interface) (*Service, error) {
	var provider Provider

	switch settings.Weather.Provider {
	case "none":
		provider = nil
	case "openmeteo":
		provider = NewOpenMeteoProvider(settings.Weather.Endpoint)
	default:
		return nil, errors.New(fmt.Errorf("invalid weather provider: %s", settings.Weather.Provider)).
			Component("weather").
			Category(errors.CategoryConfiguration).
			Context("provider", settings.Weather.Provider).
			Build()
	}

	ttl := time.Duration(settings.Weather.PollInterval) * time.Minute
	return &Service{
		provider: provider,
		db:       db,
		settings: settings,
		cache:    gocache.New(ttl, 2*ttl),
	}, nil
}

// RegionKey maps a coordinate onto its grid cell, identified by the cell
// center. All locations in one cell share a single provider fetch.
func RegionKey(lat, lon, gridDegrees float64) string {
	if gridDegrees <= 0 {
		gridDegrees = 0.5
	}
	centerLat := (math.Floor(lat/gridDegrees) + 0.5) * gridDegrees
	centerLon := (math.Floor(lon/gridDegrees) + 0.5) * gridDegrees
	return fmt.Sprintf("%.2f,%.2f", centerLat, centerLon)
}

type region struct {
	key string
	lat float64
	lon float64
}

// SnapshotsFor returns a weather snapshot per location ID. Locations are
// clustered into grid cells and at most MaxRegions cells are resolved;
// locations in unresolved cells, and cells whose fetch failed, are simply
// absent from the result. An empty map is a valid answer.
func (s *Service) SnapshotsFor(locations []habitat.Location) map[string]spots.WeatherSnapshot {
	snapshots := make(map[string]spots.WeatherSnapshot)
	if s.provider == nil || len(locations) == 0 {
		return snapshots
	}

	grid := s.settings.Weather.GridDegrees
	maxRegions := s.settings.Weather.MaxRegions

	// First-seen order keeps the region cap deterministic for a given
	// catalog ordering.
	regionOrder := make([]region, 0, maxRegions)
	regionMembers := make(map[string][]string)
	for _, loc := range locations {
		key := RegionKey(loc.Latitude, loc.Longitude, grid)
		if _, seen := regionMembers[key]; !seen {
			if maxRegions > 0 && len(regionOrder) >= maxRegions {
				continue
			}
			regionOrder = append(regionOrder, region{key: key, lat: loc.Latitude, lon: loc.Longitude})
		}
		regionMembers[key] = append(regionMembers[key], loc.ID)
	}

	for _, r := range regionOrder {
		snapshot, err := s.regionSnapshot(r)
		if err != nil {
			weatherLogger.Warn("Skipping region after failed weather fetch",
				"region", r.key, "locations", len(regionMembers[r.key]), "error", err)
			continue
		}
		for _, id := range regionMembers[r.key] {
			snapshots[id] = snapshot
		}
	}
	return snapshots
}

// regionSnapshot returns the cached snapshot for a region or fetches,
// persists and caches a fresh one.
func (s *Service) regionSnapshot(r region) (spots.WeatherSnapshot, error) {
	if cached, found := s.cache.Get(r.key); found {
		if snapshot, ok := cached.(spots.WeatherSnapshot); ok {
			return snapshot, nil
		}
	}

	obs, err := s.provider.Fetch(r.lat, r.lon)
	if err != nil {
		return spots.WeatherSnapshot{}, err
	}

	trend := s.pressureTrend(r.key, obs.PressureHpa)
	s.persist(r.key, obs)

	snapshot := spots.WeatherSnapshot{
		TemperatureC:  obs.TemperatureC,
		PressureHpa:   obs.PressureHpa,
		WindSpeedKmh:  obs.WindSpeedKmh,
		PressureTrend: trend,
	}
	s.cache.SetDefault(r.key, snapshot)

	weatherLogger.Debug("Resolved region weather",
		"region", r.key,
		"temp_c", snapshot.TemperatureC,
		"pressure_hpa", snapshot.PressureHpa,
		"wind_kmh", snapshot.WindSpeedKmh,
		"trend", snapshot.PressureTrend,
	)
	return snapshot, nil
}

// pressureTrend compares the fresh pressure against the last stored
// sample for the region. Without history the trend is steady.
func (s *Service) pressureTrend(regionKey string, pressureHpa float64) spots.PressureTrend {
	if s.db == nil {
		return spots.TrendSteady
	}
	prev, err := s.db.LatestWeatherObservation(regionKey)
	if err != nil {
		weatherLogger.Warn("Failed to load previous observation for trend", "region", regionKey, "error", err)
		return spots.TrendSteady
	}
	if prev == nil {
		return spots.TrendSteady
	}
	delta := pressureHpa - prev.PressureHpa
	switch {
	case delta <= -pressureTrendDeadband:
		return spots.TrendFalling
	case delta >= pressureTrendDeadband:
		return spots.TrendRising
	default:
		return spots.TrendSteady
	}
}

func (s *Service) persist(regionKey string, obs *Observation) {
	if s.db == nil {
		return
	}
	record := &datastore.WeatherObservation{
		RegionKey:    regionKey,
		Time:         obs.Time,
		TemperatureC: obs.TemperatureC,
		PressureHpa:  obs.PressureHpa,
		WindSpeedKmh: obs.WindSpeedKmh,
	}
	if err := s.db.SaveWeatherObservation(record); err != nil {
		weatherLogger.Error("Failed to save weather observation", "region", regionKey, "error", err)
	}
}

// StartPolling keeps the station's home region warm so the first ranking
// request after startup does not block on a provider call.
func (s *Service) StartPolling(stopChan <-chan struct{}) {
	if s.provider == nil {
		return
	}
	interval := time.Duration(s.settings.Weather.PollInterval) * time.Minute

	weatherLogger.Info("Starting weather polling service",
		"provider", s.settings.Weather.Provider,
		"interval_minutes", s.settings.Weather.PollInterval,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	poll := func() {
		home := region{
			key: RegionKey(s.settings.Station.Latitude, s.settings.Station.Longitude, s.settings.Weather.GridDegrees),
			lat: s.settings.Station.Latitude,
			lon: s.settings.Station.Longitude,
		}
		// Evict first so the poll always fetches a fresh sample.
		s.cache.Delete(home.key)
		if _, err := s.regionSnapshot(home); err != nil {
			weatherLogger.Warn("Weather poll failed", "region", home.key, "error", err)
		}
	}

	poll()
	for {
		select {
		case <-ticker.C:
			poll()
		case <-stopChan:
			weatherLogger.Info("Stopping weather polling service")
			return
		}
	}
}
