// Package habitat loads the static habitat catalog that backs spot
// recommendations. The catalog originates as a GeoJSON feature collection
// of scored habitat polygons; raw potential scores are normalized to base
// habitat scores in [0, 1] on a log scale at load time. The catalog is
// read-only to the rest of the application and cached process-wide with a
// load-once/refresh-on-interval policy.
package habitat

import (
	"io"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/castnet/castnet-go/internal/errors"
	"github.com/castnet/castnet-go/internal/logging"
)

// Package-level logger for the habitat catalog
var (
	catalogLogger   *slog.Logger
	catalogLevelVar = new(slog.LevelVar)
	catalogOnce     sync.Once
)

func getLogger() *slog.Logger {
	catalogOnce.Do(func() {
		var err error
		catalogLevelVar.Set(slog.LevelInfo)
		catalogLogger, _, err = logging.NewFileLogger("logs/habitat.log", "habitat", catalogLevelVar)
		if err != nil {
			logging.Error("Failed to initialize habitat file logger", "error", err)
			fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: catalogLevelVar})
			catalogLogger = slog.New(fbHandler).With("service", "habitat")
		}
	})
	return catalogLogger
}

// Location is one candidate fishing location from the habitat catalog.
// BaseHabitatScore is precomputed at load time from the raw ecological
// potential score; the recommendation engine treats it as given.
type Location struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	HabitatType        string  `json:"habitat_type"`
	HabitatDescription string  `json:"habitat_desc"`
	Area               float64 `json:"area"`
	BaseHabitatScore   float64 `json:"base_score"`
	RawPotential       float64 `json:"potential_score"`
}

// Point returns the location coordinates as an orb point (lon, lat order).
func (l *Location) Point() orb.Point {
	return orb.Point{l.Longitude, l.Latitude}
}

// Catalog holds the loaded location set. Safe for concurrent readers.
type Catalog struct {
	mu        sync.RWMutex
	path      string
	refresh   time.Duration
	loadedAt  time.Time
	locations []Location
}

// NewCatalog creates a catalog backed by the GeoJSON file at path. A
// refresh interval of zero disables reloading after the first load.
func NewCatalog(path string, refresh time.Duration) *Catalog {
	return &Catalog{
		path:    path,
		refresh: refresh,
	}
}

// Load reads and parses the catalog file, replacing the in-memory set.
func (c *Catalog) Load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return errors.New(err).
			Component("habitat").
			Category(errors.CategoryFileIO).
			Context("path", c.path).
			Build()
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return errors.New(err).
			Component("habitat").
			Category(errors.CategoryCatalogLoad).
			Context("path", c.path).
			Build()
	}

	locations := featuresToLocations(fc.Features)
	normalizeScores(locations)

	c.mu.Lock()
	c.locations = locations
	c.loadedAt = time.Now()
	c.mu.Unlock()

	getLogger().Info("Loaded habitat catalog",
		"path", c.path,
		"locations", len(locations),
	)
	return nil
}

// Locations returns a copy of the current location set in catalog order,
// reloading first when the refresh interval has elapsed. Catalog order is
// significant: the ranking engine uses it as the tie-break order.
func (c *Catalog) Locations() ([]Location, error) {
	c.mu.RLock()
	stale := c.loadedAt.IsZero() || (c.refresh > 0 && time.Since(c.loadedAt) > c.refresh)
	c.mu.RUnlock()

	if stale {
		if err := c.Load(); err != nil {
			c.mu.RLock()
			empty := c.loadedAt.IsZero()
			c.mu.RUnlock()
			if empty {
				return nil, err
			}
			// Keep serving the previous catalog when a refresh fails
			getLogger().Warn("Habitat catalog refresh failed, serving previous data", "error", err)
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Location, len(c.locations))
	copy(out, c.locations)
	return out, nil
}

// Count returns the number of loaded locations.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.locations)
}

// featuresToLocations converts GeoJSON features to catalog locations.
// Features without usable coordinates are skipped, matching the source
// dataset behavior.
func featuresToLocations(features []*geojson.Feature) []Location {
	locations := make([]Location, 0, len(features))
	for _, f := range features {
		if f == nil {
			continue
		}
		props := f.Properties

		lat := props.MustFloat64("centroid_lat_wgs84", math.NaN())
		lon := props.MustFloat64("centroid_lon_wgs84", math.NaN())
		if math.IsNaN(lat) || math.IsNaN(lon) {
			// Fall back to the geometry centroid when the dataset did not
			// precompute one
			if f.Geometry == nil {
				continue
			}
			centroid, _ := planar.CentroidArea(f.Geometry)
			lon, lat = centroid[0], centroid[1]
		}

		potential := props.MustFloat64("potential_score_capped", 0)
		if potential <= 0 {
			potential = props.MustFloat64("potential_score", 0)
		}

		locations = append(locations, Location{
			ID:                 props.MustString("UNIQID", ""),
			Name:               props.MustString("LAKE_NAME", "Unknown"),
			Latitude:           lat,
			Longitude:          lon,
			HabitatType:        props.MustString("HABITAT_FE", ""),
			HabitatDescription: props.MustString("HABITAT_DE", ""),
			Area:               props.MustFloat64("AREA", 0),
			RawPotential:       potential,
		})
	}
	return locations
}

// normalizeScores maps raw potential scores onto [0, 1] using a log scale
// over the observed positive range. The raw scores span several orders of
// magnitude, a linear mapping would collapse almost everything to zero.
func normalizeScores(locations []Location) {
	scoreMin, scoreMax := math.Inf(1), math.Inf(-1)
	for i := range locations {
		if s := locations[i].RawPotential; s > 0 {
			scoreMin = math.Min(scoreMin, s)
			scoreMax = math.Max(scoreMax, s)
		}
	}

	if math.IsInf(scoreMin, 1) {
		// No positive scores at all
		return
	}

	logMin := math.Log(scoreMin)
	logMax := math.Log(scoreMax)

	for i := range locations {
		s := locations[i].RawPotential
		switch {
		case s <= 0:
			locations[i].BaseHabitatScore = 0
		case logMax == logMin:
			locations[i].BaseHabitatScore = 0.5
		default:
			locations[i].BaseHabitatScore = (math.Log(s) - logMin) / (logMax - logMin)
		}
	}
}
