package habitat

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [-79.5, 44.5]},
      "properties": {
        "UNIQID": "HAB-001",
        "LAKE_NAME": "Lake Simcoe",
        "HABITAT_FE": "Walleye spawning habitat",
        "HABITAT_DE": "Rocky shoal, known walleye spawning area",
        "AREA": 12000.5,
        "potential_score": 100.0,
        "centroid_lat_wgs84": 44.5,
        "centroid_lon_wgs84": -79.5
      }
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [-80.1, 45.2]},
      "properties": {
        "UNIQID": "HAB-002",
        "LAKE_NAME": "Georgian Bay",
        "HABITAT_FE": "Nursery habitat",
        "HABITAT_DE": "Weedy bay",
        "AREA": 3000.0,
        "potential_score": 10.0,
        "centroid_lat_wgs84": 45.2,
        "centroid_lon_wgs84": -80.1
      }
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [-81.0, 46.0]},
      "properties": {
        "UNIQID": "HAB-003",
        "LAKE_NAME": "No Potential Lake",
        "HABITAT_FE": "Generic habitat",
        "HABITAT_DE": "",
        "AREA": 500.0,
        "potential_score": 0.0,
        "centroid_lat_wgs84": 46.0,
        "centroid_lon_wgs84": -81.0
      }
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [-82.0, 47.0]},
      "properties": {
        "UNIQID": "HAB-004",
        "LAKE_NAME": "Geometry Centroid Lake",
        "HABITAT_FE": "Feeding habitat",
        "HABITAT_DE": "",
        "AREA": 800.0,
        "potential_score": 31.6
      }
    }
  ]
}`

func writeTestCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.geojson")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCatalogLoad(t *testing.T) {
	path := writeTestCatalog(t, testCatalogJSON)
	catalog := NewCatalog(path, 0)

	require.NoError(t, catalog.Load())
	assert.Equal(t, 4, catalog.Count())

	locations, err := catalog.Locations()
	require.NoError(t, err)
	require.Len(t, locations, 4)

	first := locations[0]
	assert.Equal(t, "HAB-001", first.ID)
	assert.Equal(t, "Lake Simcoe", first.Name)
	assert.InDelta(t, 44.5, first.Latitude, 1e-9)
	assert.InDelta(t, -79.5, first.Longitude, 1e-9)
	assert.Equal(t, "Walleye spawning habitat", first.HabitatType)
}

func TestCatalogScoreNormalization(t *testing.T) {
	path := writeTestCatalog(t, testCatalogJSON)
	catalog := NewCatalog(path, 0)
	require.NoError(t, catalog.Load())

	locations, err := catalog.Locations()
	require.NoError(t, err)

	byID := make(map[string]Location, len(locations))
	for _, loc := range locations {
		byID[loc.ID] = loc
	}

	// Log scale over the positive range [10, 100]: max score maps to 1,
	// min to 0, zero potential stays at 0.
	assert.InDelta(t, 1.0, byID["HAB-001"].BaseHabitatScore, 1e-9)
	assert.InDelta(t, 0.0, byID["HAB-002"].BaseHabitatScore, 1e-9)
	assert.InDelta(t, 0.0, byID["HAB-003"].BaseHabitatScore, 1e-9)

	// 31.6 is roughly the geometric midpoint of [10, 100]
	mid := byID["HAB-004"].BaseHabitatScore
	assert.InDelta(t, (math.Log(31.6)-math.Log(10))/(math.Log(100)-math.Log(10)), mid, 1e-9)
	assert.Greater(t, mid, 0.0)
	assert.Less(t, mid, 1.0)
}

func TestCatalogFallsBackToGeometryCentroid(t *testing.T) {
	path := writeTestCatalog(t, testCatalogJSON)
	catalog := NewCatalog(path, 0)
	require.NoError(t, catalog.Load())

	locations, err := catalog.Locations()
	require.NoError(t, err)

	var found *Location
	for i := range locations {
		if locations[i].ID == "HAB-004" {
			found = &locations[i]
			break
		}
	}
	require.NotNil(t, found)
	assert.InDelta(t, 47.0, found.Latitude, 1e-9)
	assert.InDelta(t, -82.0, found.Longitude, 1e-9)
}

func TestCatalogMissingFile(t *testing.T) {
	catalog := NewCatalog(filepath.Join(t.TempDir(), "missing.geojson"), 0)

	err := catalog.Load()
	require.Error(t, err)

	_, err = catalog.Locations()
	require.Error(t, err)
}

func TestCatalogServesStaleDataWhenRefreshFails(t *testing.T) {
	path := writeTestCatalog(t, testCatalogJSON)
	catalog := NewCatalog(path, time.Nanosecond)
	require.NoError(t, catalog.Load())

	// Force every Locations call to attempt a refresh, then break the file
	require.NoError(t, os.Remove(path))
	time.Sleep(time.Millisecond)

	locations, err := catalog.Locations()
	require.NoError(t, err)
	assert.Len(t, locations, 4)
}

func TestCatalogReturnsCopies(t *testing.T) {
	path := writeTestCatalog(t, testCatalogJSON)
	catalog := NewCatalog(path, 0)
	require.NoError(t, catalog.Load())

	first, err := catalog.Locations()
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := catalog.Locations()
	require.NoError(t, err)
	assert.Equal(t, "Lake Simcoe", second[0].Name)
}
