package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castnet/castnet-go/internal/conf"
	"github.com/castnet/castnet-go/internal/fusion"
	"github.com/castnet/castnet-go/internal/habitat"
	"github.com/castnet/castnet-go/internal/spots"
)

const testCatalogJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [-81.0, 46.5]},
			"properties": {
				"UNIQID": "HAB-001",
				"LAKE_NAME": "North Weed Bay",
				"HABITAT_FE": "weed bed",
				"HABITAT_DE": "dense weed with rock edges",
				"AREA": 1200.0,
				"potential_score": 100.0,
				"centroid_lat_wgs84": 46.5,
				"centroid_lon_wgs84": -81.0
			}
		},
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [-81.1, 46.6]},
			"properties": {
				"UNIQID": "HAB-002",
				"LAKE_NAME": "Mud Flat",
				"HABITAT_FE": "mud flat",
				"HABITAT_DE": "featureless shallow flat",
				"AREA": 800.0,
				"potential_score": 10.0,
				"centroid_lat_wgs84": 46.6,
				"centroid_lon_wgs84": -81.1
			}
		}
	]
}`

// stubWeather serves a fixed snapshot for every location.
type stubWeather struct {
	snapshot spots.WeatherSnapshot
	empty    bool
}

func (s *stubWeather) SnapshotsFor(locations []habitat.Location) map[string]spots.WeatherSnapshot {
	result := make(map[string]spots.WeatherSnapshot)
	if s.empty {
		return result
	}
	for _, loc := range locations {
		result[loc.ID] = s.snapshot
	}
	return result
}

func testController(t *testing.T) *Controller {
	t.Helper()

	catalogPath := filepath.Join(t.TempDir(), "catalog.geojson")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalogJSON), 0o644))

	settings := &conf.Settings{}
	settings.Version = "test"
	settings.Spots.DefaultLimit = 100
	settings.Spots.MaxLimit = 500
	settings.Species = map[string]conf.SpeciesProfileConfig{
		"walleye": {
			Keywords:          []string{"weed", "rock", "drop-off"},
			TempMinC:          10,
			TempMaxC:          18,
			PressureSensitive: true,
			ActiveHours:       []conf.HourRange{{Start: 0, End: 7}, {Start: 19, End: 24}},
		},
	}

	fusionEngine := fusion.NewEngine(fusion.DefaultConfig())
	spotsEngine := spots.NewEngine(spots.DefaultScoringConfig(), nil, spots.ProfilesFromSettings(settings))
	catalog := habitat.NewCatalog(catalogPath, time.Hour)
	weatherSource := &stubWeather{snapshot: spots.WeatherSnapshot{
		TemperatureC:  14,
		PressureHpa:   1008,
		WindSpeedKmh:  8,
		PressureTrend: spots.TrendFalling,
	}}

	controller, err := New(echo.New(), nil, settings, fusionEngine, spotsEngine, catalog, weatherSource, nil)
	require.NoError(t, err)
	t.Cleanup(controller.Shutdown)
	return controller
}

func doRequest(c *Controller, method, target string, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c.Echo.ServeHTTP(rec, req)
	return rec
}

func TestGetHealth(t *testing.T) {
	c := testController(t)

	rec := doRequest(c, http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
}

func TestPostScanHybridAgree(t *testing.T) {
	c := testController(t)

	body := `{"primary": {"label": "walleye", "confidence": 0.94}, "secondary": {"label": "walleye", "confidence": 0.91}}`
	rec := doRequest(c, http.MethodPost, "/api/v1/scan", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "walleye", resp.Species)
	assert.Equal(t, fusion.MethodHybridAgree, resp.Method)
	assert.InDelta(t, 0.931, resp.Confidence, 1e-9)
	assert.Empty(t, resp.CatchUUID)
}

func TestPostScanNoClassifiers(t *testing.T) {
	c := testController(t)

	rec := doRequest(c, http.MethodPost, "/api/v1/scan", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostScanInvalidConfidence(t *testing.T) {
	c := testController(t)

	body := `{"primary": {"label": "walleye", "confidence": 1.4}}`
	rec := doRequest(c, http.MethodPost, "/api/v1/scan", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSpots(t *testing.T) {
	c := testController(t)

	rec := doRequest(c, http.MethodGet, "/api/v1/spots?species=walleye", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SpotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "walleye", resp.Species)
	require.Len(t, resp.Spots, 2)
	assert.Equal(t, "HAB-001", resp.Spots[0].Location.ID)
	assert.GreaterOrEqual(t, resp.Spots[0].BiteScore, resp.Spots[1].BiteScore)
	assert.NotEmpty(t, resp.Spots[0].Reasoning)
}

func TestGetSpotsMissingSpecies(t *testing.T) {
	c := testController(t)

	rec := doRequest(c, http.MethodGet, "/api/v1/spots", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSpotsUnknownSpecies(t *testing.T) {
	c := testController(t)

	rec := doRequest(c, http.MethodGet, "/api/v1/spots?species=marlin", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown species")
}

func TestGetSpotsInvalidLimit(t *testing.T) {
	c := testController(t)

	rec := doRequest(c, http.MethodGet, "/api/v1/spots?species=walleye&limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSpotsBounds(t *testing.T) {
	c := testController(t)

	// Box around HAB-002 only.
	rec := doRequest(c, http.MethodGet,
		"/api/v1/spots?species=walleye&min_lat=46.55&min_lon=-81.15&max_lat=46.65&max_lon=-81.05", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SpotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Spots, 1)
	assert.Equal(t, "HAB-002", resp.Spots[0].Location.ID)
}

func TestGetSpotsPartialBounds(t *testing.T) {
	c := testController(t)

	rec := doRequest(c, http.MethodGet, "/api/v1/spots?species=walleye&min_lat=46.0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSpotsNoWeatherReturnsEmptyList(t *testing.T) {
	c := testController(t)
	c.Weather = &stubWeather{empty: true}

	rec := doRequest(c, http.MethodGet, "/api/v1/spots?species=walleye", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SpotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Spots)
}

func TestGetBestSpot(t *testing.T) {
	c := testController(t)

	rec := doRequest(c, http.MethodGet, "/api/v1/spots/best?species=walleye", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BestSpotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Spot)
	assert.Equal(t, "HAB-001", resp.Spot.Location.ID)
}

func TestGetSpeciesListing(t *testing.T) {
	c := testController(t)

	rec := doRequest(c, http.MethodGet, "/api/v1/species", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []SpeciesInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "walleye", resp[0].Name)
	assert.True(t, resp[0].PressureSensitive)
}

func TestGetCatchesWithoutDatastore(t *testing.T) {
	c := testController(t)

	rec := doRequest(c, http.MethodGet, "/api/v1/catches", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
