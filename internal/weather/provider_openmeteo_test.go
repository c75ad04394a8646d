package weather

import (
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castnet/castnet-go/internal/errors"
)

const testOpenMeteoBody = `{
	"latitude": 46.5,
	"longitude": -81.0,
	"current": {
		"time": "2024-06-01T05:00",
		"interval": 900,
		"temperature_2m": 14.2,
		"pressure_msl": 1008.3,
		"wind_speed_10m": 12.4
	}
}`

func newTestProvider(t *testing.T) *OpenMeteoProvider {
	t.Helper()
	p := NewOpenMeteoProvider("")
	httpmock.ActivateNonDefault(p.client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return p
}

func TestOpenMeteoFetch(t *testing.T) {
	p := newTestProvider(t)
	httpmock.RegisterResponder(http.MethodGet, OpenMeteoBaseURL,
		httpmock.NewStringResponder(http.StatusOK, testOpenMeteoBody))

	obs, err := p.Fetch(46.5, -81.0)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 6, 1, 5, 0, 0, 0, time.UTC), obs.Time)
	assert.InDelta(t, 14.2, obs.TemperatureC, 1e-9)
	assert.InDelta(t, 1008.3, obs.PressureHpa, 1e-9)
	assert.InDelta(t, 12.4, obs.WindSpeedKmh, 1e-9)
}

func TestOpenMeteoFetchRequestsExpectedParameters(t *testing.T) {
	p := newTestProvider(t)
	httpmock.RegisterResponder(http.MethodGet, OpenMeteoBaseURL,
		func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			assert.Equal(t, "46.5000", q.Get("latitude"))
			assert.Equal(t, "-81.0000", q.Get("longitude"))
			assert.Equal(t, "temperature_2m,pressure_msl,wind_speed_10m", q.Get("current"))
			assert.Equal(t, "kmh", q.Get("wind_speed_unit"))
			assert.Equal(t, UserAgent, req.Header.Get("User-Agent"))
			return httpmock.NewStringResponse(http.StatusOK, testOpenMeteoBody), nil
		})

	_, err := p.Fetch(46.5, -81.0)
	require.NoError(t, err)
}

func TestOpenMeteoFetchMalformedBody(t *testing.T) {
	p := newTestProvider(t)
	httpmock.RegisterResponder(http.MethodGet, OpenMeteoBaseURL,
		httpmock.NewStringResponder(http.StatusOK, `{"current":`))

	_, err := p.Fetch(46.5, -81.0)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestOpenMeteoFetchMissingCurrentBlock(t *testing.T) {
	p := newTestProvider(t)
	httpmock.RegisterResponder(http.MethodGet, OpenMeteoBaseURL,
		httpmock.NewStringResponder(http.StatusOK, `{"latitude": 46.5, "longitude": -81.0}`))

	_, err := p.Fetch(46.5, -81.0)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestOpenMeteoFetchServerError(t *testing.T) {
	p := newTestProvider(t)
	httpmock.RegisterResponder(http.MethodGet, OpenMeteoBaseURL,
		httpmock.NewStringResponder(http.StatusInternalServerError, "boom"))

	_, err := p.Fetch(46.5, -81.0)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNetwork))
	// All attempts were consumed before giving up.
	assert.Equal(t, MaxRetries, httpmock.GetTotalCallCount())
}
