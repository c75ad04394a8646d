package weather

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/castnet/castnet-go/internal/errors"
)

const (
	OpenMeteoBaseURL      = "https://api.open-meteo.com/v1/forecast"
	openMeteoProviderName = "openmeteo"
	openMeteoTimeLayout   = "2006-01-02T15:04"
)

// OpenMeteoProvider fetches current conditions from the Open-Meteo
// forecast API. The API requires no key.
type OpenMeteoProvider struct {
	endpoint string
	client   *http.Client
}

// NewOpenMeteoProvider creates a provider against the public endpoint.
// An empty endpoint selects the default; tests point it at a mock server.
func NewOpenMeteoProvider(endpoint string) *OpenMeteoProvider {
	if endpoint == "" {
		endpoint = OpenMeteoBaseURL
	}
	return &OpenMeteoProvider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: RequestTimeout},
	}
}

// openMeteoResponse mirrors the fields of the current-conditions payload
// this application consumes.
type openMeteoResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   struct {
		Time          string  `json:"time"`
		Temperature2m float64 `json:"temperature_2m"`
		PressureMsl   float64 `json:"pressure_msl"`
		WindSpeed10m  float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

// Fetch implements the Provider interface for OpenMeteoProvider
func (p *OpenMeteoProvider) Fetch(lat, lon float64) (*Observation, error) {
	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%.4f", lat))
	query.Set("longitude", fmt.Sprintf("%.4f", lon))
	query.Set("current", "temperature_2m,pressure_msl,wind_speed_10m")
	query.Set("wind_speed_unit", "kmh")
	apiURL := p.endpoint + "?" + query.Encode()

	logger := getLogger().With("provider", openMeteoProviderName)
	logger.Debug("Fetching weather data", "url", apiURL)

	req, err := http.NewRequest(http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return nil, newWeatherError(err, errors.CategoryNetwork, "create_http_request", openMeteoProviderName)
	}
	req.Header.Set("User-Agent", UserAgent)

	body, err := p.executeWithRetry(req, logger)
	if err != nil {
		return nil, err
	}

	var response openMeteoResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, newWeatherError(err, errors.CategoryValidation, "unmarshal_weather_data", openMeteoProviderName)
	}
	if response.Current.Time == "" {
		return nil, newWeatherError(
			fmt.Errorf("no current conditions in response"),
			errors.CategoryValidation,
			"validate_weather_response",
			openMeteoProviderName,
		)
	}

	sampleTime, err := time.Parse(openMeteoTimeLayout, response.Current.Time)
	if err != nil {
		return nil, newWeatherError(err, errors.CategoryValidation, "parse_observation_time", openMeteoProviderName)
	}

	obs := &Observation{
		Time:         sampleTime,
		Latitude:     response.Latitude,
		Longitude:    response.Longitude,
		TemperatureC: response.Current.Temperature2m,
		PressureHpa:  response.Current.PressureMsl,
		WindSpeedKmh: response.Current.WindSpeed10m,
	}
	logger.Debug("Mapped API response to observation",
		"time", obs.Time,
		"temp_c", obs.TemperatureC,
		"pressure_hpa", obs.PressureHpa,
		"wind_kmh", obs.WindSpeedKmh,
	)
	return obs, nil
}

// executeWithRetry executes the HTTP request with retry logic
func (p *OpenMeteoProvider) executeWithRetry(req *http.Request, logger *slog.Logger) ([]byte, error) {
	for i := range MaxRetries {
		isLastAttempt := i == MaxRetries-1
		attemptLogger := logger.With("attempt", i+1, "max_attempts", MaxRetries)

		resp, err := p.client.Do(req)
		if err != nil {
			attemptLogger.Warn("HTTP request failed", "error", err)
			if isLastAttempt {
				return nil, newWeatherErrorWithRetries(err, errors.CategoryNetwork, "weather_api_request", openMeteoProviderName)
			}
			time.Sleep(RetryDelay)
			continue
		}

		body, retry, err := handleOpenMeteoResponse(resp, attemptLogger, isLastAttempt)
		if err != nil {
			return nil, err
		}
		if retry {
			time.Sleep(RetryDelay)
			continue
		}
		return body, nil
	}

	return nil, newWeatherErrorWithRetries(
		fmt.Errorf("max retries exceeded"),
		errors.CategoryNetwork,
		"weather_api_request",
		openMeteoProviderName,
	)
}

// handleOpenMeteoResponse reads one HTTP response. The second return
// value reports whether the caller should retry.
func handleOpenMeteoResponse(resp *http.Response, logger *slog.Logger, isLastAttempt bool) ([]byte, bool, error) {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Debug("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		logger.Warn("Received non-OK status code",
			"status_code", resp.StatusCode,
			"response_body", truncateBodyPreview(string(bodyBytes)),
		)
		if isLastAttempt {
			return nil, false, errors.New(fmt.Errorf("received non-OK response (%d) after %d retries", resp.StatusCode, MaxRetries)).
				Component("weather").
				Category(errors.CategoryNetwork).
				Context("operation", "weather_api_response").
				Context("provider", openMeteoProviderName).
				Context("status_code", fmt.Sprintf("%d", resp.StatusCode)).
				Build()
		}
		return nil, true, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, newWeatherError(err, errors.CategoryNetwork, "read_response_body", openMeteoProviderName)
	}
	return body, false, nil
}
