// internal/api/v1/spots.go spot ranking endpoints
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/paulmach/orb"

	"github.com/castnet/castnet-go/internal/errors"
	"github.com/castnet/castnet-go/internal/spots"
	"github.com/castnet/castnet-go/internal/suncalc"
)

// SpotsResponse is the ranked spot list for one species, with the day's
// low-light windows as advisory context.
type SpotsResponse struct {
	Species      string                `json:"species"`
	GeneratedAt  time.Time             `json:"generated_at"`
	Spots        []spots.ScoredSpot    `json:"spots"`
	PrimeWindows []suncalc.PrimeWindow `json:"prime_windows,omitempty"`
}

// BestSpotResponse is the single top recommendation.
type BestSpotResponse struct {
	Species      string                `json:"species"`
	GeneratedAt  time.Time             `json:"generated_at"`
	Spot         *spots.ScoredSpot     `json:"spot"`
	PrimeWindows []suncalc.PrimeWindow `json:"prime_windows,omitempty"`
}

// GetSpots handles GET /api/v1/spots
func (c *Controller) GetSpots(ctx echo.Context) error {
	species := ctx.QueryParam("species")
	if species == "" {
		return c.HandleError(ctx, nil, "Missing required query parameter: species", http.StatusBadRequest)
	}

	limit, err := c.parseLimit(ctx.QueryParam("limit"))
	if err != nil {
		return c.HandleError(ctx, err, "Invalid limit", http.StatusBadRequest)
	}

	bounds, err := parseBounds(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid bounds", http.StatusBadRequest)
	}

	ranked, err := c.rankSpots(species, bounds, limit)
	if err != nil {
		return c.spotError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, SpotsResponse{
		Species:      species,
		GeneratedAt:  time.Now(),
		Spots:        ranked,
		PrimeWindows: c.primeWindows(),
	})
}

// GetBestSpot handles GET /api/v1/spots/best
func (c *Controller) GetBestSpot(ctx echo.Context) error {
	species := ctx.QueryParam("species")
	if species == "" {
		return c.HandleError(ctx, nil, "Missing required query parameter: species", http.StatusBadRequest)
	}

	bounds, err := parseBounds(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid bounds", http.StatusBadRequest)
	}

	ranked, err := c.rankSpots(species, bounds, 1)
	if err != nil {
		return c.spotError(ctx, err)
	}

	resp := BestSpotResponse{
		Species:      species,
		GeneratedAt:  time.Now(),
		PrimeWindows: c.primeWindows(),
	}
	if len(ranked) > 0 {
		resp.Spot = &ranked[0]
	}
	return ctx.JSON(http.StatusOK, resp)
}

// rankSpots loads the catalog, resolves weather and runs the engine.
func (c *Controller) rankSpots(species string, bounds *orb.Bound, limit int) ([]spots.ScoredSpot, error) {
	locations, err := c.Catalog.Locations()
	if err != nil {
		return nil, err
	}
	snapshots := c.Weather.SnapshotsFor(locations)
	return c.Spots.Rank(species, locations, snapshots, time.Now(), bounds, limit)
}

func (c *Controller) spotError(ctx echo.Context, err error) error {
	if errors.Is(err, spots.ErrUnknownSpecies) {
		return c.HandleError(ctx, err, "Unknown species", http.StatusBadRequest)
	}
	if errors.IsCategory(err, errors.CategoryFileIO) || errors.IsCategory(err, errors.CategoryCatalogLoad) {
		return c.HandleError(ctx, err, "Habitat catalog unavailable", http.StatusServiceUnavailable)
	}
	return c.HandleError(ctx, err, "Failed to rank spots", http.StatusInternalServerError)
}

// primeWindows returns today's dawn and dusk windows, or nil when the
// calculation fails. The windows are advisory, never a hard failure.
func (c *Controller) primeWindows() []suncalc.PrimeWindow {
	if c.SunCalc == nil {
		return nil
	}
	windows, err := c.SunCalc.PrimeWindows(time.Now())
	if err != nil {
		c.apiLogger.Warn("Failed to compute prime windows", "error", err)
		return nil
	}
	return windows
}

func (c *Controller) parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, errors.Newf("limit must be a positive integer, got %q", raw).
			Component("api").
			Category(errors.CategoryValidation).
			Build()
	}
	if max := c.Settings.Spots.MaxLimit; max > 0 && limit > max {
		limit = max
	}
	return limit, nil
}

// parseBounds reads the optional min_lat/min_lon/max_lat/max_lon query
// parameters. All four must be present together.
func parseBounds(ctx echo.Context) (*orb.Bound, error) {
	params := []string{"min_lat", "min_lon", "max_lat", "max_lon"}
	values := make([]float64, 0, len(params))
	present := 0
	for _, name := range params {
		raw := ctx.QueryParam(name)
		if raw == "" {
			continue
		}
		present++
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.Newf("invalid %s: %q", name, raw).
				Component("api").
				Category(errors.CategoryValidation).
				Build()
		}
		values = append(values, v)
	}
	if present == 0 {
		return nil, nil
	}
	if present != len(params) {
		return nil, errors.Newf("bounds require all of min_lat, min_lon, max_lat and max_lon").
			Component("api").
			Category(errors.CategoryValidation).
			Build()
	}
	bound := orb.Bound{
		Min: orb.Point{values[1], values[0]},
		Max: orb.Point{values[3], values[2]},
	}
	if bound.Min[0] > bound.Max[0] || bound.Min[1] > bound.Max[1] {
		return nil, errors.Newf("bounds minimum exceeds maximum").
			Component("api").
			Category(errors.CategoryValidation).
			Build()
	}
	return &bound, nil
}
