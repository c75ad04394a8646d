// internal/api/v1/species.go supported species listing
package api

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
)

// SpeciesInfo is one supported species profile as presented to clients.
type SpeciesInfo struct {
	Name              string      `json:"name"`
	Keywords          []string    `json:"keywords"`
	TempMinC          float64     `json:"temp_min_c"`
	TempMaxC          float64     `json:"temp_max_c"`
	PressureSensitive bool        `json:"pressure_sensitive"`
	ActiveHours       []HourRange `json:"active_hours"`
	Description       string      `json:"description,omitempty"`
}

// HourRange mirrors the profile hour window for JSON output.
type HourRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// GetSpecies handles GET /api/v1/species
func (c *Controller) GetSpecies(ctx echo.Context) error {
	names := make([]string, 0, len(c.Settings.Species))
	for name := range c.Settings.Species {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]SpeciesInfo, 0, len(names))
	for _, name := range names {
		profile := c.Settings.Species[name]
		hours := make([]HourRange, 0, len(profile.ActiveHours))
		for _, hr := range profile.ActiveHours {
			hours = append(hours, HourRange{Start: hr.Start, End: hr.End})
		}
		result = append(result, SpeciesInfo{
			Name:              name,
			Keywords:          profile.Keywords,
			TempMinC:          profile.TempMinC,
			TempMaxC:          profile.TempMaxC,
			PressureSensitive: profile.PressureSensitive,
			ActiveHours:       hours,
			Description:       profile.Description,
		})
	}

	return ctx.JSON(http.StatusOK, result)
}
