// internal/api/v1/catches.go catch log endpoints
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/castnet/castnet-go/internal/datastore"
	"github.com/castnet/castnet-go/internal/errors"
)

// GetCatches handles GET /api/v1/catches
func (c *Controller) GetCatches(ctx echo.Context) error {
	if c.DS == nil {
		return c.HandleError(ctx, nil, "Catch logging is disabled", http.StatusNotImplemented)
	}

	limit, err := c.parseLimit(ctx.QueryParam("limit"))
	if err != nil {
		return c.HandleError(ctx, err, "Invalid limit", http.StatusBadRequest)
	}
	if limit == 0 {
		limit = c.Settings.Spots.DefaultLimit
	}

	offset := 0
	if raw := ctx.QueryParam("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return c.HandleError(ctx, err, "Invalid offset", http.StatusBadRequest)
		}
	}

	var catches []datastore.Catch
	if species := ctx.QueryParam("species"); species != "" {
		catches, err = c.DS.SpeciesCatches(species, limit, offset)
	} else {
		catches, err = c.DS.GetAllCatches(limit, offset)
	}
	if err != nil {
		return c.HandleError(ctx, err, "Failed to load catches", http.StatusInternalServerError)
	}

	if catches == nil {
		catches = []datastore.Catch{}
	}
	return ctx.JSON(http.StatusOK, catches)
}

// GetCatch handles GET /api/v1/catches/:uuid
func (c *Controller) GetCatch(ctx echo.Context) error {
	if c.DS == nil {
		return c.HandleError(ctx, nil, "Catch logging is disabled", http.StatusNotImplemented)
	}

	catch, err := c.DS.GetCatch(ctx.Param("uuid"))
	if err != nil {
		if errors.IsNotFound(err) {
			return c.HandleError(ctx, err, "Catch not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to load catch", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, catch)
}
