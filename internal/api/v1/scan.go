// internal/api/v1/scan.go identification scan endpoint
package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/castnet/castnet-go/internal/datastore"
	"github.com/castnet/castnet-go/internal/errors"
	"github.com/castnet/castnet-go/internal/fusion"
)

// ScanRequest carries the classifier outputs of one identification scan.
// Either classifier may be absent, but not both.
type ScanRequest struct {
	Primary   *fusion.ClassifierResult `json:"primary"`
	Secondary *fusion.ClassifierResult `json:"secondary"`

	// Optional catch logging. When Log is set the fused identification
	// is persisted with the given position.
	Log        bool    `json:"log"`
	Latitude   float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64 `json:"longitude" validate:"gte=-180,lte=180"`
	LocationID string  `json:"location_id"`
	Notes      string  `json:"notes"`
}

// ScanResponse is the fused identification, plus the catch identifier
// when the scan was logged.
type ScanResponse struct {
	fusion.FusedIdentification
	CatchUUID string `json:"catch_uuid,omitempty"`
}

// PostScan handles POST /api/v1/scan
func (c *Controller) PostScan(ctx echo.Context) error {
	var req ScanRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if err := ctx.Validate(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request", http.StatusBadRequest)
	}

	fused, err := c.Fusion.Fuse(req.Primary, req.Secondary)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, fusion.ErrNoClassifierResult),
			errors.Is(err, fusion.ErrInvalidConfidence):
			status = http.StatusBadRequest
		}
		return c.HandleError(ctx, err, "Identification failed", status)
	}

	resp := ScanResponse{FusedIdentification: fused}

	if req.Log && c.DS != nil {
		catch := &datastore.Catch{
			UUID:                uuid.New().String(),
			Species:             fused.Species,
			Confidence:          fused.Confidence,
			PrimaryConfidence:   fused.PrimaryConfidence,
			SecondaryConfidence: fused.SecondaryConfidence,
			Method:              string(fused.Method),
			Latitude:            req.Latitude,
			Longitude:           req.Longitude,
			LocationID:          req.LocationID,
			Notes:               req.Notes,
			ScannedAt:           time.Now(),
		}
		if err := c.DS.SaveCatch(catch); err != nil {
			return c.HandleError(ctx, err, "Failed to log catch", http.StatusInternalServerError)
		}
		resp.CatchUUID = catch.UUID
	}

	return ctx.JSON(http.StatusOK, resp)
}
