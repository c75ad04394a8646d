// internal/api/v1/api.go
package api

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/castnet/castnet-go/internal/conf"
	"github.com/castnet/castnet-go/internal/datastore"
	"github.com/castnet/castnet-go/internal/fusion"
	"github.com/castnet/castnet-go/internal/habitat"
	"github.com/castnet/castnet-go/internal/logging"
	"github.com/castnet/castnet-go/internal/spots"
	"github.com/castnet/castnet-go/internal/suncalc"
	"github.com/castnet/castnet-go/internal/weather"
)

// SnapshotSource resolves weather snapshots for catalog locations. The
// weather service is the production implementation.
type SnapshotSource interface {
	SnapshotsFor(locations []habitat.Location) map[string]spots.WeatherSnapshot
}

var _ SnapshotSource = (*weather.Service)(nil)

// Controller manages the API routes and handlers
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	DS       datastore.Interface
	Settings *conf.Settings
	Fusion   *fusion.Engine
	Spots    *spots.Engine
	Catalog  *habitat.Catalog
	Weather  SnapshotSource
	SunCalc  *suncalc.SunCalc

	apiLogger      *slog.Logger
	apiLevelVar    *slog.LevelVar
	apiLoggerClose func() error
	startTime      time.Time
}

// CustomValidator wires go-playground/validator into echo request binding.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// New creates a new API controller and registers its routes.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	fusionEngine *fusion.Engine, spotsEngine *spots.Engine,
	catalog *habitat.Catalog, weatherSource SnapshotSource,
	sunCalc *suncalc.SunCalc) (*Controller, error) {

	c := &Controller{
		Echo:      e,
		DS:        ds,
		Settings:  settings,
		Fusion:    fusionEngine,
		Spots:     spotsEngine,
		Catalog:   catalog,
		Weather:   weatherSource,
		SunCalc:   sunCalc,
		startTime: time.Now(),
	}

	c.apiLevelVar = new(slog.LevelVar)
	c.apiLevelVar.Set(slog.LevelInfo)

	apiLogger, closeFunc, err := logging.NewFileLogger("logs/web.log", "api", c.apiLevelVar)
	if err != nil {
		logging.Error("Failed to initialize API structured logger", "error", err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: c.apiLevelVar})
		c.apiLogger = slog.New(fbHandler).With("service", "api")
		c.apiLoggerClose = func() error { return nil }
	} else {
		c.apiLogger = apiLogger
		c.apiLoggerClose = closeFunc
	}

	e.Validator = &CustomValidator{validator: validator.New()}

	c.Group = e.Group("/api/v1")
	c.Group.Use(middleware.Recover())
	c.Group.Use(middleware.CORS())
	c.Group.Use(middleware.BodyLimit("1M"))
	c.Group.Use(c.LoggingMiddleware())

	c.initRoutes()
	return c, nil
}

// initRoutes registers all API endpoints
func (c *Controller) initRoutes() {
	c.Group.GET("/health", c.GetHealth)
	c.Group.POST("/scan", c.PostScan)
	c.Group.GET("/spots", c.GetSpots)
	c.Group.GET("/spots/best", c.GetBestSpot)
	c.Group.GET("/species", c.GetSpecies)
	c.Group.GET("/catches", c.GetCatches)
	c.Group.GET("/catches/:uuid", c.GetCatch)
}

// Shutdown closes the API log file. Safe to call more than once.
func (c *Controller) Shutdown() {
	if c.apiLoggerClose != nil {
		if err := c.apiLoggerClose(); err != nil {
			logging.Warn("Failed to close API log file", "error", err)
		}
		c.apiLoggerClose = nil
	}
}

// LoggingMiddleware creates a middleware function that logs API requests
func (c *Controller) LoggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			if c.apiLogger == nil {
				return err
			}

			req := ctx.Request()
			res := ctx.Response()
			c.apiLogger.Info("API request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"ip", ctx.RealIP(),
				"latency_ms", time.Since(start).Milliseconds(),
			)
			return err
		}
	}
}

// ErrorResponse is the JSON error body of every failed request.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// NewErrorResponse creates a new API error response
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	correlationID := generateCorrelationID()

	var errorStr string
	if err != nil {
		errorStr = err.Error()
	} else {
		errorStr = message
	}

	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: correlationID,
	}
}

// generateCorrelationID creates a unique identifier for error tracking
func generateCorrelationID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 8

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "ERR-RAND"
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

// HandleError constructs and returns an appropriate error response
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	errorResp := NewErrorResponse(err, message, code)

	if c.apiLogger != nil {
		var errorStr string
		if err != nil {
			errorStr = err.Error()
		} else {
			errorStr = message
		}
		c.apiLogger.Error("API Error",
			"correlation_id", errorResp.CorrelationID,
			"message", message,
			"error", errorStr,
			"code", code,
			"path", ctx.Request().URL.Path,
			"method", ctx.Request().Method,
			"ip", ctx.RealIP(),
		)
	}

	return ctx.JSON(code, errorResp)
}

// Debug logs debug messages when web server debug mode is enabled
func (c *Controller) Debug(format string, v ...any) {
	if c.Settings.WebServer.Debug && c.apiLogger != nil {
		c.apiLogger.Debug(fmt.Sprintf(format, v...))
	}
}

// HealthResponse reports service liveness and build information.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// GetHealth handles GET /api/v1/health
func (c *Controller) GetHealth(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, HealthResponse{
		Status:        "ok",
		Version:       c.Settings.Version,
		UptimeSeconds: int64(time.Since(c.startTime).Seconds()),
	})
}
