// Package serve implements the HTTP server command.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	api "github.com/castnet/castnet-go/internal/api/v1"
	"github.com/castnet/castnet-go/internal/conf"
	"github.com/castnet/castnet-go/internal/datastore"
	"github.com/castnet/castnet-go/internal/fusion"
	"github.com/castnet/castnet-go/internal/habitat"
	"github.com/castnet/castnet-go/internal/logging"
	"github.com/castnet/castnet-go/internal/spots"
	"github.com/castnet/castnet-go/internal/suncalc"
	"github.com/castnet/castnet-go/internal/weather"
)

const shutdownTimeout = 10 * time.Second

// Command creates the serve command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long:  "Serve identification scans, spot rankings and the catch log over HTTP.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.WebServer.Port, "port", viper.GetString("webserver.port"), "Port for the HTTP server")
	cmd.Flags().StringVar(&settings.Spots.Catalog.Path, "catalog", viper.GetString("spots.catalog.path"), "Path to the habitat catalog GeoJSON")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}

func runServer(settings *conf.Settings) error {
	var ds datastore.Interface
	if store := datastore.New(settings); store != nil {
		if err := store.Open(); err != nil {
			return fmt.Errorf("failed to open datastore: %w", err)
		}
		ds = store
		defer func() {
			if err := ds.Close(); err != nil {
				logging.Warn("Failed to close datastore", "error", err)
			}
		}()
	} else {
		logging.Warn("No output database enabled, catch logging is disabled")
	}

	catalog := habitat.NewCatalog(
		settings.Spots.Catalog.Path,
		time.Duration(settings.Spots.Catalog.RefreshMinutes)*time.Minute,
	)
	if _, err := catalog.Locations(); err != nil {
		// The catalog retries on each request, so startup continues.
		logging.Warn("Habitat catalog not loaded at startup", "path", settings.Spots.Catalog.Path, "error", err)
	}

	weatherService, err := weather.NewService(settings, ds)
	if err != nil {
		return fmt.Errorf("failed to create weather service: %w", err)
	}
	stopPolling := make(chan struct{})
	go weatherService.StartPolling(stopPolling)
	defer close(stopPolling)

	fusionEngine := fusion.NewEngine(fusion.Config{
		PrimaryWeight:   settings.Scan.PrimaryWeight,
		SecondaryWeight: settings.Scan.SecondaryWeight,
	})
	spotsEngine := spots.NewEngine(
		spots.ScoringConfigFromSettings(settings),
		nil,
		spots.ProfilesFromSettings(settings),
	)
	sunCalc := suncalc.NewSunCalc(settings.Station.Latitude, settings.Station.Longitude)

	e := echo.New()
	e.HideBanner = true

	controller, err := api.New(e, ds, settings, fusionEngine, spotsEngine, catalog, weatherService, sunCalc)
	if err != nil {
		return fmt.Errorf("failed to create API controller: %w", err)
	}
	defer controller.Shutdown()

	errChan := make(chan error, 1)
	go func() {
		addr := ":" + settings.WebServer.Port
		logging.Info("Starting HTTP server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("HTTP server failed: %w", err)
	case sig := <-quit:
		logging.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	return nil
}
