// Package spots implements the one-shot spot ranking command.
package spots

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/castnet/castnet-go/internal/conf"
	"github.com/castnet/castnet-go/internal/datastore"
	"github.com/castnet/castnet-go/internal/habitat"
	spotsengine "github.com/castnet/castnet-go/internal/spots"
	"github.com/castnet/castnet-go/internal/weather"
)

// Command creates the spots command.
func Command(settings *conf.Settings) *cobra.Command {
	var speciesName string
	var limit int

	cmd := &cobra.Command{
		Use:   "spots",
		Short: "Rank fishing spots for a species",
		Long:  "Score the habitat catalog against current weather and print the ranked spots.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpots(settings, speciesName, limit)
		},
	}

	cmd.Flags().StringVar(&speciesName, "species", "", "Target species (required)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of spots to print")
	cmd.Flags().StringVar(&settings.Spots.Catalog.Path, "catalog", viper.GetString("spots.catalog.path"), "Path to the habitat catalog GeoJSON")
	_ = cmd.MarkFlagRequired("species")

	if err := viper.BindPFlag("spots.catalog.path", cmd.Flags().Lookup("catalog")); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

func runSpots(settings *conf.Settings, speciesName string, limit int) error {
	catalog := habitat.NewCatalog(
		settings.Spots.Catalog.Path,
		time.Duration(settings.Spots.Catalog.RefreshMinutes)*time.Minute,
	)
	locations, err := catalog.Locations()
	if err != nil {
		return fmt.Errorf("failed to load habitat catalog: %w", err)
	}

	var ds datastore.Interface
	if store := datastore.New(settings); store != nil {
		if err := store.Open(); err != nil {
			return fmt.Errorf("failed to open datastore: %w", err)
		}
		ds = store
		defer func() { _ = ds.Close() }()
	}

	weatherService, err := weather.NewService(settings, ds)
	if err != nil {
		return fmt.Errorf("failed to create weather service: %w", err)
	}
	snapshots := weatherService.SnapshotsFor(locations)

	engine := spotsengine.NewEngine(
		spotsengine.ScoringConfigFromSettings(settings),
		nil,
		spotsengine.ProfilesFromSettings(settings),
	)
	ranked, err := engine.Rank(speciesName, locations, snapshots, time.Now(), nil, limit)
	if err != nil {
		return err
	}

	if len(ranked) == 0 {
		fmt.Println("No spots could be scored. Check the catalog path and weather provider.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tSTATUS\tSPOT\tREASONING")
	for _, spot := range ranked {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", spot.BiteScore, spot.Status, spot.Location.Name, spot.Reasoning)
	}
	return w.Flush()
}
