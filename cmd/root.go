package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/castnet/castnet-go/cmd/serve"
	"github.com/castnet/castnet-go/cmd/species"
	"github.com/castnet/castnet-go/cmd/spots"
	"github.com/castnet/castnet-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "castnet",
		Short: "CastNet-Go CLI",
		Long:  "Fishing assistant: hybrid species identification and bite-score spot ranking.",
	}

	if err := setupFlags(rootCmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
	}

	rootCmd.AddCommand(
		serve.Command(settings),
		spots.Command(settings),
		species.Command(settings),
	)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().Float64Var(&settings.Station.Latitude, "latitude", viper.GetFloat64("station.latitude"), "Station latitude")
	rootCmd.PersistentFlags().Float64Var(&settings.Station.Longitude, "longitude", viper.GetFloat64("station.longitude"), "Station longitude")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
