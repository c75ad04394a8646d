// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "CastNet-Go")
	viper.SetDefault("main.timeas24h", true)
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "castnet.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)

	viper.SetDefault("station.name", "CastNet")
	viper.SetDefault("station.latitude", 0.000)
	viper.SetDefault("station.longitude", 0.000)

	viper.SetDefault("scan.debug", false)
	viper.SetDefault("scan.primaryweight", 0.7)
	viper.SetDefault("scan.secondaryweight", 0.3)

	viper.SetDefault("spots.debug", false)
	viper.SetDefault("spots.habitatweight", 0.5)
	viper.SetDefault("spots.weatherweight", 0.3)
	viper.SetDefault("spots.timeweight", 0.2)
	viper.SetDefault("spots.bands.great", 75)
	viper.SetDefault("spots.bands.good", 55)
	viper.SetDefault("spots.bands.fair", 35)
	viper.SetDefault("spots.windpenaltykmh", 25.0)
	viper.SetDefault("spots.windpenalty", 0.2)
	viper.SetDefault("spots.offwindowtimescore", 0.4)
	viper.SetDefault("spots.maxkeywordhits", 3)
	viper.SetDefault("spots.defaultlimit", 100)
	viper.SetDefault("spots.maxlimit", 500)
	viper.SetDefault("spots.catalog.path", "data/fish_habitat_scored.geojson")
	viper.SetDefault("spots.catalog.refreshminutes", 60)

	viper.SetDefault("weather.provider", "openmeteo")
	viper.SetDefault("weather.endpoint", "https://api.open-meteo.com/v1/forecast")
	viper.SetDefault("weather.pollinterval", 30)
	viper.SetDefault("weather.griddegrees", 0.5)
	viper.SetDefault("weather.maxregions", 8)
	viper.SetDefault("weather.debug", false)

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.log.enabled", false)
	viper.SetDefault("webserver.log.path", "webui.log")
	viper.SetDefault("webserver.log.rotation", RotationDaily)
	viper.SetDefault("webserver.log.maxsize", 1048576)

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "castnet.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "castnet")
	viper.SetDefault("output.mysql.password", "secret")
	viper.SetDefault("output.mysql.database", "castnet")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", 3306)

	// Reference species set. Profiles are plain configuration, additional
	// species only require a new entry here or in config.yaml.
	viper.SetDefault("species", defaultSpeciesProfiles())
}

// defaultSpeciesProfiles returns the built-in species profile set as plain
// key/value data suitable for viper defaults.
func defaultSpeciesProfiles() map[string]any {
	return map[string]any{
		"walleye": map[string]any{
			"keywords":          []string{"walleye", "pickerel", "yellow pickerel"},
			"tempminc":          10.0,
			"tempmaxc":          18.0,
			"pressuresensitive": true,
			"activehours": []map[string]any{
				{"start": 0, "end": 7},
				{"start": 19, "end": 24},
			},
			"description": "Best in low light, falling pressure",
		},
		"bass": map[string]any{
			"keywords":          []string{"bass", "smallmouth", "largemouth", "smallmouth bass", "largemouth bass"},
			"tempminc":          18.0,
			"tempmaxc":          26.0,
			"pressuresensitive": false,
			"activehours": []map[string]any{
				{"start": 5, "end": 9},
				{"start": 17, "end": 21},
			},
			"description": "Active in warm water, dawn/dusk",
		},
		"trout": map[string]any{
			"keywords":          []string{"trout", "brook trout", "rainbow trout", "lake trout"},
			"tempminc":          8.0,
			"tempmaxc":          16.0,
			"pressuresensitive": false,
			"activehours": []map[string]any{
				{"start": 6, "end": 10},
				{"start": 16, "end": 20},
			},
			"description": "Prefer cool water (8-16C)",
		},
		"pike": map[string]any{
			"keywords":          []string{"pike", "northern pike", "muskellunge", "muskie", "gar pike"},
			"tempminc":          15.0,
			"tempmaxc":          22.0,
			"pressuresensitive": true,
			"activehours": []map[string]any{
				{"start": 0, "end": 7},
				{"start": 19, "end": 24},
			},
			"description": "Ambush predators, active in moderate temps",
		},
		"perch": map[string]any{
			"keywords":          []string{"perch", "yellow perch"},
			"tempminc":          12.0,
			"tempmaxc":          20.0,
			"pressuresensitive": false,
			"activehours": []map[string]any{
				{"start": 8, "end": 18},
			},
			"description": "Stable pressure, moderate temps",
		},
	}
}
