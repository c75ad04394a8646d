// model.go defines the persisted data model for the application
package datastore

import "time"

// Catch represents one logged identification, the durable record of a
// scan the angler chose to keep.
type Catch struct {
	ID                  uint   `gorm:"primaryKey"`
	UUID                string `gorm:"uniqueIndex;type:varchar(36)"`
	Species             string `gorm:"index:idx_catches_species"`
	Confidence          float64
	PrimaryConfidence   *float64
	SecondaryConfidence *float64
	Method              string    `gorm:"type:varchar(20)"`
	Latitude            float64
	Longitude           float64
	LocationID          string `gorm:"index:idx_catches_location"`
	Notes               string
	ScannedAt           time.Time `gorm:"index:idx_catches_scanned_at"`
}

// WeatherObservation is one fetched weather sample for a grid region.
// The most recent prior observation for a region is what pressure trends
// are computed against.
type WeatherObservation struct {
	ID           uint      `gorm:"primaryKey"`
	RegionKey    string    `gorm:"index:idx_weather_region_time,priority:1"`
	Time         time.Time `gorm:"index:idx_weather_region_time,priority:2"`
	TemperatureC float64
	PressureHpa  float64
	WindSpeedKmh float64
}
