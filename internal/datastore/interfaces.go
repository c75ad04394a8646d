// interfaces.go defines the interface for the database operations
package datastore

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/castnet/castnet-go/internal/conf"
	"github.com/castnet/castnet-go/internal/errors"
)

// Interface abstracts the underlying database implementation and defines
// the operations the rest of the application may perform.
type Interface interface {
	Open() error
	Close() error
	// catch log
	SaveCatch(catch *Catch) error
	GetCatch(uuid string) (Catch, error)
	GetAllCatches(limit, offset int) ([]Catch, error)
	SpeciesCatches(species string, limit, offset int) ([]Catch, error)
	// weather observations
	SaveWeatherObservation(obs *WeatherObservation) error
	LatestWeatherObservation(regionKey string) (*WeatherObservation, error)
	WeatherObservationsSince(regionKey string, since time.Time) ([]WeatherObservation, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB
}

// New creates a store for whichever output database is enabled. Returns
// nil when persistence is disabled entirely.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{Settings: settings}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{Settings: settings}
	default:
		return nil
	}
}

// SaveCatch inserts a catch record.
func (ds *DataStore) SaveCatch(catch *Catch) error {
	if ds.DB == nil {
		return errNotInitialized("save_catch")
	}
	if err := ds.DB.Create(catch).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "save_catch").
			Context("species", catch.Species).
			Build()
	}
	return nil
}

// GetCatch retrieves a single catch by its public identifier.
func (ds *DataStore) GetCatch(uuid string) (Catch, error) {
	if ds.DB == nil {
		return Catch{}, errNotInitialized("get_catch")
	}
	var catch Catch
	if err := ds.DB.Where("uuid = ?", uuid).First(&catch).Error; err != nil {
		category := errors.CategoryDatabase
		if errors.Is(err, gorm.ErrRecordNotFound) {
			category = errors.CategoryNotFound
		}
		return Catch{}, errors.New(err).
			Component("datastore").
			Category(category).
			Context("operation", "get_catch").
			Context("uuid", uuid).
			Build()
	}
	return catch, nil
}

// GetAllCatches returns catches in reverse chronological order.
func (ds *DataStore) GetAllCatches(limit, offset int) ([]Catch, error) {
	if ds.DB == nil {
		return nil, errNotInitialized("get_all_catches")
	}
	var catches []Catch
	err := ds.DB.Order("scanned_at DESC").
		Limit(limit).Offset(offset).
		Find(&catches).Error
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_all_catches").
			Build()
	}
	return catches, nil
}

// SpeciesCatches returns catches for one species, newest first.
func (ds *DataStore) SpeciesCatches(species string, limit, offset int) ([]Catch, error) {
	if ds.DB == nil {
		return nil, errNotInitialized("species_catches")
	}
	var catches []Catch
	err := ds.DB.Where("species = ?", species).
		Order("scanned_at DESC").
		Limit(limit).Offset(offset).
		Find(&catches).Error
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "species_catches").
			Context("species", species).
			Build()
	}
	return catches, nil
}

// SaveWeatherObservation inserts a weather sample for a region.
func (ds *DataStore) SaveWeatherObservation(obs *WeatherObservation) error {
	if ds.DB == nil {
		return errNotInitialized("save_weather_observation")
	}
	if err := ds.DB.Create(obs).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "save_weather_observation").
			Context("region", obs.RegionKey).
			Build()
	}
	return nil
}

// LatestWeatherObservation returns the most recent sample for a region,
// or nil when no sample has been stored yet.
func (ds *DataStore) LatestWeatherObservation(regionKey string) (*WeatherObservation, error) {
	if ds.DB == nil {
		return nil, errNotInitialized("latest_weather_observation")
	}
	var obs WeatherObservation
	err := ds.DB.Where("region_key = ?", regionKey).
		Order("time DESC").
		First(&obs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "latest_weather_observation").
			Context("region", regionKey).
			Build()
	}
	return &obs, nil
}

// WeatherObservationsSince returns samples for a region from the given
// time forward, oldest first.
func (ds *DataStore) WeatherObservationsSince(regionKey string, since time.Time) ([]WeatherObservation, error) {
	if ds.DB == nil {
		return nil, errNotInitialized("weather_observations_since")
	}
	var observations []WeatherObservation
	err := ds.DB.Where("region_key = ? AND time >= ?", regionKey, since).
		Order("time ASC").
		Find(&observations).Error
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "weather_observations_since").
			Context("region", regionKey).
			Build()
	}
	return observations, nil
}

func errNotInitialized(operation string) error {
	return errors.New(fmt.Errorf("database connection is not initialized")).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", operation).
		Build()
}

// performAutoMigration runs the schema migration for all models.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Catch{}, &WeatherObservation{}); err != nil {
		return errors.New(fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("db_type", dbType).
			Build()
	}
	if debug {
		getLogger().Debug("Database schema migrated", "db_type", dbType, "connection", connectionInfo)
	}
	return nil
}
