// Package datastore persists catches and weather observations.
package datastore

import (
	"io"
	"log/slog"
	"sync"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/castnet/castnet-go/internal/logging"
)

var (
	datastoreLogger   *slog.Logger
	datastoreLevelVar = new(slog.LevelVar)
	loggerOnce        sync.Once
)

// getLogger returns the package logger, initializing it on first use.
// Falls back to a discard logger when the log file cannot be opened.
func getLogger() *slog.Logger {
	loggerOnce.Do(func() {
		datastoreLevelVar.Set(slog.LevelInfo)
		var err error
		datastoreLogger, _, err = logging.NewFileLogger("logs/datastore.log", "datastore", datastoreLevelVar)
		if err != nil {
			logging.Error("Failed to initialize datastore file logger", "error", err)
			fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: datastoreLevelVar})
			datastoreLogger = slog.New(fbHandler).With("service", "datastore")
		}
	})
	return datastoreLogger
}

// slowQueryThreshold marks queries worth surfacing in the log. One second
// accommodates migration batches without flagging normal operations.
const slowQueryThreshold = 1 * time.Second

// createGormLogger configures the GORM logger used by all stores.
func createGormLogger(debug bool) gormlogger.Interface {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return gormlogger.New(
		slog.NewLogLogger(getLogger().Handler(), slog.LevelWarn),
		gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)
}
