// Package db opens and migrates the relational database behind the gorm store.
package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diewo77/go-crm/internal/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNoDatabase is returned by Open for the memory driver.
var ErrNoDatabase = errors.New("memory driver has no database")

// Dialector returns the gorm dialector for the configured driver.
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, string, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		dsn := NormalizeDSN(cfg.DSN())
		if dsn == "" {
			return nil, "", errors.New("empty postgres DSN")
		}
		return postgres.Open(dsn), dsn, nil
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." && !isMemoryPath(cfg.SQLitePath) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, "", fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		return sqlite.Open(cfg.SQLitePath), cfg.SQLitePath, nil
	case config.DriverMemory:
		return nil, "", ErrNoDatabase
	}
	return nil, "", fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func isMemoryPath(p string) bool {
	return p == ":memory:" || strings.HasPrefix(p, "file:")
}

// Open connects to the configured database, retrying while it starts up.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector, dsn, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	attempts := cfg.ConnectRetries
	if attempts < 1 {
		attempts = 1
	}
	var conn *gorm.DB
	for i := 0; i < attempts; i++ {
		conn, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}
		log.Warn("database connection failed",
			zap.String("driver", cfg.Driver),
			zap.Int("attempt", i+1),
			zap.Int("attempts", attempts),
			zap.Error(err))
		if i+1 < attempts {
			time.Sleep(cfg.RetryDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	if err := conn.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	log.Info("database connected", zap.String("driver", cfg.Driver), zap.String("dsn", MaskDSN(dsn)))
	return conn, nil
}
