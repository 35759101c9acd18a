// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted by DatabaseConfig.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	OpenAI   OpenAIConfig
	Company  CompanyConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string
	ReadTimeout     int // seconds
	WriteTimeout    int // seconds
	IdleTimeout     int // seconds
	ShutdownTimeout int // seconds
}

// DatabaseConfig holds storage settings.
type DatabaseConfig struct {
	Driver string
	// RawDSN is DATABASE_DSN; when set it wins over the individual fields.
	RawDSN   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	SQLitePath string
	Debug      bool
	Seed       bool
	// Fallback names the driver used when the configured one cannot connect.
	// Only "memory" is supported; empty disables the fallback.
	Fallback       string
	ConnectRetries int
	RetryDelay     time.Duration
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or console
	Output string // stdout, stderr or a file path
}

// OpenAIConfig holds settings of the rule suggester.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout int // seconds
}

// Enabled reports whether an API key is configured.
func (o OpenAIConfig) Enabled() bool { return o.APIKey != "" }

// CompanyConfig is the static company profile served by the API.
type CompanyConfig struct {
	Name    string
	LogoURL string
	Address string
	Phone   string
	Email   string
	Website string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	// Dev switches the logger to development mode.
	Dev bool
	// LineWriteMaxRetries bounds optimistic retries of document line writes.
	LineWriteMaxRetries int
}

// DSN returns the PostgreSQL connection string in key=value format, or
// DATABASE_DSN when it is set.
func (d DatabaseConfig) DSN() string {
	if d.RawDSN != "" {
		return d.RawDSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Seconds converts a seconds setting into a duration.
func Seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// Load reads an optional .env file and then the environment.
// It uses sensible defaults for local development.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			ReadTimeout:     v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetInt("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetInt("SERVER_IDLE_TIMEOUT"),
			ShutdownTimeout: v.GetInt("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver:         strings.ToLower(v.GetString("STORAGE_DRIVER")),
			RawDSN:         v.GetString("DATABASE_DSN"),
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetInt("DB_PORT"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASSWORD"),
			DBName:         v.GetString("DB_NAME"),
			SSLMode:        v.GetString("DB_SSLMODE"),
			SQLitePath:     v.GetString("SQLITE_PATH"),
			Debug:          v.GetBool("DB_DEBUG"),
			Seed:           v.GetBool("DB_SEED"),
			Fallback:       strings.ToLower(v.GetString("STORAGE_FALLBACK")),
			ConnectRetries: v.GetInt("DB_CONNECT_RETRIES"),
			RetryDelay:     Seconds(v.GetInt("DB_RETRY_DELAY")),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  v.GetString("OPENAI_API_KEY"),
			Model:   v.GetString("OPENAI_MODEL"),
			BaseURL: v.GetString("OPENAI_BASE_URL"),
			Timeout: v.GetInt("OPENAI_TIMEOUT"),
		},
		Company: CompanyConfig{
			Name:    v.GetString("COMPANY_NAME"),
			LogoURL: v.GetString("COMPANY_LOGO_URL"),
			Address: v.GetString("COMPANY_ADDRESS"),
			Phone:   v.GetString("COMPANY_PHONE"),
			Email:   v.GetString("COMPANY_EMAIL"),
			Website: v.GetString("COMPANY_WEBSITE"),
		},
		App: AppConfig{
			Dev:                 v.GetBool("DEV"),
			LineWriteMaxRetries: v.GetInt("LINE_WRITE_MAX_RETRIES"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10)

	v.SetDefault("STORAGE_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "crm")
	v.SetDefault("DB_PASSWORD", "crm123")
	v.SetDefault("DB_NAME", "crm")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "data/crm.db")
	v.SetDefault("DB_CONNECT_RETRIES", 5)
	v.SetDefault("DB_RETRY_DELAY", 2)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_OUTPUT", "stdout")

	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_TIMEOUT", 30)

	v.SetDefault("COMPANY_NAME", "Final CRM Inc.")
	v.SetDefault("COMPANY_LOGO_URL", "https://placehold.co/128x128.png")
	v.SetDefault("COMPANY_ADDRESS", "789 CRM Lane, Suite 100, San Francisco, CA 94103")
	v.SetDefault("COMPANY_PHONE", "1-800-555-CRMS")
	v.SetDefault("COMPANY_EMAIL", "hello@finalcrm.com")
	v.SetDefault("COMPANY_WEBSITE", "https://www.finalcrm.com")

	v.SetDefault("DEV", true)
	v.SetDefault("LINE_WRITE_MAX_RETRIES", 5)
}

// Validate checks values that have no usable fallback.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER %q is not one of postgres, sqlite, memory", c.Database.Driver)
	}
	if c.Database.Fallback != "" && c.Database.Fallback != DriverMemory {
		return fmt.Errorf("STORAGE_FALLBACK %q is not supported", c.Database.Fallback)
	}
	if c.Database.Driver == DriverSQLite && c.Database.SQLitePath == "" {
		return errors.New("SQLITE_PATH is required for the sqlite driver")
	}
	if c.Server.Port == "" {
		return errors.New("PORT is required")
	}
	if c.App.LineWriteMaxRetries < 1 {
		return errors.New("LINE_WRITE_MAX_RETRIES must be at least 1")
	}
	if f := c.Log.Format; f != "json" && f != "console" {
		return fmt.Errorf("LOG_FORMAT %q is not one of json, console", f)
	}
	return nil
}
