package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment" validate:"oneof=development production"`
	Server      ServerConfig   `toml:"server"`
	Database    DatabaseConfig `toml:"database"`
	Cache       CacheConfig    `toml:"cache"`
	CORS        CORSConfig     `toml:"cors"`
	Logging     LoggingConfig  `toml:"logging"`
	Payroll     PayrollConfig  `toml:"payroll"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host" validate:"required"`
}

// DatabaseConfig points at the payroll database that exposes the
// ConceptoTipoLiqFormula view and the LIQUID1 table. The service never
// writes to it.
type DatabaseConfig struct {
	Driver string `toml:"driver" validate:"oneof=sqlite sqlserver"`
	DSN    string `toml:"dsn" validate:"required"`
}

// CacheConfig controls the reverse-dependency index refresh.
type CacheConfig struct {
	ExpirationMinutes int `toml:"expiration_minutes" validate:"min=1"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

// PayrollConfig carries the external mapping of liquidation-type codes to
// display labels. The column is string-typed; integer aliases from older
// payroll exports must be mapped here.
type PayrollConfig struct {
	DefaultType string            `toml:"default_type"`
	TypeNames   map[string]string `toml:"type_names"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "./data/formu.db",
		},
		Cache: CacheConfig{
			ExpirationMinutes: 60,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Payroll: PayrollConfig{
			DefaultType: "0",
			TypeNames: map[string]string{
				"1": "Normal",
				"2": "SAC",
				"3": "BAE",
				"4": "Vacaciones",
				"5": "Otros",
			},
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
// An empty path loads defaults plus environment overrides only.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FORMU_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("FORMU_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("FORMU_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if driver := os.Getenv("FORMU_DATABASE_DRIVER"); driver != "" {
		config.Database.Driver = driver
	}
	if dsn := os.Getenv("FORMU_DATABASE_DSN"); dsn != "" {
		config.Database.DSN = dsn
	}

	if minutes := os.Getenv("FORMU_CACHE_EXPIRATION_MINUTES"); minutes != "" {
		if m, err := strconv.Atoi(minutes); err == nil {
			config.Cache.ExpirationMinutes = m
		}
	}

	if level := os.Getenv("FORMU_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
