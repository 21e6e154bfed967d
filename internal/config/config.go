package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage driver names accepted by the 'TS_STORAGE_DRIVER' variable
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config represents the application configuration structure
type Config struct {
	Environment        string        `default:"development"`
	ListenAddress      string        `split_words:"true" default:":8080"`
	AllowedOrigin      string        `split_words:"true" default:"*"`
	StorageDriver      string        `split_words:"true" default:"postgres"`
	PostgresDSN        string        `envconfig:"POSTGRES_DSN"`
	EnableCache        bool          `split_words:"true" default:"false"`
	MaxPageSize        int           `split_words:"true" default:"100"`
	CompletedRetention time.Duration `split_words:"true" default:"0"`
	SweepInterval      time.Duration `split_words:"true" default:"1h"`
}

// LoadFromEnv loads a new configuration structure using environment variables and an optional .env file
func LoadFromEnv() (*Config, error) {
	// Load a .env file if it exists
	_ = godotenv.Overload()

	// Load a new configuration structure using environment variables
	config := new(Config)
	if err := envconfig.Process("ts", config); err != nil {
		return nil, err
	}
	return config, nil
}

// IsEnvProduction returns whether the application runs in production mode
func (config *Config) IsEnvProduction() bool {
	return strings.EqualFold(config.Environment, "production") || strings.EqualFold(config.Environment, "prod")
}
