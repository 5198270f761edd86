package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	USDA          USDAConfig
	OpenFoodFacts OpenFoodFactsConfig
	Cache         CacheConfig
	Provider      ProviderConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds the catalog database configuration
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// USDAConfig holds USDA FoodData Central configuration. An empty APIKey is
// not an error: it disables the USDA search step entirely.
type USDAConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// OpenFoodFactsConfig holds Open Food Facts configuration
type OpenFoodFactsConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	UserAgent   string        `mapstructure:"user_agent"`
	MinInterval time.Duration `mapstructure:"min_interval"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	SearchTTL time.Duration `mapstructure:"search_ttl"`
}

// ProviderConfig holds settings shared by both external providers
type ProviderConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nutrilog/")

	// Environment variable settings
	v.SetEnvPrefix("NUTRILOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database: no usable default, but the key must be registered for
	// AutomaticEnv to see NUTRILOG_DATABASE_DSN.
	v.SetDefault("database.dsn", "")

	// USDA defaults. An empty api_key disables the USDA step rather than
	// failing startup.
	v.SetDefault("usda.api_key", "")
	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")

	// Open Food Facts defaults: 6s spacing keeps us at <=10 requests/minute
	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("openfoodfacts.user_agent", "NutriLog/1.0 (github.com/nutrilog/backend)")
	v.SetDefault("openfoodfacts.min_interval", "6s")

	// Cache defaults
	v.SetDefault("cache.search_ttl", "5m")

	// Provider defaults
	v.SetDefault("provider.timeout", "8s")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.DSN == "" {
		return fmt.Errorf("database DSN is required (set NUTRILOG_DATABASE_DSN)")
	}

	if config.OpenFoodFacts.MinInterval <= 0 {
		return fmt.Errorf("openfoodfacts min_interval must be positive, got: %s", config.OpenFoodFacts.MinInterval)
	}

	if config.Cache.SearchTTL <= 0 {
		return fmt.Errorf("cache search_ttl must be positive, got: %s", config.Cache.SearchTTL)
	}

	return nil
}
