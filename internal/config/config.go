package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Refdata RefdataConfig `yaml:"refdata" mapstructure:"refdata"`
	Render  RenderConfig  `yaml:"render" mapstructure:"render"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// CacheConfig configures the Redis result cache. An empty RedisURL disables caching.
type CacheConfig struct {
	RedisURL   string `yaml:"redis_url" mapstructure:"redis_url"`
	TTLMinutes int    `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	CORSOrigins    []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
}

// BatchConfig configures batch simulation.
type BatchConfig struct {
	MaxConcurrentHouseholds int `yaml:"max_concurrent_households" mapstructure:"max_concurrent_households"`
}

// RefdataConfig points at a custom reference dataset. Empty paths use the
// embedded one.
type RefdataConfig struct {
	LocationsPath string `yaml:"locations_path" mapstructure:"locations_path"`
	DistancesPath string `yaml:"distances_path" mapstructure:"distances_path"`
}

// RenderConfig configures result text.
type RenderConfig struct {
	Locale string `yaml:"locale" mapstructure:"locale"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. A .env file in the
// working directory, if present, is loaded into the environment first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RELOCATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "relocate.db")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl_minutes", 60)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit_rps", 10.0)
	v.SetDefault("server.rate_limit_burst", 20)
	v.SetDefault("batch.max_concurrent_households", 8)
	v.SetDefault("refdata.locations_path", "")
	v.SetDefault("refdata.distances_path", "")
	v.SetDefault("render.locale", "sv")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode needs. Modes: "simulate",
// "batch", "store" (migrate, runs) and "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	if c.Refdata.DistancesPath != "" && c.Refdata.LocationsPath == "" {
		errs = append(errs, "refdata.locations_path is required when refdata.distances_path is set")
	}
	if c.Cache.RedisURL != "" && c.Cache.TTLMinutes <= 0 {
		errs = append(errs, "cache.ttl_minutes must be > 0")
	}

	switch mode {
	case "simulate":
	case "batch":
		if c.Batch.MaxConcurrentHouseholds < 1 || c.Batch.MaxConcurrentHouseholds > 64 {
			errs = append(errs, "batch.max_concurrent_households must be between 1 and 64")
		}
	case "store":
		errs = append(errs, c.storeErrors()...)
	case "serve":
		errs = append(errs, c.storeErrors()...)
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.RateLimitRPS < 0 {
			errs = append(errs, "server.rate_limit_rps must be >= 0")
		}
		if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst <= 0 {
			errs = append(errs, "server.rate_limit_burst must be > 0 when rate limiting")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) storeErrors() []string {
	var errs []string
	if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
		errs = append(errs, "store.driver must be sqlite or postgres")
	}
	if c.Store.DatabaseURL == "" {
		errs = append(errs, "store.database_url is required")
	}
	return errs
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
