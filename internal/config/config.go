package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/pricematrix/internal/billing"
	"github.com/davidbz/pricematrix/internal/catalog/awspricing"
	"github.com/davidbz/pricematrix/internal/observability"
)

// Config represents the pricematrix configuration.
type Config struct {
	Log     observability.LogConfig
	Catalog CatalogConfig
	Redis   RedisConfig
	Server  ServerConfig
	CORS    CORSConfig
	Billing billing.Config
	AWS     awspricing.Config
}

// CatalogConfig describes how bulk price-list files are read.
type CatalogConfig struct {
	Pattern    string `env:"CATALOG_PATTERN"`
	SkipLines  int    `env:"CATALOG_SKIP_LINES"  envDefault:"5"`
	IDField    string `env:"CATALOG_ID_FIELD"    envDefault:"Instance Type"`
	PriceField string `env:"CATALOG_PRICE_FIELD" envDefault:"PricePerUnit"`
}

// RedisConfig contains matrix store settings. An empty Addr disables Redis.
type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB"         envDefault:"0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"matrix:"`
	TTL       int    `env:"REDIS_TTL"        envDefault:"0"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"120"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out

	Log     *observability.LogConfig
	Catalog *CatalogConfig
	Redis   *RedisConfig
	Server  *ServerConfig
	CORS    *CORSConfig
	Billing *billing.Config
	AWS     *awspricing.Config
}

// Load loads environment files and parses configuration.
func Load() (*Config, error) {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Out:     dig.Out{},
		Log:     &cfg.Log,
		Catalog: &cfg.Catalog,
		Redis:   &cfg.Redis,
		Server:  &cfg.Server,
		CORS:    &cfg.CORS,
		Billing: &cfg.Billing,
		AWS:     &cfg.AWS,
	}
}
