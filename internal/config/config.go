package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Cache    CacheConfig    `envPrefix:"CACHE_"`
	Log      LogConfig      `envPrefix:"LOG_"`
	Metrics  MetricsConfig  `envPrefix:"METRICS_"`
	CORS     CORSConfig     `envPrefix:"CORS_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	Tenant   TenantConfig   `envPrefix:"TENANT_"`
}

type ServerConfig struct {
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

type DatabaseConfig struct {
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            int           `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER" envDefault:"postgres"`
	Password        string        `env:"PASSWORD"`
	DBName          string        `env:"NAME" envDefault:"clinichub"`
	SSLMode         string        `env:"SSLMODE" envDefault:"disable"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"warn"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
}

type RedisConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
	Prefix   string `env:"PREFIX" envDefault:"clinichub:"`
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type CacheConfig struct {
	Enabled bool          `env:"ENABLED" envDefault:"true"`
	Type    string        `env:"TYPE" envDefault:"memory"`
	TTL     time.Duration `env:"TTL" envDefault:"5m"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

type MetricsConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods []string `env:"ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS" envSeparator:"," envDefault:"Accept,Authorization,Content-Type,X-Request-ID"`
}

type AuthConfig struct {
	Secret   string        `env:"SECRET"`
	Issuer   string        `env:"ISSUER" envDefault:"clinichub"`
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"12h"`
}

type TenantConfig struct {
	// RequireActive makes deactivated clinics resolve to no tenant
	RequireActive bool `env:"REQUIRE_ACTIVE" envDefault:"false"`
}

// Load reads .env when present, then parses the environment
func Load() (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port: %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, errors.New("database host is required"))
	}
	if c.Database.DBName == "" {
		errs = append(errs, errors.New("database name is required"))
	}
	if c.Cache.Enabled && !slices.Contains([]string{"memory", "redis"}, c.Cache.Type) {
		errs = append(errs, fmt.Errorf("invalid cache type: %q", c.Cache.Type))
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		errs = append(errs, fmt.Errorf("invalid log level: %q", c.Log.Level))
	}
	if !slices.Contains([]string{"json", "console"}, c.Log.Format) {
		errs = append(errs, fmt.Errorf("invalid log format: %q", c.Log.Format))
	}
	if len(c.Auth.Secret) < 32 {
		errs = append(errs, errors.New("auth secret must be at least 32 bytes"))
	}

	return errors.Join(errs...)
}
