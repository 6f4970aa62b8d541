package app

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/yungbote/blueprints-backend/internal/data/db"
	httpMW "github.com/yungbote/blueprints-backend/internal/http/middleware"
	"github.com/yungbote/blueprints-backend/internal/observability"
)

// Config is read from the process environment.
type Config struct {
	Port    string `envconfig:"PORT" default:"8080"`
	LogMode string `envconfig:"LOG_MODE" default:"development"`

	DBDriver           string        `envconfig:"DB_DRIVER" default:"postgres"`
	PostgresHost       string        `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort       string        `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser       string        `envconfig:"POSTGRES_USER" default:"postgres"`
	PostgresPassword   string        `envconfig:"POSTGRES_PASSWORD"`
	PostgresName       string        `envconfig:"POSTGRES_NAME" default:"blueprints"`
	PostgresSSLMode    string        `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	SQLitePath         string        `envconfig:"SQLITE_PATH" default:"blueprints.db"`
	DBMaxOpenConns     int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	DBMaxIdleConns     int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	DBConnMaxLifetime  time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	DBStatementTimeout time.Duration `envconfig:"DB_STATEMENT_TIMEOUT" default:"10s"`
	DBAutoMigrate      bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	// Empty RedisAddr disables change events.
	RedisAddr    string `envconfig:"REDIS_ADDR"`
	RedisChannel string `envconfig:"REDIS_CHANNEL" default:"blueprint-events"`

	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`

	OtelEnabled      bool    `envconfig:"OTEL_ENABLED" default:"false"`
	OtelServiceName  string  `envconfig:"OTEL_SERVICE_NAME" default:"blueprints"`
	OtelEnvironment  string  `envconfig:"OTEL_ENVIRONMENT" default:"development"`
	OtelVersion      string  `envconfig:"OTEL_SERVICE_VERSION"`
	OtelSamplerRatio float64 `envconfig:"OTEL_SAMPLER_RATIO" default:"1"`
	OtelEndpoint     string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelHeaders      string  `envconfig:"OTEL_EXPORTER_OTLP_HEADERS"`
	OtelInsecure     bool    `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"false"`

	RateLimitEnabled bool    `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RateLimitRPS     float64 `envconfig:"RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst   int     `envconfig:"RATE_LIMIT_BURST" default:"100"`

	CORSAllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c Config) DB() db.Config {
	return db.Config{
		Driver:          c.DBDriver,
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPassword,
		Name:            c.PostgresName,
		SSLMode:         c.PostgresSSLMode,
		SQLitePath:      c.SQLitePath,
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
	}
}

func (c Config) Otel() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:      c.OtelEnabled,
		ServiceName:  c.OtelServiceName,
		Environment:  c.OtelEnvironment,
		Version:      c.OtelVersion,
		SamplerRatio: c.OtelSamplerRatio,
		Endpoint:     c.OtelEndpoint,
		Headers:      observability.ParseHeaders(c.OtelHeaders),
		Insecure:     c.OtelInsecure,
	}
}

func (c Config) RateLimit() httpMW.RateLimitConfig {
	if !c.RateLimitEnabled {
		return httpMW.RateLimitConfig{}
	}
	rl := httpMW.DefaultRateLimitConfig()
	rl.RequestsPerSecond = c.RateLimitRPS
	rl.Burst = c.RateLimitBurst
	return rl
}

func (c Config) Addr() string {
	return ":" + c.Port
}
