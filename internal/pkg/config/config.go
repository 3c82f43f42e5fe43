package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB/Redis connection)
// - default: Values common across all environments (TTLs, concurrency, timeouts)
// -----------------------------------------------------------------------------

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	Cache  CacheConfig
	Queue  QueueConfig
	Worker WorkerConfig
	CORS   CORSConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type RedisConfig struct {
	// Single connection string shared by the cache layer and the job queue.
	URL string `envconfig:"REDIS_URL" required:"true"`
	// Channel alert events are published to after a cascade completes.
	AlertChannel string `envconfig:"REDIS_ALERT_CHANNEL" default:"menucost.alerts"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `envconfig:"CACHE_DEFAULT_TTL" default:"300s"`
	SampleSize int           `envconfig:"CACHE_STATS_SAMPLE_SIZE" default:"20"`
}

type QueueConfig struct {
	Name         string        `envconfig:"QUEUE_NAME" default:"recalc"`
	MaxAttempts  int           `envconfig:"QUEUE_MAX_ATTEMPTS" default:"5"`
	LeaseTTL     time.Duration `envconfig:"QUEUE_LEASE_TTL" default:"30s"`
	BackoffBase  time.Duration `envconfig:"QUEUE_BACKOFF_BASE" default:"2s"`
	BackoffCap   time.Duration `envconfig:"QUEUE_BACKOFF_CAP" default:"5m"`
	StatusTTL    time.Duration `envconfig:"QUEUE_STATUS_TTL" default:"24h"`
	ReapInterval time.Duration `envconfig:"QUEUE_REAP_INTERVAL" default:"15s"`
}

type WorkerConfig struct {
	Concurrency     int           `envconfig:"WORKER_CONCURRENCY" default:"5"`
	RatePerSecond   float64       `envconfig:"WORKER_RATE_PER_SECOND" default:"10"`
	PollTimeout     time.Duration `envconfig:"WORKER_POLL_TIMEOUT" default:"5s"`
	ShutdownTimeout time.Duration `envconfig:"WORKER_SHUTDOWN_TIMEOUT" default:"30s"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Redis: RedisConfig{
			URL:          "redis://localhost:16380/0",
			AlertChannel: "menucost.alerts.test",
		},
		Cache: CacheConfig{
			DefaultTTL: 300 * time.Second,
			SampleSize: 20,
		},
		Queue: QueueConfig{
			Name:         "recalc-test",
			MaxAttempts:  3,
			LeaseTTL:     5 * time.Second,
			BackoffBase:  10 * time.Millisecond,
			BackoffCap:   time.Second,
			StatusTTL:    time.Hour,
			ReapInterval: 100 * time.Millisecond,
		},
		Worker: WorkerConfig{
			Concurrency:     2,
			RatePerSecond:   100,
			PollTimeout:     100 * time.Millisecond,
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
	}
}
