package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Tracking TrackingConfig
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,            default=cargo_tracking"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=0"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// KafkaConfig configures the location-update consumer. An empty broker list
// disables it.
type KafkaConfig struct {
	Brokers       []string `env:"KAFKA_BROKERS"`
	LocationTopic string   `env:"KAFKA_LOCATION_TOPIC, default=shipment.location-updates"`
	GroupID       string   `env:"KAFKA_GROUP_ID,       default=cargo-tracking"`
}

type TrackingConfig struct {
	AverageSpeedKmh   float64       `env:"TRACKING_AVG_SPEED_KMH,      default=60"`
	DefaultTransit    time.Duration `env:"TRACKING_DEFAULT_TRANSIT,    default=168h"`
	StrictTransitions bool          `env:"TRACKING_STRICT_TRANSITIONS, default=true"`
	Workers           int           `env:"TRACKING_WORKERS,            default=8"`
	ConflictRetryMax  time.Duration `env:"TRACKING_CONFLICT_RETRY_MAX, default=2s"`
	DedupWindow       time.Duration `env:"TRACKING_DEDUP_WINDOW,       default=1h"`
	DrainTimeout      time.Duration `env:"TRACKING_DRAIN_TIMEOUT,      default=10s"`
	IDScheme          string        `env:"SHIPMENT_ID_SCHEME,          default=timestamp"`
}

// KafkaEnabled reports whether at least one broker is configured.
func (c *Config) KafkaEnabled() bool {
	for _, b := range c.Kafka.Brokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}

// IsProduction reports whether the service runs with production defaults
// (JSON logs, no pretty printing).
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through the given lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Tracking.AverageSpeedKmh <= 0 {
		return fmt.Errorf("TRACKING_AVG_SPEED_KMH must be positive, got %v", c.Tracking.AverageSpeedKmh)
	}
	if c.Tracking.DefaultTransit <= 0 {
		return fmt.Errorf("TRACKING_DEFAULT_TRANSIT must be positive, got %v", c.Tracking.DefaultTransit)
	}
	if c.Tracking.Workers < 1 {
		return fmt.Errorf("TRACKING_WORKERS must be at least 1, got %d", c.Tracking.Workers)
	}
	switch strings.ToLower(c.Tracking.IDScheme) {
	case "timestamp", "uuid":
	default:
		return fmt.Errorf("SHIPMENT_ID_SCHEME must be timestamp or uuid, got %q", c.Tracking.IDScheme)
	}
	return nil
}
