package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/rl1809/vending/internal/seed"
)

const envPrefix = "vending"

const (
	SnapshotNone  = "none"
	SnapshotFile  = "file"
	SnapshotRedis = "redis"
)

// Config is read from VENDING_* environment variables.
type Config struct {
	MachineID string `split_words:"true" default:"default"`
	Preset    string
	SeedFile  string `split_words:"true"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	GRPCAddr string `envconfig:"GRPC_ADDR" default:":50051"`

	SnapshotBackend string        `split_words:"true" default:"file"`
	SnapshotDir     string        `split_words:"true" default:".vending"`
	RedisAddr       string        `split_words:"true" default:"localhost:6379"`
	RedisPassword   string        `split_words:"true"`
	RedisDB         int           `envconfig:"REDIS_DB" default:"0"`
	SnapshotTTL     time.Duration `split_words:"true" default:"0s"`

	// Empty disables the MySQL sales ledger; sales are then kept in memory.
	MySQLDSN string `envconfig:"MYSQL_DSN"`

	Workers   int `default:"4"`
	QueueSize int `split_words:"true" default:"1000"`

	LogLevel  string `split_words:"true" default:"info"`
	LogFormat string `split_words:"true" default:"text"`
}

func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process(envPrefix, &c); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if c.Preset == "" {
		c.Preset = seed.DefaultPreset
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.SnapshotBackend {
	case SnapshotNone, SnapshotFile, SnapshotRedis:
	default:
		return fmt.Errorf("unknown snapshot backend %q, expected one of %s, %s, %s",
			c.SnapshotBackend, SnapshotNone, SnapshotFile, SnapshotRedis)
	}
	if c.MachineID == "" {
		return fmt.Errorf("machine id cannot be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("queue size must be at least 1, got %d", c.QueueSize)
	}
	return nil
}
