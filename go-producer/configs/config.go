package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

type Config struct {
	HTTPAddress          string   `mapstructure:"HTTP_ADDRESS"`
	KafkaBrokers         []string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic           string   `mapstructure:"KAFKA_TOPIC"`
	EnabledChannels      []string `mapstructure:"ENABLED_CHANNELS"`
	InboxDBDriver        string   `mapstructure:"INBOX_DB_DRIVER"`
	InboxDBDSN           string   `mapstructure:"INBOX_DB_DSN"`
	HighlightClassPrefix string   `mapstructure:"HIGHLIGHT_CLASS_PREFIX"`
	OtelEndpoint         string   `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelServiceName      string   `mapstructure:"OTEL_SERVICE_NAME"`
	OtelInsecure         bool     `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
}

var (
	ErrNoKafkaBrokers = errors.New("KAFKA_BROKERS must list at least one broker")
	ErrNoKafkaTopic   = errors.New("KAFKA_TOPIC must be set")
	ErrNoChannels     = errors.New("ENABLED_CHANNELS must name at least one channel")
)

var cfg *Config

// NewConfig reads path/.env under the module root, lets the environment
// override it and fills in producer defaults.
func NewConfig(path string) (*Config, error) {
	base, err := GetBasePath(path)
	if err != nil {
		return nil, fmt.Errorf("error getting base path: %w", err)
	}

	vip := viper.New()
	vip.SetConfigType("env")
	vip.SetConfigName(".env")
	vip.AddConfigPath(base)
	vip.AutomaticEnv()

	if err := vip.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	for _, key := range []string{
		"HTTP_ADDRESS", "KAFKA_BROKERS", "KAFKA_TOPIC", "ENABLED_CHANNELS",
		"INBOX_DB_DRIVER", "INBOX_DB_DSN", "HIGHLIGHT_CLASS_PREFIX",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME", "OTEL_EXPORTER_OTLP_INSECURE",
	} {
		_ = vip.BindEnv(key)
	}

	vip.SetDefault("HTTP_ADDRESS", ":8080")
	vip.SetDefault("ENABLED_CHANNELS", []string{"email"})
	vip.SetDefault("INBOX_DB_DRIVER", "sqlite")
	vip.SetDefault("HIGHLIGHT_CLASS_PREFIX", "notification")
	vip.SetDefault("OTEL_SERVICE_NAME", "notification-producer")

	loaded := &Config{}
	if err := vip.Unmarshal(loaded); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	cfg = loaded
	return cfg, nil
}

// Validate reports every setting the producer cannot start without.
func (c *Config) Validate() error {
	var err error
	if len(c.KafkaBrokers) == 0 {
		err = multierr.Append(err, ErrNoKafkaBrokers)
	}
	if c.KafkaTopic == "" {
		err = multierr.Append(err, ErrNoKafkaTopic)
	}
	if len(c.EnabledChannels) == 0 {
		err = multierr.Append(err, ErrNoChannels)
	}
	return err
}

// GetBasePath resolves path against the directory holding go.mod. Absolute
// paths are returned unchanged.
func GetBasePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, path), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found")
		}
		dir = parent
	}
}

func GetConfig() *Config {
	return cfg
}

// InboxEnabled reports whether the feed endpoint has a store to read from.
func (c *Config) InboxEnabled() bool {
	return c.InboxDBDSN != ""
}

func SetConfig(newCfg *Config) {
	cfg = newCfg
}
