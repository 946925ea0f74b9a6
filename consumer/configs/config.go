package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	MaxRetries             int      `mapstructure:"MAX_RETRIES"`
	EnabledChannels        []string `mapstructure:"ENABLED_CHANNELS"`
	WorkerPoolSize         int      `mapstructure:"WORKER_POOL_SIZE"`
	BackoffBaseDelay       int      `mapstructure:"BACKOFF_BASE_DELAY_MS"`
	ShutdownTimeoutSeconds int      `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`

	KafkaBrokers  []string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic    string   `mapstructure:"KAFKA_TOPIC"`
	KafkaGroupID  string   `mapstructure:"KAFKA_GROUP_ID"`
	KafkaDLQTopic string   `mapstructure:"KAFKA_DLQ_TOPIC"`

	EmailDriver      string `mapstructure:"EMAIL_DRIVER"`
	EmailMailer      string `mapstructure:"EMAIL_MAILER"`
	EmailHost        string `mapstructure:"EMAIL_HOST"`
	EmailPort        string `mapstructure:"EMAIL_PORT"`
	EmailUsername    string `mapstructure:"EMAIL_USERNAME"`
	EmailPassword    string `mapstructure:"EMAIL_PASSWORD"`
	EmailEncrypt     string `mapstructure:"EMAIL_ENCRYPTION"`
	EmailFromAddress string `mapstructure:"EMAIL_FROM_ADDRESS"`
	EmailFromName    string `mapstructure:"EMAIL_FROM_NAME"`
	EmailSubject     string `mapstructure:"EMAIL_SUBJECT"`
	AWSRegion        string `mapstructure:"AWS_REGION"`
	SMSSenderID      string `mapstructure:"SMS_SENDER_ID"`

	InboxDBDriver string `mapstructure:"INBOX_DB_DRIVER"`
	InboxDBDSN    string `mapstructure:"INBOX_DB_DSN"`

	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int    `mapstructure:"REDIS_DB"`
	DedupTTLSeconds int    `mapstructure:"DEDUP_TTL_SECONDS"`

	HighlightClassPrefix string `mapstructure:"HIGHLIGHT_CLASS_PREFIX"`
	MetricsServerAddress string `mapstructure:"METRICS_SERVER_ADDRESS"`
	OtelEndpoint         string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelInsecure         bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	OtelServiceName      string `mapstructure:"OTEL_SERVICE_NAME"`
}

type EmailConf struct {
	Driver      string
	Mailer      string
	Host        string
	Port        string
	Username    string
	Password    string
	Encrypt     string
	FromAddress string
	FromName    string
	Subject     string
	AWSRegion   string
}

type RedisConf struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type QueueConsumerConfig struct {
	MaxRetries       int
	EnabledChannels  []string
	WorkerPoolSize   int
	BackoffBaseDelay int
	DrainTimeout     time.Duration
}

// envKeys lists every variable read from the environment in addition to .env.
var envKeys = []string{
	"MAX_RETRIES", "ENABLED_CHANNELS", "WORKER_POOL_SIZE", "BACKOFF_BASE_DELAY_MS", "SHUTDOWN_TIMEOUT_SECONDS",
	"KAFKA_BROKERS", "KAFKA_TOPIC", "KAFKA_GROUP_ID", "KAFKA_DLQ_TOPIC",
	"EMAIL_DRIVER", "EMAIL_MAILER", "EMAIL_HOST", "EMAIL_PORT", "EMAIL_USERNAME", "EMAIL_PASSWORD",
	"EMAIL_ENCRYPTION", "EMAIL_FROM_ADDRESS", "EMAIL_FROM_NAME", "EMAIL_SUBJECT",
	"AWS_REGION", "SMS_SENDER_ID",
	"INBOX_DB_DRIVER", "INBOX_DB_DSN",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "DEDUP_TTL_SECONDS",
	"HIGHLIGHT_CLASS_PREFIX", "METRICS_SERVER_ADDRESS",
	"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE", "OTEL_SERVICE_NAME",
}

var defaults = map[string]any{
	"MAX_RETRIES":              3,
	"ENABLED_CHANNELS":         []string{"email"},
	"WORKER_POOL_SIZE":         10,
	"BACKOFF_BASE_DELAY_MS":    1000,
	"SHUTDOWN_TIMEOUT_SECONDS": 10,
	"KAFKA_GROUP_ID":           "notification-consumer",
	"EMAIL_DRIVER":             "smtp",
	"EMAIL_SUBJECT":            "You have a new notification",
	"INBOX_DB_DRIVER":          "sqlite",
	"DEDUP_TTL_SECONDS":        86400,
	"HIGHLIGHT_CLASS_PREFIX":   "notification",
	"METRICS_SERVER_ADDRESS":   ":9091",
	"OTEL_SERVICE_NAME":        "notification-consumer",
}

var cfg *Config

// NewConfig loads path/.env (relative to the module root) overlaid with the
// process environment and stores the result as the package configuration.
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

	for _, key := range envKeys {
		if err := vip.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}
	for key, value := range defaults {
		vip.SetDefault(key, value)
	}

	loaded := &Config{}
	if err := vip.Unmarshal(loaded); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	cfg = loaded
	return cfg, nil
}

// GetBasePath walks up from the working directory to the nearest go.mod and
// joins path onto it.
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

func GetEmailConf() *EmailConf {
	if cfg == nil {
		return &EmailConf{}
	}
	return &EmailConf{
		Driver:      cfg.EmailDriver,
		Mailer:      cfg.EmailMailer,
		Host:        cfg.EmailHost,
		Port:        cfg.EmailPort,
		Username:    cfg.EmailUsername,
		Password:    cfg.EmailPassword,
		Encrypt:     cfg.EmailEncrypt,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		Subject:     cfg.EmailSubject,
		AWSRegion:   cfg.AWSRegion,
	}
}

// GetRedisConf returns nil when deduplication is not configured.
func GetRedisConf() *RedisConf {
	if cfg == nil || cfg.RedisAddr == "" {
		return nil
	}
	return &RedisConf{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      time.Duration(cfg.DedupTTLSeconds) * time.Second,
	}
}

func GetQueueConsumerConfig() *QueueConsumerConfig {
	return &QueueConsumerConfig{
		MaxRetries:       cfg.MaxRetries,
		EnabledChannels:  cfg.EnabledChannels,
		WorkerPoolSize:   cfg.WorkerPoolSize,
		BackoffBaseDelay: cfg.BackoffBaseDelay,
		DrainTimeout:     time.Duration(cfg.ShutdownTimeoutSeconds) * time.Second,
	}
}

// SetTestConfig allows tests to set the global config variable directly.
func SetTestConfig(testCfg *Config) {
	cfg = testCfg
}
