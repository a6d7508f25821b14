package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/database"
)

// Storage drivers.
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// KafkaConfig holds settings for the subscription event publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether events should be published.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// ServiceConfig holds all configuration for the subscription service.
type ServiceConfig struct {
	Port               string
	AppEnv             string
	LogLevel           string
	StorageDriver      string
	MongoConfig        database.MongoConfig
	KafkaConfig        KafkaConfig
	CORSAllowedOrigins []string
	MetricsEnabled     bool
}

// Load reads configuration from the environment, after loading an optional
// .env file from the working directory.
func Load() (*ServiceConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &ServiceConfig{
		Port:               normalizePort(v.GetString("SERVICE_PORT")),
		AppEnv:             v.GetString("APP_ENV"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		StorageDriver:      strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		MongoConfig:        loadMongoConfig(v),
		KafkaConfig:        loadKafkaConfig(v),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MetricsEnabled:     v.GetBool("METRICS_ENABLED"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", StorageMongo)
	v.SetDefault("MONGODB_DATABASE", "webhook")
	v.SetDefault("MONGODB_COLLECTION", "subscriptions")
	v.SetDefault("MONGODB_CONNECT_TIMEOUT", "10s")
	v.SetDefault("MONGODB_MAX_POOL_SIZE", 100)
	v.SetDefault("MONGODB_MIN_POOL_SIZE", 1)
	v.SetDefault("MONGODB_RETRY_ATTEMPTS", 3)
	v.SetDefault("MONGODB_RETRY_INTERVAL", "5s")
	v.SetDefault("KAFKA_SUBSCRIPTION_TOPIC", "subscription.events")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("METRICS_ENABLED", true)
}

// loadMongoConfig extracts MongoDB configuration from Viper.
func loadMongoConfig(v *viper.Viper) database.MongoConfig {
	return database.MongoConfig{
		URL:            strings.TrimSpace(v.GetString("MONGODB_URL")),
		Database:       v.GetString("MONGODB_DATABASE"),
		Collection:     v.GetString("MONGODB_COLLECTION"),
		ConnectTimeout: v.GetDuration("MONGODB_CONNECT_TIMEOUT"),
		MaxPoolSize:    v.GetUint64("MONGODB_MAX_POOL_SIZE"),
		MinPoolSize:    v.GetUint64("MONGODB_MIN_POOL_SIZE"),
		RetryAttempts:  v.GetInt("MONGODB_RETRY_ATTEMPTS"),
		RetryInterval:  v.GetDuration("MONGODB_RETRY_INTERVAL"),
	}
}

// loadKafkaConfig extracts Kafka configuration from Viper.
func loadKafkaConfig(v *viper.Viper) KafkaConfig {
	return KafkaConfig{
		Brokers: splitList(v.GetString("KAFKA_BROKERS")),
		Topic:   v.GetString("KAFKA_SUBSCRIPTION_TOPIC"),
	}
}

func (c *ServiceConfig) validate() error {
	switch c.StorageDriver {
	case StorageMongo:
		if c.MongoConfig.URL == "" {
			return fmt.Errorf("MONGODB_URL is required when STORAGE_DRIVER=%s", StorageMongo)
		}
		if c.MongoConfig.Database == "" || c.MongoConfig.Collection == "" {
			return fmt.Errorf("MONGODB_DATABASE and MONGODB_COLLECTION must not be empty")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.KafkaConfig.Enabled() && c.KafkaConfig.Topic == "" {
		return fmt.Errorf("KAFKA_SUBSCRIPTION_TOPIC must not be empty when KAFKA_BROKERS is set")
	}
	return nil
}

func normalizePort(port string) string {
	port = strings.TrimSpace(port)
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
