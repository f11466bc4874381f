// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. It is built once at startup
// and injected into constructors; nothing reads the environment after Load.
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Feed        FeedConfig
	Proximity   ProximityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	AlertSubject   string
}

// FeedConfig selects and configures the change feed delivery mechanism
type FeedConfig struct {
	// Driver is one of "postgres", "nats", "kafka"
	Driver string

	// Postgres NOTIFY channel
	Channel string

	// NATS change subject
	Subject string

	// Kafka reader settings
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string
}

// ProximityConfig holds proximity evaluation configuration
type ProximityConfig struct {
	// ThresholdKm is the alert distance threshold in kilometers (inclusive)
	ThresholdKm float64

	// Mode is "local" (in-process comparison, default) or "remote"
	// (per-pair call to the compareLocations endpoint)
	Mode string

	// CompareURL, RetryAttempts and RetryWait apply to remote mode only
	CompareURL    string
	RetryAttempts int
	RetryWait     time.Duration
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "truckwatch"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			AlertSubject:   getEnv("NATS_ALERT_SUBJECT", "trucks.alerts.proximity"),
		},
		Feed: FeedConfig{
			Driver:       getEnv("FEED_DRIVER", "postgres"),
			Channel:      getEnv("FEED_PG_CHANNEL", "truck_locations"),
			Subject:      getEnv("FEED_NATS_SUBJECT", "trucks.locations.changes"),
			KafkaBrokers: getEnvAsSlice("FEED_KAFKA_BROKERS", []string{"localhost:9092"}),
			KafkaTopic:   getEnv("FEED_KAFKA_TOPIC", "truck-location-changes"),
			KafkaGroupID: getEnv("FEED_KAFKA_GROUP_ID", "truckwatch-proximity"),
		},
		Proximity: ProximityConfig{
			ThresholdKm:   getEnvAsFloat("PROXIMITY_THRESHOLD_KM", 0.5),
			Mode:          getEnv("PROXIMITY_MODE", "local"),
			CompareURL:    getEnv("PROXIMITY_COMPARE_URL", ""),
			RetryAttempts: getEnvAsInt("PROXIMITY_RETRY_ATTEMPTS", 3),
			RetryWait:     getEnvAsDuration("PROXIMITY_RETRY_WAIT", 500*time.Millisecond),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	switch config.Feed.Driver {
	case "postgres", "nats", "kafka":
	default:
		return fmt.Errorf("unknown feed driver %q", config.Feed.Driver)
	}

	switch config.Proximity.Mode {
	case "local":
	case "remote":
		if config.Proximity.CompareURL == "" {
			return fmt.Errorf("remote proximity mode requires PROXIMITY_COMPARE_URL")
		}
	default:
		return fmt.Errorf("unknown proximity mode %q", config.Proximity.Mode)
	}

	if config.Proximity.ThresholdKm <= 0 {
		return fmt.Errorf("proximity threshold must be positive, got %f", config.Proximity.ThresholdKm)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
