package config

import (
	"encoding/base64"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers []string
	KafkaGroupID string

	// Survey events
	SurveyEventsTopic string
	SnapshotTTL       time.Duration

	// Encryption (Tier-2 payloads). Base64-encoded 32-byte key.
	EncryptionKey string

	// Axis catalog override (YAML). Empty means built-in catalog.
	AxesConfigPath string

	// Submission throttle (per origin hash)
	SubmitMaxPerWindow int
	SubmitWindow       time.Duration

	// HTTP rate limiting
	RateLimitRPS   int
	RateLimitBurst int
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1024*1024)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "survey"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "survey123"),
		PostgresDB:       getEnv("POSTGRES_DB", "survey"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "survey-platform"),

		SurveyEventsTopic: getEnv("SURVEY_EVENTS_TOPIC", "survey.counts.updated"),
		SnapshotTTL:       getDuration("SNAPSHOT_TTL", 24*time.Hour),

		EncryptionKey: getEnv("ENCRYPTION_KEY", ""),

		AxesConfigPath: getEnv("AXES_CONFIG_PATH", ""),

		SubmitMaxPerWindow: getIntEnv("SUBMIT_MAX_PER_WINDOW", 10),
		SubmitWindow:       getDuration("SUBMIT_WINDOW", time.Hour),

		RateLimitRPS:   getIntEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),
	}
}

// EncryptionKeyBytes decodes the configured key. Returns nil when unset.
func (c *Config) EncryptionKeyBytes() ([]byte, error) {
	if c.EncryptionKey == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(c.EncryptionKey)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return []string{value}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
