package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Бэкенды персистентного хранилища
const (
	StoreBackendFile     = "file"
	StoreBackendRedis    = "redis"
	StoreBackendPostgres = "postgres"
)

// Бэкенды публикации событий изменения
const (
	EventsBackendNone  = "none"
	EventsBackendRedis = "redis"
	EventsBackendKafka = "kafka"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Admin session
	AdminPassword     string        `env:"ADMIN_PASSWORD"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// Persistent store
	StoreBackend string `env:"STORE_BACKEND" envDefault:"file"`
	FileStoreDir string `env:"FILE_STORE_DIR" envDefault:"data"`
	DatabaseURL  string `env:"DATABASE_URL"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Seed resource
	SeedPath string `env:"SEED_PATH" envDefault:"seed/locations.json"`
	SeedURL  string `env:"SEED_URL"`

	// Change events
	EventsBackend string `env:"EVENTS_BACKEND" envDefault:"none"`
	KafkaBroker   string `env:"KAFKA_BROKER"`
	KafkaTopic    string `env:"KAFKA_TOPIC" envDefault:"location-events"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// Export archive (MinIO)
	MinioEndpoint     string `env:"MINIO_ENDPOINT"`
	MinioAccessKey    string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey    string `env:"MINIO_SECRET_KEY"`
	MinioUseSSL       bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	ExportBucket      string `env:"EXPORT_BUCKET" envDefault:"travelguide-exports"`
	AutoArchiveOnSave bool   `env:"AUTO_ARCHIVE_ON_SAVE" envDefault:"false"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		SessionTTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		StoreBackend:      getEnv("STORE_BACKEND", StoreBackendFile),
		FileStoreDir:      getEnv("FILE_STORE_DIR", "data"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		SeedPath:          getEnv("SEED_PATH", "seed/locations.json"),
		SeedURL:           os.Getenv("SEED_URL"),
		EventsBackend:     getEnv("EVENTS_BACKEND", EventsBackendNone),
		KafkaBroker:       os.Getenv("KAFKA_BROKER"),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "location-events"),
		WebhookURL:        os.Getenv("WEBHOOK_URL"),
		WebhookSecret:     os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:    getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries: getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:  getEnvAsDuration("WEBHOOK_BASE_DELAY", 1*time.Second),
		MinioEndpoint:     os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:    os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:    os.Getenv("MINIO_SECRET_KEY"),
		MinioUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		ExportBucket:      getEnv("EXPORT_BUCKET", "travelguide-exports"),
		AutoArchiveOnSave: getEnvAsBool("AUTO_ARCHIVE_ON_SAVE", false),
	}

	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH environment variable is required")
	}

	switch cfg.StoreBackend {
	case StoreBackendFile, StoreBackendRedis:
	case StoreBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for the postgres store backend")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND: %q", cfg.StoreBackend)
	}

	switch cfg.EventsBackend {
	case EventsBackendNone, EventsBackendRedis:
	case EventsBackendKafka:
		if cfg.KafkaBroker == "" {
			return nil, fmt.Errorf("KAFKA_BROKER environment variable is required for the kafka events backend")
		}
	default:
		return nil, fmt.Errorf("unknown EVENTS_BACKEND: %q", cfg.EventsBackend)
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool возвращает значение переменной окружения как bool или значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
