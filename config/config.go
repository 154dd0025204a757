package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv                string
	AppPort               string
	AllowedOrigins        string
	DBDriver              string
	DBHost                string
	DBPort                string
	DBUser                string
	DBPassword            string
	DBName                string
	DBPath                string
	DBMaxIdleConns        int
	DBMaxOpenConns        int
	JWTSecret             string
	JWTExpirationHours    int
	NatsURL               string
	EventDispatchInterval time.Duration
	EventRetention        time.Duration
	EventRetentionJob     string
}

// IsDevelopment reports whether internal error details may be returned to clients.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("%s not set, defaulting to %s", key, defaultValue)
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Invalid integer value for %s, defaulting to %d", key, defaultValue)
	}
	return defaultValue
}

// Load reads the configuration from the environment. A .env file in the
// working directory, if any, is applied first without overriding variables
// that are already set.
func Load() Config {
	log.Println("Loading configuration...")

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment overrides from .env")
	}

	return Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		AppPort:               getEnv("APP_PORT", "8080"),
		AllowedOrigins:        getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
		DBDriver:              getEnv("DB_DRIVER", "postgres"),
		DBHost:                getEnv("DB_HOST", "localhost"),
		DBPort:                getEnv("DB_PORT", "5432"),
		DBUser:                getEnv("DB_USER", "taskmanager"),
		DBPassword:            getEnv("DB_PASSWORD", "taskmanager"),
		DBName:                getEnv("DB_NAME", "taskmanager"),
		DBPath:                getEnv("DB_PATH", "data/taskmanager.db"),
		DBMaxIdleConns:        getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns:        getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		JWTSecret:             getEnv("JWT_SECRET", "your-super-secret-key-change-this-in-production"),
		JWTExpirationHours:    getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		NatsURL:               getEnv("NATS_URL", "nats://localhost:4222"),
		EventDispatchInterval: time.Duration(getEnvAsInt("EVENT_DISPATCH_INTERVAL_MS", 1000)) * time.Millisecond,
		EventRetention:        time.Duration(getEnvAsInt("EVENT_RETENTION_HOURS", 168)) * time.Hour,
		EventRetentionJob:     getEnv("EVENT_RETENTION_SCHEDULE", "@hourly"),
	}
}
