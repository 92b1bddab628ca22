package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Client    ClientConfig
	DevServer DevServerConfig
	Log       LogConfig
}

type ClientConfig struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	HydrationDelay time.Duration
	SessionFile    string
	TokenTTL       time.Duration
}

type DevServerConfig struct {
	Port      string
	DBPath    string
	JWTSecret string
	UploadDir string
	TokenTTL  time.Duration
	SeedAdmin bool
}

type LogConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	// Load .env if it exists (local dev), ignore if not
	_ = godotenv.Load()

	cfg := &Config{
		Client: ClientConfig{
			APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:3333"),
			RequestTimeout: getEnvAsDuration("API_REQUEST_TIMEOUT", 10*time.Second),
			HydrationDelay: getEnvAsDuration("HYDRATION_DELAY", 1200*time.Millisecond),
			SessionFile:    getEnv("SESSION_FILE", defaultSessionFile()),
			TokenTTL:       getEnvAsDuration("TOKEN_TTL", 7*24*time.Hour),
		},
		DevServer: DevServerConfig{
			Port:      getEnv("DEVSERVER_PORT", "3333"),
			DBPath:    getEnv("DEVSERVER_DB_PATH", "verzel-admin.db"),
			JWTSecret: getEnv("DEVSERVER_JWT_SECRET", "dev-only-secret"),
			UploadDir: getEnv("DEVSERVER_UPLOAD_DIR", "uploads"),
			TokenTTL:  getEnvAsDuration("DEVSERVER_TOKEN_TTL", 7*24*time.Hour),
			SeedAdmin: getEnvAsBool("DEVSERVER_SEED_ADMIN", true),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	return cfg, nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(dir, "verzel-admin", "session.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
