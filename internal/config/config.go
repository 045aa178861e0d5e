package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Client  ClientConfig
	Session SessionConfig
	Server  ServerConfig
	Sandbox SandboxConfig
	Storage StorageConfig
	Worker  WorkerConfig
}

type ClientConfig struct {
	BaseURL string
	Verbose bool
}

// SessionConfig selects where the CLI keeps its credentials.
// Driver is "sqlite" (default) or "postgres".
type SessionConfig struct {
	Driver      string
	Path        string
	DatabaseURL string
}

type ServerConfig struct {
	Port string
	Env  string
}

type SandboxConfig struct {
	Driver      string
	Path        string
	DatabaseURL string
	Seed        bool
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency  int
	PollInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to read .env file: %v", err)
	}

	return &Config{
		Client: ClientConfig{
			BaseURL: strings.TrimRight(getEnv("CV_API_BASE_URL", "http://localhost:8000"), "/"),
			Verbose: getEnvAsBool("CV_VERBOSE", false),
		},
		Session: SessionConfig{
			Driver:      getEnv("SESSION_DRIVER", "sqlite"),
			Path:        getEnv("SESSION_DB_PATH", defaultSessionPath()),
			DatabaseURL: getEnv("SESSION_DATABASE_URL", ""),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
			Env:  getEnv("ENV", "development"),
		},
		Sandbox: SandboxConfig{
			Driver:      getEnv("SANDBOX_DB_DRIVER", "sqlite"),
			Path:        getEnv("SANDBOX_DB_PATH", "./sandbox.db"),
			DatabaseURL: getEnv("SANDBOX_DATABASE_URL", ""),
			Seed:        getEnvAsBool("SANDBOX_SEED", true),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency:  getEnvAsInt("WORKER_CONCURRENCY", 3),
			PollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", "10s"),
		},
	}
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".cvscreen", "session.db")
	}
	return filepath.Join(dir, "cvscreen", "session.db")
}

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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
