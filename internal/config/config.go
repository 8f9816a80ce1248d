package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Bureau   BureauConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ServerConfig struct {
	Port string
}

type AppConfig struct {
	LogLevel  string
	BatchSize int
}

// BureauConfig configures the outbound credit-check client
type BureauConfig struct {
	BaseURL    string
	APIKey     string
	MaxRetries int
	BaseDelay  time.Duration
	Timeout    time.Duration
}

// maxBatchSize bounds per-call payload size when persisting transactions.
// Chunk boundaries never change reported totals.
const maxBatchSize = 1000

func Load() (*Config, error) {
	// Optional .env for local development
	_ = godotenv.Load()

	batchSize := getEnvInt("BATCH_SIZE", 1000)
	if batchSize <= 0 || batchSize > maxBatchSize {
		batchSize = maxBatchSize
	}

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "insight_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		App: AppConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			BatchSize: batchSize,
		},
		Bureau: BureauConfig{
			BaseURL:    getEnv("BUREAU_URL", "http://localhost:9090"),
			APIKey:     getEnv("BUREAU_API_KEY", ""),
			MaxRetries: getEnvInt("BUREAU_MAX_RETRIES", 3),
			BaseDelay:  time.Duration(getEnvInt("BUREAU_BASE_DELAY_MS", 1000)) * time.Millisecond,
			Timeout:    time.Duration(getEnvInt("BUREAU_TIMEOUT_SEC", 15)) * time.Second,
		},
	}, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}
