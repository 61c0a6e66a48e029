package config

import (
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port         string
	AppEnv       string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int

	// Upload-bearing requests are bounded by this ceiling.
	RequestTimeout time.Duration

	// Worker pool configuration
	MaxWorkers int

	// Buffer pool configuration (stream draining)
	BufferPoolSize int
	BufferSize     int

	// Development settings
	Debug         bool
	EnableSwagger bool

	// Storage configuration
	Storage *StorageConfiguration

	// Database configuration
	Database *DatabaseConfiguration
}

// Load loads configuration from environment variables and .env file
func Load() *Config {
	// Try to load .env file (optional)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: .env file not found or couldn't be loaded: %v", err)
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		AppEnv:       getEnv("APP_ENV", "development"),
		ReadTimeout:  getDuration("READ_TIMEOUT", 2*time.Minute),
		WriteTimeout: getDuration("WRITE_TIMEOUT", 2*time.Minute),
		IdleTimeout:  getDuration("IDLE_TIMEOUT", 2*time.Minute),
		BodyLimit:    getInt("BODY_LIMIT", 100*1024*1024), // 100MB

		RequestTimeout: getDuration("REQUEST_TIMEOUT", 60*time.Second),

		MaxWorkers: getWorkerCount(),

		BufferPoolSize: getInt("BUFFER_POOL_SIZE", 50),
		BufferSize:     getInt("BUFFER_SIZE", 256*1024), // 256KB

		Debug:         getBool("DEBUG", false),
		EnableSwagger: getBool("ENABLE_SWAGGER", false),

		Storage:  LoadStorageConfig(),
		Database: LoadDatabaseConfig(),
	}
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("Warning: Invalid integer value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
		log.Printf("Warning: Invalid int64 value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		log.Printf("Warning: Invalid boolean value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		log.Printf("Warning: Invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

func getStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, len(parts))
		for i, part := range parts {
			result[i] = strings.TrimSpace(part)
		}
		return result
	}
	return defaultValue
}

func getWorkerCount() int {
	if value := os.Getenv("MAX_WORKERS"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}

	// Uploads are I/O-bound, so scale past the core count.
	return runtime.NumCPU() * 4
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.Debug
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MaxWorkers <= 0 {
		log.Printf("Warning: MAX_WORKERS is 0 or negative, auto-setting to %d", runtime.NumCPU()*4)
		c.MaxWorkers = runtime.NumCPU() * 4
	}

	if c.BufferPoolSize <= 0 {
		c.BufferPoolSize = 50
	}

	if c.BufferSize <= 0 {
		c.BufferSize = 256 * 1024
	}

	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 60 * time.Second
	}

	if err := c.Storage.Validate(); err != nil {
		return err
	}

	return nil
}

// PrintConfig logs the current configuration (without sensitive data)
func (c *Config) PrintConfig() {
	log.Println("===========================================")
	log.Println("AgroBooks Content API Configuration")
	log.Println("===========================================")
	log.Printf("Environment:      %s", c.AppEnv)
	log.Printf("Port:             %s", c.Port)
	log.Printf("Workers:          %d (CPU: %d)", c.MaxWorkers, runtime.NumCPU())
	log.Printf("Buffer Pool:      %d x %dKB", c.BufferPoolSize, c.BufferSize/1024)
	log.Printf("Request Timeout:  %s", c.RequestTimeout)
	log.Printf("Body Limit:       %dMB", c.BodyLimit/1024/1024)
	log.Printf("Swagger:          %t", c.EnableSwagger)
	log.Println("===========================================")
	c.Storage.PrintStorageConfig()
	c.Database.PrintDatabaseConfig()
}
