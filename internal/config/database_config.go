package config

import (
	"log"
	"time"
)

// DatabaseConfiguration holds PostgreSQL connection settings. An empty URL
// disables the catalog endpoints while the upload API keeps serving.
type DatabaseConfiguration struct {
	URL             string        `json:"-"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	Migrate         bool          `json:"migrate"`
}

// LoadDatabaseConfig loads database configuration from environment variables
func LoadDatabaseConfig() *DatabaseConfiguration {
	return &DatabaseConfiguration{
		URL:             getEnv("DATABASE_URL", ""),
		MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		Migrate:         getBool("DATABASE_MIGRATE", true),
	}
}

// Enabled reports whether a database URL was configured.
func (c *DatabaseConfiguration) Enabled() bool {
	return c.URL != ""
}

// PrintDatabaseConfig logs the current database configuration (without credentials)
func (c *DatabaseConfiguration) PrintDatabaseConfig() {
	log.Println("===========================================")
	log.Println("Database Configuration")
	log.Println("===========================================")
	if !c.Enabled() {
		log.Println("Database:         disabled (no DATABASE_URL)")
		log.Println("===========================================")
		return
	}
	log.Printf("Database:         enabled")
	log.Printf("Max Open Conns:   %d", c.MaxOpenConns)
	log.Printf("Max Idle Conns:   %d", c.MaxIdleConns)
	log.Printf("Conn Lifetime:    %s", c.ConnMaxLifetime)
	log.Printf("Auto Migrate:     %t", c.Migrate)
	log.Println("===========================================")
}
