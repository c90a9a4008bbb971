// internal/config/config.go
package config

import (
	"fmt"
	"os"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	ListenAddr string

	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	// AMQPURL is optional; when empty the server runs with a no-op
	// event publisher.
	AMQPURL string
}

func Load() Config {
	return Config{
		ListenAddr: getenv("LISTEN_ADDR", ":8080"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPass:     getenv("DB_PASSWORD", ""),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBName:     getenv("DB_NAME", "retailreach"),
		AMQPURL:    os.Getenv("AMQP_URL"),
	}
}

// DSN builds the Postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName,
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
