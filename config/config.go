package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the binaries read from the environment.
// Intervals default to the cadence the tracking and board screens poll at.
type Config struct {
	// Client side
	APIBaseURL    string
	TrackInterval time.Duration
	BoardInterval time.Duration

	// Dev server side
	Listen    string
	DBPath    string
	JWTSecret []byte
}

// Load reads .env if present, then the environment, falling back to
// defaults that point everything at a local dev server.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		APIBaseURL:    getEnv("API_BASE_URL", "http://localhost:8000"),
		TrackInterval: getDuration("TRACK_POLL_INTERVAL", 5*time.Second),
		BoardInterval: getDuration("BOARD_POLL_INTERVAL", 10*time.Second),
		Listen:        getEnv("LISTEN_ADDR", ":8000"),
		DBPath:        getEnv("DB_PATH", "smart_restaurant.db"),
		JWTSecret:     []byte(getEnv("JWT_SECRET", "smart_restaurant_super_secret_2024")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
