package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DBPath          string
	LogLevel        string
	LogFormat       string
	PublicURL       string
	CORSOrigins     []string
	SessionTTL      time.Duration
	MaxDecksPerUser int
	MaxCardsPerDeck int
	DefaultPageSize int
	MaxPageSize     int
	WorkerCount     int
	QueueSize       int
	PurgeInterval   time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("ADDR", ":8080"),
		DBPath:          envOr("DB_PATH", "file:flashdeck.db"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		LogFormat:       envOr("LOG_FORMAT", "text"),
		PublicURL:       strings.TrimRight(envOr("PUBLIC_URL", "http://localhost:5173"), "/"),
		CORSOrigins:     envListOr("CORS_ORIGINS", []string{"http://localhost:5173"}),
		SessionTTL:      time.Duration(envIntOr("SESSION_TTL_HOURS", 24*30)) * time.Hour,
		MaxDecksPerUser: envIntOr("MAX_DECKS_PER_USER", 50),
		MaxCardsPerDeck: envIntOr("MAX_CARDS_PER_DECK", 200),
		DefaultPageSize: envIntOr("DEFAULT_PAGE_SIZE", 20),
		MaxPageSize:     envIntOr("MAX_PAGE_SIZE", 100),
		WorkerCount:     envIntOr("WORKER_COUNT", 2),
		QueueSize:       envIntOr("QUEUE_SIZE", 64),
		PurgeInterval:   time.Duration(envIntOr("PURGE_INTERVAL_MINUTES", 60)) * time.Minute,
	}
}

// Validate reports the first configuration value that cannot work.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive, got %v", c.SessionTTL)
	}
	if c.MaxDecksPerUser <= 0 {
		return fmt.Errorf("MAX_DECKS_PER_USER must be positive, got %d", c.MaxDecksPerUser)
	}
	if c.MaxCardsPerDeck <= 0 {
		return fmt.Errorf("MAX_CARDS_PER_DECK must be positive, got %d", c.MaxCardsPerDeck)
	}
	if c.DefaultPageSize <= 0 || c.MaxPageSize <= 0 {
		return fmt.Errorf("DEFAULT_PAGE_SIZE and MAX_PAGE_SIZE must be positive")
	}
	if c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("DEFAULT_PAGE_SIZE (%d) exceeds MAX_PAGE_SIZE (%d)", c.DefaultPageSize, c.MaxPageSize)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("QUEUE_SIZE must be positive, got %d", c.QueueSize)
	}
	if c.PurgeInterval <= 0 {
		return fmt.Errorf("PURGE_INTERVAL_MINUTES must be positive")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
