package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	threadline_errors "threadline/pkg/errors"
)

type Config struct {
	AppPort string
	AppMode string

	// Supabase project credentials. No defaults: the client factories guard
	// these and refuse construction when they are absent.
	SupabaseURL            string
	SupabaseAnonKey        string
	SupabaseServiceRoleKey string

	// Optional. When set, access tokens are verified locally (HS256) instead
	// of a round trip to the GoTrue API.
	SupabaseJWTSecret string

	// Direct Postgres connection to the Supabase project database.
	DatabaseURL string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	EnsureLimit  int // allowed ensure calls per user per window
	EnsureWindow int // window in seconds
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:                getEnv("APP_PORT", "8080"),
		AppMode:                getEnv("APP_MODE", "debug"),
		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:        getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseJWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		RedisHost:              getEnv("REDIS_HOST", "localhost"),
		RedisPort:              getEnv("REDIS_PORT", "6379"),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		RedisDB:                getEnvAsInt("REDIS_DB", 0),
		EnsureLimit:            getEnvAsInt("ENSURE_RATE_LIMIT", 30),
		EnsureWindow:           getEnvAsInt("ENSURE_RATE_WINDOW_SEC", 60),
	}
}

// Validate checks the variables the service cannot start without. The
// service-role key is deliberately not checked here: only the admin factory
// needs it, and it guards for itself.
func (c *Config) Validate() error {
	var missing []string
	if c.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.SupabaseAnonKey == "" {
		missing = append(missing, "SUPABASE_ANON_KEY")
	}
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return threadline_errors.MissingEnv(missing...)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
