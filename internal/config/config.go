package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Session store backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Password hashing schemes.
const (
	HashSchemeSHA256 = "sha256"
	HashSchemeBcrypt = "bcrypt"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBPath string

	// Sessions
	SessionBackend string
	SessionTTL     time.Duration
	SecureCookie   bool

	// Redis (only used when SessionBackend is "redis")
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Password hashing
	HashScheme string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBPath: getEnv("DB_PATH", "users.db"),

		// Sessions
		SessionBackend: getEnv("SESSION_BACKEND", SessionBackendMemory),
		SecureCookie:   getEnv("SECURE_COOKIE", "false") == "true",

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		// Password hashing
		HashScheme: getEnv("HASH_SCHEME", HashSchemeSHA256),
	}

	// Parse session TTL. Zero means sessions live until logout or cookie
	// discard, with no server-side expiry.
	ttlStr := getEnv("SESSION_TTL", "0")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		log.Printf("Warning: invalid SESSION_TTL value '%s', falling back to 0\n", ttlStr)
		ttl = 0
	}
	config.SessionTTL = ttl

	dbStr := getEnv("REDIS_DB", "0")
	redisDB, err := strconv.Atoi(dbStr)
	if err != nil {
		log.Printf("Warning: invalid REDIS_DB value '%s', falling back to 0\n", dbStr)
		redisDB = 0
	}
	config.RedisDB = redisDB

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
