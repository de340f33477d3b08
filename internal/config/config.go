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

// Config holds all configuration for the console
type Config struct {
	Server    ServerConfig
	RemoteAPI RemoteAPIConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Audit     AuditConfig
	Views     ViewConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// RemoteAPIConfig points the console at the reservation system of record
type RemoteAPIConfig struct {
	BaseURL      string
	Timeout      time.Duration
	BearerToken  string
	AttachBearer bool // send BearerToken on admin register/update
}

// SessionConfig holds the console session cookie configuration
type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

// RateLimitConfig holds login rate limiting configuration
type RateLimitConfig struct {
	LoginRequests      int
	LoginWindowSeconds int
	RedisAddr          string // empty keeps the limiter in memory
	RedisPassword      string
	RedisDB            int
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// AuditConfig holds the console audit trail database configuration
type AuditConfig struct {
	Enabled            bool
	DatabaseURL        string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// ViewConfig holds list view settings
type ViewConfig struct {
	PageSize int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := FromEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// FromEnv reads the configuration without loading .env or validating
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		RemoteAPI: RemoteAPIConfig{
			BaseURL:      getEnv("REMOTE_API_URL", "http://localhost:5000/api"),
			Timeout:      time.Duration(getEnvAsInt("REMOTE_API_TIMEOUT_SECONDS", 30)) * time.Second,
			BearerToken:  getEnv("ADMIN_BEARER_TOKEN", ""),
			AttachBearer: getEnvAsBool("ATTACH_ADMIN_BEARER", false),
		},
		Session: SessionConfig{
			Secret:       getEnv("CONSOLE_SESSION_SECRET", ""),
			TTL:          time.Duration(getEnvAsInt("CONSOLE_SESSION_TTL_MINUTES", 480)) * time.Minute,
			CookieName:   getEnv("CONSOLE_COOKIE_NAME", "console_session"),
			CookieSecure: getEnvAsBool("CONSOLE_COOKIE_SECURE", false),
		},
		RateLimit: RateLimitConfig{
			LoginRequests:      getEnvAsInt("LOGIN_RATE_LIMIT", 10),
			LoginWindowSeconds: getEnvAsInt("LOGIN_RATE_WINDOW_SECONDS", 60),
			RedisAddr:          getEnv("REDIS_ADDR", ""),
			RedisPassword:      getEnv("REDIS_PASSWORD", ""),
			RedisDB:            getEnvAsInt("REDIS_DB", 0),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Audit: AuditConfig{
			Enabled:            getEnvAsBool("ENABLE_AUDIT_LOGGING", false),
			DatabaseURL:        getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Views: ViewConfig{
			PageSize: getEnvAsInt("PAGE_SIZE", 5),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.RemoteAPI.BaseURL == "" {
		return fmt.Errorf("REMOTE_API_URL is required")
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("CONSOLE_SESSION_SECRET is required")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("CONSOLE_SESSION_TTL_MINUTES must be positive")
	}

	if c.Audit.Enabled && c.Audit.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when ENABLE_AUDIT_LOGGING is true")
	}

	if c.Views.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be at least 1")
	}

	if c.RateLimit.LoginRequests < 1 || c.RateLimit.LoginWindowSeconds < 1 {
		return fmt.Errorf("LOGIN_RATE_LIMIT and LOGIN_RATE_WINDOW_SECONDS must be positive")
	}

	return nil
}

// IsProduction reports whether the console runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
