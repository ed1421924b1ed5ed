// file: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Cloudinary CloudinaryConfig
	Logging    LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
	BaseURL         string
}

// DatabaseConfig holds postgres configuration
type DatabaseConfig struct {
	URL                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	ConnMaxIdleTime    time.Duration
	SlowQueryThreshold time.Duration
	ConnectMaxElapsed  time.Duration
	MigrationsPath     string
}

// RedisConfig holds cache configuration. An empty URL selects the in-memory
// cache.
type RedisConfig struct {
	URL        string
	DB         int
	Password   string
	PoolSize   int
	DefaultTTL time.Duration
}

// AuthConfig holds session and token configuration
type AuthConfig struct {
	SessionName        string
	SessionExpiry      time.Duration
	SessionSecure      bool
	BCryptCost         int
	JWTSecret          string
	JWTExpiry          time.Duration
	GitHubClientID     string
	GitHubClientSecret string
	GitHubRedirectURL  string
}

// CloudinaryConfig holds headshot upload configuration
type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadFolder string
	MaxFileSize  int64
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "9000"),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Environment:     env,
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			GracefulTimeout: getDurationEnv("GRACEFUL_TIMEOUT", 20*time.Second),
			BaseURL:         getEnv("BASE_URL", "http://localhost:9000"),
		},
		Database: DatabaseConfig{
			URL:                os.Getenv("DATABASE_URL"),
			MaxOpenConns:       getIntEnv("DB_MAX_OPEN_CONNS", defaultMaxOpenConns(env)),
			MaxIdleConns:       getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:    getDurationEnv("DB_CONN_MAX_LIFETIME", 15*time.Minute),
			ConnMaxIdleTime:    getDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
			SlowQueryThreshold: getDurationEnv("DB_SLOW_QUERY_THRESHOLD", 100*time.Millisecond),
			ConnectMaxElapsed:  getDurationEnv("DB_CONNECT_MAX_ELAPSED", 30*time.Second),
			MigrationsPath:     getEnv("DB_MIGRATIONS_PATH", "./migrations"),
		},
		Redis: RedisConfig{
			URL:        getEnv("REDIS_URL", ""),
			DB:         getIntEnv("REDIS_DB", 0),
			Password:   getEnv("REDIS_PASSWORD", ""),
			PoolSize:   getIntEnv("REDIS_POOL_SIZE", 10),
			DefaultTTL: getDurationEnv("CACHE_DEFAULT_TTL", 15*time.Minute),
		},
		Auth: AuthConfig{
			SessionName:        getEnv("SESSION_NAME", "speakerhub_session"),
			SessionExpiry:      getDurationEnv("SESSION_EXPIRY", 24*time.Hour),
			SessionSecure:      getBoolEnv("SESSION_SECURE", env == "production"),
			BCryptCost:         getIntEnv("BCRYPT_COST", 12),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			JWTExpiry:          getDurationEnv("JWT_EXPIRY", 24*time.Hour),
			GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
			GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
			GitHubRedirectURL:  getEnv("GITHUB_REDIRECT_URL", ""),
		},
		Cloudinary: CloudinaryConfig{
			CloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:       os.Getenv("CLOUDINARY_API_KEY"),
			APISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
			UploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "headshots"),
			MaxFileSize:  getInt64Env("CLOUDINARY_MAX_FILE_SIZE", 5*1024*1024),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", defaultLogLevel(env)),
			Format: getEnv("LOG_FORMAT", defaultLogFormat(env)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS cannot exceed DB_MAX_OPEN_CONNS")
	}
	if c.Auth.BCryptCost < 4 || c.Auth.BCryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	if c.Auth.SessionExpiry <= 0 {
		return fmt.Errorf("SESSION_EXPIRY must be positive")
	}
	if c.IsProduction() && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

// IsProduction returns true when running in the production environment
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment returns true when running in the development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func defaultMaxOpenConns(env string) int {
	if env == "production" {
		return 25
	}
	return 10
}

func defaultLogLevel(env string) string {
	if env == "production" {
		return "info"
	}
	return "debug"
}

func defaultLogFormat(env string) string {
	if env == "production" {
		return "json"
	}
	return "console"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
