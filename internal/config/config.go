package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// HTTP
	HTTPHost    string   `env:"HTTP_HOST" default:"127.0.0.1"`
	HTTPPort    int      `env:"HTTP_PORT" default:"8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" default:"http://localhost:3000"`

	// Proxies allowed to set X-Forwarded-For, empty trusts none
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// Database
	DatabaseURL       string        `env:"DATABASE_URL" required:"true"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" default:"25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" default:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" default:"5m"`

	// Sessions
	SessionSecret       string        `env:"SESSION_SECRET" required:"true"`
	SessionTTL          time.Duration `env:"SESSION_TTL" default:"24h"`
	SessionCookieName   string        `env:"SESSION_COOKIE_NAME" default:"recipehub_session"`
	SessionCookieSecure bool          `env:"SESSION_COOKIE_SECURE" default:"false"`

	// Redis (session storage)
	RedisAddr     string `env:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" default:"0"`

	// Media
	MediaBackend   string `env:"MEDIA_BACKEND" default:"local"`
	MediaLocalDir  string `env:"MEDIA_LOCAL_DIR" default:"./uploads"`
	MediaPublicURL string `env:"MEDIA_PUBLIC_URL" default:"/media"`
	MediaMaxBytes  int    `env:"MEDIA_MAX_BYTES" default:"5242880"`

	// MinIO
	MinioEndpoint  string `env:"MINIO_ENDPOINT" default:"localhost:9000"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" default:"recipes"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" default:"false"`

	// Rate limiting
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" default:"5"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" default:"10"`

	// Observability
	LogLevel       string `env:"LOG_LEVEL" default:"info"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" default:"true"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// .env is optional, system env vars still apply
	if err := godotenv.Load(".env"); err != nil {
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}

	// HTTP
	if err := loadEnvString(&config.HTTPHost, "HTTP_HOST", "127.0.0.1"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}
	if err := loadEnvStringSlice(&config.CORSOrigins, "CORS_ORIGINS", []string{"http://localhost:3000"}); err != nil {
		return nil, err
	}
	if err := loadEnvStringSlice(&config.TrustedProxies, "TRUSTED_PROXIES", nil); err != nil {
		return nil, err
	}

	// Database
	if err := loadEnvStringRequired(&config.DatabaseURL, "DATABASE_URL"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.DBMaxOpenConns, "DB_MAX_OPEN_CONNS", 25); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.DBMaxIdleConns, "DB_MAX_IDLE_CONNS", 5); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.DBConnMaxLifetime, "DB_CONN_MAX_LIFETIME", 5*time.Minute); err != nil {
		return nil, err
	}

	// Sessions
	if err := loadEnvStringRequired(&config.SessionSecret, "SESSION_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.SessionTTL, "SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SessionCookieName, "SESSION_COOKIE_NAME", "recipehub_session"); err != nil {
		return nil, err
	}
	if err := loadEnvBool(&config.SessionCookieSecure, "SESSION_COOKIE_SECURE", false); err != nil {
		return nil, err
	}

	// Redis
	if err := loadEnvString(&config.RedisAddr, "REDIS_ADDR", "localhost:6379"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisPassword, "REDIS_PASSWORD", ""); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.RedisDB, "REDIS_DB", 0); err != nil {
		return nil, err
	}

	// Media
	if err := loadEnvString(&config.MediaBackend, "MEDIA_BACKEND", "local"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.MediaLocalDir, "MEDIA_LOCAL_DIR", "./uploads"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.MediaPublicURL, "MEDIA_PUBLIC_URL", "/media"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.MediaMaxBytes, "MEDIA_MAX_BYTES", 5*1024*1024); err != nil {
		return nil, err
	}

	// MinIO
	if err := loadEnvString(&config.MinioEndpoint, "MINIO_ENDPOINT", "localhost:9000"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.MinioAccessKey, "MINIO_ACCESS_KEY", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.MinioSecretKey, "MINIO_SECRET_KEY", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.MinioBucket, "MINIO_BUCKET", "recipes"); err != nil {
		return nil, err
	}
	if err := loadEnvBool(&config.MinioUseSSL, "MINIO_USE_SSL", false); err != nil {
		return nil, err
	}

	// Rate limiting
	if err := loadEnvInt(&config.RateLimitRPS, "RATE_LIMIT_RPS", 5); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.RateLimitBurst, "RATE_LIMIT_BURST", 10); err != nil {
		return nil, err
	}

	// Observability
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "info"); err != nil {
		return nil, err
	}
	if err := loadEnvBool(&config.MetricsEnabled, "METRICS_ENABLED", true); err != nil {
		return nil, err
	}
	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvBool(target *bool, key string, defaultValue bool) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringSlice(target *[]string, key string, defaultValue []string) error {
	if value := os.Getenv(key); value != "" {
		*target = strings.Split(value, ",")
		for i, v := range *target {
			(*target)[i] = strings.TrimSpace(v)
		}
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}

	validLogLevels := []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validBackends := []string{"local", "minio"}
	if !contains(validBackends, c.MediaBackend) {
		errors = append(errors, fmt.Sprintf("MEDIA_BACKEND must be one of: %s", strings.Join(validBackends, ", ")))
	}
	if c.MediaBackend == "minio" && (c.MinioAccessKey == "" || c.MinioSecretKey == "") {
		errors = append(errors, "MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for the minio media backend")
	}
	if c.MediaMaxBytes <= 0 {
		errors = append(errors, "MEDIA_MAX_BYTES must be positive")
	}

	// session tokens are HS256 signed, keep the key long
	if len(c.SessionSecret) < 32 {
		errors = append(errors, "SESSION_SECRET should be at least 32 characters long")
	}
	if c.SessionTTL <= 0 {
		errors = append(errors, "SESSION_TTL must be positive")
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errors = append(errors, "RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// HTTPAddr returns the listen address for the API server
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
