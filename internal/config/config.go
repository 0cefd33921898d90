// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Order sink names accepted in ORDER_SINKS
const (
	SinkLog      = "log"
	SinkPostgres = "postgres"
	SinkEmail    = "email"
)

// Config holds all configuration for our application
type Config struct {
	App         AppConfig
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Session     SessionConfig
	Security    SecurityConfig
	Catalog     CatalogConfig
	Geolocation GeolocationConfig
	Orders      OrdersConfig
	External    ExternalConfig
	Receipt     ReceiptConfig
	Logging     LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// SessionConfig contains ordering session configuration
type SessionConfig struct {
	Secret      string
	CookieName  string
	TTL         time.Duration
	IdleTimeout time.Duration
	SweepEvery  time.Duration
	SecureOnly  bool
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// CatalogConfig contains catalog provider configuration
type CatalogConfig struct {
	File     string
	Currency string
}

// GeolocationConfig contains geolocation provider configuration
type GeolocationConfig struct {
	IPLookupEnabled bool
	IPLookupURL     string
	Timeout         time.Duration
}

// OrdersConfig contains order submission configuration
type OrdersConfig struct {
	Sinks                []string
	ResetContactOnSubmit bool
}

// ExternalConfig contains external service configurations
type ExternalConfig struct {
	Email EmailConfig
}

// EmailConfig contains email service configuration
type EmailConfig struct {
	Provider     string
	APIKey       string
	FromEmail    string
	FromName     string
	ReplyTo      string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool
	TemplateDir  string
}

// ReceiptConfig contains the details printed on order receipts
type ReceiptConfig struct {
	CompanyName    string
	CompanyAddress string
	CompanyPhone   string
	CompanyEmail   string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := FromEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FromEnv builds a configuration from the current environment without
// loading .env or validating.
func FromEnv() *Config {
	return &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Burger-Pizza"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 0),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
			MaxBodyBytes:   getEnvAsInt64("SERVER_MAX_BODY_BYTES", 1<<20),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "burger_pizza"),
			User:         getEnv("DB_USER", "burger_pizza"),
			Password:     getEnv("DB_PASSWORD", "burger_pizza"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		Session: SessionConfig{
			Secret:      getEnv("SESSION_SECRET", "change-me-session-secret-at-least-32-chars"),
			CookieName:  getEnv("SESSION_COOKIE_NAME", "session_token"),
			TTL:         getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			IdleTimeout: getEnvAsDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
			SweepEvery:  getEnvAsDuration("SESSION_SWEEP_INTERVAL", time.Minute),
			SecureOnly:  getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		Catalog: CatalogConfig{
			File:     getEnv("CATALOG_FILE", ""),
			Currency: getEnv("CATALOG_CURRENCY", "EUR"),
		},
		Geolocation: GeolocationConfig{
			IPLookupEnabled: getEnvAsBool("GEO_IP_LOOKUP_ENABLED", false),
			IPLookupURL:     getEnv("GEO_IP_LOOKUP_URL", "http://ip-api.com/json"),
			Timeout:         getEnvAsDuration("GEO_TIMEOUT", 10*time.Second),
		},
		Orders: OrdersConfig{
			Sinks:                getEnvAsSlice("ORDER_SINKS", []string{SinkLog}),
			ResetContactOnSubmit: getEnvAsBool("ORDER_RESET_CONTACT", false),
		},
		External: ExternalConfig{
			Email: EmailConfig{
				Provider:     getEnv("EMAIL_PROVIDER", "smtp"),
				APIKey:       getEnv("SENDGRID_API_KEY", ""),
				FromEmail:    getEnv("FROM_EMAIL", "commandes@burger-pizza.local"),
				FromName:     getEnv("FROM_NAME", "Burger-Pizza"),
				ReplyTo:      getEnv("EMAIL_REPLY_TO", ""),
				SMTPHost:     getEnv("SMTP_HOST", ""),
				SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
				SMTPUsername: getEnv("SMTP_USER", ""),
				SMTPPassword: getEnv("SMTP_PASS", ""),
				SMTPUseTLS:   getEnvAsBool("SMTP_USE_TLS", false),
				TemplateDir:  getEnv("EMAIL_TEMPLATE_DIR", "./templates/emails"),
			},
		},
		Receipt: ReceiptConfig{
			CompanyName:    getEnv("RECEIPT_COMPANY_NAME", "Burger-Pizza"),
			CompanyAddress: getEnv("RECEIPT_COMPANY_ADDRESS", ""),
			CompanyPhone:   getEnv("RECEIPT_COMPANY_PHONE", ""),
			CompanyEmail:   getEnv("RECEIPT_COMPANY_EMAIL", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters long")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	if len(c.Orders.Sinks) == 0 {
		return fmt.Errorf("ORDER_SINKS must name at least one sink")
	}

	for _, sink := range c.Orders.Sinks {
		switch sink {
		case SinkLog, SinkEmail:
		case SinkPostgres:
			if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
				return fmt.Errorf("DB_HOST, DB_NAME and DB_USER are required for the postgres sink")
			}
		default:
			return fmt.Errorf("unknown order sink %q", sink)
		}
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// HasSink reports whether the named order sink is enabled
func (c *Config) HasSink(name string) bool {
	for _, sink := range c.Orders.Sinks {
		if sink == name {
			return true
		}
	}
	return false
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return defaultValue
}
