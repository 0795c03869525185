package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Mail      MailConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Timeout     time.Duration
	Port        string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	Timeout         time.Duration
}

type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	Database     int
	Enabled      bool
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type JWTConfig struct {
	Secret         string
	ExpirationTime time.Duration
}

type MailConfig struct {
	Host       string
	Port       int
	From       string
	Username   string
	Password   string
	Encryption string // starttls, ssl or none
	Timeout    time.Duration
}

type AuthConfig struct {
	FrontendURL      string
	UniformResponses bool
	BcryptCost       int
	VerificationTTL  time.Duration
	ResetTTL         time.Duration
	SessionRenewal   time.Duration
	ThrottleMax      int
	ThrottleWindow   time.Duration
}

type RateLimitConfig struct {
	Request  int
	Duration int
}

// LoadConfig reads configuration from the environment (optionally seeded by
// a .env file). A missing JWT secret is a fatal configuration error: the
// service must never start with an unsigned or guessable token secret.
func LoadConfig() (*Config, error) {
	// Load .env file; a missing file is fine in containerized deploys.
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "gestio-auth"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
			Timeout:     getEnvAsDuration("APP_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "gestio"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
			Timeout:         getEnvAsDuration("DB_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			Database:     getEnvAsInt("REDIS_DB", 0),
			Enabled:      getEnvAsBool("REDIS_ENABLED", true),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvAsDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		JWT: JWTConfig{
			Secret:         os.Getenv("JWT_SECRET"),
			ExpirationTime: getEnvAsDuration("JWT_EXPIRATION", 24*time.Hour),
		},
		Mail: MailConfig{
			Host:       getEnv("MAIL_HOST", "localhost"),
			Port:       getEnvAsInt("MAIL_PORT", 1025),
			From:       getEnv("MAIL_FROM", "no-reply@gestio.local"),
			Username:   getEnv("MAIL_USERNAME", ""),
			Password:   getEnv("MAIL_PASSWORD", ""),
			Encryption: getEnv("MAIL_ENCRYPTION", "none"),
			Timeout:    getEnvAsDuration("MAIL_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:3000"),
			UniformResponses: getEnvAsBool("AUTH_UNIFORM_RESPONSES", false),
			BcryptCost:       getEnvAsInt("AUTH_BCRYPT_COST", 10),
			VerificationTTL:  getEnvAsDuration("AUTH_VERIFICATION_TTL", 24*time.Hour),
			ResetTTL:         getEnvAsDuration("AUTH_RESET_TTL", time.Hour),
			SessionRenewal:   getEnvAsDuration("AUTH_SESSION_RENEWAL", 360*time.Hour),
			ThrottleMax:      getEnvAsInt("AUTH_THROTTLE_MAX", 10),
			ThrottleWindow:   getEnvAsDuration("AUTH_THROTTLE_WINDOW", 15*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Request:  getEnvAsInt("RATE_LIMIT_MAX_REQUEST", 60),
			Duration: getEnvAsInt("RATE_LIMIT_DURATION", 60),
		},
	}

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not defined")
	}

	return config, nil
}

// RedisAddress returns the host:port address of the Redis server.
func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
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
