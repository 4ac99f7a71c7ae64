package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Security SecurityConfig
	AI       AIConfig
	Realtime RealtimeConfig
	Presence PresenceConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// IsConfigured reports whether enough is set to attempt a connection
func (c DatabaseConfig) IsConfigured() bool {
	return c.Host != "" && c.DBName != ""
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SecurityConfig holds security encryption keys
type SecurityConfig struct {
	SessionEncryptionKey string
}

// AIConfig holds the chat-completion endpoint settings
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
}

// RealtimeConfig holds change-feed settings
type RealtimeConfig struct {
	Channel        string
	BufferSize     int
	ActiveTeamTTL  time.Duration
	AllowedOrigins string
}

// PresenceConfig holds presence sweep settings
type PresenceConfig struct {
	Schedule  string
	IdleAfter time.Duration
}

// Load loads configuration from environment variables.
// DB_HOST and DB_NAME have no defaults: leaving them unset puts the server in setup-required mode.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", ""),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Security: SecurityConfig{
			SessionEncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
		},
		AI: AIConfig{
			APIKey:      getEnv("CHATANYWHERE_API_KEY", ""),
			BaseURL:     getEnv("CHATANYWHERE_BASE_URL", "https://api.chatanywhere.tech/v1"),
			Model:       getEnv("AI_MODEL", "gpt-4o"),
			Temperature: getEnvAsFloat("AI_TEMPERATURE", 0.7),
			Timeout:     getEnvAsDuration("AI_TIMEOUT", 60*time.Second),
			MaxRetries:  getEnvAsInt("AI_MAX_RETRIES", 3),
		},
		Realtime: RealtimeConfig{
			Channel:        getEnv("REALTIME_CHANNEL", "sprintos:changes"),
			BufferSize:     getEnvAsInt("REALTIME_BUFFER", 16),
			ActiveTeamTTL:  getEnvAsDuration("ACTIVE_TEAM_TTL", 30*24*time.Hour),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Presence: PresenceConfig{
			Schedule:  getEnv("PRESENCE_SCHEDULE", "0 * * * * *"),
			IdleAfter: getEnvAsDuration("PRESENCE_IDLE_AFTER", 5*time.Minute),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
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
