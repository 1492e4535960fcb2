package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Redis    RedisConfig
	Jobs     JobsConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret     string
	Production    bool
	MigrationsDir string
}

// RedisConfig holds the settings cache connection
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	SettingsTTL time.Duration
}

// JobsConfig holds background job intervals
type JobsConfig struct {
	SettingsRefreshInterval time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB must be an integer: %w", err)
	}
	settingsTTL, err := time.ParseDuration(getEnv("SETTINGS_CACHE_TTL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("SETTINGS_CACHE_TTL must be a duration: %w", err)
	}
	refreshInterval, err := time.ParseDuration(getEnv("SETTINGS_REFRESH_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("SETTINGS_REFRESH_INTERVAL must be a duration: %w", err)
	}

	config := &Config{
		Database: loadDatabase(),
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost:5173",
			}),
		},
		App: AppConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			Production:    strings.EqualFold(getEnv("APP_ENV", "development"), "production"),
			MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", ""),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          redisDB,
			SettingsTTL: settingsTTL,
		},
		Jobs: JobsConfig{
			SettingsRefreshInterval: refreshInterval,
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if config.Jobs.SettingsRefreshInterval <= 0 {
		return nil, fmt.Errorf("SETTINGS_REFRESH_INTERVAL must be positive")
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return c.Database.DSN()
}

// DSN returns the PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.DBName,
		d.SSLMode,
	)
}

// LoadDatabase loads only the database settings, for tools that do not
// serve HTTP
func LoadDatabase() DatabaseConfig {
	_ = godotenv.Load()
	return loadDatabase()
}

func loadDatabase() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "affiliate"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
