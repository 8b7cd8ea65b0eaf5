package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all configuration for the application
type Config struct {
	AppMode     string
	Port        string
	StoreDriver string
	LogLevel    string
	Database    DatabaseConfig
	JWT         JWTConfig
	Notify      NotifyConfig
	Report      ReportConfig
	Cron        CronConfig
	Seed        SeedConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// NotifyConfig holds push and e-mail delivery settings
type NotifyConfig struct {
	PushGatewayURL string
	PushToken      string
	BufferSize     int
	SMTPHost       string
	SMTPPort       string
	SMTPUser       string
	SMTPPass       string
	SMTPFrom       string
	AdminEmail     string
}

// PushEnabled reports whether a push token is configured
func (n NotifyConfig) PushEnabled() bool {
	return n.PushToken != ""
}

// EmailEnabled reports whether staff alerts can be mailed
func (n NotifyConfig) EmailEnabled() bool {
	return n.SMTPHost != "" && n.AdminEmail != ""
}

// ReportConfig holds report export settings
type ReportConfig struct {
	Bucket string // empty disables upload
	Prefix string
}

// CronConfig holds scheduled job settings
type CronConfig struct {
	CollectionReminder string
}

// SeedConfig holds the first admin account created on an empty store
type SeedConfig struct {
	AdminName     string
	AdminPhone    string
	AdminPassword string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using environment variables")
	}

	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	storeDriver := strings.TrimSpace(getEnv("STORE_DRIVER", "mysql"))
	if storeDriver != "mysql" && storeDriver != "memory" {
		return nil, fmt.Errorf("invalid STORE_DRIVER: '%s' (must be 'mysql' or 'memory')", storeDriver)
	}

	config := &Config{
		AppMode:     appMode,
		Port:        getEnv("PORT", "3000"),
		StoreDriver: storeDriver,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Database:    loadDatabaseConfig(appMode),
		JWT:         loadJWTConfig(appMode),
		Notify:      loadNotifyConfig(),
		Report: ReportConfig{
			Bucket: getEnv("REPORT_BUCKET", ""),
			Prefix: getEnv("REPORT_PREFIX", "reports"),
		},
		Cron: CronConfig{
			CollectionReminder: getEnv("COLLECTION_REMINDER_CRON", "30 8 * * *"),
		},
		Seed: SeedConfig{
			AdminName:     getEnv("SEED_ADMIN_NAME", "Admin"),
			AdminPhone:    getEnv("SEED_ADMIN_PHONE", ""),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
		},
	}

	if config.IsProd() && config.JWT.Secret == defaultJWTSecret {
		return nil, fmt.Errorf("PROD_JWT_SECRET must be set in prod mode")
	}

	AppConfig = config

	log.Info().Str("mode", appMode).Str("store", storeDriver).Msg("✅ Configuration loaded")
	return config, nil
}

const defaultJWTSecret = "default_secret"

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "somity"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", defaultJWTSecret),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  getEnvInt("ACCESS_TOKEN_MINUTES", 15),
		RefreshTokenDays: getEnvInt("REFRESH_TOKEN_DAYS", 7),
	}
}

func loadNotifyConfig() NotifyConfig {
	return NotifyConfig{
		PushGatewayURL: getEnv("PUSH_GATEWAY_URL", ""),
		PushToken:      getEnv("LINE_NOTIFY_TOKEN", ""),
		BufferSize:     getEnvInt("NOTIFY_BUFFER", 256),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUser:       getEnv("SMTP_USER", ""),
		SMTPPass:       getEnv("SMTP_PASS", ""),
		SMTPFrom:       getEnv("SMTP_FROM", "Somity <no-reply@somity.com>"),
		AdminEmail:     getEnv("NOTIFY_ADMIN_EMAIL", ""),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://somity.app"
	}
	return origins
}
