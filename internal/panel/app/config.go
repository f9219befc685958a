package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer   string // Issuer claim for access tokens (default: sitepanel)
	Audience string // Audience claim for access tokens (default: sitepanel-dashboard)

	SigningKeyFile string // Path to the Ed25519 signing key PEM; generated if missing (default: ./signing.pem)
	DatabaseFile   string // Path to SQLite database file (default: ./panel.db)
	BackupDir      string // Directory for backup snapshots (default: ./backups)

	AppBaseURL    string // Base URL of the dashboard UI; emailed links point here
	PostmarkToken string // Optional: Postmark server token; email is a no-op without it
	FromEmail     string // Sender address for transactional email

	SecureCookies bool // Set Secure on the refresh cookie (default: true outside dev)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         getEnvOrDefault("PANEL_ISSUER", "sitepanel"),
		Audience:       getEnvOrDefault("PANEL_AUDIENCE", "sitepanel-dashboard"),
		SigningKeyFile: getEnvOrDefault("PANEL_SIGNING_KEY_FILE", "signing.pem"),
		DatabaseFile:   getEnvOrDefault("PANEL_DATABASE_FILE", "panel.db"),
		BackupDir:      getEnvOrDefault("PANEL_BACKUP_DIR", "backups"),

		AppBaseURL:    getEnvOrDefault("PANEL_APP_BASE_URL", "http://localhost:3000"),
		PostmarkToken: os.Getenv("POSTMARK_SERVER_TOKEN"), // Optional: email disabled without it
		FromEmail:     getEnvOrDefault("PANEL_FROM_EMAIL", "no-reply@sitepanel.local"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	cfg.SecureCookies = getEnvBoolOrDefault("PANEL_SECURE_COOKIES", cfg.Env != "dev")

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
