package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for our application
type Config struct {
	Port                   string
	Origin                 string
	Environment            string
	HospitalName           string
	SessionSecret          string
	CookieSecret           string
	SessionExpirationHours int
	BcryptCost             int
	LogLevel               string
	Database               DatabaseConfig
	Bootstrap              BootstrapConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// BootstrapConfig controls schema creation and demo data seeding at startup.
type BootstrapConfig struct {
	SeedOnStart bool
	Retries     int
	RetryDelay  time.Duration
}

// LoadDotEnv loads variables from the given files (".env" when none are
// given). Missing files are ignored; the process environment always wins.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hospital_db"),
	}

	// DATABASE_URL wins; otherwise build a MySQL DSN from the parts.
	dbConfig.DSN = getEnv("DATABASE_URL", fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name))

	sessionHours, err := strconv.Atoi(getEnv("SESSION_EXPIRATION_HOURS", "12"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_EXPIRATION_HOURS: %w", err)
	}

	bcryptCost, err := strconv.Atoi(getEnv("BCRYPT_COST", "12"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	retries, err := strconv.Atoi(getEnv("BOOTSTRAP_RETRIES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOOTSTRAP_RETRIES: %w", err)
	}

	retryDelay, err := strconv.Atoi(getEnv("BOOTSTRAP_RETRY_DELAY_SECONDS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOOTSTRAP_RETRY_DELAY_SECONDS: %w", err)
	}

	seedOnStart, err := strconv.ParseBool(getEnv("SEED_ON_START", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_ON_START: %w", err)
	}

	return &Config{
		Port:                   getEnv("PORT", "5000"),
		Origin:                 getEnv("ORIGIN", "http://localhost:5000"),
		Environment:            getEnv("APP_ENV", "development"),
		HospitalName:           getEnv("HOSPITAL_NAME", "City Hospital"),
		SessionSecret:          getEnv("SESSION_SECRET", "hospital-secret-key-2024"),
		CookieSecret:           getEnv("COOKIE_SECRET", "default_cookie_secret"),
		SessionExpirationHours: sessionHours,
		BcryptCost:             bcryptCost,
		LogLevel:               strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Database:               dbConfig,
		Bootstrap: BootstrapConfig{
			SeedOnStart: seedOnStart,
			Retries:     retries,
			RetryDelay:  time.Duration(retryDelay) * time.Second,
		},
	}, nil
}

// IsDevelopment reports whether the server runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// SessionTTL is how long a login stays valid.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionExpirationHours) * time.Hour
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
