package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/quickinvoice/invoice-builder-service/internal/domain"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LogFormat    string
	LogLevel     string
	FrontendURL  string

	// Database configuration
	PostgresURL string

	// Auth configuration
	JWTSecret            string
	JWTAccessExpiration  time.Duration
	JWTRefreshExpiration time.Duration
	GoogleClientID       string
	GoogleClientSecret   string
	GoogleRedirectURL    string

	// Totals policy: which tax mode the preview and totals run in, and the
	// tax rate new drafts start with.
	TaxMode        domain.TaxMode
	DefaultTaxRate float64

	// Supabase storage configuration; when unset, images stay inline as
	// data URLs.
	SupabaseS3Endpoint   string
	SupabaseAccessKeyID  string
	SupabaseAccessSecret string
	SupabaseBucket       string
	SupabaseRegion       string
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file. Using environment variables.")
	}

	config := &Config{
		Port:         getEnvInt("PORT", 8080),
		ReadTimeout:  time.Duration(getEnvInt("READ_TIMEOUT", 15)) * time.Second,
		WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT", 15)) * time.Second,
		LogFormat:    getEnvString("LOG_FORMAT", "json"),
		LogLevel:     getEnvString("LOG_LEVEL", "info"),
		FrontendURL:  getEnvString("FRONTEND_URL", "http://localhost:3000"),

		PostgresURL: os.Getenv("POSTGRES_DB_URL"),

		JWTSecret:            os.Getenv("JWT_SECRET"),
		JWTAccessExpiration:  time.Duration(getEnvInt("JWT_ACCESS_EXPIRATION", 3600)) * time.Second,
		JWTRefreshExpiration: time.Duration(getEnvInt("JWT_REFRESH_EXPIRATION", 604800)) * time.Second,
		GoogleClientID:       os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:   os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:    os.Getenv("GOOGLE_REDIRECT_URL"),

		TaxMode:        domain.TaxMode(getEnvString("TAX_MODE", string(domain.TaxModeFlat))),
		DefaultTaxRate: getEnvFloat("DEFAULT_TAX_RATE", 0),

		SupabaseS3Endpoint:   os.Getenv("SUPABASE_S3_ENDPOINT"),
		SupabaseAccessKeyID:  os.Getenv("SUPABASE_ACCESS_KEY_ID"),
		SupabaseAccessSecret: os.Getenv("SUPABASE_ACCESS_KEY_SECRET"),
		SupabaseBucket:       getEnvString("SUPABASE_BUCKET", "invoices"),
		SupabaseRegion:       getEnvString("SUPABASE_REGION", "us-east-1"),
	}

	// GST invoices carry a fixed default rate unless overridden
	if config.TaxMode == domain.TaxModeGST && os.Getenv("DEFAULT_TAX_RATE") == "" {
		config.DefaultTaxRate = domain.DefaultGSTRate
	}

	validateConfig(config)

	return config, nil
}

// validateConfig checks if critical configuration values are set and logs warnings if they're missing
func validateConfig(config *Config) {
	if config.PostgresURL == "" {
		log.Println("Warning: No Postgres URL provided. Profile and template persistence will fail.")
	}

	if config.JWTSecret == "" {
		log.Println("Warning: No JWT secret provided. Issued tokens will not be secure.")
	}

	if config.GoogleClientID == "" || config.GoogleClientSecret == "" {
		log.Println("Warning: Google OAuth is not configured. Google sign-in will fail.")
	}

	if config.TaxMode != domain.TaxModeFlat && config.TaxMode != domain.TaxModeGST {
		log.Printf("Warning: Unknown TAX_MODE %q, falling back to flat mode", config.TaxMode)
		config.TaxMode = domain.TaxModeFlat
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvFloat gets a float from an environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %v", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
