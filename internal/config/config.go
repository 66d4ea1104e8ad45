package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LogFormat    string
	LogLevel     string

	// Database configuration
	DatabaseURL string

	// Analytics configuration
	AnalysisWindowMonths  int
	SuggestionMinMonths   int
	SuggestionMaxMonths   int
	BaselineMinConfidence float64
	BaselineMaxBudgets    int
	CacheTTL              time.Duration

	// Forecast generator configuration
	ForecastAPIURL string
	ForecastMonths int
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file. Using environment variables.")
	}

	config := &Config{
		// Server configuration
		Port:         getEnvInt("PORT", 8080),
		ReadTimeout:  time.Duration(getEnvInt("READ_TIMEOUT", 15)) * time.Second,
		WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT", 30)) * time.Second,
		LogFormat:    getEnvString("LOG_FORMAT", "json"),
		LogLevel:     getEnvString("LOG_LEVEL", "info"),

		// Database configuration
		DatabaseURL: os.Getenv("POSTGRES_DB_URL"),

		// Analytics configuration
		AnalysisWindowMonths:  getEnvInt("ANALYSIS_WINDOW_MONTHS", 3),
		SuggestionMinMonths:   getEnvInt("SUGGESTION_MIN_MONTHS", 3),
		SuggestionMaxMonths:   getEnvInt("SUGGESTION_MAX_MONTHS", 12),
		BaselineMinConfidence: getEnvFloat("BASELINE_MIN_CONFIDENCE", 0.7),
		BaselineMaxBudgets:    getEnvInt("BASELINE_MAX_BUDGETS", 5),
		CacheTTL:              time.Duration(getEnvInt("CACHE_TTL_SECONDS", 300)) * time.Second,

		// Forecast generator configuration
		ForecastAPIURL: os.Getenv("FORECAST_API_URL"),
		ForecastMonths: getEnvInt("FORECAST_MONTHS", 3),
	}

	validateConfig(config)

	return config, nil
}

// validateConfig checks if critical configuration values are set and logs warnings if they're missing
func validateConfig(config *Config) {
	if config.DatabaseURL == "" {
		log.Println("Warning: No POSTGRES_DB_URL provided. Database connections will fail.")
	}

	if config.ForecastAPIURL == "" {
		log.Println("No FORECAST_API_URL provided. Using the local statistical scenario generator.")
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
		log.Printf("Invalid value for %s: %s, using default: %g", key, valueStr, defaultValue)
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
