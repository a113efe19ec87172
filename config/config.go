// Package config loads and validates application configuration from
// environment variables. All variables are read in one pass and problems are
// collected, so a misconfigured deployment reports every missing or invalid
// value at once instead of failing one variable at a time.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// PoolConfig holds settings for the PostgreSQL connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// AuthConfig holds authentication settings.
// JWTSecret must be present at startup; a missing secret is a fatal
// configuration error, never a per-request condition.
type AuthConfig struct {
	JWTSecret     string
	TokenLifetime time.Duration
}

// SentimentConfig holds settings for the external sentiment classifier.
type SentimentConfig struct {
	Enabled      bool
	Region       string
	LanguageCode string
	Timeout      time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
}

// AppConfig is the top-level configuration for the application.
type AppConfig struct {
	DB        *PoolConfig
	Auth      *AuthConfig
	Sentiment *SentimentConfig
	Server    *ServerConfig
}

// getRequiredEnv reads a mandatory variable, collecting an error when absent.
func getRequiredEnv(key string, errs *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

func getOptionalEnvBool(key string, defaultValue bool, errs *[]string) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueBool, err := strconv.ParseBool(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected boolean, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueBool
}

// getOptionalEnvDuration parses durations in time.ParseDuration notation ("15m", "1h").
func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize keeps the connection pool size within sane bounds.
func clampPoolSize(size int, varName string, errs *[]string) int {
	if size < 2 {
		*errs = append(*errs, fmt.Sprintf("pool size for %s (%d) is less than minimum 2, clamping to 2", varName, size))
		return 2
	}
	if size > 100 {
		*errs = append(*errs, fmt.Sprintf("pool size for %s (%d) is greater than maximum 100, clamping to 100", varName, size))
		return 100
	}
	return size
}

// LoadConfig reads every configuration value from the environment and returns
// a populated AppConfig, or a single error aggregating everything wrong.
func LoadConfig() (*AppConfig, error) {
	var errs []string

	// Database
	dbUser := getRequiredEnv("DB_USER", &errs)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errs)
	dbName := getRequiredEnv("DB_NAME", &errs)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errs)
	dbPoolSize := clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errs), "DB_POOL_SIZE", &errs)

	dbConfig := &PoolConfig{
		Host:     dbHost,
		Port:     dbPort,
		User:     dbUser,
		Password: dbPassword,
		DBName:   dbName,
		MaxSize:  dbPoolSize,
	}

	// Auth
	jwtSecret := getRequiredEnv("JWT_SECRET", &errs)
	tokenLifetime := getOptionalEnvDuration("JWT_TOKEN_LIFETIME", time.Hour, &errs)
	if tokenLifetime <= 0 {
		errs = append(errs, fmt.Sprintf("JWT_TOKEN_LIFETIME must be positive, got %s", tokenLifetime))
	}

	authConfig := &AuthConfig{
		JWTSecret:     jwtSecret,
		TokenLifetime: tokenLifetime,
	}

	// Sentiment classifier
	sentimentConfig := &SentimentConfig{
		Enabled:      getOptionalEnvBool("SENTIMENT_ENABLED", true, &errs),
		Region:       getOptionalEnv("SENTIMENT_AWS_REGION", "us-east-1"),
		LanguageCode: getOptionalEnv("SENTIMENT_LANGUAGE", "en"),
		Timeout:      getOptionalEnvDuration("SENTIMENT_TIMEOUT", 3*time.Second, &errs),
	}

	// Server
	serverConfig := &ServerConfig{
		Port: getOptionalEnv("PORT", "8080"),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}

	return &AppConfig{
		DB:        dbConfig,
		Auth:      authConfig,
		Sentiment: sentimentConfig,
		Server:    serverConfig,
	}, nil
}
