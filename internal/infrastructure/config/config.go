// internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreBackendFile   = "file"
	StoreBackendMongo  = "mongo"
	StoreBackendCosmos = "cosmos"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Stores
	StoreBackend string
	StoreDir     string

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Cosmos DB
	CosmosEndpoint  string
	CosmosDatabase  string
	CosmosContainer string
	UseEmulator     bool

	// PostgreSQL (airline/timezone reference data, schedule job audit); optional
	PostgresURI string

	// Amadeus
	AmadeusClientID     string
	AmadeusClientSecret string
	AmadeusBaseURL      string
	AmadeusTimeout      time.Duration

	// Generation
	CopilotModel      string
	GenerationTimeout time.Duration
	AgentsFile        string

	// Health signal
	HealthWindowDays       int
	HighHeartRateThreshold float64

	// Background schedule jobs
	ScheduleWorkers int

	// Google Calendar export; optional
	CalendarClientID     string
	CalendarClientSecret string
	CalendarRefreshToken string
	CalendarID           string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.1.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("PORT", "5000"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 300)) * time.Second,

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", StoreBackendFile)),
		StoreDir:     getEnv("STORE_DIR", "data"),

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "jetlag"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		CosmosEndpoint:  getEnv("COSMOS_ENDPOINT", ""),
		CosmosDatabase:  getEnv("COSMOS_DATABASE", "jetlag"),
		CosmosContainer: getEnv("COSMOS_CONTAINER", "documents"),
		UseEmulator:     getEnvAsBool("USE_EMULATOR", false),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		AmadeusClientID:     getEnv("AMADEUS_CLIENT_ID", ""),
		AmadeusClientSecret: getEnv("AMADEUS_CLIENT_SECRET", ""),
		AmadeusBaseURL:      getEnv("AMADEUS_BASE_URL", "https://test.api.amadeus.com"),
		AmadeusTimeout:      time.Duration(getEnvAsInt("AMADEUS_TIMEOUT", 30)) * time.Second,

		CopilotModel:      getEnv("COPILOT_MODEL", "gpt-4.1"),
		GenerationTimeout: time.Duration(getEnvAsInt("GENERATION_TIMEOUT", 90)) * time.Second,
		AgentsFile:        getEnv("AGENTS_FILE", ""),

		HealthWindowDays:       getEnvAsInt("HEALTH_WINDOW_DAYS", 3),
		HighHeartRateThreshold: getEnvAsFloat("HIGH_HEART_RATE_THRESHOLD", 70),

		ScheduleWorkers: getEnvAsInt("SCHEDULE_WORKERS", 4),

		CalendarClientID:     getEnv("GOOGLE_CALENDAR_CLIENT_ID", ""),
		CalendarClientSecret: getEnv("GOOGLE_CALENDAR_CLIENT_SECRET", ""),
		CalendarRefreshToken: getEnv("GOOGLE_CALENDAR_REFRESH_TOKEN", ""),
		CalendarID:           getEnv("GOOGLE_CALENDAR_ID", "primary"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that would otherwise fail later in confusing ways.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendFile, StoreBackendMongo:
	case StoreBackendCosmos:
		if c.CosmosEndpoint == "" {
			return fmt.Errorf("COSMOS_ENDPOINT is required when STORE_BACKEND=cosmos")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.HealthWindowDays <= 0 {
		return fmt.Errorf("HEALTH_WINDOW_DAYS must be positive, got %d", c.HealthWindowDays)
	}
	if c.ScheduleWorkers <= 0 {
		return fmt.Errorf("SCHEDULE_WORKERS must be positive, got %d", c.ScheduleWorkers)
	}
	return nil
}

// AmadeusConfigured reports whether flight lookup credentials are present.
func (c *Config) AmadeusConfigured() bool {
	return c.AmadeusClientID != "" && c.AmadeusClientSecret != ""
}

// CalendarExportEnabled reports whether the Google Calendar publisher should be wired.
func (c *Config) CalendarExportEnabled() bool {
	return c.CalendarClientID != "" && c.CalendarClientSecret != "" && c.CalendarRefreshToken != ""
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
