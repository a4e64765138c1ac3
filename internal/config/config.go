// ==============================================
// Configuration System for Stream Backend
// Complete Go-based configuration without YAML
// ==============================================

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ==============================================
// Main Configuration Structure
// ==============================================

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Playback PlaybackConfig
	Relay    RelayConfig
	Metadata MetadataConfig
	Security SecurityConfig
}

// ==============================================
// Application Configuration
// ==============================================

type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Domain      string
	Port        string
	Debug       bool
}

// ==============================================
// Server Configuration
// ==============================================

type ServerConfig struct {
	HTTP      HTTPConfig
	WebSocket WebSocketConfig
	CORS      CORSConfig
}

type HTTPConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type WebSocketConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     bool
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// ==============================================
// Database Configuration
// ==============================================

type DatabaseConfig struct {
	MongoDB MongoConfig
	Redis   RedisConfig
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ==============================================
// Playback Configuration
// ==============================================

// PlaybackConfig controls how movie state reports are applied.
// UpdateMode "replace" overwrites the stored movie with the full
// payload, "merge" keeps previous values for omitted fields.
type PlaybackConfig struct {
	UpdateMode string
	EmbedBase  string
}

const (
	PlaybackModeReplace = "replace"
	PlaybackModeMerge   = "merge"
)

// ==============================================
// Relay Configuration
// ==============================================

// RelayConfig selects the fan-out backbone for the websocket relay.
// "none" keeps the registry process-local, "redis" shares room events
// across instances through a pub/sub channel.
type RelayConfig struct {
	Backbone string
	Channel  string
}

const (
	RelayBackboneNone  = "none"
	RelayBackboneRedis = "redis"
)

// ==============================================
// Movie Metadata Configuration
// ==============================================

type MetadataConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// ==============================================
// Security Configuration
// ==============================================

type SecurityConfig struct {
	JWT       JWTConfig
	RateLimit RateLimitConfig
}

type JWTConfig struct {
	Secret     string
	ExpiryHour int
}

type RateLimitConfig struct {
	Enabled       bool
	Requests      int
	Window        time.Duration
	LoginRequests int
	LoginWindow   time.Duration
}

// ==============================================
// Configuration Loading Functions
// ==============================================

func Load() *Config {
	return &Config{
		App:      loadAppConfig(),
		Server:   loadServerConfig(),
		Database: loadDatabaseConfig(),
		Playback: loadPlaybackConfig(),
		Relay:    loadRelayConfig(),
		Metadata: loadMetadataConfig(),
		Security: loadSecurityConfig(),
	}
}

func loadAppConfig() AppConfig {
	return AppConfig{
		Name:        getEnv("APP_NAME", "Stream Backend"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		Environment: getEnv("APP_ENV", "development"),
		Domain:      getEnv("APP_DOMAIN", "localhost"),
		Port:        getEnv("PORT", "8080"),
		Debug:       getEnvAsBool("DEBUG", false),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		HTTP: HTTPConfig{
			Port:         getEnv("HTTP_PORT", "8080"),
			Host:         getEnv("HTTP_HOST", "0.0.0.0"),
			ReadTimeout:  getEnvAsDuration("HTTP_READ_TIMEOUT", "30s"),
			WriteTimeout: getEnvAsDuration("HTTP_WRITE_TIMEOUT", "30s"),
			IdleTimeout:  getEnvAsDuration("HTTP_IDLE_TIMEOUT", "60s"),
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  getEnvAsInt("WS_READ_BUFFER", 1024),
			WriteBufferSize: getEnvAsInt("WS_WRITE_BUFFER", 1024),
			CheckOrigin:     getEnvAsBool("WS_CHECK_ORIGIN", true),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getEnvAsSlice("CORS_ORIGINS", "http://localhost:3000"),
			AllowedMethods:   getEnvAsSlice("CORS_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS"),
			AllowedHeaders:   getEnvAsSlice("CORS_HEADERS", "Origin,Content-Type,Accept,Authorization,X-Requested-With"),
			AllowCredentials: getEnvAsBool("CORS_CREDENTIALS", true),
			MaxAge:           getEnvAsDuration("CORS_MAX_AGE", "12h"),
		},
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		MongoDB: MongoConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "stream_backend"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
	}
}

func loadPlaybackConfig() PlaybackConfig {
	return PlaybackConfig{
		UpdateMode: getEnv("PLAYBACK_UPDATE_MODE", PlaybackModeReplace),
		EmbedBase:  getEnv("PLAYBACK_EMBED_BASE", "https://www.youtube.com/embed"),
	}
}

func loadRelayConfig() RelayConfig {
	return RelayConfig{
		Backbone: getEnv("RELAY_BACKBONE", RelayBackboneNone),
		Channel:  getEnv("RELAY_CHANNEL", "stream:relay"),
	}
}

func loadMetadataConfig() MetadataConfig {
	return MetadataConfig{
		BaseURL: getEnv("METADATA_BASE_URL", "https://www.omdbapi.com/"),
		APIKey:  getEnv("METADATA_API_KEY", ""),
		Timeout: getEnvAsDuration("METADATA_TIMEOUT", "5s"),
	}
}

func loadSecurityConfig() SecurityConfig {
	return SecurityConfig{
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "your-secret-key"),
			ExpiryHour: getEnvAsInt("JWT_EXPIRY_HOUR", 24),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", true),
			Requests:      getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
			Window:        getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),
			LoginRequests: getEnvAsInt("LOGIN_RATE_LIMIT_REQUESTS", 10),
			LoginWindow:   getEnvAsDuration("LOGIN_RATE_LIMIT_WINDOW", "1m"),
		},
	}
}

// ==============================================
// Helper Functions
// ==============================================

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
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsSlice(key string, defaultValue string) []string {
	value := getEnv(key, defaultValue)
	if value == "" {
		return []string{}
	}
	return strings.Split(value, ",")
}

// ==============================================
// Configuration Validation
// ==============================================

func (c *Config) Validate() error {
	if c.Playback.UpdateMode != PlaybackModeReplace && c.Playback.UpdateMode != PlaybackModeMerge {
		return fmt.Errorf("invalid playback update mode: %s", c.Playback.UpdateMode)
	}

	if c.Relay.Backbone != RelayBackboneNone && c.Relay.Backbone != RelayBackboneRedis {
		return fmt.Errorf("invalid relay backbone: %s", c.Relay.Backbone)
	}

	if c.App.Environment == "production" && c.Security.JWT.Secret == "your-secret-key" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}

	return nil
}

// ==============================================
// Environment-specific Configuration
// ==============================================

func (c *Config) ApplyEnvironmentOverrides() {
	switch c.App.Environment {
	case "development":
		c.applyDevelopmentOverrides()
	case "staging":
		c.applyStagingOverrides()
	case "production":
		c.applyProductionOverrides()
	}
}

func (c *Config) applyDevelopmentOverrides() {
	c.App.Debug = true
	c.Server.CORS.AllowedOrigins = append(c.Server.CORS.AllowedOrigins, "http://localhost:3000", "http://localhost:5173")
}

func (c *Config) applyStagingOverrides() {
	c.Security.RateLimit.Requests = 200
}

func (c *Config) applyProductionOverrides() {
	c.App.Debug = false
	c.Security.RateLimit.Requests = 50
}
