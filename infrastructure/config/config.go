package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// devSecret is the JWT secret used when none is configured. Validate rejects
// it outside development.
const devSecret = "triforge-dev-secret"

// Config holds all application configuration
type Config struct {
	// Server
	Port           string
	Environment    string
	LogLevel       string
	AllowedOrigins []string

	// Authentication
	JWTSecret       string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	AuthUsers       string

	// Completion provider
	LLMProvider        string
	GeminiAPIKey       string
	AnthropicAPIKey    string
	OpenAIAPIKey       string
	DefaultModel       string
	DefaultTemperature float64
	MaxOutputTokens    int
	LLMTimeout         time.Duration

	// Domain tuning
	MemoryWindowSize    int
	ProjectRegistrySize int

	// Jira
	JiraTimeout time.Duration

	// Rate limiting
	RateLimitRPM int

	// AWS and observability
	AWSRegion      string
	MetricsEnabled bool
	TracingEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),

		JWTSecret:       getEnv("JWT_SECRET", devSecret),
		JWTIssuer:       getEnv("JWT_ISSUER", "triforge-backend"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		AuthUsers:       getEnv("AUTH_USERS", ""),

		LLMProvider:        getEnv("LLM_PROVIDER", "gemini"),
		GeminiAPIKey:       getEnv("GENAI_API_KEY", ""),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		DefaultModel:       getEnv("DEFAULT_MODEL", "gemini-2.0-flash"),
		DefaultTemperature: getEnvFloat("DEFAULT_TEMPERATURE", 0.2),
		MaxOutputTokens:    getEnvInt("MAX_OUTPUT_TOKENS", 400),
		LLMTimeout:         getEnvDuration("LLM_TIMEOUT", 45*time.Second),

		MemoryWindowSize:    getEnvInt("MEMORY_WINDOW_SIZE", 4),
		ProjectRegistrySize: getEnvInt("PROJECT_REGISTRY_SIZE", 128),

		JiraTimeout: getEnvDuration("JIRA_TIMEOUT", 30*time.Second),

		RateLimitRPM: getEnvInt("RATE_LIMIT_RPM", 60),

		AWSRegion:      getEnv("AWS_REGION", "us-west-2"),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", false),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.ProviderAPIKey() == "" {
		return fmt.Errorf("%s is required for provider %q", apiKeyEnvName(c.LLMProvider), c.LLMProvider)
	}
	if c.MemoryWindowSize <= 0 {
		return fmt.Errorf("MEMORY_WINDOW_SIZE must be positive")
	}
	if c.MaxOutputTokens <= 0 {
		return fmt.Errorf("MAX_OUTPUT_TOKENS must be positive")
	}
	if c.ProjectRegistrySize <= 0 {
		return fmt.Errorf("PROJECT_REGISTRY_SIZE must be positive")
	}
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == devSecret) {
		return fmt.Errorf("JWT_SECRET is required in production")
	}

	return nil
}

// ProviderAPIKey returns the API key for the configured completion provider
func (c *Config) ProviderAPIKey() string {
	switch strings.ToLower(strings.TrimSpace(c.LLMProvider)) {
	case "anthropic":
		return c.AnthropicAPIKey
	case "openai":
		return c.OpenAIAPIKey
	default:
		return c.GeminiAPIKey
	}
}

func apiKeyEnvName(provider string) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	default:
		return "GENAI_API_KEY"
	}
}

// Address returns the listen address for the HTTP server
func (c *Config) Address() string {
	return ":" + c.Port
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value.
// Values use Go duration syntax, e.g. "45s" or "30m".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList gets a comma-separated environment variable with a default value
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
