package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultPort                = "8080"
	defaultGenerationRateLimit = "20-M"
	defaultAllowedOrigins      = "http://localhost:3000,http://localhost:9002"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	databaseURL := os.Getenv("DATABASE_URL")
	redisURL := os.Getenv("REDIS_URL")
	jwtSecret := os.Getenv("JWT_SECRET")

	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is required")
	}

	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	provider := os.Getenv("GENERATOR_PROVIDER")
	if provider == "" {
		provider = "gemini"
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")

	switch provider {
	case "gemini":
		if geminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
		}
	case "anthropic":
		if anthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
		}
	default:
		return nil, fmt.Errorf("unsupported GENERATOR_PROVIDER: %s", provider)
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	rateLimit := os.Getenv("GENERATION_RATE_LIMIT")
	if rateLimit == "" {
		rateLimit = defaultGenerationRateLimit
	}

	origins := os.Getenv("ALLOWED_ORIGINS")
	if origins == "" {
		origins = defaultAllowedOrigins
	}

	embeddings := false
	if v := os.Getenv("EMBEDDINGS_ENABLED"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("EMBEDDINGS_ENABLED must be a boolean: %w", err)
		}

		embeddings = parsed
	}

	return &Config{
		DatabaseURL:         databaseURL,
		RedisURL:            redisURL,
		JWTSecret:           jwtSecret,
		GeminiKey:           geminiKey,
		AnthropicKey:        anthropicKey,
		Provider:            provider,
		Environment:         environment,
		Port:                port,
		AllowedOrigins:      splitOrigins(origins),
		GenerationRateLimit: rateLimit,
		EmbeddingsEnabled:   embeddings,
	}, nil
}

func splitOrigins(raw string) []string {
	var origins []string

	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return origins
}
