package config

type Config struct {
	DatabaseURL  string
	RedisURL     string
	JWTSecret    string
	GeminiKey    string
	AnthropicKey string

	// gemini or anthropic
	Provider string

	Environment         string
	Port                string
	AllowedOrigins      []string
	GenerationRateLimit string // ulule formatted, e.g. "20-M"
	EmbeddingsEnabled   bool
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
