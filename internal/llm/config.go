package llm

import (
	"fmt"
	"os"
	"strconv"

	"codeberg.org/gemiwell/server/internal/config"
)

const (
	defaultGeminiModel    = "gemini-2.0-flash"
	defaultAnthropicModel = "claude-sonnet-4-20250514"
	defaultEmbedderModel  = "text-embedding-004"
	defaultEmbedderDims   = 768
)

// builds the LLM configuration from the base config plus GENERATOR_*/EMBEDDER_* variables
func LoadConfig(baseConfig *config.Config) (*Config, error) {
	if baseConfig == nil {
		return nil, fmt.Errorf("base config cannot be nil")
	}

	provider := Provider(baseConfig.Provider)
	if provider == "" {
		provider = ProviderGemini
	}

	apiKey := getAPIKeyForProvider(provider, baseConfig)
	if apiKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %s", provider)
	}

	model := os.Getenv("GENERATOR_MODEL")
	if model == "" {
		model = defaultModelFor(provider)
	}

	maxTokens := 4096
	if maxTokensStr := os.Getenv("GENERATOR_MAX_TOKENS"); maxTokensStr != "" {
		if val, err := strconv.Atoi(maxTokensStr); err == nil && val > 0 {
			maxTokens = val
		}
	}

	temperature := float32(0.7)
	if tempStr := os.Getenv("GENERATOR_TEMPERATURE"); tempStr != "" {
		if val, err := strconv.ParseFloat(tempStr, 32); err == nil {
			temperature = float32(val)
		}
	}

	embedderModel := os.Getenv("EMBEDDER_MODEL")
	if embedderModel == "" {
		embedderModel = defaultEmbedderModel
	}

	return &Config{
		GeneratorProvider:    provider,
		GeneratorAPIKey:      apiKey,
		GeneratorModel:       model,
		GeneratorMaxTokens:   maxTokens,
		GeneratorTemperature: temperature,
		EmbedderAPIKey:       baseConfig.GeminiKey,
		EmbedderModel:        embedderModel,
		EmbedderDims:         defaultEmbedderDims,
	}, nil
}
