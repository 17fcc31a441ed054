package llm

import (
	"context"
	"fmt"
)

// creates the configured structured generator, instrumented
func NewGenerator(ctx context.Context, config *Config) (StructuredGenerator, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	var generator StructuredGenerator

	switch config.GeneratorProvider {
	case ProviderGemini:
		g, err := NewGeminiGenerator(ctx, GeminiConfig{
			APIKey:      config.GeneratorAPIKey,
			Model:       config.GeneratorModel,
			MaxTokens:   config.GeneratorMaxTokens,
			Temperature: config.GeneratorTemperature,
		})
		if err != nil {
			return nil, err
		}
		generator = g
	case ProviderAnthropic:
		generator = NewAnthropicGenerator(AnthropicConfig{
			APIKey:      config.GeneratorAPIKey,
			Model:       config.GeneratorModel,
			MaxTokens:   config.GeneratorMaxTokens,
			Temperature: config.GeneratorTemperature,
		})
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", config.GeneratorProvider)
	}

	return Instrument(generator), nil
}

// creates the embedder used for report similarity search
func NewEmbedder(ctx context.Context, config *Config) (Embedder, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return NewGeminiEmbedder(ctx, config.EmbedderAPIKey, config.EmbedderModel, config.EmbedderDims)
}
