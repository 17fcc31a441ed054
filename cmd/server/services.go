package main

import (
	"context"
	"fmt"

	"codeberg.org/gemiwell/server/internal/assistant"
	"codeberg.org/gemiwell/server/internal/config"
	"codeberg.org/gemiwell/server/internal/llm"
	"codeberg.org/gemiwell/server/internal/logger"
)

// creates the generator, the optional embedder and the assistant on top of them
func InitializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	llmConfig, err := llm.LoadConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load llm config: %w", err)
	}

	generator, err := llm.NewGenerator(ctx, llmConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	var embedder llm.Embedder
	if cfg.EmbeddingsEnabled {
		embedder, err = llm.NewEmbedder(ctx, llmConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
	}

	logger.Info("llm services initialized",
		"provider", llmConfig.GeneratorProvider,
		"model", generator.Model(),
		"embeddings", embedder != nil,
	)

	return &Services{
		Assistant: assistant.New(generator),
		Generator: generator,
		Embedder:  embedder,
	}, nil
}
