package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/gemiwell")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GENERATOR_PROVIDER", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("GENERATION_RATE_LIMIT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("EMBEDDINGS_ENABLED", "")
}

func TestLoadEnvironmentVariablesDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadEnvironmentVariables()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "20-M", cfg.GenerationRateLimit)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:9002"}, cfg.AllowedOrigins)
	assert.False(t, cfg.EmbeddingsEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoadEnvironmentVariablesMissing(t *testing.T) {
	tests := []struct {
		name  string
		unset string
		want  string
	}{
		{"database", "DATABASE_URL", "DATABASE_URL"},
		{"redis", "REDIS_URL", "REDIS_URL"},
		{"jwt", "JWT_SECRET", "JWT_SECRET"},
		{"gemini key", "GEMINI_API_KEY", "GEMINI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.unset, "")

			_, err := LoadEnvironmentVariables()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadEnvironmentVariablesAnthropic(t *testing.T) {
	setRequired(t)
	t.Setenv("GENERATOR_PROVIDER", "anthropic")

	_, err := LoadEnvironmentVariables()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	cfg, err := LoadEnvironmentVariables()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
}

func TestLoadEnvironmentVariablesOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ALLOWED_ORIGINS", " https://gemiwell.app , ,https://admin.gemiwell.app")
	t.Setenv("EMBEDDINGS_ENABLED", "true")

	cfg, err := LoadEnvironmentVariables()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.EmbeddingsEnabled)
	assert.Equal(t, []string{"https://gemiwell.app", "https://admin.gemiwell.app"}, cfg.AllowedOrigins)

	t.Setenv("EMBEDDINGS_ENABLED", "sometimes")
	_, err = LoadEnvironmentVariables()
	assert.Error(t, err)
}

func TestLoadEnvironmentVariablesUnknownProvider(t *testing.T) {
	setRequired(t)
	t.Setenv("GENERATOR_PROVIDER", "openai")

	_, err := LoadEnvironmentVariables()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}
